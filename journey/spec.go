package journey

import (
	"fmt"
	"path"

	. "github.com/BayAreaMetro/transit-fares/util"
)

//*******************************************
// assignment spec output
//*******************************************

type AssignmentSpec struct {
	Type          string   `json:"type"`
	JourneyLevels []*Level `json:"journey_levels"`
}

// WriteSpec persists the journey-level table of one variant for the
// downstream transit assignment, keyed by period and variant name.
func WriteSpec(table *Table, dir string, period string, variant string) string {
	spec := AssignmentSpec{
		Type:          "EXTENDED_TRANSIT_ASSIGNMENT",
		JourneyLevels: table.Levels,
	}
	file := path.Join(dir, fmt.Sprintf("%s_%s_journey_levels.json", period, variant))
	WriteJSONToFile(spec, file)
	return file
}
