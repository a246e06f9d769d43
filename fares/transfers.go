package fares

import (
	"fmt"
	"math"

	"github.com/BayAreaMetro/transit-fares/report"
	. "github.com/BayAreaMetro/transit-fares/util"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
	"golang.org/x/exp/slog"
)

//*******************************************
// distance & transfer table
//*******************************************

// DISTANCE_NA marks pairs where either system has no lines.
const DISTANCE_NA = -1.0

// BuildDistanceTable computes the minimum separation between the stop point
// sets of every ordered pair of fare systems.
func BuildDistanceTable(systems List[*FareSystem]) Dict[int32, Dict[int32, float64]] {
	table := NewDict[int32, Dict[int32, float64]](systems.Length())
	for _, from := range systems {
		row := NewDict[int32, float64](systems.Length())
		for _, to := range systems {
			if from.LineCount == 0 || to.LineCount == 0 {
				row[to.Number] = DISTANCE_NA
			} else if from.Number == to.Number {
				row[to.Number] = 0
			} else {
				row[to.Number] = _MinPointDistance(from.Points, to.Points)
			}
		}
		table[from.Number] = row
	}
	return table
}

func _MinPointDistance(a []orb.Point, b []orb.Point) float64 {
	minimum := math.Inf(1)
	for _, pa := range a {
		for _, pb := range b {
			if d := planar.Distance(pa, pb); d < minimum {
				minimum = d
			}
		}
	}
	return minimum
}

// BuildTransferTable converts pairwise distances into transfer values. The
// fare for boarding system "to" after riding system "from" comes from the
// destination system's own FAREFROMFS row.
func BuildTransferTable(systems List[*FareSystem], distances Dict[int32, Dict[int32, float64]], max_transfer_distance float64, rep *report.Report) TransferTable {
	table := NewDict[int32, Dict[int32, TransferValue]](systems.Length())
	for _, from := range systems {
		row := NewDict[int32, TransferValue](systems.Length())
		for _, to := range systems {
			row[to.Number] = _TransferValue(from, to, distances[from.Number][to.Number], max_transfer_distance, rep)
		}
		table[from.Number] = row
	}
	return table
}

func _TransferValue(from *FareSystem, to *FareSystem, distance float64, max_transfer_distance float64, rep *report.Report) TransferValue {
	if distance == DISTANCE_NA || distance > max_transfer_distance {
		return TransferUnreachable()
	}
	if to.Structure == FREE {
		return TransferFare(0)
	}
	if from.Number == to.Number && to.Structure == FROMTO {
		// self-transfers within a from-to system always cost nothing
		if fare := to.FareFromFS[from.Number]; fare != 0 {
			slog.Warn("non-zero self transfer is unsupported, forcing 0", "faresystem", to.Number, "fare", fare)
			rep.IndentedText(fmt.Sprintf("fare system %d declares a self transfer of %.2f, forced to 0", to.Number, fare), 1)
		}
		return TransferFare(0)
	}
	fare := to.FareFromFS[from.Number]
	if to.Structure == FROMTO {
		return TransferBoardPlus(fare)
	}
	return TransferFare(fare)
}

//*******************************************
// reporting
//*******************************************

// ReportTables renders the distance and transfer tables.
func ReportTables(systems List[*FareSystem], distances Dict[int32, Dict[int32, float64]], transfers TransferTable, rep *report.Report) {
	header := make([]string, 0, systems.Length()+1)
	header = append(header, "from \\ to")
	for _, system := range systems {
		header = append(header, fmt.Sprintf("%d", system.Number))
	}

	distance_rows := [][]string{header}
	transfer_rows := [][]string{header}
	for _, from := range systems {
		drow := []string{fmt.Sprintf("%d", from.Number)}
		trow := []string{fmt.Sprintf("%d", from.Number)}
		for _, to := range systems {
			distance := distances[from.Number][to.Number]
			if distance == DISTANCE_NA {
				drow = append(drow, "n/a")
			} else {
				drow = append(drow, fmt.Sprintf("%.0f", distance))
			}
			trow = append(trow, transfers[from.Number][to.Number].String())
		}
		distance_rows = append(distance_rows, drow)
		transfer_rows = append(transfer_rows, trow)
	}
	rep.Table("Fare system distances", distance_rows, true)
	rep.Table("Transfer fares", transfer_rows, true)
}
