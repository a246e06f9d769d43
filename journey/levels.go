package journey

import (
	. "github.com/BayAreaMetro/transit-fares/util"
)

//*******************************************
// journey levels
//*******************************************

type TransitionRule struct {
	Mode      string `json:"mode"`
	NextLevel int    `json:"next_journey_level"`
}

type SegmentCost struct {
	Penalty          string  `json:"penalty"`
	PerceptionFactor float64 `json:"perception_factor"`
}

type BoardingCost struct {
	OnSegments *SegmentCost `json:"on_segments"`
}

// Level is one state of the fare approximation: boarding a line whose mode
// matches one of the transition rules moves the rider to the rule's level.
type Level struct {
	Description           string           `json:"description"`
	DestinationsReachable bool             `json:"destinations_reachable"`
	TransitionRules       []TransitionRule `json:"transition_rules"`
	WaitingTime           any              `json:"waiting_time"`
	BoardingTime          any              `json:"boarding_time"`
	BoardingCost          *BoardingCost    `json:"boarding_cost"`
}

// Table is an ordered set of journey levels; index 0 is the base level a
// rider starts in before the first boarding.
type Table struct {
	Levels List[*Level]

	// level mode id -> the source transit mode it was cloned from
	source_modes Dict[string, string]
}

func NewTable() *Table {
	table := &Table{
		Levels:       NewList[*Level](8),
		source_modes: NewDict[string, string](16),
	}
	table.Levels.Add(&Level{
		Description:           "base",
		DestinationsReachable: false,
		TransitionRules:       []TransitionRule{},
	})
	return table
}

func (self *Table) SourceMode(level_mode string) string {
	return self.source_modes[level_mode]
}

//*******************************************
// pruning & filtering
//*******************************************

// Prune removes levels not reachable from the base level and re-indexes the
// remaining transition rules.
func (self *Table) Prune() {
	visits := NewDict[int, int](self.Levels.Length())
	self._Visit(0, visits)

	remap := NewDict[int, int](self.Levels.Length())
	kept := NewList[*Level](self.Levels.Length())
	for i, level := range self.Levels {
		if visits[i] == 0 {
			continue
		}
		remap[i] = kept.Length()
		kept.Add(level)
	}
	for _, level := range kept {
		for i, rule := range level.TransitionRules {
			level.TransitionRules[i].NextLevel = remap[rule.NextLevel]
		}
	}
	self.Levels = kept
}

func (self *Table) _Visit(level int, visits Dict[int, int]) {
	visits[level]++
	if visits[level] > 1 {
		// already expanded, stop to avoid unbounded recursion
		return
	}
	for _, rule := range self.Levels.Get(level).TransitionRules {
		self._Visit(rule.NextLevel, visits)
	}
}

// FilterByModes derives a reduced table restricted to the given source-mode
// subset: transition rules whose level mode was cloned from another source
// mode are stripped and the table is re-pruned. Filtering an already
// filtered table with the same subset is a no-op.
func (self *Table) FilterByModes(modes []string) *Table {
	allowed := NewDict[string, bool](len(modes))
	for _, mode := range modes {
		allowed[mode] = true
	}

	filtered := &Table{
		Levels:       NewList[*Level](self.Levels.Length()),
		source_modes: NewDict[string, string](self.source_modes.Length()),
	}
	for mode, source := range self.source_modes {
		filtered.source_modes[mode] = source
	}
	for _, level := range self.Levels {
		clone := &Level{
			Description:           level.Description,
			DestinationsReachable: level.DestinationsReachable,
			TransitionRules:       make([]TransitionRule, 0, len(level.TransitionRules)),
			BoardingCost:          level.BoardingCost,
		}
		for _, rule := range level.TransitionRules {
			if allowed.ContainsKey(self.source_modes[rule.Mode]) {
				clone.TransitionRules = append(clone.TransitionRules, rule)
			}
		}
		filtered.Levels.Add(clone)
	}
	filtered.Prune()
	return filtered
}
