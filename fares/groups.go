package fares

import (
	"fmt"

	"github.com/BayAreaMetro/transit-fares/report"
	. "github.com/BayAreaMetro/transit-fares/util"
	"golang.org/x/exp/slices"
	"golang.org/x/exp/slog"
)

//*******************************************
// fare system grouping
//*******************************************

// GroupSystems partitions fare systems into the smallest number of groups
// that can share a journey level. Pass 1 merges systems with identical mode
// sets and compatible transfer rows; pass 2 merges the resulting groups
// across mode sets where the rows stay compatible. First-fit over systems
// sorted by number, so the partition is deterministic.
func GroupSystems(systems List[*FareSystem], transfers TransferTable, rep *report.Report) List[*SystemGroup] {
	ordered := NewList[*FareSystem](systems.Length())
	for _, system := range systems {
		if system.LineCount == 0 {
			continue
		}
		ordered.Add(system)
	}
	slices.SortFunc(ordered, func(a *FareSystem, b *FareSystem) int {
		return int(a.Number) - int(b.Number)
	})

	// pass 1: identical mode sets
	groups := NewList[*SystemGroup](ordered.Length())
	for _, system := range ordered {
		placed := false
		for _, group := range groups {
			if !group.Systems.Get(0).ModeSetEquals(system) {
				continue
			}
			if !_RowsCompatible(group, system, transfers) {
				continue
			}
			group.Systems.Add(system)
			placed = true
			break
		}
		if !placed {
			group := &SystemGroup{
				Systems: NewList[*FareSystem](1),
				Modes:   NewDict[string, bool](4),
			}
			group.Systems.Add(system)
			groups.Add(group)
		}
	}

	// pass 2: merge across mode sets where rows stay compatible
	merged := NewList[*SystemGroup](groups.Length())
	for _, group := range groups {
		placed := false
		for _, target := range merged {
			if !_GroupsCompatible(target, group, transfers) {
				continue
			}
			for _, system := range group.Systems {
				target.Systems.Add(system)
			}
			placed = true
			break
		}
		if !placed {
			merged.Add(group)
		}
	}

	for _, group := range merged {
		for _, system := range group.Systems {
			for mode := range system.Modes {
				group.Modes[mode] = true
			}
		}
		group.TransferRow = _CollapseRow(group, ordered, transfers)
	}

	slog.Info("grouped fare systems", "systems", ordered.Length(), "groups", merged.Length())
	rep.Header("Fare system groups")
	for i, group := range merged {
		rep.Text(fmt.Sprintf("group %d: %s", i+1, group.Description()))
	}
	return merged
}

func _RowsCompatible(group *SystemGroup, system *FareSystem, transfers TransferTable) bool {
	row := transfers[system.Number]
	for _, member := range group.Systems {
		member_row := transfers[member.Number]
		for target, value := range row {
			if !CompatibleValues(value, member_row[target]) {
				return false
			}
		}
	}
	return true
}

func _GroupsCompatible(a *SystemGroup, b *SystemGroup, transfers TransferTable) bool {
	for _, member := range b.Systems {
		if !_RowsCompatible(a, member, transfers) {
			return false
		}
	}
	return true
}

// _CollapseRow takes, per target system, the first non-unreachable value
// across the group's members, or 0.0 when every member is unreachable.
func _CollapseRow(group *SystemGroup, systems List[*FareSystem], transfers TransferTable) Dict[int32, TransferValue] {
	row := NewDict[int32, TransferValue](systems.Length())
	for _, target := range systems {
		value := TransferFare(0)
		for _, member := range group.Systems {
			candidate := transfers[member.Number][target.Number]
			if candidate.Kind != TRANSFER_UNREACHABLE {
				value = candidate
				break
			}
		}
		row[target.Number] = value
	}
	return row
}
