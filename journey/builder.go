package journey

import (
	"fmt"

	"github.com/BayAreaMetro/transit-fares/fares"
	"github.com/BayAreaMetro/transit-fares/network"
	"github.com/BayAreaMetro/transit-fares/report"
	. "github.com/BayAreaMetro/transit-fares/util"
	"golang.org/x/exp/slog"
)

const _MODE_ID_POOL = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

//*******************************************
// network patch
//*******************************************

type _SegmentValue struct {
	segment   *network.Segment
	attribute string
	value     float64
}

// Patch collects every network change the builder wants to make, so the
// host network is touched in a single commit step.
type Patch struct {
	modes      List[network.Mode]
	link_modes Dict[int32, List[string]]
	attributes List[string]
	segments   List[_SegmentValue]
}

func NewPatch() *Patch {
	return &Patch{
		modes:      NewList[network.Mode](8),
		link_modes: NewDict[int32, List[string]](100),
		attributes: NewList[string](8),
		segments:   NewList[_SegmentValue](1000),
	}
}

func (self *Patch) Apply(net *network.Network) error {
	for _, mode := range self.modes {
		if err := net.CreateMode(mode.ID, mode.Description); err != nil {
			return err
		}
	}
	for link_id, modes := range self.link_modes {
		link := net.Link(link_id)
		for _, mode := range modes {
			link.AddMode(mode)
		}
	}
	for _, attribute := range self.attributes {
		if err := net.CreateAttribute("TRANSIT_SEGMENT", attribute); err != nil {
			return err
		}
	}
	for _, sv := range self.segments {
		sv.segment.SetExtra(sv.attribute, sv.value)
	}
	return nil
}

//*******************************************
// journey level builder
//*******************************************

type Builder struct {
	net *network.Network
	rep *report.Report

	used_modes Dict[string, bool]
}

func NewBuilder(net *network.Network, rep *report.Report) *Builder {
	used := NewDict[string, bool](64)
	for _, id := range net.ModeIDs() {
		used[id] = true
	}
	return &Builder{net: net, rep: rep, used_modes: used}
}

// Build emits one journey level per fare system group plus the base level,
// and the patch carrying the new level modes, boarding-cost attributes and
// segment costs. The patch is not applied.
func (self *Builder) Build(groups List[*fares.SystemGroup]) (*Table, *Patch, error) {
	table := NewTable()
	patch := NewPatch()
	rules := NewList[TransitionRule](groups.Length() * 2)

	for i, group := range groups {
		level_index := i + 1
		attribute := fmt.Sprintf("@board_fare_l%d", level_index)
		patch.attributes.Add(attribute)

		// one cloned level mode per source mode used in the group
		cloned := NewDict[string, string](4)
		for _, system := range group.Systems {
			for _, line := range system.Lines {
				level_mode, ok := cloned[line.Mode]
				if !ok {
					id, err := self._AllocModeID()
					if err != nil {
						return nil, nil, err
					}
					description := fmt.Sprintf("level %d", level_index)
					if source := self.net.Mode(line.Mode); source != nil {
						description = fmt.Sprintf("%s level %d", source.Description, level_index)
					}
					patch.modes.Add(network.Mode{ID: id, Description: description})
					rules.Add(TransitionRule{Mode: id, NextLevel: level_index})
					table.source_modes[id] = line.Mode
					cloned[line.Mode] = id
					level_mode = id
				}
				for _, segment := range line.Segments {
					if segment.LinkID < 0 {
						continue
					}
					modes := patch.link_modes[segment.LinkID]
					if !_ContainsMode(modes, level_mode) {
						modes.Add(level_mode)
						patch.link_modes[segment.LinkID] = modes
					}
				}
			}
		}

		// transfer fares for boarding while in this level
		applied := 0
		for _, line := range self.net.Lines() {
			value, ok := group.TransferRow[line.FareSystem]
			if !ok || value.Kind == fares.TRANSFER_UNREACHABLE {
				continue
			}
			for _, segment := range line.Segments {
				if !segment.AllowBoarding {
					continue
				}
				cost := value.Value
				if value.Kind == fares.TRANSFER_BOARD_PLUS {
					cost += segment.BoardCost
				}
				if cost < 0 {
					cost = 0
				}
				patch.segments.Add(_SegmentValue{segment: segment, attribute: attribute, value: cost})
				applied++
			}
		}

		table.Levels.Add(&Level{
			Description:           group.Description(),
			DestinationsReachable: true,
			BoardingCost: &BoardingCost{
				OnSegments: &SegmentCost{Penalty: attribute, PerceptionFactor: 1.0},
			},
		})
		slog.Info("built journey level", "level", level_index, "group", group.Description(), "segments", applied)
		self.rep.IndentedText(fmt.Sprintf("level %d (%s): boarding costs on %d segments", level_index, group.Description(), applied), 1)
	}

	// boarding a level mode switches to its level from anywhere
	for _, level := range table.Levels {
		level.TransitionRules = append([]TransitionRule{}, rules...)
	}
	table.Prune()
	return table, patch, nil
}

func (self *Builder) _AllocModeID() (string, error) {
	for _, c := range _MODE_ID_POOL {
		id := string(c)
		if !self.used_modes.ContainsKey(id) {
			self.used_modes[id] = true
			return id, nil
		}
	}
	return "", fmt.Errorf("no free transit mode ids left for journey levels")
}

func _ContainsMode(modes List[string], mode string) bool {
	for _, m := range modes {
		if m == mode {
			return true
		}
	}
	return false
}
