package fares

import (
	"fmt"
	"math"

	"github.com/BayAreaMetro/transit-fares/network"
	"github.com/BayAreaMetro/transit-fares/report"
	. "github.com/BayAreaMetro/transit-fares/util"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
	"golang.org/x/exp/slog"
)

//*******************************************
// classifier & cost estimator
//*******************************************

type Estimator struct {
	net      *network.Network
	matrices FareMatrix
	rep      *report.Report

	// share of multi-stop zones above which a FROMTO system is treated as
	// an area fare instead of a station-to-station fare
	zone_share_threshold float64
}

func NewEstimator(net *network.Network, matrices FareMatrix, rep *report.Report, zone_share_threshold float64) *Estimator {
	return &Estimator{
		net:                  net,
		matrices:             matrices,
		rep:                  rep,
		zone_share_threshold: zone_share_threshold,
	}
}

// AssignLines scans every transit line and attaches it to its declared fare
// system, accumulating mode sets, tallies and stop nodes. Lines referencing
// an unknown system are skipped with a warning.
func (self *Estimator) AssignLines(systems List[*FareSystem]) {
	lookup := NewDict[int32, *FareSystem](systems.Length())
	for _, system := range systems {
		lookup[system.Number] = system
	}

	for _, line := range self.net.Lines() {
		system, ok := lookup[line.FareSystem]
		if !ok {
			slog.Warn("line references unknown fare system", "line", line.Name, "faresystem", line.FareSystem)
			self.rep.IndentedText(fmt.Sprintf("line %s references unknown fare system %d, skipped", line.Name, line.FareSystem), 1)
			continue
		}
		system.Lines.Add(line)
		system.LineCount++
		system.SegmentCount += len(line.Segments)
		system.Modes[line.Mode] = true
		for _, segment := range line.Segments {
			if segment.AllowBoarding || segment.AllowAlighting {
				system.StopNodes[segment.StopID] = true
			}
		}
	}

	for _, system := range systems {
		nodes := maps.Keys(system.StopNodes)
		slices.Sort(nodes)
		for _, id := range nodes {
			if node := self.net.Node(id); node != nil {
				system.Points = append(system.Points, node.Loc)
			}
		}
	}
}

// EstimateSystem writes boarding and in-vehicle costs for one fare system.
func (self *Estimator) EstimateSystem(system *FareSystem) error {
	self.rep.Header(fmt.Sprintf("Fare system %d: %s", system.Number, system.Name))
	self.rep.Text(fmt.Sprintf("structure %s, %d lines, %d segments", system.Structure, system.LineCount, system.SegmentCount))
	slog.Info("estimating fare system", "number", system.Number, "structure", system.Structure.String())

	switch system.Structure {
	case FREE:
		self.rep.Text("free system, no costs written")
		return nil
	case FLAT:
		self._EstimateFlat(system)
		return nil
	case FROMTO:
		matrix, ok := self.matrices[system.MatrixID]
		if !ok {
			slog.Warn("fare system references unknown fare matrix", "faresystem", system.Number, "matrix", system.MatrixID)
			self.rep.IndentedText(fmt.Sprintf("fare matrix %d not found, system skipped", system.MatrixID), 1)
			return nil
		}
		share := self._MultiStopZoneShare(system, matrix)
		if share > self.zone_share_threshold {
			self.rep.Text(fmt.Sprintf("%.0f%% of zones have multiple stops, using zone boundary crossing approximation", share*100))
			self._EstimateZoneCrossing(system, matrix)
		} else {
			self.rep.Text(fmt.Sprintf("%.0f%% of zones have multiple stops, using station-to-station least squares approximation", share*100))
			if err := self._EstimateStationToStation(system, matrix); err != nil {
				return err
			}
		}
		self._CopyCostsToSegments(system)
		return nil
	default:
		return fmt.Errorf("fare system %d has unknown structure", system.Number)
	}
}

func (self *Estimator) _EstimateFlat(system *FareSystem) {
	count := 0
	for _, line := range system.Lines {
		for _, segment := range line.Segments {
			if !segment.AllowBoarding {
				continue
			}
			segment.BoardCost = system.BoardFare
			count++
		}
	}
	self.rep.Text(fmt.Sprintf("flat boarding fare %.2f on %d segments", system.BoardFare, count))
}

// _MultiStopZoneShare is the fraction of the system's fare zones that are
// backed by more than one physical stop node.
func (self *Estimator) _MultiStopZoneShare(system *FareSystem, matrix Dict[int32, Dict[int32, float64]]) float64 {
	valid := _ValidZones(matrix)
	counts := NewDict[int32, int](16)
	for node_id := range system.StopNodes {
		node := self.net.Node(node_id)
		if node == nil || !valid.ContainsKey(node.FareZone) {
			continue
		}
		counts[node.FareZone]++
	}
	if counts.Length() == 0 {
		return 0
	}
	multi := 0
	for _, count := range counts {
		if count > 1 {
			multi++
		}
	}
	return float64(multi) / float64(counts.Length())
}

// _ValidZones is the set of zones the matrix knows, origins and destinations.
func _ValidZones(matrix Dict[int32, Dict[int32, float64]]) Dict[int32, bool] {
	valid := NewDict[int32, bool](matrix.Length())
	for origin, dests := range matrix {
		valid[origin] = true
		for dest := range dests {
			valid[dest] = true
		}
	}
	return valid
}

func _SortedZones(valid Dict[int32, bool]) []int32 {
	zones := maps.Keys(valid)
	slices.Sort(zones)
	return zones
}

//*******************************************
// zone boundary crossing approximation
//*******************************************

func (self *Estimator) _EstimateZoneCrossing(system *FareSystem, matrix Dict[int32, Dict[int32, float64]]) {
	valid := _ValidZones(matrix)
	zones := _SortedZones(valid)
	if len(zones) == 0 {
		self.rep.IndentedText("fare matrix is empty, no costs written", 1)
		return
	}
	first_valid := zones[0]

	for _, line := range system.Lines {
		stops := _StopSegments(line)
		if len(stops) == 0 {
			continue
		}
		prev_zone := int32(-1)
		prev_board := 0.0
		degraded := 0

		for idx, segment := range stops {
			zone := self._ResolveZone(segment.StopID, valid, prev_zone, first_valid)

			// the crossing increment is priced against the boarding cost paid
			// before the boundary, so it runs first
			if idx > 0 && prev_zone >= 0 && zone != prev_zone {
				fare, ok := matrix[prev_zone][zone]
				if !ok {
					slog.Warn("no fare for zone pair", "line", line.Name, "from", prev_zone, "to", zone)
					self.rep.IndentedText(fmt.Sprintf("line %s: no fare from zone %d to %d, assuming 0", line.Name, prev_zone, zone), 2)
					fare = 0
				}
				invehicle := fare - prev_board
				if invehicle < 0 {
					invehicle = 0
				}
				prev := stops[idx-1]
				if prev.LinkID >= 0 {
					link := self.net.Link(prev.LinkID)
					// shared links keep the most conservative estimate
					if invehicle > link.InVehicleCost {
						link.InVehicleCost = invehicle
					}
				}
			}

			if segment.AllowBoarding {
				board, found := matrix[zone][zone]
				if !found {
					board, found = self._FallbackBoardFare(line, matrix, stops, idx, zone, prev_zone, valid, first_valid, &degraded)
				}
				if found && segment.LinkID >= 0 {
					link := self.net.Link(segment.LinkID)
					if board > link.BoardCost {
						link.BoardCost = board
					}
				}
				if found {
					prev_board = board
				}
			}
			prev_zone = zone
		}
	}
}

// _FallbackBoardFare applies the degraded boarding-fare ladder: the fare to
// the next stop's zone if that zone differs from both neighbours, else the
// minimum fare out of the current zone.
func (self *Estimator) _FallbackBoardFare(line *network.Line, matrix Dict[int32, Dict[int32, float64]], stops []*network.Segment, idx int, zone int32, prev_zone int32, valid Dict[int32, bool], first_valid int32, degraded *int) (float64, bool) {
	if idx+1 < len(stops) {
		next_zone := self._ResolveZone(stops[idx+1].StopID, valid, zone, first_valid)
		if next_zone != zone && next_zone != prev_zone {
			if fare, ok := matrix[zone][next_zone]; ok {
				return fare, true
			}
		}
	}
	minimum := math.Inf(1)
	for _, fare := range matrix[zone] {
		if fare < minimum {
			minimum = fare
		}
	}
	if math.IsInf(minimum, 1) {
		return 0, false
	}
	*degraded++
	if *degraded > 1 {
		slog.Warn("repeated degraded boarding fare estimate", "line", line.Name, "zone", zone)
		self.rep.IndentedText(fmt.Sprintf("line %s: repeated degraded estimate, using minimum fare out of zone %d", line.Name, zone), 1)
	} else {
		self.rep.IndentedText(fmt.Sprintf("line %s: no same-zone fare for zone %d, using minimum fare out of zone", line.Name, zone), 2)
	}
	return minimum, true
}

func (self *Estimator) _ResolveZone(node_id int32, valid Dict[int32, bool], prev_zone int32, first_valid int32) int32 {
	node := self.net.Node(node_id)
	if node != nil && valid.ContainsKey(node.FareZone) {
		return node.FareZone
	}
	if prev_zone >= 0 {
		return prev_zone
	}
	return first_valid
}

func _StopSegments(line *network.Line) []*network.Segment {
	stops := make([]*network.Segment, 0, len(line.Segments))
	for _, segment := range line.Segments {
		if segment.AllowBoarding || segment.AllowAlighting {
			stops = append(stops, segment)
		}
	}
	return stops
}

//*******************************************
// segment write-back
//*******************************************

func (self *Estimator) _CopyCostsToSegments(system *FareSystem) {
	for _, line := range system.Lines {
		for _, segment := range line.Segments {
			if segment.LinkID < 0 {
				continue
			}
			link := self.net.Link(segment.LinkID)
			segment.BoardCost = math.Max(0, link.BoardCost)
			segment.InVehicleCost = math.Max(0, link.InVehicleCost)
		}
	}
}
