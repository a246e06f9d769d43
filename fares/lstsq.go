package fares

import (
	"fmt"
	"math"

	"github.com/BayAreaMetro/transit-fares/algorithm"
	"github.com/BayAreaMetro/transit-fares/network"
	. "github.com/BayAreaMetro/transit-fares/util"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
	"golang.org/x/exp/slog"
	"gonum.org/v1/gonum/mat"
)

//*******************************************
// station-to-station least squares
//*******************************************

type _ObservedPair struct {
	origin int32
	dest   int32
	fare   float64
	path   List[int32]
}

// _EstimateStationToStation decomposes the origin/destination fares of a
// FROMTO system into one boarding cost per zone and one in-vehicle cost per
// zone-crossing link, solved as a single non-negative least-squares system
// over shortest paths through the system's own links.
func (self *Estimator) _EstimateStationToStation(system *FareSystem, matrix Dict[int32, Dict[int32, float64]]) error {
	valid := _ValidZones(matrix)
	zones := _SortedZones(valid)

	// representative stop node per zone
	zone_nodes := NewDict[int32, List[int32]](len(zones))
	stop_ids := maps.Keys(system.StopNodes)
	slices.Sort(stop_ids)
	for _, node_id := range stop_ids {
		node := self.net.Node(node_id)
		if node == nil || !valid.ContainsKey(node.FareZone) {
			continue
		}
		nodes := zone_nodes[node.FareZone]
		nodes.Add(node_id)
		zone_nodes[node.FareZone] = nodes
	}

	// one boarding unknown per zone with stops
	board_index := NewDict[int32, int](len(zones))
	n_board := 0
	for _, zone := range zones {
		if zone_nodes.ContainsKey(zone) {
			board_index[zone] = n_board
			n_board++
		}
	}

	// links of the system's lines; crossing links get an in-vehicle unknown
	system_links := NewDict[int32, bool](100)
	for _, line := range system.Lines {
		for _, segment := range line.Segments {
			if segment.LinkID >= 0 {
				system_links[segment.LinkID] = true
			}
		}
	}
	link_ids := maps.Keys(system_links)
	slices.Sort(link_ids)
	iv_index := NewDict[int32, int](len(link_ids))
	n_iv := 0
	for _, link_id := range link_ids {
		link := self.net.Link(link_id)
		node_a := self.net.Node(link.NodeA)
		node_b := self.net.Node(link.NodeB)
		if node_a == nil || node_b == nil {
			continue
		}
		if node_a.FareZone != node_b.FareZone {
			iv_index[link_id] = n_iv
			n_iv++
		}
	}

	if n_board == 0 {
		self.rep.IndentedText("no stops in any matrix zone, no costs written", 1)
		return nil
	}

	adjacency := self.net.Adjacency()
	filter := func(link *network.Link) bool {
		return system_links.ContainsKey(link.ID)
	}
	weight := func(link *network.Link) float64 {
		return link.Length
	}

	// one indicator row per reachable zone pair with a known fare
	n_unknowns := n_board + n_iv
	observations := NewList[_ObservedPair](len(zones) * len(zones))
	data := NewList[float64](len(zones) * len(zones) * n_unknowns)
	rhs := NewList[float64](len(zones) * len(zones))
	for _, origin := range zones {
		for _, dest := range zones {
			if origin == dest {
				continue
			}
			fare, ok := matrix[origin][dest]
			if !ok {
				continue
			}
			origin_nodes, ok := zone_nodes[origin]
			if !ok {
				continue
			}
			dest_nodes, ok := zone_nodes[dest]
			if !ok {
				continue
			}
			path, ok := algorithm.CalcFilteredDijkstra(self.net, adjacency, origin_nodes.Get(0), dest_nodes.Get(0), filter, weight)
			if !ok || path.Length() == 0 {
				continue
			}
			row := make([]float64, n_unknowns)
			row[board_index[origin]] = 1
			for _, link_id := range path {
				if idx, ok := iv_index[link_id]; ok {
					row[n_board+idx] = 1
				}
			}
			for _, value := range row {
				data.Add(value)
			}
			rhs.Add(fare)
			observations.Add(_ObservedPair{origin: origin, dest: dest, fare: fare, path: path})
		}
	}

	if observations.Length() == 0 {
		slog.Warn("no usable zone pairs for least squares", "faresystem", system.Number)
		self.rep.IndentedText("no reachable zone pairs with fares, no costs written", 1)
		return nil
	}

	a := mat.NewDense(observations.Length(), n_unknowns, data)
	b := mat.NewVecDense(rhs.Length(), rhs)
	solution, err := algorithm.SolveNNLS(a, b)
	if err != nil {
		return fmt.Errorf("least squares solve for fare system %d: %w", system.Number, err)
	}
	for i, value := range solution {
		solution[i] = math.Round(value*100) / 100
	}

	// write solved costs back onto the system's links
	for _, link_id := range link_ids {
		link := self.net.Link(link_id)
		if node := self.net.Node(link.NodeA); node != nil {
			if idx, ok := board_index[node.FareZone]; ok {
				if solution[idx] > link.BoardCost {
					link.BoardCost = solution[idx]
				}
			}
		}
		if idx, ok := iv_index[link_id]; ok {
			if solution[n_board+idx] > link.InVehicleCost {
				link.InVehicleCost = solution[n_board+idx]
			}
		}
	}

	self._ReportValidation(system, zones, matrix, observations, board_index, iv_index, solution, n_board)
	return nil
}

// _ReportValidation renders the requested vs. reconstructed fare per zone
// pair. Pairs that contributed no observation show a dash.
func (self *Estimator) _ReportValidation(system *FareSystem, zones []int32, matrix Dict[int32, Dict[int32, float64]], observations List[_ObservedPair], board_index Dict[int32, int], iv_index Dict[int32, int], solution []float64, n_board int) {
	reconstructed := NewDict[Tuple[int32, int32], float64](observations.Length())
	for _, obs := range observations {
		cost := solution[board_index[obs.origin]]
		for _, link_id := range obs.path {
			if idx, ok := iv_index[link_id]; ok {
				cost += solution[n_board+idx]
			}
		}
		reconstructed[MakeTuple(obs.origin, obs.dest)] = cost
	}

	rows := make([][]string, 0, len(zones)*len(zones)+1)
	rows = append(rows, []string{"origin", "destination", "requested", "estimated"})
	for _, origin := range zones {
		for _, dest := range zones {
			fare, ok := matrix[origin][dest]
			if !ok {
				continue
			}
			estimated := "-"
			if cost, ok := reconstructed[MakeTuple(origin, dest)]; ok {
				estimated = fmt.Sprintf("%.2f", cost)
			}
			rows = append(rows, []string{
				fmt.Sprintf("%d", origin),
				fmt.Sprintf("%d", dest),
				fmt.Sprintf("%.2f", fare),
				estimated,
			})
		}
	}
	self.rep.Table(fmt.Sprintf("Fare system %d station-to-station validation", system.Number), rows, true)
}
