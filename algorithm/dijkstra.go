package algorithm

import (
	"math"

	"github.com/BayAreaMetro/transit-fares/network"
	. "github.com/BayAreaMetro/transit-fares/util"
)

type _DistFlag struct {
	dist      float64
	prev_link int32
	visited   bool
}

type PQItem struct {
	item int32
	dist float64
}

// CalcFilteredDijkstra computes the shortest path from start to target over
// the links accepted by the filter predicate, weighted by the weight function.
// Returns the traversed link ids in order and false if target is unreachable.
func CalcFilteredDijkstra(net *network.Network, adjacency Dict[int32, List[int32]], start int32, target int32, filter func(*network.Link) bool, weight func(*network.Link) float64) (List[int32], bool) {
	if start == target {
		return NewList[int32](0), true
	}
	heap := NewPriorityQueue[PQItem, float64](100)
	node_flags := NewDict[int32, *_DistFlag](100)

	get_flag := func(node int32) *_DistFlag {
		flag, ok := node_flags[node]
		if !ok {
			flag = &_DistFlag{dist: math.Inf(1), prev_link: -1}
			node_flags[node] = flag
		}
		return flag
	}

	start_flag := get_flag(start)
	start_flag.dist = 0
	heap.Enqueue(PQItem{start, 0}, 0)

	for {
		curr_item, ok := heap.Dequeue()
		if !ok {
			break
		}
		curr_id := curr_item.item
		curr_flag := get_flag(curr_id)
		if curr_flag.visited {
			continue
		}
		curr_flag.visited = true
		if curr_id == target {
			break
		}
		for _, edge_id := range adjacency[curr_id] {
			link := net.Link(edge_id)
			if !filter(link) {
				continue
			}
			other_id := link.NodeB
			other_flag := get_flag(other_id)
			new_length := curr_flag.dist + weight(link)
			if other_flag.dist > new_length {
				other_flag.dist = new_length
				other_flag.prev_link = edge_id
				heap.Enqueue(PQItem{other_id, new_length}, new_length)
			}
		}
	}

	target_flag, ok := node_flags[target]
	if !ok || !target_flag.visited {
		return nil, false
	}

	// walk backwards over predecessor links
	path := NewList[int32](10)
	curr := target
	for curr != start {
		flag := node_flags[curr]
		link := net.Link(flag.prev_link)
		path.Add(flag.prev_link)
		curr = link.NodeA
	}
	for i, j := 0, path.Length()-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path, true
}
