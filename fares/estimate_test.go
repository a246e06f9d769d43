package fares

import (
	"math"
	"testing"

	"github.com/BayAreaMetro/transit-fares/network"
	"github.com/BayAreaMetro/transit-fares/report"
	. "github.com/BayAreaMetro/transit-fares/util"
	"github.com/paulmach/orb"
)

// buildTestNetwork creates a three-node line 10 -> 11 -> 20 with two links.
// Nodes 10 and 11 share fare zone 1, node 20 is in zone 2.
func buildTestNetwork(t *testing.T) *network.Network {
	t.Helper()
	net := network.New()
	net.AddNode(&network.Node{ID: 10, Loc: orb.Point{0, 0}, FareZone: 1})
	net.AddNode(&network.Node{ID: 11, Loc: orb.Point{1, 0}, FareZone: 1})
	net.AddNode(&network.Node{ID: 20, Loc: orb.Point{2, 0}, FareZone: 2})
	net.AddLink(&network.Link{ID: 100, NodeA: 10, NodeB: 11, Length: 1, Modes: []string{"b"}})
	net.AddLink(&network.Link{ID: 101, NodeA: 11, NodeB: 20, Length: 1, Modes: []string{"b"}})
	net.AddLine(&network.Line{
		Name:       "bus1",
		Mode:       "b",
		FareSystem: 1,
		Segments: []*network.Segment{
			{StopID: 10, LinkID: 100, AllowBoarding: true, AllowAlighting: true},
			{StopID: 11, LinkID: 101, AllowBoarding: true, AllowAlighting: true},
			{StopID: 20, LinkID: -1, AllowAlighting: true},
		},
	})
	return net
}

func newTestSystem(number int32, structure Structure) *FareSystem {
	return &FareSystem{
		Number:    number,
		Structure: structure,
		Name:      "test",
		Modes:     NewDict[string, bool](4),
		StopNodes: NewDict[int32, bool](16),
	}
}

func TestAssignLinesSkipsUnknownSystem(t *testing.T) {
	net := buildTestNetwork(t)
	net.AddLine(&network.Line{Name: "ghost", Mode: "b", FareSystem: 99, Segments: nil})

	system := newTestSystem(1, FLAT)
	systems := NewList[*FareSystem](1)
	systems.Add(system)

	estimator := NewEstimator(net, NewDict[int32, Dict[int32, Dict[int32, float64]]](0), report.New("test"), 0.1)
	estimator.AssignLines(systems)

	if system.LineCount != 1 {
		t.Errorf("system.LineCount = %d; want 1", system.LineCount)
	}
	if system.SegmentCount != 3 {
		t.Errorf("system.SegmentCount = %d; want 3", system.SegmentCount)
	}
	if !system.Modes.ContainsKey("b") {
		t.Errorf("mode set should contain 'b'")
	}
	if len(system.Points) != 3 {
		t.Errorf("len(system.Points) = %d; want 3", len(system.Points))
	}
}

func TestEstimateFlatRoundTrip(t *testing.T) {
	net := buildTestNetwork(t)
	system := newTestSystem(1, FLAT)
	system.BoardFare = 2.5
	systems := NewList[*FareSystem](1)
	systems.Add(system)

	estimator := NewEstimator(net, NewDict[int32, Dict[int32, Dict[int32, float64]]](0), report.New("test"), 0.1)
	estimator.AssignLines(systems)
	if err := estimator.EstimateSystem(system); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	line := net.Lines().Get(0)
	for _, segment := range line.Segments {
		if segment.AllowBoarding && segment.BoardCost != 2.5 {
			t.Errorf("segment %d board cost = %v; want 2.5", segment.StopID, segment.BoardCost)
		}
		if segment.InVehicleCost != 0 {
			t.Errorf("segment %d invehicle cost = %v; want 0", segment.StopID, segment.InVehicleCost)
		}
	}
}

func TestEstimateZoneCrossing(t *testing.T) {
	net := buildTestNetwork(t)
	system := newTestSystem(1, FROMTO)
	system.MatrixID = 12
	systems := NewList[*FareSystem](1)
	systems.Add(system)

	// zone 1 has two stops, so half the zones are multi-stop and the area
	// fare approximation is chosen
	matrices := NewDict[int32, Dict[int32, Dict[int32, float64]]](1)
	matrix := NewDict[int32, Dict[int32, float64]](2)
	zone1 := NewDict[int32, float64](2)
	zone1[1] = 1.0
	zone1[2] = 2.0
	zone2 := NewDict[int32, float64](2)
	zone2[2] = 1.5
	matrix[1] = zone1
	matrix[2] = zone2
	matrices[12] = matrix

	estimator := NewEstimator(net, matrices, report.New("test"), 0.1)
	estimator.AssignLines(systems)
	if err := estimator.EstimateSystem(system); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// boarding in zone 1 costs the same-zone fare
	if cost := net.Link(100).BoardCost; cost != 1.0 {
		t.Errorf("link 100 board cost = %v; want 1.0", cost)
	}
	// crossing from zone 1 to zone 2 adds fare(1,2) - boarding
	if cost := net.Link(101).InVehicleCost; cost != 1.0 {
		t.Errorf("link 101 invehicle cost = %v; want 1.0", cost)
	}

	// costs end up non-negative on every segment
	for _, segment := range net.Lines().Get(0).Segments {
		if segment.BoardCost < 0 || segment.InVehicleCost < 0 {
			t.Errorf("segment %d has negative cost", segment.StopID)
		}
	}
}

func TestEstimateZoneCrossingBoardingAtCrossing(t *testing.T) {
	net := buildTestNetwork(t)
	// the zone 2 stop also allows boarding
	net.Lines().Get(0).Segments[2].AllowBoarding = true

	system := newTestSystem(1, FROMTO)
	system.MatrixID = 12
	systems := NewList[*FareSystem](1)
	systems.Add(system)

	matrices := NewDict[int32, Dict[int32, Dict[int32, float64]]](1)
	matrix := NewDict[int32, Dict[int32, float64]](2)
	zone1 := NewDict[int32, float64](2)
	zone1[1] = 1.0
	zone1[2] = 5.0
	zone2 := NewDict[int32, float64](1)
	zone2[2] = 3.0
	matrix[1] = zone1
	matrix[2] = zone2
	matrices[12] = matrix

	estimator := NewEstimator(net, matrices, report.New("test"), 0.1)
	estimator.AssignLines(systems)
	if err := estimator.EstimateSystem(system); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// the crossing increment is priced against the boarding cost paid in
	// zone 1, not the same-zone fare of zone 2
	if cost := net.Link(101).InVehicleCost; cost != 4.0 {
		t.Errorf("link 101 invehicle cost = %v; want fare(1,2) - board(1) = 4.0", cost)
	}
	// boarding in zone 1 telescopes with the increment to the full fare
	if total := net.Link(100).BoardCost + net.Link(101).InVehicleCost; total != 5.0 {
		t.Errorf("telescoped fare = %v; want 5.0", total)
	}
}

func TestEstimateStationToStationReconstruction(t *testing.T) {
	net := network.New()
	net.AddNode(&network.Node{ID: 1, Loc: orb.Point{0, 0}, FareZone: 1})
	net.AddNode(&network.Node{ID: 2, Loc: orb.Point{1, 0}, FareZone: 2})
	net.AddLink(&network.Link{ID: 50, NodeA: 1, NodeB: 2, Length: 1, Modes: []string{"r"}})
	net.AddLink(&network.Link{ID: 51, NodeA: 2, NodeB: 1, Length: 1, Modes: []string{"r"}})
	net.AddLine(&network.Line{
		Name:       "rail1",
		Mode:       "r",
		FareSystem: 2,
		Segments: []*network.Segment{
			{StopID: 1, LinkID: 50, AllowBoarding: true, AllowAlighting: true},
			{StopID: 2, LinkID: 51, AllowBoarding: true, AllowAlighting: true},
			{StopID: 1, LinkID: -1, AllowAlighting: true},
		},
	})

	system := newTestSystem(2, FROMTO)
	system.MatrixID = 7
	systems := NewList[*FareSystem](1)
	systems.Add(system)

	matrices := NewDict[int32, Dict[int32, Dict[int32, float64]]](1)
	matrix := NewDict[int32, Dict[int32, float64]](2)
	zone1 := NewDict[int32, float64](2)
	zone1[1] = 0
	zone1[2] = 5.0
	zone2 := NewDict[int32, float64](1)
	zone2[1] = 5.0
	matrix[1] = zone1
	matrix[2] = zone2
	matrices[7] = matrix

	estimator := NewEstimator(net, matrices, report.New("test"), 0.1)
	estimator.AssignLines(systems)
	if err := estimator.EstimateSystem(system); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// the decomposition must be non-negative and reconstruct the 5.0 fare
	// from zone 1 to zone 2 within rounding tolerance
	link := net.Link(50)
	if link.BoardCost < 0 || link.InVehicleCost < 0 {
		t.Fatalf("negative decomposition: board %v invehicle %v", link.BoardCost, link.InVehicleCost)
	}
	total := link.BoardCost + link.InVehicleCost
	if math.Abs(total-5.0) > 0.011 {
		t.Errorf("reconstructed fare = %v; want 5.0 +/- 0.01", total)
	}

	for _, segment := range net.Lines().Get(0).Segments {
		if segment.BoardCost < 0 || segment.InVehicleCost < 0 {
			t.Errorf("segment %d has negative cost", segment.StopID)
		}
	}
}
