package journey

import (
	"testing"
)

func makeTable(t *testing.T) *Table {
	t.Helper()
	table := NewTable()
	table.Levels.Add(&Level{Description: "local", DestinationsReachable: true})
	table.Levels.Add(&Level{Description: "premium", DestinationsReachable: true})
	rules := []TransitionRule{
		{Mode: "x", NextLevel: 1},
		{Mode: "y", NextLevel: 2},
	}
	for _, level := range table.Levels {
		level.TransitionRules = append([]TransitionRule{}, rules...)
	}
	table.source_modes["x"] = "b"
	table.source_modes["y"] = "r"
	return table
}

func TestPruneKeepsReachableLevels(t *testing.T) {
	table := makeTable(t)
	table.Prune()
	if table.Levels.Length() != 3 {
		t.Errorf("table.Levels.Length() = %d; want 3", table.Levels.Length())
	}
}

func TestPruneDropsUnreachableLevel(t *testing.T) {
	table := makeTable(t)
	// nothing transitions into this level
	table.Levels.Add(&Level{Description: "orphan", DestinationsReachable: true})
	table.Prune()

	if table.Levels.Length() != 3 {
		t.Fatalf("table.Levels.Length() = %d; want 3", table.Levels.Length())
	}
	for _, level := range table.Levels {
		if level.Description == "orphan" {
			t.Errorf("orphan level survived pruning")
		}
		for _, rule := range level.TransitionRules {
			if rule.NextLevel < 0 || rule.NextLevel >= table.Levels.Length() {
				t.Errorf("rule targets missing level %d", rule.NextLevel)
			}
		}
	}
}

func TestPruneReindexesRules(t *testing.T) {
	table := NewTable()
	// level 1 is orphaned, level 2 is reachable
	table.Levels.Add(&Level{Description: "orphan"})
	table.Levels.Add(&Level{Description: "reached"})
	table.Levels.Get(0).TransitionRules = []TransitionRule{{Mode: "x", NextLevel: 2}}
	table.Levels.Get(2).TransitionRules = []TransitionRule{{Mode: "y", NextLevel: 2}}
	table.Prune()

	if table.Levels.Length() != 2 {
		t.Fatalf("table.Levels.Length() = %d; want 2", table.Levels.Length())
	}
	if table.Levels.Get(1).Description != "reached" {
		t.Errorf("expected the reached level at index 1")
	}
	if rule := table.Levels.Get(1).TransitionRules[0]; rule.NextLevel != 1 {
		t.Errorf("rule.NextLevel = %d; want re-indexed 1", rule.NextLevel)
	}
}

func TestPruneHandlesCycles(t *testing.T) {
	table := NewTable()
	table.Levels.Add(&Level{Description: "a"})
	table.Levels.Add(&Level{Description: "b"})
	table.Levels.Get(0).TransitionRules = []TransitionRule{{Mode: "x", NextLevel: 1}}
	table.Levels.Get(1).TransitionRules = []TransitionRule{{Mode: "y", NextLevel: 2}}
	table.Levels.Get(2).TransitionRules = []TransitionRule{{Mode: "x", NextLevel: 1}}
	table.Prune()

	if table.Levels.Length() != 3 {
		t.Errorf("table.Levels.Length() = %d; want 3", table.Levels.Length())
	}
}

func TestFilterByModes(t *testing.T) {
	table := makeTable(t)
	filtered := table.FilterByModes([]string{"b"})

	// the premium level loses its incoming rule and is pruned
	if filtered.Levels.Length() != 2 {
		t.Fatalf("filtered.Levels.Length() = %d; want 2", filtered.Levels.Length())
	}
	for _, level := range filtered.Levels {
		for _, rule := range level.TransitionRules {
			if rule.Mode != "x" {
				t.Errorf("unexpected rule mode %s after filtering", rule.Mode)
			}
			if rule.NextLevel < 0 || rule.NextLevel >= filtered.Levels.Length() {
				t.Errorf("rule targets missing level %d", rule.NextLevel)
			}
		}
	}

	// the original table is untouched
	if table.Levels.Length() != 3 {
		t.Errorf("filtering must not mutate the source table")
	}
}

func TestFilterByModesIdempotent(t *testing.T) {
	table := makeTable(t)
	once := table.FilterByModes([]string{"b"})
	twice := once.FilterByModes([]string{"b"})

	if once.Levels.Length() != twice.Levels.Length() {
		t.Fatalf("level counts differ: %d vs %d", once.Levels.Length(), twice.Levels.Length())
	}
	for i := range once.Levels {
		a := once.Levels.Get(i)
		b := twice.Levels.Get(i)
		if a.Description != b.Description || len(a.TransitionRules) != len(b.TransitionRules) {
			t.Errorf("level %d differs after second filter", i)
			continue
		}
		for j := range a.TransitionRules {
			if a.TransitionRules[j] != b.TransitionRules[j] {
				t.Errorf("level %d rule %d differs after second filter", i, j)
			}
		}
	}
}
