package util

import (
	"testing"
)

func TestDict(t *testing.T) {
	d := NewDict[string, int](4)
	d["a"] = 1
	d["b"] = 2
	if !d.ContainsKey("a") {
		t.Errorf("d.ContainsKey(a) = false; want true")
	}
	if d.ContainsKey("c") {
		t.Errorf("d.ContainsKey(c) = true; want false")
	}
	d.Delete("a")
	if d.Length() != 1 {
		t.Errorf("d.Length() = %d; want 1", d.Length())
	}
}

func TestList(t *testing.T) {
	l := NewList[int](2)
	l.Add(3)
	l.Add(1)
	l.Add(2)
	if l.Length() != 3 {
		t.Errorf("l.Length() = %d; want 3", l.Length())
	}
	l.Set(0, 7)
	if l.Get(0) != 7 {
		t.Errorf("l.Get(0) = %d; want 7", l.Get(0))
	}
}

func TestOptional(t *testing.T) {
	some := Some(5)
	if !some.HasValue() || some.Value() != 5 {
		t.Errorf("Some(5) should hold 5")
	}
	none := None[int]()
	if none.HasValue() {
		t.Errorf("None should hold nothing")
	}
}

func TestPriorityQueue(t *testing.T) {
	q := NewPriorityQueue[string, int](4)
	q.Enqueue("c", 3)
	q.Enqueue("a", 1)
	q.Enqueue("b", 2)

	want := []string{"a", "b", "c"}
	for _, w := range want {
		item, ok := q.Dequeue()
		if !ok {
			t.Fatalf("queue ran out early")
		}
		if item != w {
			t.Errorf("Dequeue() = %s; want %s", item, w)
		}
	}
	if _, ok := q.Dequeue(); ok {
		t.Errorf("empty queue should report !ok")
	}
}
