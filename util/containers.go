package util

import (
	"container/heap"

	"golang.org/x/exp/constraints"
)

//*******************************************
// dictionary
//*******************************************

type Dict[K comparable, V any] map[K]V

func NewDict[K comparable, V any](cap int) Dict[K, V] {
	return make(Dict[K, V], cap)
}

func (self Dict[K, V]) ContainsKey(key K) bool {
	_, ok := self[key]
	return ok
}

func (self Dict[K, V]) Delete(key K) {
	delete(self, key)
}

func (self Dict[K, V]) Length() int {
	return len(self)
}

//*******************************************
// list
//*******************************************

type List[T any] []T

func NewList[T any](cap int) List[T] {
	return make(List[T], 0, cap)
}

func (self *List[T]) Add(item T) {
	*self = append(*self, item)
}

func (self List[T]) Get(index int) T {
	return self[index]
}

func (self List[T]) Set(index int, item T) {
	self[index] = item
}

func (self List[T]) Length() int {
	return len(self)
}

//*******************************************
// tuples
//*******************************************

type Tuple[A any, B any] struct {
	A A
	B B
}

func MakeTuple[A any, B any](a A, b B) Tuple[A, B] {
	return Tuple[A, B]{a, b}
}

//*******************************************
// optional
//*******************************************

type Optional[T any] struct {
	value T
	has   bool
}

func Some[T any](value T) Optional[T] {
	return Optional[T]{value: value, has: true}
}

func None[T any]() Optional[T] {
	return Optional[T]{}
}

func (self Optional[T]) HasValue() bool {
	return self.has
}

func (self Optional[T]) Value() T {
	return self.value
}

//*******************************************
// priority queue
//*******************************************

type PriorityQueue[T any, W constraints.Ordered] struct {
	items _PQItems[T, W]
}

func NewPriorityQueue[T any, W constraints.Ordered](cap int) PriorityQueue[T, W] {
	return PriorityQueue[T, W]{
		items: make(_PQItems[T, W], 0, cap),
	}
}

func (self *PriorityQueue[T, W]) Enqueue(item T, priority W) {
	heap.Push(&self.items, Tuple[T, W]{item, priority})
}

func (self *PriorityQueue[T, W]) Dequeue() (T, bool) {
	if self.items.Len() == 0 {
		var t T
		return t, false
	}
	item := heap.Pop(&self.items).(Tuple[T, W])
	return item.A, true
}

func (self *PriorityQueue[T, W]) Length() int {
	return self.items.Len()
}

type _PQItems[T any, W constraints.Ordered] []Tuple[T, W]

func (self _PQItems[T, W]) Len() int { return len(self) }
func (self _PQItems[T, W]) Less(i, j int) bool {
	return self[i].B < self[j].B
}
func (self _PQItems[T, W]) Swap(i, j int) {
	self[i], self[j] = self[j], self[i]
}
func (self *_PQItems[T, W]) Push(item any) {
	*self = append(*self, item.(Tuple[T, W]))
}
func (self *_PQItems[T, W]) Pop() any {
	old := *self
	n := len(old)
	item := old[n-1]
	*self = old[:n-1]
	return item
}
