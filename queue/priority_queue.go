// Package queue provides a generic priority queue built on container/heap
package queue

// Based on the example at
// https://golang.org/pkg/container/heap/#example__priorityQueue

import "container/heap"

// innerPriorityQueue implements heap.Interface over the stored values
type innerPriorityQueue[E any] struct {
	items    []E
	lessFunc func(E, E) bool
}

// PriorityQueue is a min-first queue ordered by the comparison function it
// was created with. An arbitrary lessFunc stands in for numeric priorities,
// so non-numeric orderings need no key negation tricks.
type PriorityQueue[E any] struct {
	ipq innerPriorityQueue[E]
}

// NewPriorityQueue creates a new heap based PriorityQueue using cmpFunc as the comparison function
func NewPriorityQueue[E any](cmpFunc func(E, E) bool) *PriorityQueue[E] {
	var pq PriorityQueue[E]
	pq.ipq.items = make([]E, 0)
	pq.ipq.lessFunc = cmpFunc
	heap.Init(&pq.ipq)
	return &pq
}

// Len returns the number of items in the queue
func (pq *PriorityQueue[E]) Len() int {
	return pq.ipq.Len()
}

// Push adds x to the queue
func (pq *PriorityQueue[E]) Push(x E) {
	heap.Push(&pq.ipq, x)
}

// Pop removes and returns the next item in the queue
func (pq *PriorityQueue[E]) Pop() E {
	return heap.Pop(&pq.ipq).(E)
}

// Peek returns the next item in the queue without removing it
func (pq *PriorityQueue[E]) Peek() E {
	return pq.ipq.items[0]
}

// PeekUpdate reorders the backing heap after the head item was mutated in place
func (pq *PriorityQueue[E]) PeekUpdate() {
	heap.Fix(&pq.ipq, 0)
}

func (pq *innerPriorityQueue[E]) Len() int {
	return len(pq.items)
}

func (pq *innerPriorityQueue[E]) Less(i, j int) bool {
	return pq.lessFunc(pq.items[i], pq.items[j])
}

func (pq *innerPriorityQueue[E]) Swap(i, j int) {
	pq.items[i], pq.items[j] = pq.items[j], pq.items[i]
}

func (pq *innerPriorityQueue[E]) Push(x any) {
	pq.items = append(pq.items, x.(E))
}

func (pq *innerPriorityQueue[E]) Pop() any {
	old := pq.items
	n := len(old)
	item := old[n-1]
	pq.items = old[0 : n-1]
	return item
}
