package list

import (
	"fmt"

	"github.com/nobletooth/deque/pkg/utils"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	nodesAllocated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "list_nodes_allocated_total",
		Help: "Total number of list nodes created by inserts.",
	})
	nodesReclaimed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "list_nodes_reclaimed_total",
		Help: "Total number of list nodes whose element was moved out by removals.",
	})
)

// node holds one element of a DoubleEnded list.
// A node is owned by the structural links pointing at it: the head and tail anchors of its list, its predecessor's
// `next` and its successor's `prev`. `owners` counts those links, so a node inside a list always has exactly two.
type node[T any] struct {
	element    T
	prev, next *node[T]
	owners     int
	borrow     borrowState // Guards `element`, `prev` and `next`.
}

// newNode creates an unlinked node holding `element`.
func newNode[T any](element T) *node[T] {
	nodesAllocated.Inc()
	return &node[T]{element: element}
}

// retain records a new structural link to `n`. nil targets are ignored.
func retain[T any](n *node[T]) {
	if n != nil {
		n.owners++
	}
}

// release drops a structural link to `n`. nil targets are ignored.
func release[T any](n *node[T]) {
	if n == nil {
		return
	}
	if n.owners <= 0 {
		utils.RaiseInvariant("list", "negative_owners", "Released a node that had no owners left.",
			"owners", n.owners)
		n.owners = 0
		return
	}
	n.owners--
}

// link makes `b` the successor of `a` in both directions. Both nodes must be exclusively held by the caller.
func link[T any](a, b *node[T]) {
	release(a.next)
	a.next = b
	retain(b)

	release(b.prev)
	b.prev = a
	retain(a)
}

// unlink cuts the `a` -> `b` adjacency in both directions. Both nodes must be exclusively held by the caller.
func unlink[T any](a, b *node[T]) {
	if a.next != b || b.prev != a {
		utils.FailInvariant("list", "inconsistent_links", ErrOwnershipViolation,
			"Adjacent nodes don't point at each other.")
	}
	a.next = nil
	release(b)
	b.prev = nil
	release(a)
}

// reclaim moves the element out of a detached node and leaves the node empty.
// Every structural link must already be gone and no reader may hold a borrow on it.
func reclaim[T any](n *node[T]) T {
	if n.borrow.readers > 0 {
		utils.FailInvariant("list", "borrow_conflict",
			fmt.Errorf("%w: removed element is still borrowed", ErrBorrowConflict),
			"Reclaiming a node with an outstanding borrow.", "readers", n.borrow.readers)
	}
	if n.owners != 0 || n.prev != nil || n.next != nil {
		utils.FailInvariant("list", "residual_owners",
			fmt.Errorf("%w: detached node still has %d owners", ErrOwnershipViolation, n.owners),
			"Reclaiming a node that is still referenced.", "owners", n.owners)
	}
	element := n.element
	var zero T
	n.element = zero
	nodesReclaimed.Inc()
	return element
}
