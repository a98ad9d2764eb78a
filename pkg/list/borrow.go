// Element access in a DoubleEnded list goes through run-time borrow tracking. Peeks take shared borrows that stay
// alive until the returned Ref is released; mutating calls take exclusive access to every node they write. A shared
// borrow and exclusive access on the same node never coexist: the conflicting call panics before it changes anything.
//
// The tracking guards against re-entrant misuse on a single goroutine, e.g. holding a peeked Ref across a removal of
// the same element. It is not a lock and does not make the list safe for concurrent use.

package list

import (
	"errors"
	"fmt"

	"github.com/nobletooth/deque/pkg/utils"
)

var (
	// ErrBorrowConflict is the panic value (wrapped) raised when a node is accessed while a conflicting borrow is
	// outstanding, or when a released Ref is read.
	ErrBorrowConflict = errors.New("conflicting borrow of a list element")
	// ErrOwnershipViolation is the panic value (wrapped) raised when a removed node is still referenced by a link.
	ErrOwnershipViolation = errors.New("list node ownership violated")
)

// borrowState is the run-time borrow bookkeeping of a single node.
type borrowState struct {
	readers int  // Outstanding shared borrows (live Refs).
	writing bool // Set while a mutating call holds the node.
}

// exclusive acquires write access to every non-nil node in `nodes` and returns the function that gives it back.
// All nodes are checked before any of them is marked, so a conflict panics without touching the list.
func exclusive[T any](nodes ...*node[T]) (releaseAll func()) {
	for _, n := range nodes {
		if n == nil {
			continue
		}
		if n.borrow.readers > 0 || n.borrow.writing {
			utils.FailInvariant("list", "borrow_conflict",
				fmt.Errorf("%w: element is held by %d readers", ErrBorrowConflict, n.borrow.readers),
				"Mutating a node with an outstanding borrow.",
				"readers", n.borrow.readers, "writing", n.borrow.writing)
		}
	}
	for _, n := range nodes {
		if n != nil {
			n.borrow.writing = true
		}
	}
	return func() {
		for _, n := range nodes {
			if n != nil {
				n.borrow.writing = false
			}
		}
	}
}

// share takes a shared borrow on `n`.
func share[T any](n *node[T]) *Ref[T] {
	if n.borrow.writing {
		utils.FailInvariant("list", "borrow_conflict",
			fmt.Errorf("%w: element is being mutated", ErrBorrowConflict),
			"Borrowing a node while it is being mutated.")
	}
	n.borrow.readers++
	return &Ref[T]{borrow: &sharedBorrow[T]{n: n}}
}

// sharedBorrow is one shared borrow of a node. Copies of a Ref point at the same sharedBorrow, so the borrow is
// given back exactly once however many copies release it.
type sharedBorrow[T any] struct {
	n *node[T] // nil once released.
}

// Ref is a shared borrow of a list element returned by peeks.
// While a Ref is held, calls that would write or remove the borrowed node panic with ErrBorrowConflict.
// Release it as soon as the element has been read.
type Ref[T any] struct {
	borrow *sharedBorrow[T]
}

// Value returns the borrowed element. It panics if the Ref was already released.
func (r *Ref[T]) Value() T {
	if r == nil || r.borrow == nil || r.borrow.n == nil {
		utils.FailInvariant("list", "released_borrow",
			fmt.Errorf("%w: read through a released reference", ErrBorrowConflict),
			"Reading an element through a released reference.")
	}
	return r.borrow.n.element
}

// Release ends the borrow. Releasing more than once, through any copy of the Ref, is a no-op.
func (r *Ref[T]) Release() {
	if r == nil || r.borrow == nil || r.borrow.n == nil {
		return
	}
	n := r.borrow.n
	r.borrow.n = nil
	if n.borrow.readers <= 0 {
		utils.FailInvariant("list", "borrow_conflict",
			fmt.Errorf("%w: released a borrow the node doesn't hold", ErrBorrowConflict),
			"Releasing a shared borrow below zero readers.", "readers", n.borrow.readers)
	}
	n.borrow.readers--
}
