// Package list implements DoubleEnded, a generic doubly linked list with inserts, removals and peeks at both ends.
//
// Every node is reachable from two directions (its predecessor's next link and its successor's prev link) and the
// end nodes are additionally held by the list's head/tail anchors. Instead of relying on "someone still points at it"
// implicitly, each node counts its structural links; removals detach a node from all of them and then verify the
// count dropped to zero before moving the element out. Element reads go through run-time borrow tracking
// (see borrow.go), so peeking and mutating the same node at once fails fast.
//
// A DoubleEnded is not safe for concurrent use; callers sharing one across goroutines must lock around it.
package list

// DoubleEnded is a doubly linked list that only exposes its two ends. The zero value is an empty list ready to use.
//
// Both anchors are nil iff the list is empty; in a single element list they point at the same node.
type DoubleEnded[T any] struct {
	head *node[T]
	tail *node[T]
}

// New returns an empty list.
func New[T any]() *DoubleEnded[T] {
	return new(DoubleEnded[T])
}

// setHead moves the head anchor to `n`, which may be nil.
func (l *DoubleEnded[T]) setHead(n *node[T]) {
	retain(n) // Retain first so that re-anchoring the same node never drops it to zero owners.
	release(l.head)
	l.head = n
}

// setTail moves the tail anchor to `n`, which may be nil.
func (l *DoubleEnded[T]) setTail(n *node[T]) {
	retain(n)
	release(l.tail)
	l.tail = n
}

// InsertFront adds `element` to the front of the list.
func (l *DoubleEnded[T]) InsertFront(element T) {
	oldHead := l.head
	if oldHead == nil { // List was empty.
		n := newNode(element)
		l.setHead(n)
		l.setTail(n)
		return
	}

	defer exclusive(oldHead)()
	n := newNode(element)
	link(n, oldHead)
	l.setHead(n)
}

// InsertBack adds `element` to the back of the list.
func (l *DoubleEnded[T]) InsertBack(element T) {
	oldTail := l.tail
	if oldTail == nil { // List was empty.
		n := newNode(element)
		l.setHead(n)
		l.setTail(n)
		return
	}

	defer exclusive(oldTail)()
	n := newNode(element)
	link(oldTail, n)
	l.setTail(n)
}

// RemoveFront removes the first element and returns it. It returns false if the list is empty.
func (l *DoubleEnded[T]) RemoveFront() (T, bool) {
	oldHead := l.head
	if oldHead == nil {
		var zero T
		return zero, false
	}

	newHead := oldHead.next
	defer exclusive(oldHead, newHead)()
	if newHead != nil {
		l.setHead(newHead)
		unlink(oldHead, newHead)
	} else { // Single element; both anchors point at oldHead.
		l.setHead(nil)
		l.setTail(nil)
	}
	return reclaim(oldHead), true
}

// RemoveBack removes the last element and returns it. It returns false if the list is empty.
func (l *DoubleEnded[T]) RemoveBack() (T, bool) {
	oldTail := l.tail
	if oldTail == nil {
		var zero T
		return zero, false
	}

	newTail := oldTail.prev
	defer exclusive(oldTail, newTail)()
	if newTail != nil {
		l.setTail(newTail)
		unlink(newTail, oldTail)
	} else {
		l.setHead(nil)
		l.setTail(nil)
	}
	return reclaim(oldTail), true
}

// PeekFront borrows the first element without removing it. It returns false if the list is empty.
// The caller must Release the returned Ref before mutating the front of the list.
func (l *DoubleEnded[T]) PeekFront() (*Ref[T], bool) {
	if l.head == nil {
		return nil, false
	}
	return share(l.head), true
}

// PeekBack borrows the last element without removing it. It returns false if the list is empty.
// The caller must Release the returned Ref before mutating the back of the list.
func (l *DoubleEnded[T]) PeekBack() (*Ref[T], bool) {
	if l.tail == nil {
		return nil, false
	}
	return share(l.tail), true
}

// Front returns a copy of the first element. It returns false if the list is empty.
func (l *DoubleEnded[T]) Front() (T, bool) {
	ref, ok := l.PeekFront()
	return copyOut(ref, ok)
}

// Back returns a copy of the last element. It returns false if the list is empty.
func (l *DoubleEnded[T]) Back() (T, bool) {
	ref, ok := l.PeekBack()
	return copyOut(ref, ok)
}

func copyOut[T any](ref *Ref[T], ok bool) (T, bool) {
	if !ok {
		var zero T
		return zero, false
	}
	defer ref.Release()
	return ref.Value(), true
}
