package db

// ListNode is an element of a List. A node remembers its list so removing it
// twice, or through another list, is a no-op.
type ListNode[T any] struct {
	Prev  *ListNode[T]
	Next  *ListNode[T]
	Value T
	list  *List[T]
}

// List is a doubly linked list with O(1) removal through the node handle
// returned on insertion. It is not safe for concurrent use.
type List[T any] struct {
	Head   *ListNode[T]
	Tail   *ListNode[T]
	Length int
}

func NewList[T any]() *List[T] {
	return &List[T]{}
}

// AddNodeHead inserts value at the front and returns its node.
func (l *List[T]) AddNodeHead(value T) *ListNode[T] {
	node := &ListNode[T]{Value: value, list: l}
	if l.Head == nil {
		l.Head, l.Tail = node, node
	} else {
		node.Next, l.Head.Prev, l.Head = l.Head, node, node
	}
	l.Length++
	return node
}

// AddNodeTail inserts value at the back and returns its node.
func (l *List[T]) AddNodeTail(value T) *ListNode[T] {
	node := &ListNode[T]{Value: value, list: l}
	if l.Tail == nil {
		l.Head, l.Tail = node, node
	} else {
		node.Prev, l.Tail.Next, l.Tail = l.Tail, node, node
	}
	l.Length++
	return node
}

// RemoveNode unlinks node and reports whether it was still in the list.
func (l *List[T]) RemoveNode(node *ListNode[T]) bool {
	if node == nil || node.list != l {
		return false
	}
	if node.Prev != nil {
		node.Prev.Next = node.Next
	} else {
		l.Head = node.Next
	}
	if node.Next != nil {
		node.Next.Prev = node.Prev
	} else {
		l.Tail = node.Prev
	}
	node.Next, node.Prev, node.list = nil, nil, nil
	l.Length--
	return true
}

// Values returns the values from head to tail.
func (l *List[T]) Values() []T {
	out := make([]T, 0, l.Length)
	for n := l.Head; n != nil; n = n.Next {
		out = append(out, n.Value)
	}
	return out
}

// Empty detaches every node and leaves the list empty.
func (l *List[T]) Empty() {
	for n := l.Head; n != nil; {
		next := n.Next
		n.Next, n.Prev, n.list = nil, nil, nil
		n = next
	}
	l.Head, l.Tail = nil, nil
	l.Length = 0
}

// Len ...
func (l *List[T]) Len() int {
	return l.Length
}
