package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewList(t *testing.T) {
	list := NewList[int]()
	assert.Nil(t, list.Head)
	assert.Nil(t, list.Tail)
	assert.Equal(t, 0, list.Len())
}

func TestAddNodeHead(t *testing.T) {
	list := NewList[int]()
	list.AddNodeHead(5)
	list.AddNodeHead(3)
	assert.Equal(t, 3, list.Head.Value)
	assert.Equal(t, 5, list.Tail.Value)
	assert.Equal(t, []int{3, 5}, list.Values())
}

func TestAddNodeTail(t *testing.T) {
	list := NewList[int]()
	list.AddNodeTail(5)
	assert.Equal(t, 5, list.Head.Value)
	assert.Equal(t, 5, list.Tail.Value)
	assert.Equal(t, 1, list.Len())

	list.AddNodeTail(10)
	assert.Equal(t, 5, list.Head.Value)
	assert.Equal(t, 10, list.Tail.Value)
	assert.Equal(t, 2, list.Len())
}

func TestRemoveNode(t *testing.T) {
	list := NewList[string]()
	a := list.AddNodeTail("a")
	b := list.AddNodeTail("b")
	c := list.AddNodeTail("c")

	assert.True(t, list.RemoveNode(b))
	assert.Equal(t, []string{"a", "c"}, list.Values())

	assert.False(t, list.RemoveNode(b), "second removal is a no-op")
	assert.Equal(t, 2, list.Len())

	assert.True(t, list.RemoveNode(a))
	assert.True(t, list.RemoveNode(c))
	assert.Nil(t, list.Head)
	assert.Nil(t, list.Tail)
	assert.Equal(t, 0, list.Len())
}

func TestRemoveNodeFromOtherList(t *testing.T) {
	one, two := NewList[int](), NewList[int]()
	n := one.AddNodeTail(1)
	two.AddNodeTail(2)

	assert.False(t, two.RemoveNode(n))
	assert.Equal(t, 1, one.Len())
	assert.Equal(t, 1, two.Len())
}

func TestEmpty(t *testing.T) {
	list := NewList[int]()
	n := list.AddNodeTail(5)
	list.AddNodeTail(10)
	list.Empty()
	assert.Nil(t, list.Head)
	assert.Nil(t, list.Tail)
	assert.Equal(t, 0, list.Len())
	assert.False(t, list.RemoveNode(n))
}
