package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func node(id int64, children ...*CategoryTree) *CategoryTree {
	return &CategoryTree{
		Category: Category{ID: id},
		Children: children,
	}
}

func TestCollectIDs_LevelOrder(t *testing.T) {
	// 1 -> [2, 3], 2 -> [4]
	tree := node(1,
		node(2, node(4)),
		node(3),
	)

	assert.Equal(t, []int64{1, 2, 3, 4}, CollectIDs(tree))
}

func TestCollectIDs_SingleNode(t *testing.T) {
	assert.Equal(t, []int64{1}, CollectIDs(node(1)))
}

func TestCollectIDs_Nil(t *testing.T) {
	assert.Nil(t, CollectIDs(nil))
}

func TestCollectIDs_DeepChain(t *testing.T) {
	// 1 -> 2 -> 3 -> 4, strictly linear
	tree := node(1, node(2, node(3, node(4))))

	assert.Equal(t, []int64{1, 2, 3, 4}, CollectIDs(tree))
}

func TestCollectIDs_WideLevel(t *testing.T) {
	tree := node(1, node(5), node(3), node(9))

	// Siblings are emitted in child order, not sorted by id.
	assert.Equal(t, []int64{1, 5, 3, 9}, CollectIDs(tree))
}
