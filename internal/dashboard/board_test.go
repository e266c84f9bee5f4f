package dashboard

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"proptrackrr/web/internal/models"
)

func TestBoardDropsStaleFetch(t *testing.T) {
	board := &Board{}

	older := board.Begin()
	newer := board.Begin()

	assert.True(t, board.Apply(newer, []models.Property{{ID: 2}}))
	assert.False(t, board.Apply(older, []models.Property{{ID: 1}}))

	props, loaded := board.Snapshot()
	assert.True(t, loaded)
	assert.Equal(t, []int64{2}, ids(props))
}

func TestBoardApplySorts(t *testing.T) {
	board := &Board{}
	gen := board.Begin()
	board.Apply(gen, sampleProperties())

	props, _ := board.Snapshot()
	assert.Equal(t, []int64{4, 3, 1, 5, 2}, ids(props))

	p, ok := board.Find(3)
	assert.True(t, ok)
	assert.Equal(t, "3 BHK Villa", p.Title)

	_, ok = board.Find(99)
	assert.False(t, ok)
}

func TestBoardsPerSession(t *testing.T) {
	boards := NewBoards()
	a := boards.Get("a")
	assert.Same(t, a, boards.Get("a"))
	assert.NotSame(t, a, boards.Get("b"))

	boards.Drop("a")
	assert.NotSame(t, a, boards.Get("a"))
}
