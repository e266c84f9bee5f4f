package dashboard

import (
	"sync"

	"proptrackrr/web/internal/models"
)

// Board is one session's view of its broker's listings. Fetches are tagged with a
// generation so that a slow, older fetch never overwrites a newer one.
type Board struct {
	mu         sync.Mutex
	generation uint64
	properties []models.Property
	loaded     bool
}

// Begin starts a fetch and returns its generation token
func (b *Board) Begin() uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.generation++
	return b.generation
}

// Apply stores the result of the fetch started with gen. It returns false and drops the
// result when a newer fetch has started since.
func (b *Board) Apply(gen uint64, props []models.Property) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if gen != b.generation {
		return false
	}
	sorted := make([]models.Property, len(props))
	copy(sorted, props)
	SortForDisplay(sorted)
	b.properties = sorted
	b.loaded = true
	return true
}

// Snapshot returns a copy of the canonical list and whether anything was fetched yet
func (b *Board) Snapshot() ([]models.Property, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]models.Property, len(b.properties))
	copy(out, b.properties)
	return out, b.loaded
}

// Find looks a property up in the canonical list
func (b *Board) Find(id int64) (models.Property, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, p := range b.properties {
		if p.ID == id {
			return p, true
		}
	}
	return models.Property{}, false
}

// Boards holds a Board per session
type Boards struct {
	mu     sync.Mutex
	boards map[string]*Board
}

func NewBoards() *Boards {
	return &Boards{boards: make(map[string]*Board)}
}

func (b *Boards) Get(sessionID string) *Board {
	b.mu.Lock()
	defer b.mu.Unlock()
	board, ok := b.boards[sessionID]
	if !ok {
		board = &Board{}
		b.boards[sessionID] = board
	}
	return board
}

// Drop forgets a session's board, e.g. on logout
func (b *Boards) Drop(sessionID string) {
	b.mu.Lock()
	delete(b.boards, sessionID)
	b.mu.Unlock()
}
