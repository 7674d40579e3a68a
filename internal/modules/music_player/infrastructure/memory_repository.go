package infrastructure

import (
	"sync"

	"github.com/disgoorg/snowflake/v2"

	"github.com/sglre6355/pinkbean/internal/modules/music_player/domain"
)

// MemoryRepository is an in-memory implementation of PlayerStateRepository.
type MemoryRepository struct {
	mu            sync.RWMutex
	states        map[snowflake.ID]*domain.PlayerState
	queueCapacity int
}

// NewMemoryRepository creates a new MemoryRepository whose queues hold up to
// queueCapacity songs. A non-positive capacity means domain.MaxQueueSize.
func NewMemoryRepository(queueCapacity int) *MemoryRepository {
	if queueCapacity <= 0 {
		queueCapacity = domain.MaxQueueSize
	}
	return &MemoryRepository{
		states:        make(map[snowflake.ID]*domain.PlayerState),
		queueCapacity: queueCapacity,
	}
}

// Get returns the PlayerState for the given guild, or nil if not exists.
func (r *MemoryRepository) Get(guildID snowflake.ID) *domain.PlayerState {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.states[guildID]
}

// GetOrCreate returns the PlayerState for the guild, creating an idle one
// when none exists.
func (r *MemoryRepository) GetOrCreate(guildID snowflake.ID) (*domain.PlayerState, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if state, ok := r.states[guildID]; ok {
		return state, false
	}
	state := domain.NewPlayerState(guildID, domain.NewQueueWithCapacity(r.queueCapacity))
	r.states[guildID] = state
	return state, true
}

// Delete removes the PlayerState for the given guild.
func (r *MemoryRepository) Delete(guildID snowflake.ID) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.states, guildID)
}

// All returns every stored PlayerState.
func (r *MemoryRepository) All() []*domain.PlayerState {
	r.mu.RLock()
	defer r.mu.RUnlock()

	states := make([]*domain.PlayerState, 0, len(r.states))
	for _, state := range r.states {
		states = append(states, state)
	}
	return states
}

// Count returns the number of player states (for testing/monitoring).
func (r *MemoryRepository) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.states)
}

// Ensure MemoryRepository implements PlayerStateRepository.
var _ domain.PlayerStateRepository = (*MemoryRepository)(nil)
