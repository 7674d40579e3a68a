package usecases

import (
	"github.com/disgoorg/snowflake/v2"

	"github.com/sglre6355/pinkbean/internal/modules/music_player/domain"
)

// AddInput contains the input for the Add use case.
type AddInput struct {
	GuildID               snowflake.ID
	NotificationChannelID snowflake.ID // Optional: updates notification channel if non-zero
	Songs                 []*domain.Song
}

// AddOutput contains the result of the Add use case.
type AddOutput struct {
	Added []*domain.Song
	// Full is true when the queue has no room left after adding.
	Full bool
}

// ListOutput contains the result of the List use case.
type ListOutput struct {
	Songs  []*domain.Song
	Status domain.PlaybackStatus
}

// QueueService handles queue operations that do not touch the stream.
type QueueService struct {
	repo domain.PlayerStateRepository
}

// NewQueueService creates a new QueueService.
func NewQueueService(repo domain.PlayerStateRepository) *QueueService {
	return &QueueService{repo: repo}
}

// Add appends songs until the queue is full. It fails with ErrQueueFull
// only when none could be added.
func (q *QueueService) Add(input AddInput) (*AddOutput, error) {
	state, _ := q.repo.GetOrCreate(input.GuildID)

	state.Lock()
	defer state.Unlock()

	if input.NotificationChannelID != 0 {
		state.SetNotificationChannelID(input.NotificationChannelID)
	}

	output := &AddOutput{}
	for _, song := range input.Songs {
		if !state.Queue.Add(song) {
			break
		}
		output.Added = append(output.Added, song)
	}
	output.Full = state.Queue.IsFull()

	if len(output.Added) == 0 && len(input.Songs) > 0 {
		return output, ErrQueueFull
	}
	return output, nil
}

// IsFull reports whether the guild queue has no room left.
func (q *QueueService) IsFull(guildID snowflake.ID) bool {
	state := q.repo.Get(guildID)
	if state == nil {
		return false
	}

	state.Lock()
	defer state.Unlock()
	return state.Queue.IsFull()
}

// List returns the songs of the guild queue in order.
func (q *QueueService) List(guildID snowflake.ID) (*ListOutput, error) {
	state := q.repo.Get(guildID)
	if state == nil {
		return nil, ErrQueueEmpty
	}

	state.Lock()
	defer state.Unlock()

	if state.Queue.IsEmpty() {
		return nil, ErrQueueEmpty
	}
	return &ListOutput{
		Songs:  state.Queue.Songs(),
		Status: state.Status(),
	}, nil
}

// Shuffle randomizes every song after the head.
func (q *QueueService) Shuffle(guildID snowflake.ID) error {
	state := q.repo.Get(guildID)
	if state == nil {
		return ErrQueueTooShort
	}

	state.Lock()
	defer state.Unlock()

	if !state.Queue.Shuffle() {
		return ErrQueueTooShort
	}
	return nil
}
