package application

import (
	"log/slog"
	"sync"

	"github.com/disgoorg/snowflake/v2"
)

// guildWorkers runs jobs one at a time per guild, in submission order.
// Guilds never wait on each other and a guild's goroutine exits once its
// backlog is empty.
type guildWorkers struct {
	mu      sync.Mutex
	pending map[snowflake.ID][]func()
	wg      sync.WaitGroup
}

func newGuildWorkers() *guildWorkers {
	return &guildWorkers{pending: make(map[snowflake.ID][]func())}
}

// Submit queues job for guildID without blocking.
func (w *guildWorkers) Submit(guildID snowflake.ID, job func()) {
	w.mu.Lock()
	defer w.mu.Unlock()

	jobs, running := w.pending[guildID]
	w.pending[guildID] = append(jobs, job)
	if running {
		return
	}

	w.wg.Add(1)
	go w.run(guildID)
}

func (w *guildWorkers) run(guildID snowflake.ID) {
	defer w.wg.Done()
	for {
		w.mu.Lock()
		jobs := w.pending[guildID]
		if len(jobs) == 0 {
			delete(w.pending, guildID)
			w.mu.Unlock()
			return
		}
		job := jobs[0]
		w.pending[guildID] = jobs[1:]
		w.mu.Unlock()

		w.invoke(guildID, job)
	}
}

func (w *guildWorkers) invoke(guildID snowflake.ID, job func()) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("guild job panicked", "guild", guildID, "panic", r)
		}
	}()
	job()
}

// Wait blocks until every queued job has run.
func (w *guildWorkers) Wait() {
	w.wg.Wait()
}
