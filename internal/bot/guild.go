package bot

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/sglre6355/pinkbean/internal/storage"
)

// Prefix is the text a message must start with to invoke a command.
type Prefix struct {
	Content string
	// Space requires whitespace between the prefix and the command name.
	Space bool
}

// String returns the prefix as it must appear in a message.
func (p Prefix) String() string {
	if p.Space {
		return p.Content + " "
	}
	return p.Content
}

// PrefixStore persists guild prefixes.
type PrefixStore interface {
	LoadPrefix(ctx context.Context, guildID string) (*storage.Prefix, error)
	SavePrefix(ctx context.Context, p *storage.Prefix) error
	DeletePrefix(ctx context.Context, guildID string) error
}

var _ PrefixStore = (*storage.Store)(nil)

// Guild is the per-guild state of the dispatcher.
type Guild struct {
	id  string
	now func() time.Time

	mu        sync.Mutex
	prefix    Prefix
	loaded    bool
	cooldowns map[string]time.Time
}

// ID returns the guild ID.
func (g *Guild) ID() string { return g.id }

// Prefix returns the current prefix.
func (g *Guild) Prefix() Prefix {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.prefix
}

// TryCooldown starts the cooldown of name for d and reports true, or reports
// false if name is still cooling down.
func (g *Guild) TryCooldown(name string, d time.Duration) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.now()
	if until, ok := g.cooldowns[name]; ok && now.Before(until) {
		return false
	}
	g.cooldowns[name] = now.Add(d)
	return true
}

// OnCooldown reports whether name is cooling down.
func (g *Guild) OnCooldown(name string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	until, ok := g.cooldowns[name]
	return ok && g.now().Before(until)
}

func (g *Guild) setPrefix(p Prefix) {
	g.mu.Lock()
	g.prefix = p
	g.loaded = true
	g.mu.Unlock()
}

// GuildRegistry lazily creates guild states, loading stored prefixes.
type GuildRegistry struct {
	store         PrefixStore
	defaultPrefix Prefix
	now           func() time.Time

	mu     sync.Mutex
	guilds map[string]*Guild
}

// NewGuildRegistry creates a registry. Guilds without a stored prefix use
// defaultPrefix.
func NewGuildRegistry(store PrefixStore, defaultPrefix Prefix) *GuildRegistry {
	return &GuildRegistry{
		store:         store,
		defaultPrefix: defaultPrefix,
		now:           time.Now,
		guilds:        make(map[string]*Guild),
	}
}

// DefaultPrefix returns the prefix of guilds that have not set one.
func (r *GuildRegistry) DefaultPrefix() Prefix {
	return r.defaultPrefix
}

// Get returns the state of guildID, creating it on first use. The stored
// prefix is loaded once; a failed load keeps the default prefix and is
// retried on the next call.
func (r *GuildRegistry) Get(ctx context.Context, guildID string) *Guild {
	r.mu.Lock()
	g, ok := r.guilds[guildID]
	if !ok {
		g = &Guild{
			id:        guildID,
			now:       r.now,
			prefix:    r.defaultPrefix,
			cooldowns: make(map[string]time.Time),
		}
		r.guilds[guildID] = g
	}
	r.mu.Unlock()

	g.mu.Lock()
	loaded := g.loaded
	g.mu.Unlock()
	if loaded || r.store == nil {
		return g
	}

	stored, err := r.store.LoadPrefix(ctx, guildID)
	if err != nil {
		slog.Warn("failed to load guild prefix", "guild", guildID, "error", err)
		return g
	}
	if stored != nil {
		g.setPrefix(Prefix{Content: stored.Content, Space: stored.Space})
	} else {
		g.setPrefix(r.defaultPrefix)
	}
	return g
}

// SetPrefix persists and applies a new guild prefix. The in-memory prefix
// is left unchanged when saving fails.
func (r *GuildRegistry) SetPrefix(ctx context.Context, guildID string, p Prefix) error {
	if r.store != nil {
		err := r.store.SavePrefix(ctx, &storage.Prefix{
			GuildID: guildID,
			Content: p.Content,
			Space:   p.Space,
		})
		if err != nil {
			return fmt.Errorf("save prefix: %w", err)
		}
	}
	r.Get(ctx, guildID).setPrefix(p)
	return nil
}

// Remove forgets a guild and deletes its stored prefix.
func (r *GuildRegistry) Remove(ctx context.Context, guildID string) error {
	r.mu.Lock()
	delete(r.guilds, guildID)
	r.mu.Unlock()

	if r.store == nil {
		return nil
	}
	return r.store.DeletePrefix(ctx, guildID)
}

// Len returns the number of known guilds.
func (r *GuildRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.guilds)
}
