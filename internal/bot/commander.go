package bot

import (
	"fmt"
	"strings"
	"sync"

	"github.com/sglre6355/pinkbean/internal/command"
)

// Commander maps command names and aliases to commands.
type Commander struct {
	mu       sync.RWMutex
	index    map[string]*Command
	commands []*Command
}

// NewCommander creates an empty Commander.
func NewCommander() *Commander {
	return &Commander{index: make(map[string]*Command)}
}

// Register adds commands. It fails without registering anything from the
// failing command if one of its aliases is already taken.
func (c *Commander) Register(cmds ...*Command) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, cmd := range cmds {
		if cmd == nil || cmd.Definition == nil || cmd.Handler == nil {
			return fmt.Errorf("invalid command: definition and handler are required")
		}
		aliases := cmd.Definition.Aliases()
		for _, alias := range aliases {
			if existing, ok := c.index[strings.ToLower(alias)]; ok {
				return fmt.Errorf("%w: %q used by %q and %q",
					ErrDuplicateCommand, alias, existing.Definition.Name(), cmd.Definition.Name())
			}
		}
		for _, alias := range aliases {
			c.index[strings.ToLower(alias)] = cmd
		}
		c.commands = append(c.commands, cmd)
	}
	return nil
}

// Lookup finds a command by name or alias, case-insensitively.
func (c *Commander) Lookup(name string) (*Command, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	cmd, ok := c.index[strings.ToLower(name)]
	return cmd, ok
}

// Commands returns the commands in registration order.
func (c *Commander) Commands() []*Command {
	c.mu.RLock()
	defer c.mu.RUnlock()
	result := make([]*Command, len(c.commands))
	copy(result, c.commands)
	return result
}

// Definitions returns the definitions in registration order.
func (c *Commander) Definitions() []*command.Definition {
	cmds := c.Commands()
	defs := make([]*command.Definition, len(cmds))
	for i, cmd := range cmds {
		defs[i] = cmd.Definition
	}
	return defs
}
