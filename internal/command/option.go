package command

import (
	"fmt"
	"regexp"
	"slices"
	"strings"
)

var (
	shortOptionPattern = regexp.MustCompile(`^-[A-Za-z]$`)
	longOptionPattern  = regexp.MustCompile(`^--\w+$`)
)

// IsShortOption reports whether s is a dash followed by a single letter.
func IsShortOption(s string) bool {
	return shortOptionPattern.MatchString(s)
}

// IsLongOption reports whether s is two dashes followed by word characters.
func IsLongOption(s string) bool {
	return longOptionPattern.MatchString(s)
}

// Option is the immutable definition of a command flag.
type Option struct {
	short       string
	long        string
	description string
	arg         *Argument
	group       *MutexGroup
}

// NewOption parses a spec such as "-p --pizza" into an Option.
// The optional argument receives the single token following the flag.
func NewOption(spec, description string, arg *Argument) (*Option, error) {
	names := strings.Fields(spec)
	if len(names) == 0 {
		return nil, ErrEmptyOptionSpec
	}

	opt := &Option{description: description}
	if IsShortOption(names[0]) {
		opt.short = names[0]
		names = names[1:]
	}
	if len(names) > 0 && IsLongOption(names[0]) {
		opt.long = names[0]
	}
	if opt.short == "" && opt.long == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidOptionName, spec)
	}

	if arg != nil {
		if arg.Variadic() {
			return nil, fmt.Errorf("%w: argument %q", ErrVariadicOptionArgument, arg.Name())
		}
		opt.arg = arg
	}

	return opt, nil
}

// MustOption is like NewOption but panics on error.
// It is intended for package-level command definitions.
func MustOption(spec, description string, arg *Argument) *Option {
	opt, err := NewOption(spec, description, arg)
	if err != nil {
		panic(err)
	}
	return opt
}

// Short returns the short name, e.g. "-p", or "".
func (o *Option) Short() string { return o.short }

// Long returns the long name, e.g. "--pizza", or "".
func (o *Option) Long() string { return o.long }

// Description returns the help text.
func (o *Option) Description() string { return o.description }

// Argument returns the option argument, or nil.
func (o *Option) Argument() *Argument { return o.arg }

// Group returns the mutex group the option belongs to, or nil.
func (o *Option) Group() *MutexGroup { return o.group }

// Names returns the non-empty names of the option.
func (o *Option) Names() []string {
	names := make([]string, 0, 2)
	if o.short != "" {
		names = append(names, o.short)
	}
	if o.long != "" {
		names = append(names, o.long)
	}
	return names
}

// Flag returns the names joined by ", " without the argument.
func (o *Option) Flag() string {
	return strings.Join(o.Names(), ", ")
}

// String returns the names and, if present, the argument, e.g. "-s [k]".
func (o *Option) String() string {
	if o.arg == nil {
		return o.Flag()
	}
	return o.Flag() + " " + o.arg.String()
}

// MutexGroup is a set of options of which at most one may be enabled per invocation.
type MutexGroup struct {
	members []*Option
}

// NewMutexGroup groups the options. An option joining a second group leaves the first.
func NewMutexGroup(options ...*Option) *MutexGroup {
	g := &MutexGroup{}
	for _, opt := range options {
		if slices.Contains(g.members, opt) {
			continue
		}
		if opt.group != nil {
			opt.group.remove(opt)
		}
		opt.group = g
		g.members = append(g.members, opt)
	}
	return g
}

// Members returns the grouped options.
func (g *MutexGroup) Members() []*Option {
	return slices.Clone(g.members)
}

// Contains reports whether opt belongs to the group.
func (g *MutexGroup) Contains(opt *Option) bool {
	return slices.Contains(g.members, opt)
}

func (g *MutexGroup) remove(opt *Option) {
	g.members = slices.DeleteFunc(g.members, func(o *Option) bool { return o == opt })
}

// Flags records which options were enabled during a single invocation.
type Flags struct {
	enabled map[*Option]bool
	groups  map[*MutexGroup]*Option
	inputs  map[*Option]*Input
}

// NewFlags returns an empty Flags.
func NewFlags() *Flags {
	return &Flags{
		enabled: make(map[*Option]bool),
		groups:  make(map[*MutexGroup]*Option),
		inputs:  make(map[*Option]*Input),
	}
}

// Enable turns the option on. For a grouped option it succeeds only while
// no member of the group is enabled; later members are ignored.
func (f *Flags) Enable(opt *Option) bool {
	if g := opt.group; g != nil {
		if f.groups[g] != nil || !g.Contains(opt) {
			return false
		}
		f.groups[g] = opt
	}
	f.enabled[opt] = true
	return true
}

// Enabled reports whether the option was enabled.
func (f *Flags) Enabled(opt *Option) bool {
	return f.enabled[opt]
}

// EnabledIn returns the enabled member of the group, or nil.
func (f *Flags) EnabledIn(g *MutexGroup) *Option {
	return f.groups[g]
}

// Input returns the argument input of opt, or nil if it takes no argument.
func (f *Flags) Input(opt *Option) *Input {
	if opt.arg == nil {
		return nil
	}
	in, ok := f.inputs[opt]
	if !ok {
		in = opt.arg.NewInput()
		f.inputs[opt] = in
	}
	return in
}
