package command

import (
	"fmt"
	"slices"
	"strings"
	"time"
)

// Category groups commands in the help listing.
type Category string

const (
	CategoryMapleStory Category = "MapleStory"
	CategoryMusic      Category = "Music"
	CategoryGeneral    Category = "General"
)

// Example documents one way of invoking a command.
type Example struct {
	// Args follows the command name. Alternatives are separated by "||".
	Args    string
	Explain string
}

// Spec is the input to NewDefinition.
type Spec struct {
	Name        string
	Aliases     []string
	Description string
	// Brief overrides the description in command listings.
	Brief     string
	Category  Category
	Color     int
	AdminOnly bool
	// Cooldown is the per-guild window during which the command cannot run again.
	Cooldown time.Duration
	Argument *Argument
	// ArgumentDescriptions replaces the generated description of Argument.
	ArgumentDescriptions []string
	Options              []*Option
	Examples             []Example
}

// Definition is the immutable description of a chat command.
type Definition struct {
	name            string
	aliases         []string
	description     string
	brief           string
	category        Category
	color           int
	adminOnly       bool
	cooldown        time.Duration
	argument        *Argument
	argDescriptions []string
	options         []*Option
	optionIndex     map[string]*Option
	help            *Option
	longestOption   int
	examples        []Example
}

// NewDefinition validates spec and builds a Definition.
// Every definition carries a "-h --help" option.
func NewDefinition(spec Spec) (*Definition, error) {
	if spec.Name == "" {
		return nil, ErrMissingName
	}

	d := &Definition{
		name:        spec.Name,
		aliases:     []string{spec.Name},
		description: spec.Description,
		brief:       spec.Brief,
		category:    spec.Category,
		color:       spec.Color,
		adminOnly:   spec.AdminOnly,
		cooldown:    spec.Cooldown,
		argument:    spec.Argument,
		optionIndex: make(map[string]*Option),
		examples:    slices.Clone(spec.Examples),
		help:        MustOption("-h --help", "show command help", nil),
	}

	for _, alias := range spec.Aliases {
		if slices.Contains(d.aliases, alias) {
			return nil, fmt.Errorf("%w: %q for command %q", ErrDuplicateAlias, alias, d.name)
		}
		d.aliases = append(d.aliases, alias)
	}

	for _, opt := range append(slices.Clone(spec.Options), d.help) {
		if err := d.addOption(opt); err != nil {
			return nil, err
		}
	}

	d.argDescriptions = d.describeArgument(spec.ArgumentDescriptions)

	return d, nil
}

// MustDefinition is like NewDefinition but panics on error.
func MustDefinition(spec Spec) *Definition {
	d, err := NewDefinition(spec)
	if err != nil {
		panic(err)
	}
	return d
}

func (d *Definition) addOption(opt *Option) error {
	for _, name := range opt.Names() {
		if _, ok := d.optionIndex[name]; ok {
			return fmt.Errorf("%w: %q for command %q", ErrDuplicateOption, opt.String(), d.name)
		}
	}
	for _, name := range opt.Names() {
		d.optionIndex[name] = opt
	}
	d.options = append(d.options, opt)
	d.longestOption = max(d.longestOption, len(opt.String()))
	return nil
}

func (d *Definition) describeArgument(custom []string) []string {
	if d.argument == nil {
		return nil
	}
	if len(custom) > 0 {
		return slices.Clone(custom)
	}

	var descriptions []string
	if preset := d.argument.Preset(); len(preset) > 0 {
		quoted := make([]string, len(preset))
		for i, v := range preset {
			quoted[i] = code(v)
		}
		descriptions = append(descriptions, "any one of: "+strings.Join(quoted, ", "))
	}
	if d.argument.Indexable() {
		if d.argument.Variadic() {
			descriptions = append(descriptions, "one or more numbers separated by space")
		} else {
			descriptions = append(descriptions, "an index number")
		}
	}
	if d.argument.Rangeable() {
		descriptions = append(descriptions,
			"a range of indexes in the form `a..b`. Omit `a` to start at the very first item; omit `b` to end at the very last item")
	}
	return descriptions
}

// Name returns the primary name.
func (d *Definition) Name() string { return d.name }

// Aliases returns every name the command answers to, primary name first.
func (d *Definition) Aliases() []string { return slices.Clone(d.aliases) }

// Description returns the full description.
func (d *Definition) Description() string { return d.description }

// Brief returns a one-line description for command listings.
func (d *Definition) Brief() string {
	if d.brief != "" {
		return d.brief
	}
	return strings.TrimSuffix(d.description, ".")
}

// Category returns the help category.
func (d *Definition) Category() Category { return d.category }

// Color returns the embed color used by the command.
func (d *Definition) Color() int { return d.color }

// AdminOnly reports whether the command requires administrator permission.
func (d *Definition) AdminOnly() bool { return d.adminOnly }

// Cooldown returns the per-guild cooldown, or 0.
func (d *Definition) Cooldown() time.Duration { return d.cooldown }

// Argument returns the positional argument, or nil.
func (d *Definition) Argument() *Argument { return d.argument }

// Options returns the options in declaration order, help last.
func (d *Definition) Options() []*Option { return slices.Clone(d.options) }

// HelpOption returns the option that requests command help.
func (d *Definition) HelpOption() *Option { return d.help }

// Option looks up an option by its short or long name.
func (d *Definition) Option(name string) (*Option, bool) {
	opt, ok := d.optionIndex[name]
	return opt, ok
}

// OptionNames returns every registered short and long name.
func (d *Definition) OptionNames() []string {
	names := make([]string, 0, len(d.optionIndex))
	for _, opt := range d.options {
		names = append(names, opt.Names()...)
	}
	return names
}
