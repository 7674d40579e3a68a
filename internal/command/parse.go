package command

import "strings"

// Invocation is the disposable result of parsing one command message.
type Invocation struct {
	def    *Definition
	prefix string
	name   string
	flags  *Flags
	input  *Input
	// invalid is the first option token that matched no option.
	invalid string
}

// Parse scans tokens left to right. Tokens starting with "-" are looked up as
// options, a token following an option with an argument feeds that argument,
// and everything else feeds the positional argument. Scanning stops as soon
// as help is requested.
func (d *Definition) Parse(prefix, invokedName string, tokens []string) *Invocation {
	inv := &Invocation{
		def:    d,
		prefix: prefix,
		name:   invokedName,
		flags:  NewFlags(),
	}
	if d.argument != nil {
		inv.input = d.argument.NewInput()
	}

	var previous *Option
	for _, token := range tokens {
		switch {
		case strings.HasPrefix(token, "-"):
			previous = inv.parseOption(token)
		case previous != nil && previous.arg != nil:
			inv.flags.Input(previous).Add(token)
			previous = nil
		case inv.input != nil:
			inv.input.Add(token)
		}
		if inv.flags.Enabled(d.help) {
			break
		}
	}

	return inv
}

func (inv *Invocation) parseOption(token string) *Option {
	opt, ok := inv.def.optionIndex[token]
	if !ok {
		if inv.invalid == "" {
			inv.invalid = token
		}
		return nil
	}
	inv.flags.Enable(opt)
	return opt
}

// Definition returns the parsed command.
func (inv *Invocation) Definition() *Definition { return inv.def }

// Prefix returns the guild prefix the command was invoked with.
func (inv *Invocation) Prefix() string { return inv.prefix }

// Name returns the name or alias the command was invoked by.
func (inv *Invocation) Name() string { return inv.name }

// FullName returns the prefix followed by the invoked name.
func (inv *Invocation) FullName() string { return inv.prefix + inv.name }

// HelpRequested reports whether the help option was given.
func (inv *Invocation) HelpRequested() bool { return inv.flags.Enabled(inv.def.help) }

// InvalidOption returns the first unknown option token, or "".
func (inv *Invocation) InvalidOption() string { return inv.invalid }

// Enabled reports whether opt was given.
func (inv *Invocation) Enabled(opt *Option) bool { return inv.flags.Enabled(opt) }

// EnabledIn returns the enabled member of g, or nil.
func (inv *Invocation) EnabledIn(g *MutexGroup) *Option { return inv.flags.EnabledIn(g) }

// Input returns the positional argument input. It is never nil; a command
// without an argument yields an empty input.
func (inv *Invocation) Input() *Input {
	if inv.input == nil {
		return NewArgument(ArgumentSpec{}).NewInput()
	}
	return inv.input
}

// OptionInput returns the argument input of opt, or nil if opt takes none.
func (inv *Invocation) OptionInput(opt *Option) *Input {
	return inv.flags.Input(opt)
}
