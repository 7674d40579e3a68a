package command

import (
	"slices"
	"strings"
)

// HelpTitle is the title of every command help message.
const HelpTitle = "Command Help"

// HelpField is a titled block of a help message.
type HelpField struct {
	Name  string
	Value string
}

// Help is the rendered help of a command for one invocation.
type Help struct {
	Title       string
	Description string
	Fields      []HelpField
}

// Help renders the command help as seen by inv.
func (inv *Invocation) Help() Help {
	d := inv.def

	var b strings.Builder
	usage := inv.FullName()
	if d.argument != nil {
		usage += " " + d.argument.String()
	}
	b.WriteString(codeBlock(usage) + "\n")

	if len(d.aliases) > 1 {
		var others []string
		for _, alias := range d.aliases {
			if alias == inv.name {
				continue
			}
			others = append(others, code(inv.prefix+alias))
		}
		b.WriteString(bold("Aliases: ") + strings.Join(others, ", ") + "\n\n")
	}

	if d.adminOnly {
		b.WriteString(bold("(Admin and above only)") + "\n")
	}
	b.WriteString(d.description + "\n\n")

	if d.argument != nil && len(d.argDescriptions) > 0 {
		b.WriteString(code(d.argument.Name()) + " can be:\n")
		items := make([]string, len(d.argDescriptions))
		for i, desc := range d.argDescriptions {
			items[i] = " ⁃ " + desc
		}
		b.WriteString(strings.Join(items, "\n") + "\n\n")
	}

	if len(d.options) > 0 {
		lines := make([]string, len(d.options))
		for i, opt := range d.options {
			label := opt.String()
			lines[i] = label + strings.Repeat(" ", d.longestOption-len(label)) + "\t" + opt.description + "\t"
		}
		b.WriteString(bold("Options:") + codeBlock(strings.Join(lines, "\n")) + "\n")
	}

	fields := make([]HelpField, 0, len(d.examples))
	for _, example := range d.examples {
		fields = append(fields, HelpField{
			Name:  inv.exampleName(example.Args),
			Value: example.Explain,
		})
	}
	if len(fields) > 0 {
		b.WriteString(bold("Examples:"))
	}

	return Help{
		Title:       HelpTitle,
		Description: b.String(),
		Fields:      fields,
	}
}

func (inv *Invocation) exampleName(args string) string {
	alternatives := strings.Split(args, "||")
	rendered := make([]string, len(alternatives))
	for i, alt := range alternatives {
		rendered[i] = code(strings.TrimSpace(inv.FullName() + " " + strings.TrimSpace(alt)))
	}
	return strings.Join(rendered, " or ")
}

// InvalidOptionMessage explains the unknown option and suggests the closest one.
func (inv *Invocation) InvalidOptionMessage() string {
	return "The option " + code(Truncate(inv.invalid, 30)) +
		" does not exist for command " + code(inv.FullName()) +
		". Did you mean " + code(BestMatch(inv.invalid, inv.def.OptionNames())) + "?"
}

// AdminOnlyMessage tells a non-administrator that the command is restricted.
func (inv *Invocation) AdminOnlyMessage() string {
	return code(inv.FullName()) + " is for administrators only"
}

// CooldownMessage tells the user that the command is cooling down.
func (inv *Invocation) CooldownMessage() string {
	return code(inv.FullName()) + " is on cooldown"
}

// GroupByCategory groups definitions by category, preserving order within each.
func GroupByCategory(defs []*Definition, order ...Category) map[Category][]*Definition {
	grouped := make(map[Category][]*Definition, len(order))
	for _, d := range defs {
		if len(order) > 0 && !slices.Contains(order, d.category) {
			continue
		}
		grouped[d.category] = append(grouped[d.category], d)
	}
	return grouped
}
