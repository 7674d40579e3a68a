package command

import (
	"regexp"
	"slices"
	"strconv"
	"strings"
)

var (
	naturalPattern = regexp.MustCompile(`^(\d+)$`)
	rangePattern   = regexp.MustCompile(`^(\d*)\.{2}(\d*)\s*$`)
)

// ArgumentSpec describes how an Argument accepts its input.
type ArgumentSpec struct {
	Name string
	// Preset restricts values to a fixed, case-insensitive set.
	// A non-empty preset disables Indexable and Rangeable.
	Preset []string
	// Indexable accepts 1-based index numbers, stored 0-based.
	Indexable bool
	// Rangeable accepts ranges in the form a..b and implies Indexable.
	Rangeable bool
	// Variadic accepts more than one token.
	Variadic bool
	// Natural accepts non-negative integers.
	Natural bool
}

// Argument is the immutable definition of a command or option argument.
type Argument struct {
	name      string
	preset    []string
	presetSet map[string]struct{}
	indexable bool
	rangeable bool
	variadic  bool
	natural   bool
}

// NewArgument builds an Argument, normalizing conflicting flags.
func NewArgument(spec ArgumentSpec) *Argument {
	arg := &Argument{
		name:      spec.Name,
		presetSet: make(map[string]struct{}, len(spec.Preset)),
		indexable: spec.Indexable,
		rangeable: spec.Rangeable,
		variadic:  spec.Variadic,
		natural:   spec.Natural,
	}

	for _, value := range spec.Preset {
		value = strings.ToLower(value)
		if _, ok := arg.presetSet[value]; ok {
			continue
		}
		arg.presetSet[value] = struct{}{}
		arg.preset = append(arg.preset, value)
	}

	if len(arg.preset) > 0 {
		arg.indexable = false
		arg.rangeable = false
	} else if arg.rangeable {
		arg.indexable = true
	}

	return arg
}

// Name returns the argument name.
func (a *Argument) Name() string { return a.name }

// Preset returns a copy of the lowercased preset values.
func (a *Argument) Preset() []string { return slices.Clone(a.preset) }

// Indexable reports whether index numbers are accepted.
func (a *Argument) Indexable() bool { return a.indexable }

// Rangeable reports whether ranges are accepted.
func (a *Argument) Rangeable() bool { return a.rangeable }

// Variadic reports whether more than one token is accepted.
func (a *Argument) Variadic() bool { return a.variadic }

// Natural reports whether non-negative integers are accepted.
func (a *Argument) Natural() bool { return a.natural }

// String renders the argument for usage lines, e.g. [INDEX].
func (a *Argument) String() string {
	return "[" + a.name + "]"
}

// NewInput returns an empty per-invocation input for the argument.
func (a *Argument) NewInput() *Input {
	return &Input{arg: a}
}

// Input accumulates the raw tokens supplied to an Argument during one invocation.
type Input struct {
	arg *Argument
	raw []string
}

// Argument returns the definition the input belongs to.
func (in *Input) Argument() *Argument {
	return in.arg
}

// Add appends a token. Blank tokens are ignored, and a non-variadic
// argument keeps only its first token.
func (in *Input) Add(token string) {
	token = strings.TrimSpace(token)
	if token == "" {
		return
	}
	if in.arg.variadic || len(in.raw) == 0 {
		in.raw = append(in.raw, token)
	}
}

// Raw returns the accumulated tokens.
func (in *Input) Raw() []string {
	return slices.Clone(in.raw)
}

// Text returns the accumulated tokens joined by a single space.
func (in *Input) Text() string {
	return strings.TrimSpace(strings.Join(in.raw, " "))
}

// Empty reports whether no token was supplied.
func (in *Input) Empty() bool {
	return in.Text() == ""
}

// Parse derives a Result from the accumulated tokens.
// Parsing is a pure function of the tokens and may be repeated.
func (in *Input) Parse() Result {
	return in.arg.ParseTokens(in.raw...)
}

// ParseTokens parses tokens as-is, without the filtering applied by Input.Add.
func (a *Argument) ParseTokens(tokens ...string) Result {
	p := parser{arg: a, seen: make(map[int]struct{})}
	for _, token := range tokens {
		if (!a.variadic && len(p.values) > 0) || p.err != "" {
			break
		}
		p.parseToken(token)
	}
	return p.result()
}

// Result is the parsed form of an Input.
type Result struct {
	Values []string
	Nums   []int
	Range  *Range
	// Error is a user-facing message; when set, the other fields are empty.
	Error string
}

// Value returns the first string value, or "" when there is none.
func (r Result) Value() string {
	if len(r.Values) == 0 {
		return ""
	}
	return r.Values[0]
}

// Num returns the first number and whether one was parsed.
func (r Result) Num() (int, bool) {
	if len(r.Nums) == 0 {
		return 0, false
	}
	return r.Nums[0], true
}

// Failed reports whether parsing produced an error.
func (r Result) Failed() bool {
	return r.Error != ""
}

type parser struct {
	arg    *Argument
	values []string
	nums   []int
	seen   map[int]struct{}
	rng    *Range
	err    string
}

func (p *parser) parseToken(token string) {
	if len(p.arg.preset) > 0 {
		p.parsePreset(token)
		return
	}
	if p.arg.indexable {
		if naturalPattern.MatchString(token) {
			p.parseIndex(token)
			return
		}
		if p.arg.rangeable && strings.Contains(token, "..") {
			p.parseRange(token)
			return
		}
		p.err = invalidInput(token) + "is not valid"
	}
	if p.arg.natural {
		p.parseNatural(token)
		return
	}
	p.values = append(p.values, token)
}

func (p *parser) parsePreset(token string) {
	token = strings.ToLower(token)
	if _, ok := p.arg.presetSet[token]; ok {
		p.values = append(p.values, token)
		return
	}
	p.err = invalidInput(token) + "is invalid. Did you mean " + code(BestMatch(token, p.arg.preset)) + " ?"
}

func (p *parser) parseIndex(token string) {
	n, err := strconv.Atoi(token)
	if err != nil || n <= 0 {
		p.err = invalidInput(token) + "is not a valid index number"
		return
	}
	p.addNum(n - 1)
}

func (p *parser) parseNatural(token string) {
	match := naturalPattern.FindStringSubmatch(token)
	if match == nil {
		p.err = invalidInput(token) + "is not valid"
		return
	}
	n, err := strconv.Atoi(match[1])
	if err != nil || n < 0 {
		p.err = invalidInput(token) + "is not valid"
		return
	}
	p.addNum(n)
}

// parseRange honors only the first range token of a parse.
func (p *parser) parseRange(token string) {
	if p.rng != nil {
		return
	}
	match := rangePattern.FindStringSubmatch(token)
	if match == nil {
		p.err = invalidInput(token) + "is not a valid range"
		return
	}

	begin, end := 0, Unbounded
	if match[1] != "" {
		n, err := strconv.Atoi(match[1])
		if err != nil {
			p.err = invalidInput(token) + "is not a valid range"
			return
		}
		begin = n - 1
	}
	if match[2] != "" {
		n, err := strconv.Atoi(match[2])
		if err != nil {
			p.err = invalidInput(token) + "is not a valid range"
			return
		}
		end = n - 1
	}
	if max(begin, end) < 0 {
		p.err = invalidInput(token) + "is not a valid range"
		return
	}

	r := NewRange(begin, end)
	p.rng = &r
}

func (p *parser) addNum(n int) {
	if _, ok := p.seen[n]; ok {
		return
	}
	p.seen[n] = struct{}{}
	p.nums = append(p.nums, n)
}

func (p *parser) result() Result {
	if p.err != "" {
		return Result{Error: p.err}
	}
	return Result{Values: p.values, Nums: p.nums, Range: p.rng}
}

func invalidInput(token string) string {
	return "The input value " + code(Truncate(token, 30)) + " "
}
