package command

import "errors"

// Definition errors. These are configuration mistakes caught at construction time.
var (
	// ErrEmptyOptionSpec is returned when an option spec is blank.
	ErrEmptyOptionSpec = errors.New("option spec cannot be empty")

	// ErrInvalidOptionName is returned when a spec has neither a short nor a long name.
	ErrInvalidOptionName = errors.New("option must have a short or a long name")

	// ErrVariadicOptionArgument is returned when an option is given a variadic argument.
	ErrVariadicOptionArgument = errors.New("option argument must not be variadic")

	// ErrDuplicateAlias is returned when a command alias is registered twice.
	ErrDuplicateAlias = errors.New("alias already exists")

	// ErrDuplicateOption is returned when an option name is registered twice.
	ErrDuplicateOption = errors.New("option already exists")

	// ErrMissingName is returned when a command definition has no name.
	ErrMissingName = errors.New("command name cannot be empty")
)
