package bot

import "errors"

var (
	// ErrDuplicateModule is returned when two modules share a name.
	ErrDuplicateModule = errors.New("module already registered")

	// ErrDuplicateCommand is returned when a command name or alias is taken.
	ErrDuplicateCommand = errors.New("command alias already registered")

	// ErrCollectorTimeout is returned by Collector.Next after the idle timeout.
	ErrCollectorTimeout = errors.New("collector timed out")

	// ErrCollectorStopped is returned by Collector.Next once the collector is stopped.
	ErrCollectorStopped = errors.New("collector stopped")
)
