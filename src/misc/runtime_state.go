package misc

import "sync"

var (
	runtimeVerbosity     = 0
	runtimeVerbosityLock sync.RWMutex
)

// ConfigureRuntime captures the parsed runtime options the rest of the bench
// reads through accessors instead of threading the parser around.
func ConfigureRuntime(command_line_parser *CommandLineParser) {
	SetRuntimeVerbosity(int(command_line_parser.IntParameter("verbose")))
}

// SetRuntimeVerbosity updates the global runtime verbosity.
func SetRuntimeVerbosity(verbose int) {
	runtimeVerbosityLock.Lock()
	defer runtimeVerbosityLock.Unlock()

	runtimeVerbosity = verbose
}

// RuntimeVerbosity returns the currently configured verbosity.
func RuntimeVerbosity() int {
	runtimeVerbosityLock.RLock()
	defer runtimeVerbosityLock.RUnlock()

	return runtimeVerbosity
}
