//go:build !windows

// Package console handles Windows console quirks for the inspector. On other
// platforms these are no-ops; standard signal handling works.
package console

// IsRunningFromConsole always reports true outside Windows.
func IsRunningFromConsole() bool {
	return true
}

// SetupHandler is a no-op outside Windows; the returned re-register function
// does nothing.
func SetupHandler(shutdown chan struct{}) func() {
	return func() {}
}
