// Package assertx provides debug-gated invariant checks, used internally by
// bitvector and rmm to catch construction bugs without paying for the check
// in production builds.
package assertx

import "fmt"

const debug = false

// First returns the first non-nil error in errs, or nil.
func First(errs ...error) error {
	for _, e := range errs {
		if e != nil {
			return e
		}
	}
	return nil
}

// FatalIf panics if err is non-nil. Used at points an error indicates a
// logic bug rather than bad caller input.
func FatalIf(err error) {
	if err == nil {
		return
	}
	panic(fmt.Sprintf("succinct: invariant violated: %v", err))
}

// Bug panics with a formatted message when debug is enabled.
func Bug(format string, args ...any) {
	if debug {
		panic(fmt.Sprintf(format, args...))
	}
}

// BugOn calls Bug if cond is true.
func BugOn(cond bool, format string, args ...any) {
	if debug && cond {
		Bug(format, args...)
	}
}
