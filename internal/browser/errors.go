package browser

import (
	"errors"
	"fmt"

	"github.com/ozonqa/storefront-e2e/internal/locator"
)

// Error kinds. A LocatorError unwraps to exactly one of them.
var (
	ErrTimeout   = errors.New("timed out")
	ErrAmbiguous = errors.New("ambiguous match")
	ErrClosed    = errors.New("page closed")
	ErrAction    = errors.New("action failed")
)

// LocatorError reports a failed operation on a selector.
type LocatorError struct {
	Op       string
	Selector locator.Selector
	Kind     error
	Err      error
}

func (e *LocatorError) Error() string {
	if e.Selector == "" {
		return fmt.Sprintf("%s: %v: %v", e.Op, e.Kind, e.Err)
	}
	return fmt.Sprintf("%s %q: %v: %v", e.Op, e.Selector, e.Kind, e.Err)
}

func (e *LocatorError) Unwrap() []error {
	return []error{e.Kind, e.Err}
}

// IsTimeout reports whether err is a wait that did not complete in time.
func IsTimeout(err error) bool {
	return errors.Is(err, ErrTimeout)
}
