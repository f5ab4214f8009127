package probe

import (
	"fmt"
	"strings"
)

// EnumerationError reports that the device's extension-name listing could
// not be obtained. Negotiation fails unconditionally; no partial enabled set
// is produced.
type EnumerationError struct {
	Err error
}

func (e *EnumerationError) Error() string {
	return fmt.Sprintf("enumerating device extensions: %v", e.Err)
}

func (e *EnumerationError) Unwrap() error {
	return e.Err
}

// RequiredMissingError reports every required extension the device cannot
// provide. All catalog entries are still evaluated before this is returned,
// so diagnostics name the complete missing set.
type RequiredMissingError struct {
	Missing []string
}

func (e *RequiredMissingError) Error() string {
	return fmt.Sprintf("required device extension(s) not supported: %s", strings.Join(e.Missing, ", "))
}
