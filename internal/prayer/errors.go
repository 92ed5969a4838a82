package prayer

import "fmt"

// ValidationError reports invalid user-supplied entity data.
type ValidationError struct {
	Entity string
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s %s: %s", e.Entity, e.Field, e.Reason)
}
