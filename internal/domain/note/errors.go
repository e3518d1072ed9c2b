package note

import "errors"

var (
	// ErrLeadMissing wraps a foreign key rejection when the parent lead does not exist.
	ErrLeadMissing = errors.New("lead does not exist")
)
