package records

import "errors"

// ErrNotFound indicates the record does not exist for the tenant.
var ErrNotFound = errors.New("health record not found")
