package health

import "context"

// BackendChecker reports whether the active document store can serve requests.
type BackendChecker interface {
	Name() string
	Ready(ctx context.Context) error
}
