package port

import "context"

// Notifier is the fire-and-forget message surface (the terminal toast and
// the back-office feed). Implementations log delivery failures themselves;
// notification loss never fails a checkout or a drain.
type Notifier interface {
	Notify(ctx context.Context, message string)
}
