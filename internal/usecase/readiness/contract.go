package readiness

import "context"

// ConnectFunc opens a handle to the store. Each call is one connection attempt.
type ConnectFunc[T any] func(ctx context.Context) (T, error)
