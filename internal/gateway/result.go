// Package gateway implements the degradation tiers in front of every
// external capability: AI generation, document persistence, and object
// storage. Each gateway resolves to the best available tier per operation
// and reports which tier served it, so callers surface degraded results
// instead of failures.
package gateway

// Tier identifies which backend actually served an operation.
type Tier string

const (
	TierRemote   Tier = "remote"
	TierFallback Tier = "fallback"
)

// Result wraps an operation's value with the tier that produced it.
// FallbackUsed travels with the value all the way to the response envelope.
type Result[T any] struct {
	Value        T
	FallbackUsed bool
	Message      string
}

func remoteResult[T any](v T) Result[T] {
	return Result[T]{Value: v}
}

func fallbackResult[T any](v T, message string) Result[T] {
	return Result[T]{Value: v, FallbackUsed: true, Message: message}
}
