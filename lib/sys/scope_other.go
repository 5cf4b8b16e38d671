//go:build !linux

package sys

import (
	"context"
	"fmt"
	"runtime"
)

// ScopeOption customizes the transient scope request. It has no effect
// off Linux.
type ScopeOption func(any)

// WithFallbackSlice is a no-op off Linux.
func WithFallbackSlice(string) ScopeOption {
	return func(any) {}
}

func MoveSelfIntoNewScope(ctx context.Context, opts ...ScopeOption) error {
	return fmt.Errorf("transient scopes not supported on %s", runtime.GOOS)
}
