package repokit

import (
	"context"
	"fmt"
	"time"
)

// DefaultPingTimeout bounds a Ping when the caller's ctx has no deadline
const DefaultPingTimeout = 5 * time.Second

type pinger interface{ Ping(context.Context) error }

type guarder interface {
	Guard(context.Context) error
}

// Ping checks p within DefaultPingTimeout unless ctx already carries a deadline.
// Seams that cannot ping count as healthy
func Ping(ctx context.Context, name string, seam any) error {
	if seam == nil {
		return fmt.Errorf("%s: nil dependency", name)
	}
	p, ok := seam.(pinger)
	if !ok {
		return nil
	}
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, DefaultPingTimeout)
		defer cancel()
	}
	if err := p.Ping(ctx); err != nil {
		return fmt.Errorf("%s ping failed: %w", name, err)
	}
	return nil
}

// MustPing panics if a dependency doesn't answer a Ping within timeout
func MustPing(ctx context.Context, name string, seam any) {
	if err := Ping(ctx, name, seam); err != nil {
		panic(err.Error())
	}
}

// MustGuard runs store.Guard and panics on any error
func MustGuard(ctx context.Context, st guarder) {
	if err := st.Guard(ctx); err != nil {
		panic(fmt.Errorf("dependency guard failed: %w", err))
	}
}
