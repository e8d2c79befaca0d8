package transport

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"
)

// dnsRetries is the number of resolution attempts made, the first one
// included, before the dial is given up on. Devices can come up before their network stack's
// resolver is actually usable; a short, tight retry budget rides that out
// without stalling a cycle for long.
const dnsRetries = 10

// dnsRetryDelay is the pause between resolution attempts.
const dnsRetryDelay = 1 * time.Millisecond

// retryingResolver wraps net.Dialer.DialContext with a bounded retry of the
// DNS lookup portion of the dial. Once a name resolves, the connection
// attempt itself is not retried here; transient connect failures surface to
// the caller immediately.
type retryingResolver struct {
	dialer *net.Dialer
}

func newRetryingResolver() *retryingResolver {
	return &retryingResolver{dialer: &net.Dialer{}}
}

// dialContext resolves host and dials it, making up to dnsRetries attempts
// while resolution fails, with dnsRetryDelay between attempts.
func (r *retryingResolver) dialContext(ctx context.Context, network, addr string) (net.Conn, error) {
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return nil, fmt.Errorf("transport: invalid address %q: %w", addr, err)
	}

	var lastErr error
	for attempt := 0; attempt < dnsRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(dnsRetryDelay):
			}
		}

		conn, dialErr := r.dialer.DialContext(ctx, network, net.JoinHostPort(host, port))
		if dialErr == nil {
			return conn, nil
		}
		lastErr = dialErr

		if !isResolutionError(dialErr) {
			return nil, dialErr
		}
	}

	return nil, fmt.Errorf("transport: failed to resolve %q after %d attempts: %w", host, dnsRetries, lastErr)
}

// isResolutionError reports whether err originates from name resolution
// rather than a refused or timed-out connection attempt.
func isResolutionError(err error) bool {
	var dnsErr *net.DNSError
	return errors.As(err, &dnsErr)
}
