package transport

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/rollout-edge/update-agent/pkg/log"
)

// RequestTimeout bounds a single exchange: DNS resolution, TLS handshake,
// and the full response body.
const RequestTimeout = 300 * time.Second

// ChunkHandler receives one piece of a response body as it arrives.
// final is true on the call that delivers the last chunk (which may be
// zero-length). Returning an error aborts the request.
type ChunkHandler func(chunk []byte, final bool) error

// Session is one logical connection to the rollout server, reused across
// every request of a probe cycle.
type Session interface {
	// Request issues method/path with the given headers and body, and
	// streams the response body to handler. onHeaders, if non-nil, is
	// called once with the response headers before the first chunk is
	// delivered, so a caller building an assembler can read Content-Length
	// in time to size it. Request returns the HTTP status code and
	// response headers, or an error if the exchange could not complete.
	Request(ctx context.Context, method, path string, headers map[string]string, body []byte, onHeaders func(http.Header), handler ChunkHandler) (int, http.Header, error)

	// Close releases the underlying connection.
	Close() error
}

// Config configures Open.
type Config struct {
	// Host is the rollout server's hostname or IP address.
	Host string

	// Port is the rollout server's TCP port.
	Port int

	// TLS carries the pinned-CA TLS configuration. A nil TLS means plain
	// HTTP, used only for local testing against an httptest.Server.
	TLS *TLSConfig

	// Logger receives an ExchangeEvent per request, if non-nil.
	Logger log.Logger

	// CycleID tags logged events with the probe cycle they belong to.
	CycleID string
}

// session is the default Session implementation, backed by a single
// net/http client whose transport reuses one persistent connection.
type session struct {
	client *http.Client
	scheme string
	host   string
	cfg    Config

	mu     sync.Mutex
	closed bool
}

// Open returns a ready-to-use Session for the rollout server.
// The connection is not established until the first Request call;
// Open only prepares the client and TLS configuration.
func Open(cfg Config) (Session, error) {
	if cfg.Host == "" {
		return nil, fmt.Errorf("transport: Host is required")
	}
	if cfg.Port == 0 {
		return nil, fmt.Errorf("transport: Port is required")
	}

	resolver := newRetryingResolver()

	transport := &http.Transport{
		DialContext:         resolver.dialContext,
		MaxIdleConnsPerHost: 1,
		MaxConnsPerHost:     1,
		IdleConnTimeout:     RequestTimeout,
	}

	scheme := "http"
	if cfg.TLS != nil {
		tlsConf, err := NewClientTLSConfig(cfg.TLS)
		if err != nil {
			return nil, err
		}
		transport.TLSClientConfig = tlsConf
		transport.DialTLSContext = func(ctx context.Context, network, addr string) (net.Conn, error) {
			rawConn, err := resolver.dialContext(ctx, network, addr)
			if err != nil {
				return nil, err
			}
			tlsConn := tls.Client(rawConn, tlsConf)
			if err := tlsConn.HandshakeContext(ctx); err != nil {
				rawConn.Close()
				return nil, fmt.Errorf("transport: TLS handshake failed: %w", err)
			}
			if err := VerifyTLS12(tlsConn.ConnectionState()); err != nil {
				tlsConn.Close()
				return nil, err
			}
			return tlsConn, nil
		}
		scheme = "https"
	}

	return &session{
		client: &http.Client{
			Transport: transport,
			Timeout:   RequestTimeout,
		},
		scheme: scheme,
		host:   net.JoinHostPort(cfg.Host, fmt.Sprintf("%d", cfg.Port)),
		cfg:    cfg,
	}, nil
}

func (s *session) Request(ctx context.Context, method, path string, headers map[string]string, body []byte, onHeaders func(http.Header), handler ChunkHandler) (int, http.Header, error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return 0, nil, fmt.Errorf("transport: session is closed")
	}
	s.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, RequestTimeout)
	defer cancel()

	url := fmt.Sprintf("%s://%s%s", s.scheme, s.host, path)

	var bodyReader io.Reader
	if body != nil {
		bodyReader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
	if err != nil {
		return 0, nil, fmt.Errorf("transport: building request: %w", err)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	start := time.Now()
	resp, err := s.client.Do(req)
	if err != nil {
		s.logExchange(method, path, 0, 0, time.Since(start))
		return 0, nil, fmt.Errorf("transport: request failed: %w", err)
	}
	defer resp.Body.Close()

	if onHeaders != nil {
		onHeaders(resp.Header)
	}

	total, streamErr := streamBody(resp.Body, handler)
	s.logExchange(method, path, resp.StatusCode, total, time.Since(start))
	if streamErr != nil {
		return resp.StatusCode, resp.Header, streamErr
	}

	return resp.StatusCode, resp.Header, nil
}

// streamBody reads r in fixed-size chunks, delivering each to handler
// (when non-nil) and reporting the final chunk via the final flag.
func streamBody(r io.Reader, handler ChunkHandler) (int64, error) {
	const chunkSize = 4096
	buf := make([]byte, chunkSize)
	var total int64

	for {
		n, err := r.Read(buf)
		if n > 0 {
			total += int64(n)
			if handler != nil {
				final := err == io.EOF
				if hErr := handler(buf[:n], final); hErr != nil {
					return total, hErr
				}
			}
		}
		if err == io.EOF {
			if handler != nil && n == 0 {
				if hErr := handler(nil, true); hErr != nil {
					return total, hErr
				}
			}
			return total, nil
		}
		if err != nil {
			return total, fmt.Errorf("transport: reading response body: %w", err)
		}
	}
}

func (s *session) logExchange(method, path string, status int, responseBytes int64, d time.Duration) {
	if s.cfg.Logger == nil {
		return
	}
	s.cfg.Logger.Log(log.Event{
		Timestamp: time.Now(),
		CycleID:   s.cfg.CycleID,
		Layer:     log.LayerTransport,
		Category:  log.CategoryExchange,
		Exchange: &log.ExchangeEvent{
			Method:        method,
			Path:          path,
			StatusCode:    status,
			ResponseBytes: responseBytes,
			Duration:      d,
		},
	})
}

func (s *session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	s.client.CloseIdleConnections()
	return nil
}

var _ Session = (*session)(nil)
