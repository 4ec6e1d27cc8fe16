// Package publish streams evaluation results to a socket.io server.
package publish

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"math"
	"net/url"
	"time"

	"github.com/zishang520/engine.io-client-go/transports"
	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io-client-go/socket"

	"github.com/specialistvlad/bagelgo/internal/ctxlog"
)

// Event is the name of the event carrying graph outputs.
const Event = "outputs"

// DefaultTimeout bounds the wait for the initial connection.
const DefaultTimeout = 15 * time.Second

// Payload is the body of an outputs event. Non-finite values are sent as
// the strings "inf", "-inf" and "nan".
type Payload struct {
	Graph  string `json:"graph"`
	Step   int    `json:"step"`
	Values []any  `json:"values"`
}

type options struct {
	graph    string
	insecure bool
	timeout  time.Duration
}

// Option configures Connect.
type Option func(*options)

// WithGraph sets the graph name reported in every payload.
func WithGraph(name string) Option {
	return func(o *options) { o.graph = name }
}

// WithInsecureSkipVerify disables TLS certificate verification.
func WithInsecureSkipVerify() Option {
	return func(o *options) { o.insecure = true }
}

// WithTimeout overrides DefaultTimeout.
func WithTimeout(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.timeout = d
		}
	}
}

func newOptions(opts []Option) options {
	o := options{timeout: DefaultTimeout}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Publisher owns a connected socket.io client.
type Publisher struct {
	graph  string
	io     *socket.Socket
	logger *slog.Logger
}

// Connect dials the server at rawURL and joins namespace. It blocks until
// the connection succeeds, fails, times out or ctx is done.
func Connect(ctx context.Context, rawURL, namespace string, opts ...Option) (*Publisher, error) {
	o := newOptions(opts)
	logger := ctxlog.FromContext(ctx).With("component", "publisher", "url", rawURL)

	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse URL: %w", err)
	}
	if parsedURL.Scheme == "" || parsedURL.Host == "" {
		return nil, fmt.Errorf("failed to parse URL: %q has no scheme or host", rawURL)
	}

	sopts := socket.DefaultOptions()
	if parsedURL.Path != "" && parsedURL.Path != "/" {
		sopts.SetPath(parsedURL.Path)
	}
	if o.insecure {
		logger.Warn("Skipping TLS certificate verification")
		sopts.SetTLSClientConfig(&tls.Config{InsecureSkipVerify: true})
	}
	sopts.SetTransports(types.NewSet(transports.WebSocket))

	connectChan := make(chan error, 1)

	baseURL := fmt.Sprintf("%s://%s", parsedURL.Scheme, parsedURL.Host)
	manager := socket.NewManager(baseURL, sopts)
	io := manager.Socket(namespace, sopts)

	io.Once(types.EventName("connect"), func(...any) {
		logger.Info("Successfully connected", "sid", io.Id())
		select {
		case connectChan <- nil:
		default:
		}
	})
	io.Once(types.EventName("connect_error"), func(errs ...any) {
		var err error = fmt.Errorf("connect_error")
		if len(errs) > 0 {
			if e, ok := errs[0].(error); ok {
				err = e
			}
		}
		logger.Debug("Connection attempt failed.", "error", err)
		select {
		case connectChan <- err:
		default:
		}
	})

	logger.Debug("Initiating connection...")
	io.Connect()

	select {
	case err := <-connectChan:
		if err != nil {
			io.Disconnect()
			return nil, fmt.Errorf("socket.io connection failed: %w", err)
		}
		return &Publisher{graph: o.graph, io: io, logger: logger}, nil
	case <-ctx.Done():
		io.Disconnect()
		return nil, fmt.Errorf("context cancelled while waiting for socket.io connection: %w", ctx.Err())
	case <-time.After(o.timeout):
		io.Disconnect()
		return nil, fmt.Errorf("timed out after %s waiting for socket.io connection", o.timeout)
	}
}

// Publish emits the outputs of one evaluation step.
func (p *Publisher) Publish(step int, outputs []float64) error {
	if !p.io.Connected() {
		return fmt.Errorf("socket.io client is not connected")
	}
	payload := NewPayload(p.graph, step, outputs)
	p.logger.Debug("Emitting outputs.", "step", step, "count", len(outputs))
	return p.io.Emit(Event, payload)
}

// Close disconnects the client.
func (p *Publisher) Close() error {
	p.logger.Info("Closing socket.io client", "sid", p.io.Id())
	p.io.Disconnect()
	return nil
}

// NewPayload builds the event body for one step.
func NewPayload(graph string, step int, outputs []float64) Payload {
	values := make([]any, len(outputs))
	for i, v := range outputs {
		switch {
		case math.IsNaN(v):
			values[i] = "nan"
		case math.IsInf(v, 1):
			values[i] = "inf"
		case math.IsInf(v, -1):
			values[i] = "-inf"
		default:
			values[i] = v
		}
	}
	return Payload{Graph: graph, Step: step, Values: values}
}
