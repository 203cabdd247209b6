package poolstat

import (
	"io"
	"net"
	"time"

	"github.com/inconshreveable/log15"

	"poolstat/internal/proto"
)

// DefaultDialTimeout bounds how long a Reporter waits for the control
// channel to accept a connection. The query itself has no deadline; a
// server that accepted the connection answers a stats query immediately.
const DefaultDialTimeout = 5 * time.Second

// Reporter queries a running server's control channel and renders what it
// finds. It holds no connection between invocations; every fetch is one
// dial, one query, one read.
type Reporter struct {
	dialTimeout time.Duration

	l log15.Logger
}

// Option is an option function for Reporter.
// See Rob Pike's post on the topic for more information on this pattern:
// https://commandcenter.blogspot.com/2014/01/self-referential-functions-and-design.html
type Option func(r *Reporter)

// WithLogger configures the logger to use for reporter diagnostics.
// By default, nothing will be logged.
func WithLogger(l log15.Logger) Option {
	return func(r *Reporter) {
		r.l = l
	}
}

// WithDialTimeout allows configuring the control-channel dial timeout. If
// a time of 0 is specified, the default will be used.
func WithDialTimeout(d time.Duration) Option {
	return func(r *Reporter) {
		r.dialTimeout = d
		if r.dialTimeout <= 0 {
			r.dialTimeout = DefaultDialTimeout
		}
	}
}

// New constructs a Reporter.
func New(opts ...Option) *Reporter {
	noopLogger := log15.New()
	noopLogger.SetHandler(log15.DiscardHandler())
	r := &Reporter{
		dialTimeout: DefaultDialTimeout,
		l:           noopLogger,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Reporter) dial(loc Locator) (net.Conn, error) {
	conn, err := net.DialTimeout(loc.Network, loc.Address, r.dialTimeout)
	if err != nil {
		return nil, &ConnectionError{Locator: loc, Err: err}
	}
	return conn, nil
}

// FetchSnapshot issues one stats query against the control channel and
// returns the parsed snapshot. Failure to reach the channel or to complete
// the read is a *ConnectionError; a response that does not decode into a
// snapshot is a *ParseError.
func (r *Reporter) FetchSnapshot(loc Locator) (StatusSnapshot, error) {
	r.l.Debug("querying control channel", "locator", loc.String())
	conn, err := r.dial(loc)
	if err != nil {
		return StatusSnapshot{}, err
	}
	defer conn.Close()

	if err := proto.WriteCommand(conn, proto.CmdStats); err != nil {
		return StatusSnapshot{}, &ConnectionError{Locator: loc, Err: err}
	}
	raw, err := proto.ReadResponse(conn)
	if err != nil {
		return StatusSnapshot{}, &ConnectionError{Locator: loc, Err: err}
	}
	payload, err := proto.ExtractPayload(raw)
	if err != nil {
		return StatusSnapshot{}, &ParseError{Err: err}
	}
	snap, err := ParseSnapshot(payload)
	if err != nil {
		return StatusSnapshot{}, err
	}
	r.l.Debug("parsed status snapshot", "workers", len(snap.Workers))
	return snap, nil
}

// Report fetches one snapshot and renders it to w. On failure nothing is
// written.
func (r *Reporter) Report(w io.Writer, loc Locator) error {
	snap, err := r.FetchSnapshot(loc)
	if err != nil {
		return err
	}
	return Render(w, snap)
}
