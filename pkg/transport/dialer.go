package transport

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"os"
	"time"

	"github.com/always-cache/go2web/pkg/http1"
	"github.com/rs/zerolog"
)

const DefaultTimeout = 10 * time.Second

var (
	ErrConnectFailure = errors.New("transport: connect failure")
	ErrTimeout        = errors.New("transport: timeout")
)

// Dialer opens one connection per request.
type Dialer struct {
	// Timeout bounds connecting, the TLS handshake and each read or write
	// on the returned connection. DefaultTimeout is used when zero.
	Timeout time.Duration
	// TLSConfig is cloned for every TLS connection; ServerName is set from
	// the target when empty.
	TLSConfig *tls.Config
	// Fingerprint selects a browser ClientHello for TLS connections.
	// See FingerprintChrome. Empty uses crypto/tls.
	Fingerprint string
}

// Dial connects to target, using TLS when its scheme is https. The caller
// must close the returned connection.
func (d *Dialer) Dial(ctx context.Context, target http1.Target) (net.Conn, error) {
	log := zerolog.Ctx(ctx)
	timeout := d.timeout()
	addr := target.Addr()
	netDialer := &net.Dialer{Timeout: timeout}

	var (
		conn net.Conn
		err  error
	)
	switch {
	case !target.Secure():
		conn, err = netDialer.DialContext(ctx, "tcp", addr)
	case d.Fingerprint != "":
		conn, err = d.dialFingerprint(ctx, netDialer, target)
	default:
		tlsDialer := &tls.Dialer{NetDialer: netDialer, Config: d.tlsConfig(target.Host)}
		conn, err = tlsDialer.DialContext(ctx, "tcp", addr)
	}
	if err != nil {
		return nil, classifyDial(fmt.Errorf("dial %s: %w", addr, err))
	}
	log.Trace().Str("addr", addr).Bool("tls", target.Secure()).Str("fingerprint", d.Fingerprint).Msg("Connected")
	return &timeoutConn{Conn: conn, timeout: timeout}, nil
}

func (d *Dialer) timeout() time.Duration {
	if d.Timeout > 0 {
		return d.Timeout
	}
	return DefaultTimeout
}

func (d *Dialer) tlsConfig(host string) *tls.Config {
	config := &tls.Config{}
	if d.TLSConfig != nil {
		config = d.TLSConfig.Clone()
	}
	if config.ServerName == "" {
		config.ServerName = host
	}
	return config
}

// ClassifyIO marks err as ErrTimeout when it comes from an expired deadline.
// Other errors are returned unchanged.
func ClassifyIO(err error) error {
	if err == nil || errors.Is(err, ErrTimeout) {
		return err
	}
	if isTimeout(err) {
		return fmt.Errorf("%w: %w", ErrTimeout, err)
	}
	return err
}

func classifyDial(err error) error {
	if isTimeout(err) {
		return fmt.Errorf("%w: %w", ErrTimeout, err)
	}
	return fmt.Errorf("%w: %w", ErrConnectFailure, err)
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, os.ErrDeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// timeoutConn pushes the deadline forward before every read and write, so
// the timeout applies to stalls rather than to the whole exchange.
type timeoutConn struct {
	net.Conn
	timeout time.Duration
}

func (c *timeoutConn) Read(p []byte) (int, error) {
	if err := c.Conn.SetReadDeadline(time.Now().Add(c.timeout)); err != nil {
		return 0, err
	}
	return c.Conn.Read(p)
}

func (c *timeoutConn) Write(p []byte) (int, error) {
	if err := c.Conn.SetWriteDeadline(time.Now().Add(c.timeout)); err != nil {
		return 0, err
	}
	return c.Conn.Write(p)
}
