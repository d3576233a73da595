package transport

import (
	"context"
	"fmt"
	"net"

	"github.com/always-cache/go2web/pkg/http1"
	utls "github.com/refraction-networking/utls"
)

const (
	FingerprintChrome  = "chrome"
	FingerprintFirefox = "firefox"
	FingerprintSafari  = "safari"
)

var helloIDs = map[string]utls.ClientHelloID{
	FingerprintChrome:  utls.HelloChrome_Auto,
	FingerprintFirefox: utls.HelloFirefox_Auto,
	FingerprintSafari:  utls.HelloSafari_Auto,
}

// ValidFingerprint reports whether name selects a known browser ClientHello.
func ValidFingerprint(name string) bool {
	_, ok := helloIDs[name]
	return ok || name == ""
}

// dialFingerprint performs the TLS handshake with a browser ClientHello.
// The browser's ALPN list is replaced with http/1.1 only, since responses
// are always read as HTTP/1.
func (d *Dialer) dialFingerprint(ctx context.Context, netDialer *net.Dialer, target http1.Target) (net.Conn, error) {
	helloID, ok := helloIDs[d.Fingerprint]
	if !ok {
		return nil, fmt.Errorf("unknown fingerprint %q", d.Fingerprint)
	}
	spec, err := utls.UTLSIdToSpec(helloID)
	if err != nil {
		return nil, fmt.Errorf("fingerprint %s: %w", helloID.Str(), err)
	}
	pinALPN(&spec, "http/1.1")

	ctx, cancel := context.WithTimeout(ctx, d.timeout())
	defer cancel()

	rawConn, err := netDialer.DialContext(ctx, "tcp", target.Addr())
	if err != nil {
		return nil, err
	}
	config := &utls.Config{ServerName: target.Host}
	if d.TLSConfig != nil {
		config.RootCAs = d.TLSConfig.RootCAs
		config.InsecureSkipVerify = d.TLSConfig.InsecureSkipVerify
		if d.TLSConfig.ServerName != "" {
			config.ServerName = d.TLSConfig.ServerName
		}
	}
	uConn := utls.UClient(rawConn, config, utls.HelloCustom)
	if err := uConn.ApplyPreset(&spec); err != nil {
		_ = rawConn.Close()
		return nil, fmt.Errorf("apply preset %s: %w", helloID.Str(), err)
	}
	if err := uConn.HandshakeContext(ctx); err != nil {
		_ = uConn.Close()
		return nil, err
	}
	return uConn, nil
}

func pinALPN(spec *utls.ClientHelloSpec, protocols ...string) {
	for _, ext := range spec.Extensions {
		if alpn, ok := ext.(*utls.ALPNExtension); ok {
			alpn.AlpnProtocols = protocols
		}
	}
}
