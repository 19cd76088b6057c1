package collector

import (
	"context"
	"crypto/tls"
	"net"
	"net/url"
	"strings"
	"time"

	"github.com/meridian-corporation/trustlens/internal/core/domain"
)

// SSLProbe performs a TLS handshake against the brand's website to verify
// that HTTPS is served with a valid certificate. A completed handshake
// implies chain and hostname verification passed.
type SSLProbe struct {
	timeout time.Duration
}

func NewSSLProbe() *SSLProbe {
	return &SSLProbe{timeout: 10 * time.Second}
}

func (s *SSLProbe) SourceID() string {
	return "ssl_probe"
}

func (s *SSLProbe) Collect(ctx context.Context, req domain.AnalysisRequest) (map[string]interface{}, error) {
	if req.Website == "" {
		return map[string]interface{}{
			"skipped":  true,
			"reason":   "no website provided",
			"ssl_info": domain.SSLInfo{Status: "Not checked"},
		}, nil
	}

	host, err := hostFromSite(req.Website)
	if err != nil {
		return nil, err
	}

	info := s.probe(ctx, host)
	return map[string]interface{}{
		"ssl_info": info,
	}, nil
}

func (s *SSLProbe) probe(ctx context.Context, host string) domain.SSLInfo {
	dialCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	dialer := &tls.Dialer{
		NetDialer: &net.Dialer{Timeout: s.timeout},
		Config:    &tls.Config{ServerName: host},
	}

	conn, err := dialer.DialContext(dialCtx, "tcp", net.JoinHostPort(host, "443"))
	if err == nil {
		conn.Close()
		return domain.SSLInfo{
			Status:           "Valid certificate",
			HTTPSEnabled:     true,
			CertificateValid: true,
		}
	}

	// A plain network error means port 443 never answered; anything past
	// the TCP dial means HTTPS is served but the certificate failed
	// verification.
	if isConnectionError(err) {
		return domain.SSLInfo{
			Status:       "HTTPS unreachable",
			HTTPSEnabled: false,
			Error:        err.Error(),
		}
	}
	return domain.SSLInfo{
		Status:       "Certificate verification failed",
		HTTPSEnabled: true,
		Error:        err.Error(),
	}
}

func isConnectionError(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "connection refused") ||
		strings.Contains(msg, "no such host") ||
		strings.Contains(msg, "network is unreachable") ||
		strings.Contains(msg, "i/o timeout")
}

func hostFromSite(site string) (string, error) {
	parsed, err := url.Parse(NormalizeURL(site))
	if err != nil {
		return "", err
	}
	return parsed.Hostname(), nil
}
