package httpc

import (
	"crypto/tls"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/loykin/apicheck/internal/common"
	"github.com/loykin/apicheck/internal/util"
)

// Httpc describes how the shared HTTP client of a run is built.
type Httpc struct {
	TlsConfig *tls.Config
	// Timeout bounds a single request including the body read; zero disables it.
	Timeout time.Duration
	Logger  *common.Logger
}

// New returns a resty.Client configured according to the receiver's settings.
// One client is created per run and shared by every request so connections
// are pooled by the underlying transport.
func (h *Httpc) New() *resty.Client {
	c := resty.New()
	logger := h.Logger
	if logger == nil {
		logger = common.GetLogger()
	}
	c.SetLogger(&restyLogger{logger: logger.WithComponent("http-client")})
	if h.Timeout > 0 {
		c.SetTimeout(h.Timeout)
	}
	if h.TlsConfig != nil {
		c.SetTLSClientConfig(h.TlsConfig)
	}
	return c
}

// ParseTLSVersion converts a TLS version string to the corresponding crypto/tls constant.
// Supports various formats: "1.0", "10", "tls1.0", "tls10", etc.
// Returns 0 if the version string is not recognized.
func ParseTLSVersion(version string) uint16 {
	switch util.TrimAndLower(version) {
	case "1.0", "10", "tls1.0", "tls10":
		return tls.VersionTLS10
	case "1.1", "11", "tls1.1", "tls11":
		return tls.VersionTLS11
	case "1.2", "12", "tls1.2", "tls12":
		return tls.VersionTLS12
	case "1.3", "13", "tls1.3", "tls13":
		return tls.VersionTLS13
	default:
		return 0
	}
}

// TLSConfig builds a tls.Config from client options. It returns nil when no
// option deviates from the Go defaults so resty keeps its own transport config.
func TLSConfig(insecure bool, minVersion, maxVersion string) (*tls.Config, error) {
	minV := ParseTLSVersion(minVersion)
	if _, set := util.TrimEmptyCheck(minVersion); set && minV == 0 {
		return nil, fmt.Errorf("unsupported min_tls_version %q", minVersion)
	}
	maxV := ParseTLSVersion(maxVersion)
	if _, set := util.TrimEmptyCheck(maxVersion); set && maxV == 0 {
		return nil, fmt.Errorf("unsupported max_tls_version %q", maxVersion)
	}
	if minV != 0 && maxV != 0 && minV > maxV {
		return nil, fmt.Errorf("min_tls_version %q is greater than max_tls_version %q", minVersion, maxVersion)
	}
	if !insecure && minV == 0 && maxV == 0 {
		return nil, nil
	}
	// #nosec G402 -- versions and verification are chosen explicitly by the user
	cfg := &tls.Config{MinVersion: minV, MaxVersion: maxV}
	if insecure {
		// #nosec G402 -- allow self-signed certificates when explicitly configured
		cfg.InsecureSkipVerify = true
	}
	return cfg, nil
}

// restyLogger routes resty's internal messages into the structured logger.
type restyLogger struct {
	logger *common.Logger
}

func (l *restyLogger) Errorf(format string, v ...interface{}) {
	l.logger.Error(fmt.Sprintf(format, v...))
}

func (l *restyLogger) Warnf(format string, v ...interface{}) {
	l.logger.Warn(fmt.Sprintf(format, v...))
}

func (l *restyLogger) Debugf(format string, v ...interface{}) {
	l.logger.Debug(fmt.Sprintf(format, v...))
}
