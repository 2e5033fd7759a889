// Package cas implements the server-to-server CAS serviceValidate call.
package cas

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	domainauth "github.com/oakgrove/campus-portal/internal/domain/auth"
	"github.com/oakgrove/campus-portal/internal/ports"
)

// ErrTicketInvalid is returned for every validation outcome that does not
// produce a subject: provider-signaled failure, malformed XML, non-2xx
// transport result, TLS failure, or timeout. Callers treat all of these
// uniformly as "not authenticated".
var ErrTicketInvalid = errors.New("ticket validation failed")

// Limit on validation response bodies; CAS responses are small XML documents.
const maxResponseBytes = 1 << 20

// Validator performs serviceValidate calls against configured mechanisms.
// HTTP clients are built per mechanism (TLS settings differ) and cached for
// the process lifetime; mechanism configuration is immutable after startup.
type Validator struct {
	Timeout time.Duration
	Logger  *slog.Logger

	mu      sync.Mutex
	clients map[string]*http.Client
}

// NewValidator creates a Validator with the given outbound call timeout.
func NewValidator(timeout time.Duration, logger *slog.Logger) *Validator {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Validator{
		Timeout: timeout,
		Logger:  logger,
		clients: make(map[string]*http.Client),
	}
}

func (v *Validator) logger() *slog.Logger {
	if v.Logger != nil {
		return v.Logger
	}
	return slog.Default()
}

// Validate builds the version-appropriate serviceValidate URL, performs the
// TLS call, and parses the response. The context bounds the call in
// addition to the configured timeout.
func (v *Validator) Validate(ctx context.Context, in ports.ValidateInput) (domainauth.ValidationResult, error) {
	if in.Ticket == "" {
		return domainauth.ValidationResult{}, fmt.Errorf("%w: empty ticket", ErrTicketInvalid)
	}
	if err := in.Mechanism.Validate(); err != nil {
		return domainauth.ValidationResult{}, fmt.Errorf("invalid mechanism: %w", err)
	}

	endpoint := validateURL(in.Mechanism, in.ServiceURL, in.Ticket)

	client, err := v.clientFor(in.Mechanism)
	if err != nil {
		return domainauth.ValidationResult{}, fmt.Errorf("build validation client: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, v.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return domainauth.ValidationResult{}, fmt.Errorf("build validation request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return domainauth.ValidationResult{}, fmt.Errorf("%w: %w", ErrTicketInvalid, err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			v.logger().WarnContext(ctx, "close validation response body", "error", closeErr)
		}
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return domainauth.ValidationResult{}, fmt.Errorf("%w: provider returned status %d", ErrTicketInvalid, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return domainauth.ValidationResult{}, fmt.Errorf("%w: read response: %w", ErrTicketInvalid, err)
	}

	return parseServiceResponse(body)
}

// validateURL constructs the provider's validation endpoint URL. Protocol
// version 3 serves validation under /p3; version 2 keeps the legacy path.
func validateURL(m domainauth.Mechanism, serviceURL, ticket string) string {
	path := strings.TrimSuffix(m.Context, "/")
	if m.Version == domainauth.ProtocolV3 {
		path += "/p3"
	}
	path += "/serviceValidate"

	q := url.Values{}
	q.Set("service", serviceURL)
	q.Set("ticket", ticket)

	u := url.URL{
		Scheme:   "https",
		Host:     net.JoinHostPort(m.Host, strconv.Itoa(m.Port)),
		Path:     path,
		RawQuery: q.Encode(),
	}
	return u.String()
}

// clientFor returns the cached HTTP client for a mechanism, building it on
// first use. TLS verification policy: a present CA certificate file wins;
// otherwise the mechanism's validate_ssl flag decides. Disabling chain
// validation is a documented relaxation for trusted internal networks only
// and is logged on every client build.
func (v *Validator) clientFor(m domainauth.Mechanism) (*http.Client, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if c, ok := v.clients[m.ID]; ok {
		return c, nil
	}

	tlsCfg := &tls.Config{MinVersion: tls.VersionTLS12}
	switch {
	case m.CACertFile != "" && fileExists(m.CACertFile):
		pem, err := os.ReadFile(m.CACertFile)
		if err != nil {
			return nil, fmt.Errorf("read CA cert %s: %w", m.CACertFile, err)
		}
		pool := x509.NewCertPool()
		if !pool.AppendCertsFromPEM(pem) {
			return nil, fmt.Errorf("no certificates parsed from %s", m.CACertFile)
		}
		tlsCfg.RootCAs = pool
	case !m.ValidatesSSL():
		v.logger().Warn("certificate chain validation disabled for mechanism",
			"mechanism", m.ID, "host", m.Host)
		tlsCfg.InsecureSkipVerify = true
	}

	client := &http.Client{
		Timeout: v.Timeout,
		Transport: &http.Transport{
			TLSClientConfig:     tlsCfg,
			MaxIdleConnsPerHost: 2,
			IdleConnTimeout:     90 * time.Second,
		},
	}
	v.clients[m.ID] = client
	return client, nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// CAS response schema. encoding/xml matches on local element names, so the
// provider's namespace prefix (cas: or otherwise) is irrelevant.
type serviceResponse struct {
	XMLName xml.Name               `xml:"serviceResponse"`
	Success *authenticationSuccess `xml:"authenticationSuccess"`
	Failure *authenticationFailure `xml:"authenticationFailure"`
}

type authenticationSuccess struct {
	User       string         `xml:"user"`
	Attributes *attributeList `xml:"attributes"`
}

type attributeList struct {
	Items []attributeElem `xml:",any"`
}

type attributeElem struct {
	XMLName xml.Name
	Value   string `xml:",chardata"`
}

type authenticationFailure struct {
	Code    string `xml:"code,attr"`
	Message string `xml:",chardata"`
}

// parseServiceResponse extracts the subject and raw attributes from a CAS
// response body. Presence of authenticationSuccess/user signals success;
// anything else is a validation failure.
func parseServiceResponse(body []byte) (domainauth.ValidationResult, error) {
	var sr serviceResponse
	if err := xml.Unmarshal(body, &sr); err != nil {
		return domainauth.ValidationResult{}, fmt.Errorf("%w: malformed response: %w", ErrTicketInvalid, err)
	}

	if sr.Failure != nil {
		return domainauth.ValidationResult{}, fmt.Errorf("%w: %s (%s)",
			ErrTicketInvalid, strings.TrimSpace(sr.Failure.Message), sr.Failure.Code)
	}
	if sr.Success == nil || strings.TrimSpace(sr.Success.User) == "" {
		return domainauth.ValidationResult{}, fmt.Errorf("%w: no authenticated subject in response", ErrTicketInvalid)
	}

	attrs := make(domainauth.IdentityAttributes)
	if sr.Success.Attributes != nil {
		for _, item := range sr.Success.Attributes.Items {
			// Local name only; namespace prefixes are resolved by the parser.
			// Repeated attributes keep the last value seen.
			attrs[item.XMLName.Local] = strings.TrimSpace(item.Value)
		}
	}

	return domainauth.ValidationResult{
		Username:   strings.TrimSpace(sr.Success.User),
		Attributes: attrs,
	}, nil
}
