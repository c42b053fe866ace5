package importer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"syscall"
	"time"
)

const (
	maxAPIResponseSize = 50 << 20
	maxAPIRedirects    = 10
)

type apiSource struct {
	client       *http.Client
	timeout      time.Duration
	allowPrivate bool
	lookupIP     func(host string) ([]net.IP, error)
}

// newAPISource wraps client, or a fresh one, so that every redirect target
// passes the same endpoint check as the first URL.
func newAPISource(client *http.Client, timeout time.Duration, allowPrivate bool) *apiSource {
	if client == nil {
		client = newAPIClient(allowPrivate)
	} else {
		c := *client
		client = &c
	}
	s := &apiSource{client: client, timeout: timeout, allowPrivate: allowPrivate, lookupIP: net.LookupIP}

	next := client.CheckRedirect
	client.CheckRedirect = func(req *http.Request, via []*http.Request) error {
		if len(via) >= maxAPIRedirects {
			return fmt.Errorf("stopped after %d redirects", maxAPIRedirects)
		}
		if err := s.validateEndpoint(req.URL.String()); err != nil {
			return fmt.Errorf("redirect to %s: %w", req.URL.Redacted(), err)
		}
		if next != nil {
			return next(req, via)
		}
		return nil
	}
	return s
}

// newAPIClient refuses, at dial time, connections to private addresses
// unless allowPrivate is set. This also covers hostnames whose DNS answer
// changes after validateEndpoint looked them up.
func newAPIClient(allowPrivate bool) *http.Client {
	dialer := &net.Dialer{Timeout: 30 * time.Second, KeepAlive: 30 * time.Second}
	if !allowPrivate {
		dialer.Control = func(_, address string, _ syscall.RawConn) error {
			host, _, err := net.SplitHostPort(address)
			if err != nil {
				return err
			}
			if ip := net.ParseIP(host); ip != nil && isPrivateIP(ip) {
				return fmt.Errorf("%w: connection to private IP address %s", ErrBlockedEndpoint, ip)
			}
			return nil
		}
	}
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.DialContext = dialer.DialContext
	return &http.Client{Transport: transport}
}

func (s *apiSource) Load(ctx context.Context, opts Options) ([]Record, error) {
	if err := s.validateEndpoint(opts.APIEndpoint); err != nil {
		return nil, &SourceError{Op: "error setting up API request", Err: err}
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, opts.APIEndpoint, nil)
	if err != nil {
		return nil, &SourceError{Op: "error setting up API request", Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if opts.APIAuth != nil && opts.APIAuth.Username != "" {
		req.SetBasicAuth(opts.APIAuth.Username, opts.APIAuth.Password)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		if errors.Is(err, ErrBlockedEndpoint) {
			return nil, &SourceError{Op: "error setting up API request", Err: err}
		}
		return nil, &SourceError{Op: "no response received from API", Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxAPIResponseSize))
	if err != nil {
		return nil, &SourceError{Op: "error reading API response", Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &SourceError{
			Op:  "API responded with error status",
			Err: fmt.Errorf("%d %s: %s", resp.StatusCode, http.StatusText(resp.StatusCode), truncate(string(body), 200)),
		}
	}

	records, err := decodeRecords(body)
	if err != nil {
		return nil, &SourceError{Op: "error processing API response", Err: err}
	}
	return records, nil
}

func truncate(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

// validateEndpoint only allows http(s) URLs. Unless allowPrivate is set the
// host must not resolve to a loopback, private or link-local address.
func (s *apiSource) validateEndpoint(rawURL string) error {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("URL scheme '%s' is not allowed; only http and https are permitted", parsed.Scheme)
	}
	host := parsed.Hostname()
	if host == "" {
		return errors.New("URL has no hostname")
	}
	if s.allowPrivate {
		return nil
	}
	if strings.EqualFold(host, "localhost") {
		return fmt.Errorf("%w: requests to localhost are not allowed", ErrBlockedEndpoint)
	}

	ips, err := s.lookupIP(host)
	if err != nil {
		return fmt.Errorf("failed to resolve hostname '%s': %w", host, err)
	}
	for _, ip := range ips {
		if isPrivateIP(ip) {
			return fmt.Errorf("%w: URL resolves to private IP address %s", ErrBlockedEndpoint, ip.String())
		}
	}
	return nil
}

func isPrivateIP(ip net.IP) bool {
	return ip.IsLoopback() || ip.IsPrivate() || ip.IsLinkLocalUnicast() ||
		ip.IsLinkLocalMulticast() || ip.IsUnspecified()
}
