// Package httptransport provides the outbound http.RoundTripper shared by
// every API call: it stamps a request ID and a stable User-Agent so
// server-side logs can be correlated with client activity.
package httptransport

import (
	"net/http"

	"github.com/google/uuid"
)

const (
	HeaderRequestID = "X-Request-ID"

	defaultUserAgent = "urbanaid-go"
)

type Transport struct {
	Base      http.RoundTripper
	UserAgent string
}

var _ http.RoundTripper = (*Transport)(nil)

func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	cloned := req.Clone(req.Context())

	if cloned.Header.Get(HeaderRequestID) == "" {
		cloned.Header.Set(HeaderRequestID, uuid.NewString())
	}
	if cloned.Header.Get("User-Agent") == "" {
		userAgent := t.UserAgent
		if userAgent == "" {
			userAgent = defaultUserAgent
		}
		cloned.Header.Set("User-Agent", userAgent)
	}

	base := t.Base
	if base == nil {
		base = http.DefaultTransport
	}
	return base.RoundTrip(cloned)
}

// NewHTTPClient returns an http.Client wired with the stamping transport.
func NewHTTPClient(base *http.Client, userAgent string) *http.Client {
	client := http.Client{}
	if base != nil {
		client = *base
	}

	client.Transport = &Transport{
		Base:      client.Transport,
		UserAgent: userAgent,
	}
	return &client
}
