// Package api wraps the booking-marketplace REST API. Responses share one
// JSON envelope; an expired access token is signalled by HTTP 401 plus a
// structured token_type error, which triggers a background session refresh
// while the failing call is surfaced to the caller for manual retry.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-logr/logr"

	oerrors "github.com/urbanaid/urbanaid-go/pkg/errors"
	httptransport "github.com/urbanaid/urbanaid-go/pkg/transport/http"
)

// TokenSource supplies the current access token and accepts the
// refresh-on-expiry signal. The session manager satisfies it.
type TokenSource interface {
	AccessToken(ctx context.Context) (string, bool)
	Refresh(ctx context.Context)
}

type Config struct {
	BaseURL    string
	Session    TokenSource
	HTTPClient *http.Client
	UserAgent  string
	Logger     logr.Logger
}

type Client struct {
	baseURL string
	session TokenSource
	http    *http.Client
	logger  logr.Logger
}

func NewClient(config Config) (*Client, error) {
	if config.BaseURL == "" {
		return nil, fmt.Errorf("api: base URL is required")
	}
	if config.Session == nil {
		return nil, fmt.Errorf("api: token source is required")
	}

	return &Client{
		baseURL: strings.TrimRight(config.BaseURL, "/"),
		session: config.Session,
		http:    httptransport.NewHTTPClient(config.HTTPClient, config.UserAgent),
		logger:  config.Logger,
	}, nil
}

type envelope struct {
	Success    bool            `json:"success"`
	Data       json.RawMessage `json:"data"`
	ErrMessage string          `json:"err_message"`
	Errors     *errorDetails   `json:"errors"`
}

type errorDetails struct {
	TokenType json.RawMessage `json:"token_type"`
}

// tokenExpired reports the structured expired-token signal: HTTP 401 alone
// is not enough, the body must carry errors.token_type.
func (e *envelope) tokenExpired(statusCode int) bool {
	return statusCode == http.StatusUnauthorized &&
		e.Errors != nil &&
		len(e.Errors.TokenType) > 0 &&
		!bytes.Equal(e.Errors.TokenType, []byte("null"))
}

type request struct {
	method   string
	path     string
	query    url.Values
	body     any
	fallback string

	// authorized calls require an access token up front and interpret the
	// expired-token signal; public calls send no credentials.
	authorized bool

	// bearer overrides the session access token, used by the token
	// refresh endpoint which authenticates with the refresh token.
	bearer string

	// raw skips envelope handling for endpoints that return a bare JSON
	// body (the export request returns 202 with the task snapshot).
	raw bool
}

func (c *Client) do(ctx context.Context, req request, out any) error {
	bearer := req.bearer
	if req.authorized && bearer == "" {
		token, ok := c.session.AccessToken(ctx)
		if !ok {
			return oerrors.New(oerrors.CodeMissingCredentials, "Auth token required to fetch data!!")
		}
		bearer = token
	}

	target := c.baseURL + req.path
	if len(req.query) > 0 {
		target += "?" + req.query.Encode()
	}

	var body io.Reader
	if req.body != nil {
		encoded, err := json.Marshal(req.body)
		if err != nil {
			return oerrors.Wrap(oerrors.CodeUnknown, "failed to encode request body", err)
		}
		body = bytes.NewReader(encoded)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.method, target, body)
	if err != nil {
		return oerrors.Wrap(oerrors.CodeUnknown, "failed to build request", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		httpReq.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return oerrors.Wrap(oerrors.CodeRequestFailed, req.fallback, err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return oerrors.Wrap(oerrors.CodeRequestFailed, req.fallback, err)
	}

	if req.raw {
		return c.decodeRaw(ctx, resp.StatusCode, payload, req, out)
	}
	return c.decodeEnvelope(ctx, resp.StatusCode, payload, req, out)
}

func (c *Client) decodeEnvelope(ctx context.Context, statusCode int, payload []byte, req request, out any) error {
	var env envelope
	if err := json.Unmarshal(payload, &env); err != nil {
		return oerrors.Wrap(oerrors.CodeMalformedResponse, req.fallback, err)
	}

	if req.authorized && env.tokenExpired(statusCode) {
		c.logger.V(1).Info("access token expired, triggering refresh", "path", req.path)
		c.session.Refresh(ctx)
		return oerrors.New(oerrors.CodeTokenExpired, "Auth Token Expired!!")
	}

	if statusCode < http.StatusOK || statusCode >= http.StatusMultipleChoices || !env.Success {
		message := env.ErrMessage
		if message == "" {
			message = req.fallback
		}
		return oerrors.New(oerrors.CodeRequestFailed, message)
	}

	if out == nil {
		return nil
	}
	if len(env.Data) == 0 {
		return oerrors.New(oerrors.CodeMalformedResponse, "Response has no data!!")
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return oerrors.Wrap(oerrors.CodeMalformedResponse, req.fallback, err)
	}
	return nil
}

func (c *Client) decodeRaw(ctx context.Context, statusCode int, payload []byte, req request, out any) error {
	if statusCode < http.StatusOK || statusCode >= http.StatusMultipleChoices {
		// Raw endpoints still report expired tokens through the shared
		// envelope, so failure bodies get the same treatment.
		if req.authorized && statusCode == http.StatusUnauthorized {
			var env envelope
			if err := json.Unmarshal(payload, &env); err == nil && env.tokenExpired(statusCode) {
				c.logger.V(1).Info("access token expired, triggering refresh", "path", req.path)
				c.session.Refresh(ctx)
				return oerrors.New(oerrors.CodeTokenExpired, "Auth Token Expired!!")
			}
		}
		return oerrors.New(oerrors.CodeRequestFailed, req.fallback)
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return oerrors.Wrap(oerrors.CodeMalformedResponse, req.fallback, err)
	}
	return nil
}

// missingFields is the shared malformed-response failure for a successful
// envelope that lacks an expected payload member.
func missingFields(name string) error {
	return oerrors.New(oerrors.CodeMalformedResponse, "Data has missing required fields: "+name)
}
