package api_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-logr/logr"

	"github.com/urbanaid/urbanaid-go/pkg/api"
	oerrors "github.com/urbanaid/urbanaid-go/pkg/errors"
	"github.com/urbanaid/urbanaid-go/pkg/export"
	"github.com/urbanaid/urbanaid-go/pkg/session"
)

type fakeTokenSource struct {
	token        string
	refreshCalls int
}

func (f *fakeTokenSource) AccessToken(ctx context.Context) (string, bool) {
	return f.token, f.token != ""
}

func (f *fakeTokenSource) Refresh(ctx context.Context) {
	f.refreshCalls++
}

func newClient(t *testing.T, baseURL string, tokens *fakeTokenSource) *api.Client {
	t.Helper()

	client, err := api.NewClient(api.Config{
		BaseURL: baseURL,
		Session: tokens,
		Logger:  logr.Discard(),
	})
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}
	return client
}

func TestLoginDecodesEnvelope(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/v1/auth/login" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"success": true,
			"data": {
				"access_token": "access-1",
				"refresh_token": "refresh-1",
				"user": {"username": "ravi", "role": "provider", "provider": {"id": 7, "is_approved": true, "is_blocked": false}}
			}
		}`))
	}))
	defer server.Close()

	client := newClient(t, server.URL, &fakeTokenSource{})

	result, err := client.Login(context.Background(), session.Credentials{Username: "ravi", Password: "secret"})
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	if result.Tokens.Access != "access-1" || result.Tokens.Refresh != "refresh-1" {
		t.Fatalf("unexpected tokens %+v", result.Tokens)
	}
	if result.User.Username != "ravi" || result.User.Role != session.RoleProvider {
		t.Fatalf("unexpected user %+v", result.User)
	}
	if result.User.Provider == nil || result.User.Provider.ID != 7 {
		t.Fatalf("unexpected provider payload %+v", result.User.Provider)
	}
}

func TestLoginRejectsIncompletePayload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success": true, "data": {"access_token": "access-1"}}`))
	}))
	defer server.Close()

	client := newClient(t, server.URL, &fakeTokenSource{})

	_, err := client.Login(context.Background(), session.Credentials{Username: "ravi", Password: "secret"})
	if !oerrors.IsCode(err, oerrors.CodeMalformedResponse) {
		t.Fatalf("expected malformed response error, got %v", err)
	}
	if got := oerrors.Message(err, ""); got != "Login failed. Missing necessary user data !!" {
		t.Fatalf("unexpected message %q", got)
	}
}

func TestLoginSurfacesServerMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"success": false, "err_message": "Incorrect password!!"}`))
	}))
	defer server.Close()

	client := newClient(t, server.URL, &fakeTokenSource{})

	_, err := client.Login(context.Background(), session.Credentials{Username: "ravi", Password: "wrong"})
	if !oerrors.IsCode(err, oerrors.CodeRequestFailed) {
		t.Fatalf("expected request failed error, got %v", err)
	}
	if got := oerrors.Message(err, ""); got != "Incorrect password!!" {
		t.Fatalf("unexpected message %q", got)
	}
}

func TestAuthorizedCallWithoutTokenFailsFast(t *testing.T) {
	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
	}))
	defer server.Close()

	client := newClient(t, server.URL, &fakeTokenSource{})

	_, err := client.ProviderListServices(context.Background(), 7, 1)
	if !oerrors.IsCode(err, oerrors.CodeMissingCredentials) {
		t.Fatalf("expected missing credentials error, got %v", err)
	}
	if requests != 0 {
		t.Fatalf("expected no network round trip without a token, got %d", requests)
	}
}

func TestExpiredTokenTriggersRefresh(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer stale-token" {
			t.Errorf("unexpected authorization header %q", got)
		}
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"success": false, "errors": {"token_type": "access"}}`))
	}))
	defer server.Close()

	tokens := &fakeTokenSource{token: "stale-token"}
	client := newClient(t, server.URL, tokens)

	_, err := client.ProviderListServices(context.Background(), 7, 1)
	if !oerrors.IsCode(err, oerrors.CodeTokenExpired) {
		t.Fatalf("expected token expired error, got %v", err)
	}
	if got := oerrors.Message(err, ""); got != "Auth Token Expired!!" {
		t.Fatalf("unexpected message %q", got)
	}
	if tokens.refreshCalls != 1 {
		t.Fatalf("expected one refresh trigger, got %d", tokens.refreshCalls)
	}
}

func TestPlain401DoesNotTriggerRefresh(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"success": false, "err_message": "Unauthorized"}`))
	}))
	defer server.Close()

	tokens := &fakeTokenSource{token: "some-token"}
	client := newClient(t, server.URL, tokens)

	_, err := client.ProviderListServices(context.Background(), 7, 1)
	if !oerrors.IsCode(err, oerrors.CodeRequestFailed) {
		t.Fatalf("expected request failed error, got %v", err)
	}
	if tokens.refreshCalls != 0 {
		t.Fatalf("expected no refresh without the token_type signal, got %d", tokens.refreshCalls)
	}
}

func TestMalformedBodyIsReported(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<!doctype html><html>`))
	}))
	defer server.Close()

	client := newClient(t, server.URL, &fakeTokenSource{token: "some-token"})

	_, err := client.ProviderListServices(context.Background(), 7, 1)
	if !oerrors.IsCode(err, oerrors.CodeMalformedResponse) {
		t.Fatalf("expected malformed response error, got %v", err)
	}
}

func TestMissingPayloadFieldsAreReported(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success": true, "data": {"page": 1}}`))
	}))
	defer server.Close()

	client := newClient(t, server.URL, &fakeTokenSource{token: "some-token"})

	_, err := client.ProviderListServices(context.Background(), 7, 1)
	if !oerrors.IsCode(err, oerrors.CodeMalformedResponse) {
		t.Fatalf("expected malformed response error, got %v", err)
	}
	if got := oerrors.Message(err, ""); got != "Data has missing required fields: services" {
		t.Fatalf("unexpected message %q", got)
	}
}

func TestRefreshTokensUsesRefreshBearer(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer refresh-1" {
			t.Errorf("unexpected authorization header %q", got)
		}
		w.Write([]byte(`{"success": true, "data": {"access_token": "access-2", "refresh_token": "refresh-2"}}`))
	}))
	defer server.Close()

	client := newClient(t, server.URL, &fakeTokenSource{})

	tokens, err := client.RefreshTokens(context.Background(), "refresh-1")
	if err != nil {
		t.Fatalf("refresh failed: %v", err)
	}
	if tokens.Access != "access-2" || tokens.Refresh != "refresh-2" {
		t.Fatalf("unexpected tokens %+v", tokens)
	}
}

func TestRefreshTokensRequiresToken(t *testing.T) {
	client := newClient(t, "http://localhost:0", &fakeTokenSource{})

	_, err := client.RefreshTokens(context.Background(), "")
	if !oerrors.IsCode(err, oerrors.CodeMissingCredentials) {
		t.Fatalf("expected missing credentials error, got %v", err)
	}
}

func TestExportRequestDecodesRawAccepted(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/v1/providers/7/closed-bookings/export" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		w.WriteHeader(http.StatusAccepted)
		w.Write([]byte(`{"id": "task-1", "status": "PENDING"}`))
	}))
	defer server.Close()

	client := newClient(t, server.URL, &fakeTokenSource{token: "some-token"})

	job, err := client.ProviderRequestClosedBookingsExport(context.Background(), 7)
	if err != nil {
		t.Fatalf("export request failed: %v", err)
	}
	if job.ID != "task-1" || job.Status != export.StatusPending {
		t.Fatalf("unexpected job %+v", job)
	}
}

func TestExportRequestExpiredTokenTriggersRefresh(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"success": false, "errors": {"token_type": "access"}}`))
	}))
	defer server.Close()

	tokens := &fakeTokenSource{token: "stale-token"}
	client := newClient(t, server.URL, tokens)

	_, err := client.ProviderRequestClosedBookingsExport(context.Background(), 7)
	if !oerrors.IsCode(err, oerrors.CodeTokenExpired) {
		t.Fatalf("expected token expired error, got %v", err)
	}
	if got := oerrors.Message(err, ""); got != "Auth Token Expired!!" {
		t.Fatalf("unexpected message %q", got)
	}
	if tokens.refreshCalls != 1 {
		t.Fatalf("expected one refresh trigger, got %d", tokens.refreshCalls)
	}
}

func TestExportRequestPlainFailureDoesNotTriggerRefresh(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"success": false}`))
	}))
	defer server.Close()

	tokens := &fakeTokenSource{token: "some-token"}
	client := newClient(t, server.URL, tokens)

	_, err := client.ProviderRequestClosedBookingsExport(context.Background(), 7)
	if !oerrors.IsCode(err, oerrors.CodeRequestFailed) {
		t.Fatalf("expected request failed error, got %v", err)
	}
	if tokens.refreshCalls != 0 {
		t.Fatalf("expected no refresh trigger, got %d", tokens.refreshCalls)
	}
}

func TestExportRequestRejectsMissingTaskID(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusAccepted)
		w.Write([]byte(`{"status": "PENDING"}`))
	}))
	defer server.Close()

	client := newClient(t, server.URL, &fakeTokenSource{token: "some-token"})

	_, err := client.ProviderRequestClosedBookingsExport(context.Background(), 7)
	if !oerrors.IsCode(err, oerrors.CodeMalformedResponse) {
		t.Fatalf("expected malformed response error, got %v", err)
	}
}

func TestExportStatusFetchesJobSnapshot(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/providers/7/closed-bookings/export/task-1" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Write([]byte(`{"success": true, "data": {"id": "task-1", "status": "SUCCESS", "filename": "closed_bookings_7.csv"}}`))
	}))
	defer server.Close()

	client := newClient(t, server.URL, &fakeTokenSource{token: "some-token"})

	job, err := client.ProviderExportStatus(7)(context.Background(), "task-1")
	if err != nil {
		t.Fatalf("status fetch failed: %v", err)
	}
	if job.Status != export.StatusSuccess || job.Filename != "closed_bookings_7.csv" {
		t.Fatalf("unexpected job %+v", job)
	}
}

func TestRequestIDHeaderIsStamped(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-Request-ID") == "" {
			t.Error("expected request id header")
		}
		w.Write([]byte(`{"success": true, "data": {"categories": []}}`))
	}))
	defer server.Close()

	client := newClient(t, server.URL, &fakeTokenSource{})

	if _, err := client.ListCategories(context.Background(), 1, false); err != nil {
		t.Fatalf("list categories failed: %v", err)
	}
}
