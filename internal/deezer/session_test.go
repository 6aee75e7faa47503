package deezer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"
)

type gatewayCall struct {
	method string
	token  string
	arl    string
	body   string
}

// newGateway serves a fake gateway endpoint. The user-identity lookup
// is answered with the given user ID; every other method is answered
// by handle.
func newGateway(t *testing.T, userID int64, handle func(method string) string) (*httptest.Server, func() []gatewayCall) {
	t.Helper()

	var mu sync.Mutex
	var calls []gatewayCall

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)

		arl := ""
		if c, err := r.Cookie("arl"); err == nil {
			arl = c.Value
		}

		q := r.URL.Query()
		if got := q.Get("api_version"); got != "1.0" {
			t.Errorf("api_version = %q, want %q", got, "1.0")
		}
		if got := q.Get("input"); got != "3" {
			t.Errorf("input = %q, want %q", got, "3")
		}

		method := q.Get("method")
		mu.Lock()
		calls = append(calls, gatewayCall{
			method: method,
			token:  q.Get("api_token"),
			arl:    arl,
			body:   string(body),
		})
		mu.Unlock()

		if method == methodGetUser {
			fmt.Fprintf(w, `{"error":[],"results":{"checkForm":"csrf-token","USER":{"USER_ID":%d}}}`, userID)
			return
		}
		io.WriteString(w, handle(method))
	}))
	t.Cleanup(server.Close)

	snapshot := func() []gatewayCall {
		mu.Lock()
		defer mu.Unlock()
		return append([]gatewayCall(nil), calls...)
	}
	return server, snapshot
}

func TestSession_CallPrivate(t *testing.T) {
	server, calls := newGateway(t, 42, func(method string) string {
		return `{"error":[],"results":{"SNG_ID":"3135556"}}`
	})

	session := NewSession("my-arl", &SessionOptions{GatewayURL: server.URL})
	ctx := context.Background()

	res, err := session.CallPrivate(ctx, methodGetTrack, map[string]any{"sng_id": 3135556})
	if err != nil {
		t.Fatalf("first call failed: %v", err)
	}
	if got := res.Get("SNG_ID").String(); got != "3135556" {
		t.Errorf("SNG_ID = %q, want %q", got, "3135556")
	}

	if _, err := session.CallPrivate(ctx, methodGetTrack, map[string]any{"sng_id": 3135556}); err != nil {
		t.Fatalf("second call failed: %v", err)
	}

	got := calls()
	if len(got) != 3 {
		t.Fatalf("gateway saw %d calls, want 3 (one refresh, two lookups)", len(got))
	}

	if got[0].method != methodGetUser {
		t.Errorf("first call method = %q, want %q", got[0].method, methodGetUser)
	}
	if got[0].token != "" {
		t.Errorf("refresh token = %q, want empty", got[0].token)
	}

	for i, call := range got[1:] {
		if call.method != methodGetTrack {
			t.Errorf("call %d method = %q, want %q", i+1, call.method, methodGetTrack)
		}
		if call.token != "csrf-token" {
			t.Errorf("call %d token = %q, want %q", i+1, call.token, "csrf-token")
		}
		if call.body != `{"sng_id":3135556}` {
			t.Errorf("call %d body = %q", i+1, call.body)
		}
	}

	for i, call := range got {
		if call.arl != "my-arl" {
			t.Errorf("call %d arl cookie = %q, want %q", i, call.arl, "my-arl")
		}
	}
}

func TestSession_RefreshLoginFailed(t *testing.T) {
	server, calls := newGateway(t, 0, func(method string) string {
		t.Errorf("unexpected method call %q after failed login", method)
		return `{}`
	})

	session := NewSession("stale-arl", &SessionOptions{GatewayURL: server.URL})

	if err := session.Refresh(context.Background()); !errors.Is(err, ErrLoginFailed) {
		t.Fatalf("Refresh() error = %v, want ErrLoginFailed", err)
	}

	// A private call must stop at the failed refresh and never reach
	// the target method.
	_, err := session.CallPrivate(context.Background(), methodGetTrack, nil)
	if !errors.Is(err, ErrLoginFailed) {
		t.Fatalf("CallPrivate() error = %v, want ErrLoginFailed", err)
	}

	for _, call := range calls() {
		if call.method != methodGetUser {
			t.Errorf("gateway saw method %q, want only %q", call.method, methodGetUser)
		}
	}
}

func TestSession_TokenExpiry(t *testing.T) {
	server, calls := newGateway(t, 42, func(method string) string {
		return `{"error":[],"results":{}}`
	})

	session := NewSession("my-arl", &SessionOptions{GatewayURL: server.URL})
	current := time.Now()
	session.now = func() time.Time { return current }

	ctx := context.Background()
	if _, err := session.CallPrivate(ctx, methodGetTrack, nil); err != nil {
		t.Fatalf("first call failed: %v", err)
	}

	// Exactly at the expiry instant the token no longer counts as
	// valid.
	current = current.Add(sessionTTL)
	if _, err := session.CallPrivate(ctx, methodGetTrack, nil); err != nil {
		t.Fatalf("second call failed: %v", err)
	}

	refreshes := 0
	for _, call := range calls() {
		if call.method == methodGetUser {
			refreshes++
		}
	}
	if refreshes != 2 {
		t.Errorf("gateway saw %d refreshes, want 2", refreshes)
	}
}

func TestSession_GatewayErrorEnvelope(t *testing.T) {
	tests := []struct {
		name        string
		response    string
		wantType    string
		wantMessage string
	}{
		{
			name:        "object envelope",
			response:    `{"error":{"VALID_TOKEN_REQUIRED":"Invalid CSRF token"},"results":{}}`,
			wantType:    "VALID_TOKEN_REQUIRED",
			wantMessage: "Invalid CSRF token",
		},
		{
			name:        "array envelope",
			response:    `{"error":["GATEWAY_ERROR"],"results":{}}`,
			wantType:    "GatewayError",
			wantMessage: "GATEWAY_ERROR",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server, _ := newGateway(t, 42, func(method string) string {
				return tt.response
			})
			session := NewSession("my-arl", &SessionOptions{GatewayURL: server.URL})

			_, err := session.CallPrivate(context.Background(), methodGetTrack, nil)
			var apiErr *APIError
			if !errors.As(err, &apiErr) {
				t.Fatalf("error = %v (%T), want *APIError", err, err)
			}
			if apiErr.Type != tt.wantType {
				t.Errorf("Type = %q, want %q", apiErr.Type, tt.wantType)
			}
			if apiErr.Message != tt.wantMessage {
				t.Errorf("Message = %q, want %q", apiErr.Message, tt.wantMessage)
			}
		})
	}
}

func TestSession_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	t.Cleanup(server.Close)

	session := NewSession("my-arl", &SessionOptions{GatewayURL: server.URL})

	err := session.Refresh(context.Background())
	var reqErr *RequestError
	if !errors.As(err, &reqErr) {
		t.Fatalf("error = %v (%T), want *RequestError", err, err)
	}
	if reqErr.StatusCode != http.StatusInternalServerError {
		t.Errorf("StatusCode = %d, want %d", reqErr.StatusCode, http.StatusInternalServerError)
	}
}
