package deezer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	ihttp "github.com/handiism/deezer-downloader/internal/http"
)

// API endpoints and gateway method names.
const (
	defaultGatewayURL = "http://www.deezer.com/ajax/gw-light.php"
	defaultPublicURL  = "https://api.deezer.com/"

	methodGetUser   = "deezer.getUserData"
	methodGetTrack  = "song.getData"
	methodGetLyrics = "song.getLyrics"
	methodPageTrack = "deezer.pageTrack"
)

// sessionTTL is how long a gateway token stays valid after a refresh.
const sessionTTL = time.Hour

// Session owns the authentication state for Deezer's gateway API.
//
// A Session is created from the long-lived arl cookie of a logged-in
// account. The short-lived CSRF token required on gateway calls is
// fetched on demand and refreshed transparently whenever it is missing
// or expired, so callers only ever invoke CallPrivate.
//
// A Session is safe for concurrent use; in-flight calls share one
// transport pool.
//
// Example:
//
//	session := deezer.NewSession(arl, nil)
//	res, err := session.CallPrivate(ctx, "deezer.pageTrack", map[string]any{"sng_id": 3135556})
//	if errors.Is(err, deezer.ErrLoginFailed) {
//	    // the arl cookie is no longer valid
//	}
type Session struct {
	arl  string
	http *ihttp.Client
	log  *zap.Logger

	gatewayURL string
	publicURL  string

	mu        sync.Mutex
	csrfToken string
	expiresAt time.Time

	now func() time.Time
}

// SessionOptions customizes a Session. The zero value (or nil) selects
// the production endpoints, a fresh HTTP client, and no logging.
type SessionOptions struct {
	// HTTPClient is the shared transport. A new one is created when nil.
	HTTPClient *ihttp.Client

	// Logger receives debug traces of gateway traffic. zap.NewNop()
	// when nil.
	Logger *zap.Logger

	// GatewayURL overrides the gateway endpoint, for tests and mirrors.
	GatewayURL string

	// PublicAPIURL overrides the public API base URL.
	PublicAPIURL string
}

// NewSession creates a session around the given arl cookie. The cookie
// is not validated here; the first gateway call performs the login
// check.
func NewSession(arl string, opts *SessionOptions) *Session {
	if opts == nil {
		opts = &SessionOptions{}
	}

	s := &Session{
		arl:        arl,
		http:       opts.HTTPClient,
		log:        opts.Logger,
		gatewayURL: opts.GatewayURL,
		publicURL:  opts.PublicAPIURL,
		now:        time.Now,
	}
	if s.http == nil {
		s.http = ihttp.NewClient()
	}
	if s.log == nil {
		s.log = zap.NewNop()
	}
	if s.gatewayURL == "" {
		s.gatewayURL = defaultGatewayURL
	}
	if s.publicURL == "" {
		s.publicURL = defaultPublicURL
	}

	return s
}

// HTTPClient returns the shared transport so collaborators reuse the
// same connection pool and cookie jar.
func (s *Session) HTTPClient() *ihttp.Client {
	return s.http
}

// Refresh fetches a new CSRF token from the gateway.
//
// Returns ErrLoginFailed when the gateway reports the anonymous user,
// which means the arl cookie was rejected. On success the token is
// valid for one hour.
func (s *Session) Refresh(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.refreshLocked(ctx)
}

func (s *Session) refreshLocked(ctx context.Context) error {
	res, err := s.callGateway(ctx, methodGetUser, s.csrfToken, nil)
	if err != nil {
		return err
	}

	if res.Get("USER.USER_ID").Int() == 0 {
		return ErrLoginFailed
	}

	s.csrfToken = res.Get("checkForm").String()
	s.expiresAt = s.now().Add(sessionTTL)
	s.log.Debug("gateway session refreshed",
		zap.Time("expires_at", s.expiresAt))

	return nil
}

// ensureToken refreshes the CSRF token when it is empty or no longer
// strictly before its expiry.
func (s *Session) ensureToken(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.csrfToken != "" && s.now().Before(s.expiresAt) {
		return nil
	}
	return s.refreshLocked(ctx)
}

// CallPrivate invokes a gateway API method and returns its results
// payload.
//
// For every method except the user-identity lookup the CSRF token is
// refreshed first when missing or expired. body is marshalled as the
// JSON request payload; pass nil for methods without one.
//
// A non-2xx response is a *RequestError. A non-empty error member in
// the decoded response is surfaced as *APIError.
func (s *Session) CallPrivate(ctx context.Context, method string, body any) (gjson.Result, error) {
	if method != methodGetUser {
		if err := s.ensureToken(ctx); err != nil {
			return gjson.Result{}, err
		}
	}

	s.mu.Lock()
	token := s.csrfToken
	s.mu.Unlock()

	return s.callGateway(ctx, method, token, body)
}

// callGateway performs one POST against the gateway without any token
// bookkeeping.
func (s *Session) callGateway(ctx context.Context, method, token string, body any) (gjson.Result, error) {
	query := url.Values{
		"api_version": {"1.0"},
		"api_token":   {token},
		"input":       {"3"},
		"method":      {method},
	}

	var payload io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return gjson.Result{}, fmt.Errorf("marshal gateway body: %w", err)
		}
		payload = bytes.NewReader(data)
	}

	reqURL := s.gatewayURL + "?" + query.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, payload)
	if err != nil {
		return gjson.Result{}, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.AddCookie(&http.Cookie{Name: "arl", Value: s.arl})

	s.log.Debug("calling gateway", zap.String("method", method))

	resp, err := s.http.Do(req)
	if err != nil {
		return gjson.Result{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return gjson.Result{}, &RequestError{
			URL:        s.gatewayURL,
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
		}
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return gjson.Result{}, err
	}

	parsed := gjson.ParseBytes(raw)
	if err := gatewayError(parsed); err != nil {
		return gjson.Result{}, err
	}

	return parsed.Get("results"), nil
}

// gatewayError extracts the error envelope of a gateway response.
// Successful responses carry an empty error array.
func gatewayError(parsed gjson.Result) error {
	e := parsed.Get("error")
	if !e.Exists() {
		return nil
	}

	switch {
	case e.IsObject():
		var apiErr *APIError
		e.ForEach(func(key, value gjson.Result) bool {
			apiErr = &APIError{Type: key.String(), Message: value.String()}
			return false
		})
		if apiErr != nil {
			return apiErr
		}
	case e.IsArray():
		if arr := e.Array(); len(arr) > 0 {
			return &APIError{Type: "GatewayError", Message: arr[0].String()}
		}
	}

	return nil
}

// publicGet performs one unauthenticated GET against the public API
// and returns the raw body.
func (s *Session) publicGet(ctx context.Context, path string, query url.Values) ([]byte, error) {
	reqURL := s.publicURL + strings.TrimPrefix(path, "/")
	if len(query) > 0 {
		reqURL += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := s.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &RequestError{
			URL:        reqURL,
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
		}
	}

	return io.ReadAll(resp.Body)
}
