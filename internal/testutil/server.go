package testutil

import (
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"keycraftcaps.com/keycraft-web/internal/catalog"
	"keycraftcaps.com/keycraft-web/internal/httpserver"
	"keycraftcaps.com/keycraft-web/internal/httpserver/middleware"
	"keycraftcaps.com/keycraft-web/internal/storefront"
	"keycraftcaps.com/keycraft-web/internal/templates"
)

const (
	testSigningKey = "keycraft-test-signing-key-0123456789"
	sessionCookie  = "keycraft_session"
)

// ServerOption customises the HTTP server configuration for tests.
type ServerOption func(*serverSettings)

type serverSettings struct {
	cfg        httpserver.Config
	storeOpts  []storefront.StoreOption
	signingKey string
}

// WithCatalog replaces the default catalog.
func WithCatalog(c *catalog.Catalog) ServerOption {
	return func(s *serverSettings) {
		s.cfg.Catalog = c
	}
}

// WithLogger sets the server logger.
func WithLogger(logger *zap.Logger) ServerOption {
	return func(s *serverSettings) {
		s.cfg.Logger = logger
	}
}

// WithBaseURL sets the absolute URL used for canonical links.
func WithBaseURL(u string) ServerOption {
	return func(s *serverSettings) {
		s.cfg.BaseURL = u
	}
}

// WithStoreOptions forwards options to the session store.
func WithStoreOptions(opts ...storefront.StoreOption) ServerOption {
	return func(s *serverSettings) {
		s.storeOpts = append(s.storeOpts, opts...)
	}
}

// WithClock fixes the time used by page rendering.
func WithClock(now func() time.Time) ServerOption {
	return func(s *serverSettings) {
		s.cfg.Now = now
	}
}

// Server is an httptest server running the storefront stack with a
// cookie-aware client that does not follow redirects.
type Server struct {
	*httptest.Server
	Client *http.Client
	Store  *storefront.Store
}

// NewServer constructs the storefront server with sensible defaults.
func NewServer(t testing.TB, opts ...ServerOption) *Server {
	t.Helper()

	settings := serverSettings{
		cfg: httpserver.Config{
			Addr:   ":0",
			Logger: zap.NewNop(),
		},
		signingKey: testSigningKey,
	}
	for _, opt := range opts {
		opt(&settings)
	}
	cfg := settings.cfg
	if cfg.Catalog == nil {
		cfg.Catalog = catalog.MustDefault()
	}

	renderer, err := templates.New()
	if err != nil {
		t.Fatalf("parse templates: %v", err)
	}
	sessions, err := middleware.NewSessions(middleware.SessionConfig{SigningKey: []byte(settings.signingKey)})
	if err != nil {
		t.Fatalf("sessions: %v", err)
	}
	cfg.Renderer = renderer
	cfg.Sessions = sessions
	cfg.Store = storefront.NewStore(cfg.Catalog, settings.storeOpts...)

	handler, err := httpserver.NewHandler(cfg)
	if err != nil {
		t.Fatalf("build handler: %v", err)
	}
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)

	return &Server{Server: ts, Client: NewClient(t), Store: cfg.Store}
}

// NewClient returns a client with its own cookie jar, i.e. its own session.
func NewClient(t testing.TB) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("cookie jar: %v", err)
	}
	return &http.Client{
		Jar: jar,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

// Response is a fully read HTTP response.
type Response struct {
	*http.Response
	Body []byte
}

// Get issues a GET with optional headers.
func (s *Server) Get(t testing.TB, client *http.Client, path string, header http.Header) Response {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, s.URL+path, nil)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	for k, v := range header {
		req.Header[k] = v
	}
	return do(t, client, req)
}

// PostForm posts form values with optional headers.
func (s *Server) PostForm(t testing.TB, client *http.Client, path string, form url.Values, header http.Header) Response {
	t.Helper()
	req, err := http.NewRequest(http.MethodPost, s.URL+path, strings.NewReader(form.Encode()))
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for k, v := range header {
		req.Header[k] = v
	}
	return do(t, client, req)
}

// CSRFToken loads the home page and returns the token from its meta tag.
func (s *Server) CSRFToken(t testing.TB, client *http.Client) string {
	t.Helper()
	res := s.Get(t, client, "/", nil)
	token, ok := ParseHTML(t, res.Body).Find(`meta[name="csrf-token"]`).Attr("content")
	if !ok || token == "" {
		t.Fatalf("csrf token not found")
	}
	return token
}

func do(t testing.TB, client *http.Client, req *http.Request) Response {
	t.Helper()
	res, err := client.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", req.Method, req.URL.Path, err)
	}
	defer res.Body.Close()
	body, err := io.ReadAll(res.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return Response{Response: res, Body: body}
}

// SessionID decodes the session id from client's session cookie.
func (s *Server) SessionID(t testing.TB, client *http.Client) string {
	t.Helper()
	u, err := url.Parse(s.URL)
	if err != nil {
		t.Fatalf("parse server url: %v", err)
	}
	for _, c := range client.Jar.Cookies(u) {
		if c.Name != sessionCookie {
			continue
		}
		payload, _, _ := strings.Cut(c.Value, ".")
		raw, err := base64.RawURLEncoding.DecodeString(payload)
		if err != nil {
			t.Fatalf("decode session cookie: %v", err)
		}
		var sd middleware.SessionData
		if err := json.Unmarshal(raw, &sd); err != nil {
			t.Fatalf("unmarshal session cookie: %v", err)
		}
		return sd.ID
	}
	t.Fatalf("session cookie not found")
	return ""
}
