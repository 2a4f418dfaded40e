// Package handlertest holds fixtures shared by the handler tests.
package handlertest

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/habitrack/habit-admin/internal/auth"
	"github.com/habitrack/habit-admin/internal/baas"
	"github.com/habitrack/habit-admin/internal/config"
	"github.com/habitrack/habit-admin/internal/db/controller/admin"
	"github.com/habitrack/habit-admin/internal/db/models"
	"github.com/habitrack/habit-admin/internal/events"
	"github.com/habitrack/habit-admin/internal/web/handler"
	"github.com/habitrack/habit-admin/internal/web/session"
)

// TokenSecret signs test access tokens.
const TokenSecret = "test-jwt-secret-test-jwt-secret-test"

// NewDB opens a migrated in-memory database.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err, "failed to create test database")

	// every new connection would see its own empty in-memory database
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(models.All()...), "failed to migrate test database")

	return db
}

// Env is a ready to use handler environment.
type Env struct {
	App       *fiber.App
	Deps      *handler.Deps
	Publisher *events.MemoryPublisher
	Users     *FakeUsers
	Verifier  *auth.TokenVerifier
}

// NewEnv returns an app with the JSON error handler, an in-memory session
// store and dependencies backed by db.
func NewEnv(t *testing.T, db *gorm.DB) *Env {
	t.Helper()

	session.Init(nil)

	pub := &events.MemoryPublisher{}
	verifier := auth.NewTokenVerifier(TokenSecret, "")
	users := NewFakeUsers()

	return &Env{
		App:       fiber.New(fiber.Config{ErrorHandler: handler.ErrorHandler}),
		Publisher: pub,
		Users:     users,
		Verifier:  verifier,
		Deps: &handler.Deps{
			Config: &config.Config{
				Webserver: config.Webserver{Session: config.Session{ExpiryTime: time.Hour}},
				Schedule:  config.Schedule{Location: "UTC"},
			},
			DB:       db,
			Auth:     auth.NewService(db, verifier, auth.NewLocalProvider(db, "HabitAdmin")),
			Notifier: events.NewNotifier(pub, "habitadmin"),
			Users:    users,
		},
	}
}

// Token promotes a BaaS user to role and returns a bearer token for it.
func (e *Env) Token(t *testing.T, userID string, role models.Role) string {
	t.Helper()

	_, err := admin.Promote(context.Background(), e.Deps.DB, userID, userID+"@example.com", role)
	require.NoError(t, err)

	token, err := e.Verifier.Sign(userID, time.Hour)
	require.NoError(t, err)

	return token
}

// Response is a decoded JSON response.
type Response struct {
	Status  int
	Body    map[string]any
	Raw     []byte
	Cookies []*http.Cookie
}

// Data returns the data object of a success envelope.
func (r Response) Data() map[string]any {
	m, _ := r.Body["data"].(map[string]any)

	return m
}

// List returns the data array of a success envelope.
func (r Response) List() []any {
	l, _ := r.Body["data"].([]any)

	return l
}

// Request options.
type Request struct {
	Method string
	Path   string
	Body   any
	Token  string
	Cookie string
}

// Do sends req through the app.
func (e *Env) Do(t *testing.T, req Request) Response {
	t.Helper()

	var body io.Reader
	if req.Body != nil {
		raw, err := json.Marshal(req.Body)
		require.NoError(t, err)
		body = bytes.NewReader(raw)
	}

	r := httptest.NewRequest(req.Method, req.Path, body)
	if req.Body != nil {
		r.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	if req.Token != "" {
		r.Header.Set(fiber.HeaderAuthorization, "Bearer "+req.Token)
	}
	if req.Cookie != "" {
		r.AddCookie(&http.Cookie{Name: session.CookieName, Value: req.Cookie})
	}

	resp, err := e.App.Test(r, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	out := Response{Status: resp.StatusCode, Raw: raw, Cookies: resp.Cookies()}
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &out.Body), string(raw))
	}

	return out
}

// FakeUsers is an in-memory UserDirectory.
type FakeUsers struct {
	mu      sync.Mutex
	users   []baas.User
	Banned  map[string]string
	Deleted []string
	Err     error
}

// NewFakeUsers returns an empty directory.
func NewFakeUsers() *FakeUsers {
	return &FakeUsers{Banned: map[string]string{}}
}

// Add appends users.
func (f *FakeUsers) Add(users ...baas.User) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.users = append(f.users, users...)
}

// ListUsers implements handler.UserDirectory.
func (f *FakeUsers) ListUsers(_ context.Context, page, perPage int) (*baas.UserPage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.Err != nil {
		return nil, f.Err
	}

	start := min((page-1)*perPage, len(f.users))
	end := min(start+perPage, len(f.users))

	return &baas.UserPage{Users: append([]baas.User{}, f.users[start:end]...), Total: len(f.users)}, nil
}

// GetUser implements handler.UserDirectory.
func (f *FakeUsers) GetUser(_ context.Context, id string) (*baas.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.Err != nil {
		return nil, f.Err
	}

	for i := range f.users {
		if f.users[i].ID == id {
			u := f.users[i]

			return &u, nil
		}
	}

	return nil, baas.ErrUserNotFound
}

// BanUser implements handler.UserDirectory.
func (f *FakeUsers) BanUser(_ context.Context, id, duration string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.Err != nil {
		return f.Err
	}

	f.Banned[id] = duration

	return nil
}

// UnbanUser implements handler.UserDirectory.
func (f *FakeUsers) UnbanUser(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.Err != nil {
		return f.Err
	}

	delete(f.Banned, id)

	return nil
}

// DeleteUser implements handler.UserDirectory.
func (f *FakeUsers) DeleteUser(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.Err != nil {
		return f.Err
	}

	f.Deleted = append(f.Deleted, id)

	return nil
}

// CountUsers implements handler.UserDirectory.
func (f *FakeUsers) CountUsers(context.Context) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.Err != nil {
		return 0, f.Err
	}

	return len(f.users), nil
}
