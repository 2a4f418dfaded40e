package fiber_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/habitrack/habit-admin/internal/logger"
	adapter "github.com/habitrack/habit-admin/internal/logger/adapter/fiber"
)

type accessLine struct {
	IP     string `json:"IP"`
	Status int    `json:"status"`
	URI    string `json:"URI"`
	Method string `json:"method"`
	Host   string `json:"host"`
	Actor  string `json:"actor"`
	Error  string `json:"error"`
}

func consoleConfig() logger.Log {
	return logger.Log{
		EnableAccessLogToConsole: true,
		Console:                  logger.Console{Enabled: true},
	}
}

func TestNew(t *testing.T) {
	tests := []struct {
		name   string
		method string
		target string
		config adapter.Config
		want   *accessLine
	}{
		{
			name:   "console disabled no output",
			method: fiber.MethodGet,
			target: "/api/status",
		},
		{
			name:   "get status",
			method: fiber.MethodGet,
			target: "/api/status",
			config: adapter.Config{Config: consoleConfig()},
			want:   &accessLine{Status: fiber.StatusOK, URI: "/api/status", Method: fiber.MethodGet, Host: "example.com"},
		},
		{
			name:   "query string is kept",
			method: fiber.MethodGet,
			target: "/api/status?lang=ar",
			config: adapter.Config{Config: consoleConfig()},
			want:   &accessLine{Status: fiber.StatusOK, URI: "/api/status?lang=ar", Method: fiber.MethodGet, Host: "example.com"},
		},
		{
			name:   "double slash is not normalized",
			method: fiber.MethodGet,
			target: "//api/status",
			config: adapter.Config{Config: consoleConfig()},
			want: &accessLine{
				Status: fiber.StatusNotFound, URI: "//api/status", Method: fiber.MethodGet,
				Host: "example.com", Error: "Cannot GET //api/status",
			},
		},
		{
			name:   "actor is logged",
			method: fiber.MethodPost,
			target: "/api/admin/challenges",
			config: adapter.Config{Config: consoleConfig()},
			want: &accessLine{
				Status: fiber.StatusCreated, URI: "/api/admin/challenges", Method: fiber.MethodPost,
				Host: "example.com", Actor: "root",
			},
		},
		{
			name:   "chain error is logged",
			method: fiber.MethodGet,
			target: "/boom",
			config: adapter.Config{Config: consoleConfig()},
			want: &accessLine{
				Status: fiber.StatusTeapot, URI: "/boom", Method: fiber.MethodGet,
				Host: "example.com", Error: "short and stout",
			},
		},
		{
			name:   "checkalive skipped",
			method: fiber.MethodGet,
			target: "/checkalive",
			config: adapter.Config{
				Config: func() logger.Log {
					c := consoleConfig()
					c.DisableCheckAlive = true

					return c
				}(),
				SkipURIs: []string{"/checkalive"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			output := runMiddleware(t, tt.method, tt.target, tt.config)

			if tt.want == nil {
				assert.Empty(t, output)

				return
			}

			require.NotEmpty(t, output)

			var got accessLine
			require.NoError(t, json.Unmarshal([]byte(output), &got))

			assert.Equal(t, tt.want.Status, got.Status)
			assert.Equal(t, tt.want.URI, got.URI)
			assert.Equal(t, tt.want.Method, got.Method)
			assert.Equal(t, tt.want.Host, got.Host)
			assert.Equal(t, tt.want.Actor, got.Actor)
			assert.Equal(t, tt.want.Error, got.Error)
			assert.Equal(t, "0.0.0.0", got.IP)
		})
	}
}

func runMiddleware(t *testing.T, method, target string, cfg adapter.Config) string {
	t.Helper()

	stdout := os.Stdout
	stderr := os.Stderr

	r, w, _ := os.Pipe()
	os.Stdout = w
	os.Stderr = w

	app := fiber.New(fiber.Config{CaseSensitive: true, Immutable: true})
	app.Use(adapter.New(cfg))

	app.Get("/api/status", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"maintenance": false})
	})
	app.Get("/checkalive", func(c *fiber.Ctx) error {
		return c.SendString("OK")
	})
	app.Post("/api/admin/challenges", func(c *fiber.Ctx) error {
		c.Locals(adapter.LocalsActor, "root")

		return c.SendStatus(fiber.StatusCreated)
	})
	app.Get("/boom", func(_ *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusTeapot, "short and stout")
	})

	_, err := app.Test(httptest.NewRequest(method, target, nil), -1)

	outC := make(chan string)

	go func() {
		var buf bytes.Buffer
		_, _ = io.Copy(&buf, r)
		outC <- buf.String()
	}()

	_ = w.Close()
	os.Stdout = stdout
	os.Stderr = stderr
	out := <-outC

	require.NoError(t, err)

	return out
}
