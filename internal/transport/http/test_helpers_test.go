package http

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/vovakirdan/haikuchat/internal/config"
	"github.com/vovakirdan/haikuchat/internal/identity"
	"github.com/vovakirdan/haikuchat/internal/relay"
	"github.com/vovakirdan/haikuchat/internal/store"
	"github.com/vovakirdan/haikuchat/internal/store/sqlite"
)

type testEnv struct {
	server *httptest.Server
	store  store.Store
	ids    *identity.Service
}

func (e *testEnv) wsURL(query string) string {
	return "ws" + strings.TrimPrefix(e.server.URL, "http") + "/ws?" + query
}

// startTestServer runs a relay on an in-memory store. A non-empty secret turns
// token checks on.
func startTestServer(t *testing.T, secret string, mutate func(*config.Config)) *testEnv {
	t.Helper()

	st, err := sqlite.New(":memory:")
	if err != nil {
		t.Fatalf("failed to create test store: %v", err)
	}

	cfg := config.Config{
		Addr:              ":0",
		ReadHeaderTimeout: time.Second,
		ShutdownTimeout:   time.Second,
		MaxMessageBytes:   1 << 16,
		HistoryLimit:      50,
		JWTSecret:         secret,
	}
	if mutate != nil {
		mutate(&cfg)
	}

	ids := identity.NewService(&identity.JWTConfig{
		Secret:   []byte(cfg.JWTSecret),
		Issuer:   "test",
		Audience: "test",
		TTL:      time.Hour,
	})

	hub := relay.NewHub(st, nil)
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)

	server := NewServer(hub, ids, st, &cfg, nil)
	ts := httptest.NewServer(server.Handler)
	t.Cleanup(func() {
		ts.Close()
		cancel()
		st.Close()
	})

	return &testEnv{server: ts, store: st, ids: ids}
}
