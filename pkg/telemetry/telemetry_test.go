package telemetry_test

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/sitekit/pkg/logger"
	"github.com/dmitrymomot/sitekit/pkg/telemetry"
)

func TestHandler_PassesThrough(t *testing.T) {
	t.Parallel()

	h := telemetry.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}), "test")

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusTeapot, rec.Code)
}

func TestTransport_PassesThrough(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("pong"))
	}))
	t.Cleanup(srv.Close)

	client := &http.Client{Transport: telemetry.Transport(nil)}
	resp, err := client.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestInitTracer(t *testing.T) {
	var buf bytes.Buffer
	shutdown, err := telemetry.InitTracer(telemetry.Config{
		ServiceName: "sitekit-test",
		Version:     "test",
		Environment: "Development",
		Output:      &buf,
	}, logger.NewNope())
	require.NoError(t, err)

	h := telemetry.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}), "traced")
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	require.NoError(t, shutdown(context.Background()))
	require.Contains(t, buf.String(), "sitekit-test")
}
