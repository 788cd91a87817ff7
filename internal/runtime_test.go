package internal_test

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/sitekit/internal"
)

func TestApp_Run(t *testing.T) {
	t.Parallel()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	app := internal.New(internal.WithHandlers(routes(func(r internal.Router) {
		r.GET("/", func(c internal.Context) error {
			return c.String(http.StatusOK, c.Header("X-Wrapped"))
		})
	})))

	ctx, cancel := context.WithCancel(context.Background())
	var started, stopped bool

	done := make(chan error, 1)
	go func() {
		done <- app.Run("", internal.WithContext(ctx), internal.WithListener(ln),
			internal.StartupHook(func(context.Context) error { started = true; return nil }),
			internal.ShutdownHook(func(context.Context) error { stopped = true; return nil }),
			internal.WrapHandler(func(next http.Handler) http.Handler {
				return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					r.Header.Set("X-Wrapped", "yes")
					next.ServeHTTP(w, r)
				})
			}),
		)
	}()

	var resp *http.Response
	require.Eventually(t, func() bool {
		resp, err = http.Get("http://" + ln.Addr().String() + "/")
		return err == nil
	}, 2*time.Second, 10*time.Millisecond)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())
	require.Equal(t, "yes", string(body))

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
	require.True(t, started)
	require.True(t, stopped)
}

func TestApp_RunStartupHookFails(t *testing.T) {
	t.Parallel()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	boom := errors.New("boom")
	err = internal.New().Run("", internal.WithListener(ln),
		internal.StartupHook(func(context.Context) error { return boom }),
	)
	require.ErrorIs(t, err, boom)
}
