package internal_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/sitekit/internal"
	"github.com/dmitrymomot/sitekit/pkg/cookie"
	"github.com/dmitrymomot/sitekit/pkg/session"
)

const testSecret = "this-is-a-32-byte-or-longer-key!"

// requestVia creates an App with a single GET / route and sends req to it.
func requestVia(t *testing.T, req *http.Request, opts []internal.Option, fn func(c internal.Context) error) *httptest.ResponseRecorder {
	t.Helper()

	opts = append(opts, internal.WithHandlers(routes(func(r internal.Router) {
		r.GET("/", fn)
	})))
	app := internal.New(opts...)

	w := httptest.NewRecorder()
	app.ServeHTTP(w, req)
	return w
}

func replay(req *http.Request, w *httptest.ResponseRecorder) *http.Request {
	for _, c := range w.Result().Cookies() {
		if c.MaxAge >= 0 {
			req.AddCookie(c)
		}
	}
	return req
}

func cookieNamed(w *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range w.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func TestContext_Responses(t *testing.T) {
	t.Parallel()

	t.Run("json", func(t *testing.T) {
		t.Parallel()

		w := requestVia(t, httptest.NewRequest(http.MethodGet, "/", nil), nil, func(c internal.Context) error {
			return c.JSON(http.StatusCreated, map[string]int{"n": 1})
		})
		require.Equal(t, http.StatusCreated, w.Code)
		require.Equal(t, "application/json; charset=utf-8", w.Header().Get("Content-Type"))
		require.JSONEq(t, `{"n":1}`, w.Body.String())
	})

	t.Run("html and written", func(t *testing.T) {
		t.Parallel()

		var written bool
		w := requestVia(t, httptest.NewRequest(http.MethodGet, "/", nil), nil, func(c internal.Context) error {
			err := c.HTML(http.StatusOK, "<p>hi</p>")
			written = c.Written()
			return err
		})
		require.True(t, written)
		require.Equal(t, "<p>hi</p>", w.Body.String())
		require.Equal(t, "text/html; charset=utf-8", w.Header().Get("Content-Type"))
	})

	t.Run("query default and set get", func(t *testing.T) {
		t.Parallel()

		type key struct{}
		w := requestVia(t, httptest.NewRequest(http.MethodGet, "/?a=1", nil), nil, func(c internal.Context) error {
			c.Set(key{}, "value")
			require.Equal(t, "value", c.Get(key{}))
			require.Equal(t, "value", internal.ContextValue[string](c, key{}))
			require.Equal(t, "1", c.QueryDefault("a", "x"))
			require.Equal(t, "x", c.QueryDefault("b", "x"))
			return c.NoContent(http.StatusNoContent)
		})
		require.Equal(t, http.StatusNoContent, w.Code)
	})

	t.Run("http client is always available", func(t *testing.T) {
		t.Parallel()

		requestVia(t, httptest.NewRequest(http.MethodGet, "/", nil), nil, func(c internal.Context) error {
			require.NotNil(t, c.HTTPClient())
			return nil
		})
	})
}

func TestContext_Cookies(t *testing.T) {
	t.Parallel()

	opts := []internal.Option{internal.WithCookieOptions(
		cookie.WithSecret(testSecret),
		cookie.WithConsentCheck(cookie.ConsentNeverRequired),
		cookie.WithMinimumSameSite(http.SameSiteNoneMode),
	)}

	w := requestVia(t, httptest.NewRequest(http.MethodGet, "/", nil), opts, func(c internal.Context) error {
		require.NoError(t, c.SetCookie("plain", "v", 60))
		require.NoError(t, c.SetCookieEncrypted("enc", "secret", 60))
		require.NoError(t, c.SetFlash("notice", "saved"))
		return nil
	})

	req := replay(httptest.NewRequest(http.MethodGet, "/", nil), w)
	requestVia(t, req, opts, func(c internal.Context) error {
		v, err := c.Cookie("plain")
		require.NoError(t, err)
		require.Equal(t, "v", v)

		v, err = c.CookieEncrypted("enc")
		require.NoError(t, err)
		require.Equal(t, "secret", v)

		var notice string
		require.NoError(t, c.Flash("notice", &notice))
		require.Equal(t, "saved", notice)
		return nil
	})
}

func TestContext_AuthCookie(t *testing.T) {
	t.Parallel()

	opts := []internal.Option{
		internal.WithCookieOptions(cookie.WithSecret(testSecret)),
		internal.WithAuthCookie(".test.auth", internal.WithAuthCookieDomain("dev.example.com")),
	}

	t.Run("not configured", func(t *testing.T) {
		t.Parallel()

		requestVia(t, httptest.NewRequest(http.MethodGet, "/", nil), nil, func(c internal.Context) error {
			require.ErrorIs(t, c.SignIn("u1"), internal.ErrAuthNotConfigured)
			require.False(t, c.IsAuthenticated())
			return nil
		})
	})

	t.Run("sign in and out", func(t *testing.T) {
		t.Parallel()

		w := requestVia(t, httptest.NewRequest(http.MethodGet, "/", nil), opts, func(c internal.Context) error {
			require.NoError(t, c.SignIn("u1"))
			require.Equal(t, "u1", c.UserID())
			return nil
		})

		auth := cookieNamed(w, ".test.auth")
		require.NotNil(t, auth)
		require.Equal(t, "dev.example.com", auth.Domain)
		require.Equal(t, "/", auth.Path)
		require.NotEqual(t, "u1", auth.Value)

		req := replay(httptest.NewRequest(http.MethodGet, "/", nil), w)
		w = requestVia(t, req, opts, func(c internal.Context) error {
			require.True(t, c.IsAuthenticated())
			require.Equal(t, "u1", c.UserID())
			require.NoError(t, c.SignOut())
			require.False(t, c.IsAuthenticated())
			return nil
		})
		require.Equal(t, -1, cookieNamed(w, ".test.auth").MaxAge)
	})

	t.Run("tampered cookie is anonymous", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: ".test.auth", Value: "garbage"})
		requestVia(t, req, opts, func(c internal.Context) error {
			require.Empty(t, c.UserID())
			return nil
		})
	})
}

func TestContext_Session(t *testing.T) {
	t.Parallel()

	t.Run("not configured", func(t *testing.T) {
		t.Parallel()

		requestVia(t, httptest.NewRequest(http.MethodGet, "/", nil), nil, func(c internal.Context) error {
			_, err := c.Session()
			require.ErrorIs(t, err, session.ErrNotConfigured)
			return nil
		})
	})

	t.Run("create persist and reload", func(t *testing.T) {
		t.Parallel()

		store := session.NewMemoryStore()
		opts := []internal.Option{internal.WithSession(store, internal.WithSessionCookieName("sid"))}

		w := requestVia(t, httptest.NewRequest(http.MethodGet, "/", nil), opts, func(c internal.Context) error {
			require.NoError(t, c.SetSessionValue("theme", "dark"))
			return c.String(http.StatusOK, "ok")
		})
		require.Equal(t, 1, store.Len())

		sid := cookieNamed(w, "sid")
		require.NotNil(t, sid)
		require.True(t, sid.HttpOnly)
		require.Zero(t, sid.MaxAge, "session cookie must not persist")
		require.Equal(t, http.SameSiteLaxMode, sid.SameSite, "None without Secure falls back to Lax")

		req := replay(httptest.NewRequest(http.MethodGet, "/", nil), w)
		requestVia(t, req, opts, func(c internal.Context) error {
			theme, err := internal.SessionValue[string](c, "theme")
			require.NoError(t, err)
			require.Equal(t, "dark", theme)

			require.NoError(t, c.DestroySession())
			return nil
		})
		require.Zero(t, store.Len())
	})

	t.Run("sign in rotates the session token", func(t *testing.T) {
		t.Parallel()

		store := session.NewMemoryStore()
		opts := []internal.Option{
			internal.WithCookieOptions(cookie.WithSecret(testSecret)),
			internal.WithAuthCookie(""),
			internal.WithSession(store, internal.WithSessionCookieName("sid")),
		}

		w := requestVia(t, httptest.NewRequest(http.MethodGet, "/", nil), opts, func(c internal.Context) error {
			_, err := c.Session()
			return err
		})
		before := cookieNamed(w, "sid").Value

		req := replay(httptest.NewRequest(http.MethodGet, "/", nil), w)
		w = requestVia(t, req, opts, func(c internal.Context) error {
			require.NoError(t, c.SignIn("u1"))
			sess, err := c.Session()
			require.NoError(t, err)
			require.True(t, sess.IsAuthenticated())
			return nil
		})

		after := cookieNamed(w, "sid").Value
		require.NotEqual(t, before, after)
		require.NotNil(t, cookieNamed(w, ".sitekit.auth"))
	})
}
