package internal_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/sitekit/internal"
)

func TestExtractor(t *testing.T) {
	t.Parallel()

	ext := internal.NewExtractor(
		internal.FromHeader("X-Request-ID"),
		internal.FromQuery("rid"),
		internal.FromCookie("rid"),
	)

	tests := []struct {
		name  string
		setup func(r *http.Request)
		want  string
		found bool
	}{
		{"nothing", func(r *http.Request) {}, "", false},
		{"header wins", func(r *http.Request) {
			r.Header.Set("X-Request-ID", "h")
			r.AddCookie(&http.Cookie{Name: "rid", Value: "c"})
		}, "h", true},
		{"cookie fallback", func(r *http.Request) {
			r.AddCookie(&http.Cookie{Name: "rid", Value: "c"})
		}, "c", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			tt.setup(req)
			requestVia(t, req, nil, func(c internal.Context) error {
				v, ok := ext.Extract(c)
				require.Equal(t, tt.found, ok)
				require.Equal(t, tt.want, v)
				return nil
			})
		})
	}

	t.Run("query source", func(t *testing.T) {
		t.Parallel()

		requestVia(t, httptest.NewRequest(http.MethodGet, "/?rid=q", nil), nil, func(c internal.Context) error {
			v, ok := ext.Extract(c)
			require.True(t, ok)
			require.Equal(t, "q", v)
			return nil
		})
	})
}
