package internal

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRoutingConventions_Path(t *testing.T) {
	t.Parallel()

	rc := RoutingConventions{LowercaseURLs: true, AppendTrailingSlash: true}

	tests := []struct {
		in   string
		want string
	}{
		{"", "/"},
		{"/", "/"},
		{"/Foo", "/foo/"},
		{"/foo/", "/foo/"},
		{"/FOO/Bar/", "/foo/bar/"},
		{"/robots.txt", "/robots.txt/"},
		{"/Straße", "/straße/"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tt.want, rc.Path(tt.in))
		})
	}

	t.Run("conventions off", func(t *testing.T) {
		t.Parallel()
		require.Equal(t, "/Foo", RoutingConventions{}.Path("/Foo"))
	})
}

func TestRoutingConventions_Pattern(t *testing.T) {
	t.Parallel()

	rc := RoutingConventions{LowercaseURLs: true, AppendTrailingSlash: true}

	tests := []struct {
		in   string
		want string
	}{
		{"/", "/"},
		{"/Privacy", "/privacy/"},
		{"/Users/{userID}", "/users/{userID}/"},
		{"/Codes/{code:[A-Z]+}", "/codes/{code:[A-Z]+}/"},
		{"/Files/*", "/files/*"},
		{"/A-{Slug}.Html", "/a-{Slug}.html/"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tt.want, rc.Pattern(tt.in))
		})
	}
}

func TestRoutingConventions_Prefix(t *testing.T) {
	t.Parallel()

	rc := RoutingConventions{LowercaseURLs: true, AppendTrailingSlash: true}
	require.Equal(t, "/api", rc.Prefix("/API/"))
	require.Equal(t, "/", rc.Prefix("/"))
	require.Equal(t, "/v1/{Tenant}", rc.Prefix("/V1/{Tenant}"))
}
