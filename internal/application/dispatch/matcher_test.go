package dispatch

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPrefixMatcher(t *testing.T) {
	m := NewPrefixMatcher(DefaultRealPaths...)

	assert.True(t, m.Matches("/auth/login"))
	assert.True(t, m.Matches("/auth/logout?all=1"))
	assert.False(t, m.Matches("/auth/info"))
	assert.False(t, m.Matches(""))
	assert.Equal(t, DefaultRealPaths, m.Prefixes())
}

func TestPrefixMatcher_Empty(t *testing.T) {
	m := NewPrefixMatcher()
	assert.False(t, m.Matches("/auth/login"))
	assert.Empty(t, m.Prefixes())
}

func TestLoginRedirect(t *testing.T) {
	tests := []struct {
		from string
		want string
	}{
		{from: "", want: "/login"},
		{from: "/login", want: "/login"},
		{from: "/login?redirect=%2F403", want: "/login"},
		{from: "/403", want: "/login?redirect=%2F403"},
		{from: "/sales/orders?page=2", want: "/login?redirect=%2Fsales%2Forders%3Fpage%3D2"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, LoginRedirect(tt.from), tt.from)
	}
}
