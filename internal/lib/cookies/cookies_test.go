package cookies

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func findCookie(t *testing.T, cookies []*http.Cookie, name string) *http.Cookie {
	t.Helper()
	for _, c := range cookies {
		if c.Name == name {
			return c
		}
	}
	t.Fatalf("cookie %s not found", name)
	return nil
}

func TestSetPair(t *testing.T) {
	opts := Options{
		AccessTTL:  time.Hour,
		RefreshTTL: 7 * 24 * time.Hour,
		Secure:     true,
	}

	rec := httptest.NewRecorder()
	opts.SetPair(rec, "access-value", "refresh-value")

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 2)

	access := findCookie(t, cookies, AccessToken)
	assert.Equal(t, "access-value", access.Value)
	assert.Equal(t, int(time.Hour.Seconds()), access.MaxAge)
	assert.True(t, access.HttpOnly)
	assert.True(t, access.Secure)
	assert.Equal(t, http.SameSiteStrictMode, access.SameSite)

	refresh := findCookie(t, cookies, RefreshToken)
	assert.Equal(t, "refresh-value", refresh.Value)
	assert.Equal(t, int((7 * 24 * time.Hour).Seconds()), refresh.MaxAge)
	assert.True(t, refresh.HttpOnly)
}

func TestClear(t *testing.T) {
	opts := Options{AccessTTL: time.Hour, RefreshTTL: time.Hour}

	rec := httptest.NewRecorder()
	opts.Clear(rec)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 2)
	for _, c := range cookies {
		assert.Empty(t, c.Value)
		assert.Negative(t, c.MaxAge)
	}
}
