package credentials_test

import (
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"github.com/Tiliavir/learnflow/internal/credentials"
)

func TestFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "auth", "credentials.json")
	store := credentials.NewFile(path)

	loaded, err := store.Load()
	require.NoError(t, err)
	assert.True(t, loaded.Empty())

	in := credentials.Credentials{
		Token:   &oauth2.Token{AccessToken: "t1", TokenType: "Bearer"},
		Cookies: []credentials.Cookie{{URL: "http://localhost:5000", Name: "refreshToken", Value: "r1", Path: "/"}},
	}
	require.NoError(t, store.Save(in))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	loaded, err = store.Load()
	require.NoError(t, err)
	assert.Equal(t, "t1", loaded.Token.AccessToken)
	require.Len(t, loaded.Cookies, 1)
	assert.Equal(t, "r1", loaded.Cookies[0].Value)

	require.NoError(t, store.Clear())
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestFileSaveEmptyClears(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials.json")
	store := credentials.NewFile(path)
	require.NoError(t, store.Save(credentials.Credentials{Token: &oauth2.Token{AccessToken: "x"}}))
	require.NoError(t, store.Save(credentials.Credentials{}))
	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestJarRecordsServerAttributes(t *testing.T) {
	refresh, _ := url.Parse("http://localhost:5000/api/v1/auth/refresh")
	jar := credentials.NewJar()
	jar.SetCookies(refresh, []*http.Cookie{
		{Name: "refreshToken", Value: "r1", Path: "/", MaxAge: 3600, HttpOnly: true},
		{Name: "scoped", Value: "s1"},
	})

	saved := jar.Snapshot()
	require.Len(t, saved, 2)
	byName := map[string]credentials.Cookie{}
	for _, c := range saved {
		byName[c.Name] = c
	}
	assert.Equal(t, "/", byName["refreshToken"].Path)
	assert.Equal(t, "http://localhost:5000", byName["refreshToken"].URL)
	assert.True(t, byName["refreshToken"].HttpOnly)
	assert.WithinDuration(t, time.Now().Add(time.Hour), byName["refreshToken"].Expires, time.Minute)
	// No Path attribute: the directory of the request path.
	assert.Equal(t, "/api/v1/auth", byName["scoped"].Path)
}

func TestJarRotationReplacesCookie(t *testing.T) {
	base, _ := url.Parse("http://localhost:5000/api/v1")
	refresh, _ := url.Parse("http://localhost:5000/api/v1/auth/refresh")

	first := credentials.NewJar()
	first.SetCookies(refresh, []*http.Cookie{{Name: "refreshToken", Value: "r1", Path: "/"}})

	second := credentials.NewJar()
	second.Restore(first.Snapshot())
	second.SetCookies(refresh, []*http.Cookie{{Name: "refreshToken", Value: "r2", Path: "/"}})

	for _, u := range []*url.URL{base, refresh} {
		cookies := second.Cookies(u)
		require.Len(t, cookies, 1, u.String())
		assert.Equal(t, "r2", cookies[0].Value)
	}
	saved := second.Snapshot()
	require.Len(t, saved, 1)
	assert.Equal(t, "r2", saved[0].Value)
}

func TestJarDeletionAndReset(t *testing.T) {
	u, _ := url.Parse("http://localhost:5000/api/v1/auth/logout")
	jar := credentials.NewJar()
	jar.SetCookies(u, []*http.Cookie{{Name: "refreshToken", Value: "r1", Path: "/"}})
	jar.SetCookies(u, []*http.Cookie{{Name: "refreshToken", Value: "", Path: "/", MaxAge: -1}})
	assert.Empty(t, jar.Snapshot())
	assert.Empty(t, jar.Cookies(u))

	jar.SetCookies(u, []*http.Cookie{{Name: "refreshToken", Value: "r2", Path: "/"}})
	jar.Reset()
	assert.Empty(t, jar.Snapshot())
	assert.Empty(t, jar.Cookies(u))
}

func TestJarRestoreKeepsDomainAndSkipsExpired(t *testing.T) {
	jar := credentials.NewJar()
	jar.Restore([]credentials.Cookie{
		{URL: "http://api.learnflow.example", Name: "refreshToken", Value: "r1", Domain: "learnflow.example", Path: "/"},
		{URL: "http://api.learnflow.example", Name: "old", Value: "v", Path: "/", Expires: time.Now().Add(-time.Hour)},
		{URL: "not a url", Name: "broken", Value: "v"},
	})

	other, _ := url.Parse("http://www.learnflow.example/")
	cookies := jar.Cookies(other)
	require.Len(t, cookies, 1)
	assert.Equal(t, "r1", cookies[0].Value)

	saved := jar.Snapshot()
	require.Len(t, saved, 1)
	assert.Equal(t, "learnflow.example", saved[0].Domain)
}

func TestMemoryStore(t *testing.T) {
	var m credentials.Memory
	require.NoError(t, m.Save(credentials.Credentials{Token: &oauth2.Token{AccessToken: "t"}}))
	c, _ := m.Load()
	assert.Equal(t, "t", c.Token.AccessToken)
	require.NoError(t, m.Clear())
	c, _ = m.Load()
	assert.True(t, c.Empty())
}
