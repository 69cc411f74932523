// Package credentials persists the client's authentication artifacts: the
// short-lived access token and the cookies carrying the refresh credential.
package credentials

import (
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/oauth2"

	"github.com/Tiliavir/learnflow/internal/storage"
)

// Cookie is a persisted cookie with the attributes the server set. URL is
// the origin that set it; Domain is empty for host-only cookies.
type Cookie struct {
	URL      string    `json:"url"`
	Name     string    `json:"name"`
	Value    string    `json:"value"`
	Domain   string    `json:"domain,omitempty"`
	Path     string    `json:"path"`
	Expires  time.Time `json:"expires,omitempty"`
	Secure   bool      `json:"secure,omitempty"`
	HttpOnly bool      `json:"httpOnly,omitempty"`
}

// Credentials is everything the gateway needs to resume a session.
type Credentials struct {
	Token   *oauth2.Token `json:"token,omitempty"`
	Cookies []Cookie      `json:"cookies,omitempty"`
}

// Empty reports whether c holds nothing worth persisting.
func (c Credentials) Empty() bool {
	return (c.Token == nil || c.Token.AccessToken == "") && len(c.Cookies) == 0
}

// Store loads, saves and clears credentials.
type Store interface {
	Load() (Credentials, error)
	Save(Credentials) error
	Clear() error
}

// File stores credentials as JSON at a fixed path with 0600 permissions.
type File struct {
	path string
}

// NewFile returns a File store at path.
func NewFile(path string) *File {
	return &File{path: path}
}

// DefaultPath returns ~/.learnflow/auth/credentials.json.
func DefaultPath() (string, error) {
	base, err := storage.BaseDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, "auth", "credentials.json"), nil
}

func (f *File) Load() (Credentials, error) {
	var c Credentials
	if _, err := storage.LoadJSON(f.path, &c); err != nil {
		return Credentials{}, err
	}
	return c, nil
}

func (f *File) Save(c Credentials) error {
	if c.Empty() {
		return f.Clear()
	}
	return storage.SaveJSON(f.path, c)
}

func (f *File) Clear() error {
	return storage.Remove(f.path)
}

// Memory is an in-process Store, used when nothing should touch disk.
type Memory struct {
	mu    sync.Mutex
	creds Credentials
}

func (m *Memory) Load() (Credentials, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.creds, nil
}

func (m *Memory) Save(c Credentials) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.creds = c
	return nil
}

func (m *Memory) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.creds = Credentials{}
	return nil
}

// Jar is a cookie jar that remembers every cookie exactly as the server
// set it, so the set can be persisted and restored between runs without
// losing Path or Domain. It can be emptied while requests are in flight.
type Jar struct {
	mu      sync.Mutex
	jar     *cookiejar.Jar
	records map[string]Cookie
}

// NewJar returns an empty Jar.
func NewJar() *Jar {
	j := &Jar{}
	j.Reset()
	return j
}

// Reset drops every cookie.
func (j *Jar) Reset() {
	// cookiejar.New only fails on a bad PublicSuffixList, and we pass none.
	jar, _ := cookiejar.New(nil)
	j.mu.Lock()
	j.jar = jar
	j.records = map[string]Cookie{}
	j.mu.Unlock()
}

// SetCookies stores cookies received from u and records their attributes.
func (j *Jar) SetCookies(u *url.URL, cookies []*http.Cookie) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.jar.SetCookies(u, cookies)

	now := time.Now()
	host := strings.ToLower(u.Hostname())
	for _, c := range cookies {
		domain := strings.TrimPrefix(strings.ToLower(c.Domain), ".")
		if domain != "" && host != domain && !strings.HasSuffix(host, "."+domain) {
			continue // rejected by the jar as well
		}
		path := c.Path
		if path == "" || path[0] != '/' {
			path = defaultPath(u.Path)
		}
		scope := domain
		if scope == "" {
			scope = host
		}
		key := scope + ";" + path + ";" + c.Name

		expires := c.Expires
		switch {
		case c.MaxAge < 0:
			delete(j.records, key)
			continue
		case c.MaxAge > 0:
			expires = now.Add(time.Duration(c.MaxAge) * time.Second)
		case !expires.IsZero() && !expires.After(now):
			delete(j.records, key)
			continue
		}
		j.records[key] = Cookie{
			URL:      u.Scheme + "://" + u.Host,
			Name:     c.Name,
			Value:    c.Value,
			Domain:   domain,
			Path:     path,
			Expires:  expires,
			Secure:   c.Secure,
			HttpOnly: c.HttpOnly,
		}
	}
}

// Cookies returns the cookies to send to u.
func (j *Jar) Cookies(u *url.URL) []*http.Cookie {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.jar.Cookies(u)
}

// Snapshot returns the live cookies in persistable form, sorted by scope,
// path and name.
func (j *Jar) Snapshot() []Cookie {
	j.mu.Lock()
	defer j.mu.Unlock()
	now := time.Now()
	keys := make([]string, 0, len(j.records))
	for k, c := range j.records {
		if c.Expires.IsZero() || c.Expires.After(now) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	out := make([]Cookie, 0, len(keys))
	for _, k := range keys {
		out = append(out, j.records[k])
	}
	return out
}

// Restore puts persisted cookies back with their original attributes.
// Expired and malformed entries are skipped.
func (j *Jar) Restore(cookies []Cookie) {
	now := time.Now()
	for _, c := range cookies {
		u, err := url.Parse(c.URL)
		if err != nil || u.Host == "" {
			continue
		}
		if !c.Expires.IsZero() && !c.Expires.After(now) {
			continue
		}
		path := c.Path
		if path == "" {
			path = defaultPath(u.Path)
		}
		u.Path = path
		j.SetCookies(u, []*http.Cookie{{
			Name:     c.Name,
			Value:    c.Value,
			Domain:   c.Domain,
			Path:     path,
			Expires:  c.Expires,
			Secure:   c.Secure,
			HttpOnly: c.HttpOnly,
		}})
	}
}

// defaultPath is the RFC 6265 default-path of a request path.
func defaultPath(p string) string {
	if p == "" || p[0] != '/' {
		return "/"
	}
	i := strings.LastIndex(p, "/")
	if i == 0 {
		return "/"
	}
	return p[:i]
}
