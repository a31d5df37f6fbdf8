// Package session persists the authentication cookies between runs so the
// interactive login only happens when the cached session is missing or stale.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/eshaffer321/shopee-orders/internal/adapters/browser"
)

// Store keeps the required auth cookies in a JSON file.
type Store struct {
	path     string
	required []string
	logger   *slog.Logger
}

// NewStore creates a store backed by path that only considers a session
// valid when every cookie in required is present.
func NewStore(path string, required []string, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		path:     path,
		required: append([]string(nil), required...),
		logger:   logger.With(slog.String("component", "session")),
	}
}

// Path returns the backing file location.
func (s *Store) Path() string {
	return s.path
}

// Load reads the cookie file and, if it holds the full required set, installs
// the cookies into jar. A missing, unreadable or incomplete file is the normal
// "not logged in" state and yields false.
func (s *Store) Load(ctx context.Context, jar browser.CookieJar) bool {
	cookies, err := s.read()
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			s.logger.Warn("no cookie file found", slog.String("path", s.path))
		} else {
			s.logger.Warn("cookie file unusable, login required",
				slog.String("path", s.path),
				slog.String("error", err.Error()),
			)
		}
		return false
	}

	if !HasRequired(cookies, s.required) {
		s.logger.Warn("cookie file lacks auth cookies, login required",
			slog.String("path", s.path),
			slog.Int("cookies", len(cookies)),
		)
		return false
	}

	if err := jar.SetCookies(ctx, cookies); err != nil {
		s.logger.Warn("failed to install saved cookies", slog.String("error", err.Error()))
		return false
	}

	s.logger.Info("session loaded from cookie file", slog.Int("cookies", len(cookies)))
	return true
}

// Save replaces the cookie file with the required subset of jar's cookies.
func (s *Store) Save(ctx context.Context, jar browser.CookieJar) error {
	all, err := jar.Cookies(ctx)
	if err != nil {
		return fmt.Errorf("failed to read browser cookies: %w", err)
	}

	kept := Filter(all, s.required)

	data, err := json.Marshal(kept)
	if err != nil {
		return fmt.Errorf("failed to encode cookies: %w", err)
	}

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return fmt.Errorf("failed to create cookie directory: %w", err)
		}
	}

	// Write to a sibling file and rename so a crash never leaves half a file.
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("failed to write cookie file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to replace cookie file: %w", err)
	}

	s.logger.Info("auth cookies saved",
		slog.Int("kept", len(kept)),
		slog.Int("seen", len(all)),
		slog.Bool("complete", HasRequired(kept, s.required)),
	)
	return nil
}

func (s *Store) read() ([]browser.Cookie, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, err
	}
	var cookies []browser.Cookie
	if err := json.Unmarshal(data, &cookies); err != nil {
		return nil, fmt.Errorf("invalid cookie file: %w", err)
	}
	return cookies, nil
}

// HasRequired reports whether every name in required appears in cookies.
// Extra cookies are ignored.
func HasRequired(cookies []browser.Cookie, required []string) bool {
	present := make(map[string]bool, len(cookies))
	for _, c := range cookies {
		present[c.Name] = true
	}
	for _, name := range required {
		if !present[name] {
			return false
		}
	}
	return true
}

// Filter keeps only cookies whose name is in names, preserving order.
func Filter(cookies []browser.Cookie, names []string) []browser.Cookie {
	wanted := make(map[string]bool, len(names))
	for _, n := range names {
		wanted[n] = true
	}
	kept := make([]browser.Cookie, 0, len(names))
	for _, c := range cookies {
		if wanted[c.Name] {
			kept = append(kept, c)
		}
	}
	return kept
}
