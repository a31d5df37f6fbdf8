// Package browser wraps the headless browser used to drive the seller portal.
//
// Callers depend on the Page interface only; Launcher hides the engine
// (chromedp) so login and extraction logic can be tested against MockPage.
package browser

import (
	"context"
	"errors"
	"time"
)

// ErrTimeout is returned when a bounded wait expires before its condition holds.
var ErrTimeout = errors.New("browser wait timed out")

// Selector identifies elements either by CSS query or by XPath.
type Selector struct {
	Query string
	XPath bool
}

// CSS builds a CSS selector.
func CSS(query string) Selector {
	return Selector{Query: query}
}

// XPath builds an XPath selector.
func XPath(query string) Selector {
	return Selector{Query: query, XPath: true}
}

func (s Selector) String() string {
	if s.XPath {
		return "xpath=" + s.Query
	}
	return s.Query
}

// Cookie is a browser cookie in the shape persisted to the session file.
type Cookie struct {
	Name     string  `json:"name"`
	Value    string  `json:"value"`
	Domain   string  `json:"domain"`
	Path     string  `json:"path"`
	Expires  float64 `json:"expires"` // unix seconds, -1 for session cookies
	HTTPOnly bool    `json:"httpOnly"`
	Secure   bool    `json:"secure"`
	SameSite string  `json:"sameSite,omitempty"`
}

// CookieJar reads and installs cookies for the current browser context.
type CookieJar interface {
	Cookies(ctx context.Context) ([]Cookie, error)
	SetCookies(ctx context.Context, cookies []Cookie) error
}

// Page is a single browser tab.
type Page interface {
	CookieJar

	Navigate(ctx context.Context, url string) error
	URL(ctx context.Context) (string, error)

	WaitVisible(ctx context.Context, sel Selector, timeout time.Duration) error
	Fill(ctx context.Context, sel Selector, value string) error
	Click(ctx context.Context, sel Selector, timeout time.Duration) error
	WaitNetworkIdle(ctx context.Context, timeout time.Duration) error

	ScrollToBottom(ctx context.Context) error
	ScrollHeight(ctx context.Context) (int64, error)

	// ButtonTexts returns the rendered text of every <button> in document order.
	ButtonTexts(ctx context.Context) ([]string, error)
	// ClickButton clicks the index-th <button> as returned by ButtonTexts.
	ClickButton(ctx context.Context, index int) error

	// OuterHTML returns the outer HTML of every element matching the CSS query.
	OuterHTML(ctx context.Context, css string) ([]string, error)
}

// Session is a launched browser with one open page. Close releases the
// browser process and must be called on every path.
type Session interface {
	Page
	Close() error
}

// Launcher starts browser sessions.
type Launcher interface {
	Launch(ctx context.Context) (Session, error)
}

// Sleep waits for d or until ctx is done.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
