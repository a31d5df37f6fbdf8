package browser

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// MockPage is a scripted in-memory Page for tests. Zero values behave like an
// empty, already-loaded page.
type MockPage struct {
	mu sync.Mutex

	// CurrentURL is reported by URL. NavigateURL, when set, maps a requested
	// URL to the URL the page lands on (e.g. a redirect to login).
	CurrentURL  string
	NavigateURL func(requested string) string

	// Visible lists selectors (Selector.String()) that WaitVisible / Click find.
	Visible map[string]bool

	// Heights is consumed one value per ScrollHeight call; the last value repeats.
	Heights []int64

	Buttons []string
	Cards   []string

	Jar []Cookie

	// OnClickButton runs after ClickButton, e.g. to simulate a redirect.
	OnClickButton func(p *MockPage, index int)

	// Errors injected per method name ("Navigate", "ScrollHeight", ...).
	Errors map[string]error

	// Recorded interactions.
	Navigations    []string
	Filled         map[string]string
	Clicked        []string
	ClickedButtons []int
	ScrollCalls    int
	HeightCalls    int
	IdleWaits      int
	Closed         bool
}

var _ Session = (*MockPage)(nil)

// NewMockPage returns a MockPage with its maps initialised.
func NewMockPage() *MockPage {
	return &MockPage{
		Visible: make(map[string]bool),
		Filled:  make(map[string]string),
		Errors:  make(map[string]error),
	}
}

func (m *MockPage) injected(method string) error {
	if m.Errors == nil {
		return nil
	}
	return m.Errors[method]
}

func (m *MockPage) Navigate(_ context.Context, url string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Navigations = append(m.Navigations, url)
	if err := m.injected("Navigate"); err != nil {
		return err
	}
	m.CurrentURL = url
	if m.NavigateURL != nil {
		m.CurrentURL = m.NavigateURL(url)
	}
	return nil
}

func (m *MockPage) URL(_ context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.CurrentURL, m.injected("URL")
}

func (m *MockPage) WaitVisible(_ context.Context, sel Selector, timeout time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Visible[sel.String()] {
		return nil
	}
	return fmt.Errorf("%w after %s: %s", ErrTimeout, timeout, sel)
}

func (m *MockPage) Fill(_ context.Context, sel Selector, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.injected("Fill"); err != nil {
		return err
	}
	if m.Filled == nil {
		m.Filled = make(map[string]string)
	}
	m.Filled[sel.String()] = value
	return nil
}

func (m *MockPage) Click(_ context.Context, sel Selector, timeout time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.Visible[sel.String()] {
		return fmt.Errorf("%w after %s: %s", ErrTimeout, timeout, sel)
	}
	m.Clicked = append(m.Clicked, sel.String())
	return m.injected("Click")
}

func (m *MockPage) WaitNetworkIdle(_ context.Context, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.IdleWaits++
	return m.injected("WaitNetworkIdle")
}

func (m *MockPage) ScrollToBottom(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ScrollCalls++
	return m.injected("ScrollToBottom")
}

func (m *MockPage) ScrollHeight(_ context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.HeightCalls++
	if err := m.injected("ScrollHeight"); err != nil {
		return 0, err
	}
	if len(m.Heights) == 0 {
		return 0, nil
	}
	idx := m.HeightCalls - 1
	if idx >= len(m.Heights) {
		idx = len(m.Heights) - 1
	}
	return m.Heights[idx], nil
}

func (m *MockPage) ButtonTexts(_ context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.Buttons...), m.injected("ButtonTexts")
}

func (m *MockPage) ClickButton(_ context.Context, index int) error {
	m.mu.Lock()
	if index < 0 || index >= len(m.Buttons) {
		m.mu.Unlock()
		return fmt.Errorf("button %d out of range", index)
	}
	m.ClickedButtons = append(m.ClickedButtons, index)
	hook := m.OnClickButton
	m.mu.Unlock()

	if hook != nil {
		hook(m, index)
	}
	return nil
}

func (m *MockPage) OuterHTML(_ context.Context, css string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.injected("OuterHTML"); err != nil {
		return nil, err
	}
	return append([]string(nil), m.Cards...), nil
}

func (m *MockPage) Cookies(_ context.Context) ([]Cookie, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Cookie(nil), m.Jar...), m.injected("Cookies")
}

func (m *MockPage) SetCookies(_ context.Context, cookies []Cookie) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.injected("SetCookies"); err != nil {
		return err
	}
	m.Jar = append(m.Jar, cookies...)
	return nil
}

func (m *MockPage) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Closed = true
	return nil
}

// SetURL changes the current URL, for use from hooks.
func (m *MockPage) SetURL(url string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CurrentURL = url
}

// HasCookie reports whether the jar holds a cookie with the given name.
func (m *MockPage) HasCookie(name string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.Jar {
		if c.Name == name {
			return true
		}
	}
	return false
}

// MockLauncher hands out a prepared MockPage.
type MockLauncher struct {
	Page     *MockPage
	Err      error
	Launches int
}

func (l *MockLauncher) Launch(_ context.Context) (Session, error) {
	l.Launches++
	if l.Err != nil {
		return nil, l.Err
	}
	return l.Page, nil
}
