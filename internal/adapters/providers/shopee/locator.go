package shopee

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/eshaffer321/shopee-orders/internal/adapters/browser"
)

// Match is the outcome of one locate strategy.
type Match struct {
	Found  bool
	Target browser.Selector // what to act on when Found
	Reason string           // why the strategy missed, for logs
}

// Strategy is one entry in an ordered fallback chain.
type Strategy struct {
	Name    string
	Timeout time.Duration
	Locate  func(ctx context.Context, page browser.Page, timeout time.Duration) Match
}

// FirstMatch evaluates strategies in order and returns the first hit along
// with the name of the strategy that produced it.
func FirstMatch(ctx context.Context, page browser.Page, strategies []Strategy, logger *slog.Logger) (Match, string, bool) {
	for _, s := range strategies {
		if ctx.Err() != nil {
			return Match{Reason: ctx.Err().Error()}, "", false
		}

		m := s.Locate(ctx, page, s.Timeout)
		if m.Found {
			logger.Debug("locator matched", slog.String("strategy", s.Name), slog.String("target", m.Target.String()))
			return m, s.Name, true
		}
		logger.Debug("locator missed", slog.String("strategy", s.Name), slog.String("reason", m.Reason))
	}
	return Match{}, "", false
}

// VisibleSelector matches when sel becomes visible within the strategy timeout.
func VisibleSelector(sel browser.Selector) func(context.Context, browser.Page, time.Duration) Match {
	return func(ctx context.Context, page browser.Page, timeout time.Duration) Match {
		if err := page.WaitVisible(ctx, sel, timeout); err != nil {
			return Match{Reason: err.Error()}
		}
		return Match{Found: true, Target: sel}
	}
}

// ButtonTextContains scans every button's rendered text for a
// case-insensitive substring and targets the first hit.
func ButtonTextContains(needle string) func(context.Context, browser.Page, time.Duration) Match {
	needle = strings.ToLower(needle)
	return func(ctx context.Context, page browser.Page, _ time.Duration) Match {
		idx, err := findButton(ctx, page, needle)
		if err != nil {
			return Match{Reason: err.Error()}
		}
		if idx < 0 {
			return Match{Reason: fmt.Sprintf("no button text contains %q", needle)}
		}
		return Match{Found: true, Target: nthButton(idx)}
	}
}

// findButton returns the index of the first button whose text contains
// needle (already lower-cased), or -1.
func findButton(ctx context.Context, page browser.Page, needle string) (int, error) {
	texts, err := page.ButtonTexts(ctx)
	if err != nil {
		return -1, err
	}
	for i, text := range texts {
		if strings.Contains(strings.ToLower(strings.TrimSpace(text)), needle) {
			return i, nil
		}
	}
	return -1, nil
}

func nthButton(index int) browser.Selector {
	return browser.XPath(fmt.Sprintf("(//button)[%d]", index+1))
}

// buttonWithText is an XPath for a button whose text contains text exactly.
func buttonWithText(text string) browser.Selector {
	return browser.XPath(fmt.Sprintf("//button[contains(., %s)]", xpathLiteral(text)))
}

// buttonWithTextFold is buttonWithText ignoring ASCII case.
func buttonWithTextFold(text string) browser.Selector {
	return browser.XPath(fmt.Sprintf(
		"//button[contains(translate(normalize-space(.), 'ABCDEFGHIJKLMNOPQRSTUVWXYZ', 'abcdefghijklmnopqrstuvwxyz'), %s)]",
		xpathLiteral(strings.ToLower(text)),
	))
}

// xpathLiteral quotes s for XPath 1.0, which has no escape sequences.
func xpathLiteral(s string) string {
	if !strings.Contains(s, "'") {
		return "'" + s + "'"
	}
	if !strings.Contains(s, `"`) {
		return `"` + s + `"`
	}
	parts := strings.Split(s, "'")
	return "concat('" + strings.Join(parts, `', "'", '`) + "')"
}
