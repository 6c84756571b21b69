package present

import (
	"fmt"
	"io"
	"sync"
	"time"
)

const defaultDismissAfter = 5 * time.Second

// Console renders messages and navigation to an io.Writer. Non-success
// messages auto-dismiss after five seconds, matching the message policy
// of the web pages; success messages persist until replaced.
type Console struct {
	w io.Writer

	mu           sync.Mutex
	current      string
	currentKind  Kind
	dismiss      *time.Timer
	dismissAfter time.Duration
}

// NewConsole returns a console presenter writing to w.
func NewConsole(w io.Writer) *Console {
	return &Console{w: w, dismissAfter: defaultDismissAfter}
}

func (c *Console) ShowMessage(kind Kind, text string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.dismiss != nil {
		c.dismiss.Stop()
		c.dismiss = nil
	}

	c.current = text
	c.currentKind = kind
	fmt.Fprintf(c.w, "[%s] %s\n", kind, text)

	if kind == Success {
		return
	}
	c.dismiss = time.AfterFunc(c.dismissAfter, func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if c.current == text {
			c.current = ""
			c.dismiss = nil
		}
	})
}

func (c *Console) SetFieldState(state FieldState) {
	c.mu.Lock()
	defer c.mu.Unlock()

	mark := "ok"
	if !state.Valid {
		mark = "invalid"
	}
	if state.Message != "" {
		fmt.Fprintf(c.w, "[field] %s: %s (%s)\n", state.Field, mark, state.Message)
		return
	}
	fmt.Fprintf(c.w, "[field] %s: %s\n", state.Field, mark)
}

func (c *Console) ResetOTPInput() {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintln(c.w, "[otp] input cleared")
}

// Current returns the message on screen, empty after auto-dismissal.
func (c *Console) Current() (Kind, string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.currentKind, c.current
}

// ConsoleNavigator logs transitions and invokes an optional hook after
// the delay, so example programs can chain pages.
type ConsoleNavigator struct {
	w    io.Writer
	hook func(Page)

	mu     sync.Mutex
	timers []*time.Timer
}

// NewConsoleNavigator returns a navigator writing to w. hook may be nil.
func NewConsoleNavigator(w io.Writer, hook func(Page)) *ConsoleNavigator {
	return &ConsoleNavigator{w: w, hook: hook}
}

func (n *ConsoleNavigator) Navigate(page Page, delay time.Duration) {
	fmt.Fprintf(n.w, "[nav] -> %s (after %s)\n", page, delay)
	if n.hook == nil {
		return
	}
	if delay <= 0 {
		n.hook(page)
		return
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	n.timers = append(n.timers, time.AfterFunc(delay, func() { n.hook(page) }))
}

// StopPending cancels transitions that have not fired yet.
func (n *ConsoleNavigator) StopPending() {
	n.mu.Lock()
	defer n.mu.Unlock()
	for _, t := range n.timers {
		t.Stop()
	}
	n.timers = nil
}
