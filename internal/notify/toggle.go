// Package notify models the email-notification toggle: it saves the
// requested preference and rolls back when that fails.
package notify

import (
	"context"
	"sync"

	"github.com/phuslu/log"
)

// FailureMessage is what the user sees when the preference could not be saved.
const FailureMessage = "Could not update notification settings. Please try again."

// Saver persists the preference.
type Saver interface {
	SetNotify(ctx context.Context, on bool) error
}

// Toggle holds the checkbox value shown to the user.
type Toggle struct {
	mu      sync.Mutex
	checked bool
	saver   Saver
}

func NewToggle(initial bool, s Saver) *Toggle {
	return &Toggle{checked: initial, saver: s}
}

func (t *Toggle) Checked() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.checked
}

// Set flips the toggle to want and saves it. On failure the previous
// value is restored and FailureMessage is returned with the error.
func (t *Toggle) Set(ctx context.Context, want bool) (string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	prev := t.checked
	t.checked = want
	if err := t.saver.SetNotify(ctx, want); err != nil {
		t.checked = prev
		log.Warn().Err(err).Bool("want", want).Msg("notify toggle reverted")
		return FailureMessage, err
	}
	return "", nil
}
