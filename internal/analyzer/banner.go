package analyzer

import (
	"sync"

	"github.com/dmagro/evm-tx-analyzer/internal/i18n"
)

// Banner is the error region of a presentation surface. It keeps the message
// key of what it shows, never the rendered string, so a language switch
// re-renders the same error in the new language.
type Banner struct {
	mu  sync.RWMutex
	err *Error
}

// Show displays err. Errors that are not *Error are shown as processing
// errors.
func (b *Banner) Show(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.err = AsError(err)
}

func (b *Banner) Hide() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.err = nil
}

func (b *Banner) Visible() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.err != nil
}

// Current returns the displayed error, or nil.
func (b *Banner) Current() *Error {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.err
}

// Render returns the banner text in loc's language, or "" when hidden.
func (b *Banner) Render(loc i18n.Localizer) string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.err == nil {
		return ""
	}
	return b.err.Localize(loc)
}
