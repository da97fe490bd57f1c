package client

import (
	"errors"
	"fmt"
	"sync"
	"time"
)

// ErrCopyFailed is the single user-facing error of a failed clipboard write.
var ErrCopyFailed = errors.New("Error")

// CopiedFlash is how long Copied reports true after a successful copy.
const CopiedFlash = 2 * time.Second

// Clipboard receives the referral link.
type Clipboard interface {
	WriteAll(text string) error
}

// ReferralCard builds the shareable sign-up link for a referral code and
// copies it to a clipboard.
type ReferralCard struct {
	origin    string
	code      string
	clipboard Clipboard
	flash     time.Duration

	mu     sync.Mutex
	copied bool
	gen    int
}

// NewReferralCard creates a card for code as seen from origin, e.g.
// https://seva.example.in.
func NewReferralCard(origin, code string, clipboard Clipboard) *ReferralCard {
	return &ReferralCard{origin: origin, code: code, clipboard: clipboard, flash: CopiedFlash}
}

// Link returns {origin}/auth?ref={code}.
func (r *ReferralCard) Link() string {
	return r.origin + "/auth?ref=" + r.code
}

// Copy writes the link to the clipboard and raises the copied flag.
func (r *ReferralCard) Copy() error {
	if err := r.clipboard.WriteAll(r.Link()); err != nil {
		return fmt.Errorf("%w: %v", ErrCopyFailed, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.copied = true
	r.gen++
	gen := r.gen
	time.AfterFunc(r.flash, func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		// a later copy restarts the flash
		if r.gen == gen {
			r.copied = false
		}
	})
	return nil
}

// Copied reports whether a copy succeeded within the last flash period.
func (r *ReferralCard) Copied() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.copied
}
