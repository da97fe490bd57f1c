package client

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"sevaportal/internal/model"
)

// ErrUpdateFailed is the single user-facing error of a failed profile save.
var ErrUpdateFailed = errors.New("Update Failed")

// ProfileUpdater is the write the editor issues on save. *Client satisfies it.
type ProfileUpdater interface {
	UpdateProfile(ctx context.Context, p Profile) (*model.User, error)
}

// ProfileEditor is the state of a profile card: the values on display, an
// editable draft and whether edit mode is open.
type ProfileEditor struct {
	mu        sync.Mutex
	api       ProfileUpdater
	displayed Profile
	draft     Profile
	editing   bool
}

// NewProfileEditor starts in view mode showing current.
func NewProfileEditor(api ProfileUpdater, current Profile) *ProfileEditor {
	return &ProfileEditor{api: api, displayed: current, draft: current}
}

// Displayed returns the values currently on display.
func (e *ProfileEditor) Displayed() Profile {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.displayed
}

// Draft returns the values being edited.
func (e *ProfileEditor) Draft() Profile {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.draft
}

// Editing reports whether edit mode is open.
func (e *ProfileEditor) Editing() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.editing
}

// Edit opens edit mode with a draft copied from the displayed values. Calling
// it while already editing keeps the current draft.
func (e *ProfileEditor) Edit() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.editing {
		e.draft = e.displayed
		e.editing = true
	}
}

// SetName changes the draft name. Ignored outside edit mode.
func (e *ProfileEditor) SetName(v string) { e.set(func(p *Profile) { p.Name = v }) }

// SetEmail changes the draft email. Ignored outside edit mode.
func (e *ProfileEditor) SetEmail(v string) { e.set(func(p *Profile) { p.Email = v }) }

// SetPhone changes the draft phone. Ignored outside edit mode.
func (e *ProfileEditor) SetPhone(v string) { e.set(func(p *Profile) { p.Phone = v }) }

func (e *ProfileEditor) set(apply func(*Profile)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.editing {
		apply(&e.draft)
	}
}

// Cancel discards the draft and closes edit mode.
func (e *ProfileEditor) Cancel() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.draft = e.displayed
	e.editing = false
}

// Save sends the draft in one request. On success the draft becomes the
// displayed profile and edit mode closes. On failure the displayed values are
// unchanged, edit mode stays open and the error wraps ErrUpdateFailed.
func (e *ProfileEditor) Save(ctx context.Context) error {
	e.mu.Lock()
	if !e.editing {
		e.mu.Unlock()
		return nil
	}
	draft := e.draft
	e.mu.Unlock()

	if _, err := e.api.UpdateProfile(ctx, draft); err != nil {
		return fmt.Errorf("%w: %v", ErrUpdateFailed, err)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.displayed = draft
	e.draft = draft
	e.editing = false
	return nil
}
