// Package editor holds the client-side drafts the admin pages edit. A draft is
// loaded from the content API, changed locally and saved back whole. List items
// are addressed by their stable id so an upload that finishes after the list
// changed still lands on the right item.
package editor

import (
	"context"
	"errors"
	"io"
	"sync"

	"github.com/glowetsu/backend/internal/client"
	"github.com/glowetsu/backend/internal/domain/content"
)

// State is the lifecycle of an editor
type State int

const (
	StateIdle State = iota
	StateLoading
	StateReady
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateFailed:
		return "failed"
	}
	return "unknown"
}

var (
	// ErrBusy is returned when the same action is already in flight
	ErrBusy = errors.New("editor: operation already in progress")
	// ErrNotLoaded is returned before a successful Load
	ErrNotLoaded = errors.New("editor: draft not loaded")
	// ErrItemNotFound is returned for an id that is not in the draft
	ErrItemNotFound = errors.New("editor: item not found")
)

// Slot names one image input of a draft. ItemID is empty for document-level
// images.
type Slot struct {
	Field  string
	ItemID string
}

// UploadResult is the outcome of an image upload. Attached is false when the
// item was removed while the upload was in flight; the URL is then orphaned.
type UploadResult struct {
	URL      string
	Attached bool
}

// session carries the state shared by every editor: the lifecycle, the save
// flag and the per-slot upload flags. mu also guards the embedding editor's
// draft.
type session struct {
	api  *client.Client
	kind content.Kind

	mu        sync.Mutex
	state     State
	saving    bool
	uploading map[Slot]bool
}

func newSession(api *client.Client, kind content.Kind) session {
	return session{api: api, kind: kind, uploading: make(map[Slot]bool)}
}

func (s *session) path() string {
	return "/content/" + s.kind.Slug()
}

// State returns the current lifecycle state
func (s *session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Saving reports whether a save is in flight
func (s *session) Saving() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saving
}

// Uploading reports whether an upload for slot is in flight
func (s *session) Uploading(slot Slot) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.uploading[slot]
}

// load fetches the document into out and calls hydrate with the lock held
func (s *session) load(ctx context.Context, out any, hydrate func()) error {
	s.mu.Lock()
	if s.state == StateLoading || s.saving {
		s.mu.Unlock()
		return ErrBusy
	}
	s.state = StateLoading
	s.mu.Unlock()

	err := s.api.Get(ctx, s.path(), out)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.state = StateFailed
		return err
	}
	hydrate()
	s.state = StateReady
	return nil
}

// edit runs fn on the draft with the lock held. Edits are refused while a
// save is in flight.
func (s *session) edit(fn func() error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateReady {
		return ErrNotLoaded
	}
	if s.saving {
		return ErrBusy
	}
	return fn()
}

// upload posts file for slot. attach runs with the lock held and reports
// whether the URL found its target.
func (s *session) upload(ctx context.Context, slot Slot, filename string, file io.Reader, attach func(url string) bool) (UploadResult, error) {
	s.mu.Lock()
	if s.state != StateReady {
		s.mu.Unlock()
		return UploadResult{}, ErrNotLoaded
	}
	if s.uploading[slot] {
		s.mu.Unlock()
		return UploadResult{}, ErrBusy
	}
	s.uploading[slot] = true
	s.mu.Unlock()

	url, err := s.api.UploadImage(ctx, s.path(), filename, file)

	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.uploading, slot)
	if err != nil {
		return UploadResult{}, err
	}
	return UploadResult{URL: url, Attached: attach(url)}, nil
}

// save PUTs the body snapshot returns and decodes the reply into out. The
// local draft is kept as is afterwards.
func (s *session) save(ctx context.Context, snapshot func() any, out any) error {
	s.mu.Lock()
	if s.state != StateReady {
		s.mu.Unlock()
		return ErrNotLoaded
	}
	if s.saving {
		s.mu.Unlock()
		return ErrBusy
	}
	s.saving = true
	body := snapshot()
	s.mu.Unlock()

	err := s.api.Put(ctx, s.path(), body, out)

	s.mu.Lock()
	s.saving = false
	s.mu.Unlock()
	return err
}

func indexOf[T any](items []T, id string, idOf func(*T) string) int {
	for i := range items {
		if idOf(&items[i]) == id {
			return i
		}
	}
	return -1
}

func removeAt[T any](items []T, i int) []T {
	return append(items[:i:i], items[i+1:]...)
}

// moveTo moves the item at from to position to, clamping to the list bounds
func moveTo[T any](items []T, from, to int) []T {
	if to < 0 {
		to = 0
	}
	if to >= len(items) {
		to = len(items) - 1
	}
	if from == to {
		return items
	}
	item := items[from]
	items = removeAt(items, from)
	items = append(items[:to], append([]T{item}, items[to:]...)...)
	return items
}

// nextOrder returns one past the highest order in items
func nextOrder[T any](items []T, orderOf func(*T) int) int {
	next := 0
	for i := range items {
		if o := orderOf(&items[i]); o >= next {
			next = o + 1
		}
	}
	return next
}

// renumber sets each item's order to its position
func renumber[T any](items []T, setOrder func(*T, int)) {
	for i := range items {
		setOrder(&items[i], i)
	}
}
