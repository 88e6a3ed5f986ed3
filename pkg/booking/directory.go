package booking

import (
	"sync"

	"github.com/google/uuid"
)

// Directory is an in-memory admin list (clinics, doctors, users,
// testimonials) kept in step with the server by applying each successful
// mutation locally. Concurrent edits are not detected: the last response
// applied wins.
type Directory[T any] struct {
	mu      sync.RWMutex
	items   []T
	idOf    func(T) uuid.UUID
	notices *Notices
}

// NewDirectory returns an empty directory. notices may be nil.
func NewDirectory[T any](idOf func(T) uuid.UUID, notices *Notices) *Directory[T] {
	return &Directory[T]{idOf: idOf, notices: notices}
}

// Items returns a copy of the list.
func (d *Directory[T]) Items() []T {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return append([]T(nil), d.items...)
}

func (d *Directory[T]) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.items)
}

func (d *Directory[T]) Find(id uuid.UUID) (T, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	for _, item := range d.items {
		if d.idOf(item) == id {
			return item, true
		}
	}
	var zero T
	return zero, false
}

// Loaded replaces the list with the result of a list call.
func (d *Directory[T]) Loaded(items []T, err error) error {
	if err != nil {
		d.fail(err, MsgLoadFailed)
		return err
	}
	d.mu.Lock()
	d.items = append([]T(nil), items...)
	d.mu.Unlock()
	return nil
}

// Saved applies the result of a create or update call. The item replaces
// the entry with the same id, or is appended when there is none.
func (d *Directory[T]) Saved(item T, err error, success string) error {
	if err != nil {
		d.fail(err, MsgSaveFailed)
		return err
	}
	d.mu.Lock()
	d.upsertLocked(item)
	d.mu.Unlock()
	d.succeed(success)
	return nil
}

// Deleted applies the result of a delete call.
func (d *Directory[T]) Deleted(id uuid.UUID, err error, success string) error {
	if err != nil {
		d.fail(err, MsgDeleteFailed)
		return err
	}
	d.mu.Lock()
	for i, item := range d.items {
		if d.idOf(item) == id {
			d.items = append(d.items[:i:i], d.items[i+1:]...)
			break
		}
	}
	d.mu.Unlock()
	d.succeed(success)
	return nil
}

func (d *Directory[T]) upsertLocked(item T) {
	id := d.idOf(item)
	for i, existing := range d.items {
		if d.idOf(existing) == id {
			d.items[i] = item
			return
		}
	}
	d.items = append(d.items, item)
}

func (d *Directory[T]) succeed(text string) {
	if d.notices != nil && text != "" {
		d.notices.Success(text)
	}
}

func (d *Directory[T]) fail(err error, fallback string) {
	if d.notices != nil {
		d.notices.Error(errorText(err, fallback))
	}
}
