// Package storagetest wraps a storage.Store with switchable faults so that
// the credential store, session holder and auth engine can be tested against
// failing media.
package storagetest

import (
	"context"
	"errors"
	"maps"
	"slices"
	"sync"

	"github.com/dmitrijs2005/bizdesk/internal/storage"
	"github.com/dmitrijs2005/bizdesk/internal/storage/memory"
)

var (
	ErrInjectedRead  = errors.New("injected read failure")
	ErrQuotaExceeded = errors.New("quota exceeded")
)

// Faulty forwards to the wrapped store unless a fault is armed.
type Faulty struct {
	storage.Store

	mu        sync.Mutex
	readErr   error
	writeErr  error
	deleteErr error
	// tearAfter >= 0 makes SetMany persist only that many pairs, in key
	// order, and then fail.
	tearAfter int
	writes    int
	// keyErrs fails writes that touch one of its keys.
	keyErrs map[string]error
}

// Wrap returns a Faulty around s with no faults armed.
func Wrap(s storage.Store) *Faulty {
	return &Faulty{Store: s, tearAfter: -1}
}

// New wraps a fresh memory store.
func New() *Faulty {
	return Wrap(memory.New())
}

// FailReads makes Get and List return err. nil disarms.
func (f *Faulty) FailReads(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.readErr = err
}

// FailWrites makes Set, SetMany and Clear return err. nil disarms.
func (f *Faulty) FailWrites(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.writeErr = err
}

// FailWritesTo makes Set and SetMany return err when they touch any of keys.
// A SetMany that hits such a key writes nothing. nil disarms those keys.
func (f *Faulty) FailWritesTo(err error, keys ...string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.keyErrs == nil {
		f.keyErrs = make(map[string]error)
	}
	for _, k := range keys {
		if err == nil {
			delete(f.keyErrs, k)
			continue
		}
		f.keyErrs[k] = err
	}
}

// FailDeletes makes Delete and Clear return err. nil disarms.
func (f *Faulty) FailDeletes(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleteErr = err
}

// TearSetMany makes the next SetMany calls write only n pairs before failing.
// A negative n disarms.
func (f *Faulty) TearSetMany(n int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tearAfter = n
}

// Reset disarms every fault.
func (f *Faulty) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.readErr, f.writeErr, f.deleteErr, f.tearAfter = nil, nil, nil, -1
	f.keyErrs = nil
}

// Writes counts successful Set and SetMany calls.
func (f *Faulty) Writes() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.writes
}

func (f *Faulty) snapshot() (readErr, writeErr, deleteErr error, tearAfter int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.readErr, f.writeErr, f.deleteErr, f.tearAfter
}

func (f *Faulty) keyErr(keys ...string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, k := range keys {
		if err, ok := f.keyErrs[k]; ok {
			return err
		}
	}
	return nil
}

func (f *Faulty) countWrite() {
	f.mu.Lock()
	f.writes++
	f.mu.Unlock()
}

func (f *Faulty) Get(ctx context.Context, key string) (string, bool, error) {
	if err, _, _, _ := f.snapshot(); err != nil {
		return "", false, err
	}
	return f.Store.Get(ctx, key)
}

func (f *Faulty) List(ctx context.Context) (map[string]string, error) {
	if err, _, _, _ := f.snapshot(); err != nil {
		return nil, err
	}
	return f.Store.List(ctx)
}

func (f *Faulty) Set(ctx context.Context, key, value string) error {
	if _, err, _, _ := f.snapshot(); err != nil {
		return err
	}
	if err := f.keyErr(key); err != nil {
		return err
	}
	if err := f.Store.Set(ctx, key, value); err != nil {
		return err
	}
	f.countWrite()
	return nil
}

func (f *Faulty) SetMany(ctx context.Context, values map[string]string) error {
	_, writeErr, _, tearAfter := f.snapshot()
	if writeErr != nil {
		return writeErr
	}
	if err := f.keyErr(slices.Collect(maps.Keys(values))...); err != nil {
		return err
	}
	if tearAfter >= 0 {
		for i, k := range slices.Sorted(maps.Keys(values)) {
			if i >= tearAfter {
				return ErrQuotaExceeded
			}
			if err := f.Store.Set(ctx, k, values[k]); err != nil {
				return err
			}
		}
		return ErrQuotaExceeded
	}
	if err := f.Store.SetMany(ctx, values); err != nil {
		return err
	}
	f.countWrite()
	return nil
}

func (f *Faulty) Delete(ctx context.Context, keys ...string) error {
	if _, _, err, _ := f.snapshot(); err != nil {
		return err
	}
	return f.Store.Delete(ctx, keys...)
}

func (f *Faulty) Clear(ctx context.Context) error {
	_, writeErr, deleteErr, _ := f.snapshot()
	if deleteErr != nil {
		return deleteErr
	}
	if writeErr != nil {
		return writeErr
	}
	return f.Store.Clear(ctx)
}
