package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/gofrs/flock"
)

const stateFileName = "state.json"

// lockTimeout bounds how long state operations wait for the cross-process
// lock. On timeout the operation proceeds unlocked so a wedged process
// cannot hang the caller; the review counters tolerate an occasional lost
// increment.
const lockTimeout = 100 * time.Millisecond

// Document is the durable state file layout.
type Document struct {
	// LastReviewDate is the epoch-millisecond time of the last native
	// review request. Zero means never.
	LastReviewDate int64 `json:"lastReviewDate,omitempty"`
	// Review is the win-counting record.
	Review ReviewState `json:"review"`
}

// StateFile persists the review Document as JSON under dir, guarded by a
// cross-process file lock and written atomically.
type StateFile struct {
	dir string
}

// NewStateFile returns a state file rooted at dir.
func NewStateFile(dir string) *StateFile {
	return &StateFile{dir: dir}
}

// Path returns the full path to the state file.
func (s *StateFile) Path() string {
	return filepath.Join(s.dir, stateFileName)
}

func (s *StateFile) lockPath() string {
	return filepath.Join(s.dir, ".lock")
}

// acquireLock obtains the cross-process lock. Returns nil without error
// when the lock cannot be acquired within lockTimeout; callers proceed
// unlocked in that case.
func (s *StateFile) acquireLock() (*flock.Flock, error) {
	if err := os.MkdirAll(s.dir, 0700); err != nil {
		return nil, err
	}

	fl := flock.New(s.lockPath())

	ctx, cancel := context.WithTimeout(context.Background(), lockTimeout)
	defer cancel()

	locked, err := fl.TryLockContext(ctx, 10*time.Millisecond)
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return nil, nil
		}
		return nil, err
	}
	if !locked {
		return nil, nil
	}

	return fl, nil
}

func release(fl *flock.Flock) {
	if fl != nil {
		_ = fl.Unlock()
	}
}

// Load reads the document. A missing or corrupted file yields a zero
// document, never an error.
func (s *StateFile) Load() (*Document, error) {
	fl, err := s.acquireLock()
	if err != nil {
		return nil, err
	}
	defer release(fl)

	return s.loadUnsafe(), nil
}

// loadUnsafe reads without locking (caller must hold the lock).
func (s *StateFile) loadUnsafe() *Document {
	data, err := os.ReadFile(s.Path())
	if err != nil {
		return &Document{}
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		// Corrupted state resets rather than wedging every caller.
		return &Document{}
	}

	return &doc
}

// Update atomically loads, modifies, and saves the document, holding the
// lock across the whole read-modify-write cycle.
func (s *StateFile) Update(fn func(*Document) error) error {
	fl, err := s.acquireLock()
	if err != nil {
		return err
	}
	defer release(fl)

	doc := s.loadUnsafe()
	if err := fn(doc); err != nil {
		return err
	}

	return s.saveUnsafe(doc)
}

// saveUnsafe writes atomically via a uniquely named temp file and rename.
func (s *StateFile) saveUnsafe(doc *Document) error {
	if err := os.MkdirAll(s.dir, 0700); err != nil {
		return err
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}

	tmpPath := fmt.Sprintf("%s.%d.%d.tmp", s.Path(), os.Getpid(), time.Now().UnixNano())
	if err := os.WriteFile(tmpPath, data, 0600); err != nil {
		return err
	}

	// os.Rename cannot replace an existing file on Windows.
	if runtime.GOOS == "windows" {
		_ = os.Remove(s.Path())
	}

	if err := os.Rename(tmpPath, s.Path()); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}

	return nil
}

// Clear removes the state file.
func (s *StateFile) Clear() error {
	fl, err := s.acquireLock()
	if err != nil {
		return err
	}
	defer release(fl)

	if err := os.Remove(s.Path()); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
