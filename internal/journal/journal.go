// Package journal keeps a persistent audit trail of emitted engine events
// for the CLI host.
package journal

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/minhnc/appupdater/internal/events"
)

// DefaultKeepDays is the default retention window.
const DefaultKeepDays = 30

const (
	filePrefix = "events-"
	fileSuffix = ".log"
	dateLayout = "2006-01-02"
)

// Journal appends events as JSON lines under a directory, one file per day.
type Journal struct {
	dir string
	now func() time.Time
}

// New creates a journal rooted at dir.
func New(dir string) *Journal {
	return &Journal{dir: dir, now: time.Now}
}

// Dir returns the journal directory path.
func (j *Journal) Dir() string {
	return j.dir
}

// fileFor returns the journal file path for a day.
func (j *Journal) fileFor(day time.Time) string {
	return filepath.Join(j.dir, filePrefix+day.Format(dateLayout)+fileSuffix)
}

// Append records one event in today's file.
func (j *Journal) Append(ev events.Event) error {
	if err := os.MkdirAll(j.dir, 0755); err != nil {
		return fmt.Errorf("failed to create journal directory: %w", err)
	}

	if ev.At.IsZero() {
		ev.At = j.now()
	}

	line, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	f, err := os.OpenFile(j.fileFor(ev.At), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open journal file: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(append(line, '\n')); err != nil {
		return fmt.Errorf("failed to write journal entry: %w", err)
	}

	return f.Close()
}

// Sink adapts the journal to the event bus. Write failures are dropped so a
// full disk never breaks event delivery.
func (j *Journal) Sink() func(events.Event) {
	return func(ev events.Event) {
		_ = j.Append(ev)
	}
}

// List returns all recorded events, newest first. A missing directory means
// an empty journal.
func (j *Journal) List() ([]events.Event, error) {
	files, err := j.files()
	if err != nil {
		return nil, err
	}

	var all []events.Event
	for _, name := range files {
		entries, err := j.readFile(filepath.Join(j.dir, name))
		if err != nil {
			return nil, err
		}
		all = append(all, entries...)
	}

	sort.SliceStable(all, func(i, k int) bool {
		return all[i].At.After(all[k].At)
	})

	return all, nil
}

// files returns the journal file names, unordered.
func (j *Journal) files() ([]string, error) {
	entries, err := os.ReadDir(j.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read journal directory: %w", err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.HasPrefix(name, filePrefix) || !strings.HasSuffix(name, fileSuffix) {
			continue
		}
		names = append(names, name)
	}
	return names, nil
}

// readFile parses one JSON-lines journal file. Garbled lines are skipped so
// one truncated write cannot hide the rest of the trail.
func (j *Journal) readFile(path string) ([]events.Event, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open journal file: %w", err)
	}
	defer f.Close()

	var entries []events.Event
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var ev events.Event
		if err := json.Unmarshal([]byte(line), &ev); err != nil {
			continue
		}
		entries = append(entries, ev)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read journal file: %w", err)
	}

	return entries, nil
}

// PruneResult contains information about what was pruned.
type PruneResult struct {
	Deleted []string
	Kept    int
}

// Prune removes journal files older than keepDays, keyed off the date in
// the file name.
func (j *Journal) Prune(keepDays int) (*PruneResult, error) {
	if keepDays < 0 {
		return nil, fmt.Errorf("keep days must be non-negative")
	}
	if keepDays == 0 {
		keepDays = DefaultKeepDays
	}

	files, err := j.files()
	if err != nil {
		return nil, err
	}

	cutoff := j.now().AddDate(0, 0, -keepDays)

	result := &PruneResult{}
	for _, name := range files {
		dateStr := strings.TrimSuffix(strings.TrimPrefix(name, filePrefix), fileSuffix)
		day, err := time.Parse(dateLayout, dateStr)
		if err != nil {
			// Not one of ours; leave it alone.
			result.Kept++
			continue
		}
		if day.Before(cutoff) {
			if err := os.Remove(filepath.Join(j.dir, name)); err != nil {
				return nil, fmt.Errorf("failed to delete journal file %s: %w", name, err)
			}
			result.Deleted = append(result.Deleted, name)
		} else {
			result.Kept++
		}
	}

	sort.Strings(result.Deleted)
	return result, nil
}
