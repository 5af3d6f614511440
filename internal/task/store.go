package task

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"weeklytrack/internal/dates"
	"weeklytrack/internal/model"
	"weeklytrack/internal/storage"
)

// BlobKey is the storage key for the weekly task collection.
const BlobKey = "weekly_tasks"

var (
	ErrNotFound  = errors.New("task not found")
	ErrEmptyName = errors.New("task name is required")
	ErrBadIndex  = errors.New("reorder index out of range")
)

// CountOp selects how AdjustCount changes a day's completion count.
type CountOp string

const (
	CountSet       CountOp = "set"
	CountIncrement CountOp = "increment"
	CountDecrement CountOp = "decrement"
	CountReset     CountOp = "reset"
)

func ParseCountOp(s string) (CountOp, error) {
	op := CountOp(strings.TrimSpace(strings.ToLower(s)))
	switch op {
	case CountSet, CountIncrement, CountDecrement, CountReset:
		return op, nil
	default:
		return "", fmt.Errorf("invalid count op %q", s)
	}
}

// Store owns the authoritative in-memory task collection and its
// persistence round-trip. Every successful mutation writes the whole
// collection back through the blob store. Mutations from concurrent
// browser tabs are last-write-wins; that is a documented limitation of the
// single-user tool, not something the store tries to resolve.
type Store struct {
	mu     sync.Mutex
	blobs  storage.Store
	logger *log.Logger
	now    func() time.Time

	tasks []model.Task
}

func NewStore(blobs storage.Store, logger *log.Logger) *Store {
	if logger == nil {
		logger = log.Default()
	}
	s := &Store{
		blobs:  blobs,
		logger: logger,
		now:    time.Now,
	}
	s.load()
	return s
}

// SetNow overrides the store clock. Tests use this for deterministic
// timestamps.
func (s *Store) SetNow(now func() time.Time) {
	s.mu.Lock()
	s.now = now
	s.mu.Unlock()
}

// load reads the persisted collection. A missing or unparseable blob
// degrades to an empty collection; the failure is logged and never
// surfaces to callers.
func (s *Store) load() {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, err := s.blobs.Get(BlobKey)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			s.logger.Printf("load %s: %v (starting empty)", BlobKey, err)
		}
		s.tasks = []model.Task{}
		return
	}

	var loaded []model.Task
	if err := json.Unmarshal(b, &loaded); err != nil {
		s.logger.Printf("parse %s: %v (starting empty)", BlobKey, err)
		s.tasks = []model.Task{}
		return
	}
	s.tasks = loaded
}

func (s *Store) persistLocked() error {
	b, err := json.MarshalIndent(s.tasks, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal tasks: %w", err)
	}
	if err := s.blobs.Set(BlobKey, b); err != nil {
		return fmt.Errorf("persist tasks: %w", err)
	}
	return nil
}

// Snapshot returns a deep copy of the collection in user order.
func (s *Store) Snapshot() []model.Task {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]model.Task, len(s.tasks))
	for i, t := range s.tasks {
		out[i] = t.Clone()
	}
	return out
}

func (s *Store) indexLocked(id model.TaskID) int {
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			return i
		}
	}
	return -1
}

// Add appends a new task. interval <= 0 means untracked.
func (s *Store) Add(name string, interval int) (model.Task, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return model.Task{}, ErrEmptyName
	}
	if interval < 0 {
		interval = 0
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	t := model.Task{
		ID:        model.TaskID(uuid.NewString()),
		Name:      name,
		Interval:  interval,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.tasks = append(s.tasks, t)
	if err := s.persistLocked(); err != nil {
		return model.Task{}, err
	}
	return t.Clone(), nil
}

// Get returns a copy of one task.
func (s *Store) Get(id model.TaskID) (model.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexLocked(id)
	if i < 0 {
		return model.Task{}, ErrNotFound
	}
	return s.tasks[i].Clone(), nil
}

// Delete removes a task.
func (s *Store) Delete(id model.TaskID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexLocked(id)
	if i < 0 {
		return ErrNotFound
	}
	s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
	return s.persistLocked()
}

// Rename changes a task's display name.
func (s *Store) Rename(id model.TaskID, name string) (model.Task, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return model.Task{}, ErrEmptyName
	}
	return s.update(id, func(t *model.Task) error {
		t.Name = name
		return nil
	})
}

// SetInterval sets or clears (interval <= 0) the scheduling interval.
func (s *Store) SetInterval(id model.TaskID, interval int) (model.Task, error) {
	if interval < 0 {
		interval = 0
	}
	return s.update(id, func(t *model.Task) error {
		t.Interval = interval
		return nil
	})
}

// Reorder moves the task at index from to index to, preserving the order of
// everything else. Order is the only sequencing guarantee the collection
// makes, and it is entirely user-controlled.
func (s *Store) Reorder(from, to int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := len(s.tasks)
	if from < 0 || from >= n || to < 0 || to >= n {
		return ErrBadIndex
	}
	if from == to {
		return nil
	}
	moved := s.tasks[from]
	rest := append(s.tasks[:from:from], s.tasks[from+1:]...)
	s.tasks = append(rest[:to:to], append([]model.Task{moved}, rest[to:]...)...)
	return s.persistLocked()
}

// ReorderByID persists a full explicit ordering. IDs not in the collection
// are ignored, a repeated id counts only at its first occurrence, and tasks
// missing from ids keep their relative order at the end.
func (s *Store) ReorderByID(ids []model.TaskID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	pos := make(map[model.TaskID]int, len(ids))
	for i, id := range ids {
		pos[id] = i
	}

	next := make([]model.Task, 0, len(s.tasks))
	placed := make(map[model.TaskID]bool, len(ids))
	for _, id := range ids {
		if placed[id] {
			continue
		}
		if i := s.indexLocked(id); i >= 0 {
			next = append(next, s.tasks[i])
			placed[id] = true
		}
	}
	for _, t := range s.tasks {
		if _, listed := pos[t.ID]; !listed {
			next = append(next, t)
		}
	}
	s.tasks = next
	return s.persistLocked()
}

// ToggleDay flips a date's completion. An uncompleted day becomes one
// completion credit; a completed day loses all its credits.
func (s *Store) ToggleDay(id model.TaskID, dateKey string) (model.Task, error) {
	if _, err := dates.ParseKey(dateKey); err != nil {
		return model.Task{}, err
	}
	return s.update(id, func(t *model.Task) error {
		if t.CompletedOn(dateKey) {
			delete(t.Completions, dateKey)
		} else {
			if t.Completions == nil {
				t.Completions = map[string]int{}
			}
			t.Completions[dateKey] = 1
		}
		return nil
	})
}

// AdjustCount applies a count operation to one day. Counts never go
// negative; a decrement at zero (or down to zero) clears the entry so the
// completed-iff-count-positive invariant holds.
func (s *Store) AdjustCount(id model.TaskID, dateKey string, op CountOp, n int) (model.Task, error) {
	if _, err := dates.ParseKey(dateKey); err != nil {
		return model.Task{}, err
	}
	return s.update(id, func(t *model.Task) error {
		cur := t.Completions[dateKey]
		next := cur
		switch op {
		case CountSet:
			next = n
		case CountIncrement:
			next = cur + 1
		case CountDecrement:
			next = cur - 1
		case CountReset:
			next = 0
		default:
			return fmt.Errorf("invalid count op %q", op)
		}
		if next <= 0 {
			delete(t.Completions, dateKey)
			return nil
		}
		if t.Completions == nil {
			t.Completions = map[string]int{}
		}
		t.Completions[dateKey] = next
		return nil
	})
}

func (s *Store) update(id model.TaskID, fn func(*model.Task) error) (model.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexLocked(id)
	if i < 0 {
		return model.Task{}, ErrNotFound
	}
	if err := fn(&s.tasks[i]); err != nil {
		return model.Task{}, err
	}
	s.tasks[i].UpdatedAt = s.now()
	if err := s.persistLocked(); err != nil {
		return model.Task{}, err
	}
	return s.tasks[i].Clone(), nil
}
