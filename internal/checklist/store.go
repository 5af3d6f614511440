// Package checklist manages the week-keyed checklist collection: per-day
// ad-hoc items grouped into Sunday-start weeks, persisted as a single blob
// independent of the weekly task collection.
package checklist

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

// BlobKey is the storage key for the checklist collection.
const BlobKey = "weekly_checklist"

var (
	ErrNotFound  = errors.New("checklist item not found")
	ErrEmptyName = errors.New("item name is required")
)

type Store struct {
	mu     sync.Mutex
	blobs  storage.Store
	logger *log.Logger
	now    func() time.Time

	weeks []model.WeekData
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

func (s *Store) SetNow(now func() time.Time) {
	s.mu.Lock()
	s.now = now
	s.mu.Unlock()
}

func (s *Store) load() {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, err := s.blobs.Get(BlobKey)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			s.logger.Printf("load %s: %v (starting empty)", BlobKey, err)
		}
		s.weeks = []model.WeekData{}
		return
	}

	var loaded []model.WeekData
	if err := json.Unmarshal(b, &loaded); err != nil {
		s.logger.Printf("parse %s: %v (starting empty)", BlobKey, err)
		s.weeks = []model.WeekData{}
		return
	}
	s.weeks = loaded
}

func (s *Store) persistLocked() error {
	b, err := json.MarshalIndent(s.weeks, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal checklist: %w", err)
	}
	if err := s.blobs.Set(BlobKey, b); err != nil {
		return fmt.Errorf("persist checklist: %w", err)
	}
	return nil
}

// All returns a deep copy of every stored week.
func (s *Store) All() []model.WeekData {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]model.WeekData, len(s.weeks))
	for i, w := range s.weeks {
		out[i] = w.Clone()
	}
	return out
}

// weekStartKey normalizes any date key onto the Sunday starting its week.
func weekStartKey(dateKey string) (string, error) {
	day, err := dates.ParseKey(dateKey)
	if err != nil {
		return "", err
	}
	return dates.FormatKey(dates.WeekStart(day)), nil
}

func emptyWeek(startKey string) model.WeekData {
	start, _ := dates.ParseKey(startKey)
	days := make([]model.DayChecklist, 7)
	for i, d := range dates.WeekDates(start) {
		days[i] = model.DayChecklist{Date: dates.FormatKey(d), Items: []model.ChecklistItem{}}
	}
	return model.WeekData{StartDate: startKey, Days: days}
}

// Week returns the stored week containing the given date, creating and
// persisting an empty one on first access.
func (s *Store) Week(dateKey string) (model.WeekData, error) {
	startKey, err := weekStartKey(dateKey)
	if err != nil {
		return model.WeekData{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.weeks {
		if s.weeks[i].StartDate == startKey {
			return s.weeks[i].Clone(), nil
		}
	}

	week := emptyWeek(startKey)
	s.weeks = append(s.weeks, week)
	if err := s.persistLocked(); err != nil {
		return model.WeekData{}, err
	}
	return week.Clone(), nil
}

// AddItem appends a new item to the given day's checklist, creating the
// surrounding week if needed.
func (s *Store) AddItem(dateKey, name string) (model.ChecklistItem, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return model.ChecklistItem{}, ErrEmptyName
	}
	startKey, err := weekStartKey(dateKey)
	if err != nil {
		return model.ChecklistItem{}, err
	}
	day, _ := dates.ParseKey(dateKey)
	dayKey := dates.FormatKey(day)

	s.mu.Lock()
	defer s.mu.Unlock()

	wi := -1
	for i := range s.weeks {
		if s.weeks[i].StartDate == startKey {
			wi = i
			break
		}
	}
	if wi < 0 {
		s.weeks = append(s.weeks, emptyWeek(startKey))
		wi = len(s.weeks) - 1
	}

	now := s.now()
	item := model.ChecklistItem{
		ID:        uuid.NewString(),
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
	for di := range s.weeks[wi].Days {
		if s.weeks[wi].Days[di].Date == dayKey {
			s.weeks[wi].Days[di].Items = append(s.weeks[wi].Days[di].Items, item)
			if err := s.persistLocked(); err != nil {
				return model.ChecklistItem{}, err
			}
			return item, nil
		}
	}
	return model.ChecklistItem{}, fmt.Errorf("day %s not in week %s", dayKey, startKey)
}

// ToggleItem flips an item's completed flag.
func (s *Store) ToggleItem(itemID string) (model.ChecklistItem, error) {
	return s.updateItem(itemID, func(item *model.ChecklistItem) {
		item.Completed = !item.Completed
	})
}

// DeleteItem removes an item wherever it lives.
func (s *Store) DeleteItem(itemID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for wi := range s.weeks {
		for di := range s.weeks[wi].Days {
			items := s.weeks[wi].Days[di].Items
			for ii := range items {
				if items[ii].ID == itemID {
					s.weeks[wi].Days[di].Items = append(items[:ii], items[ii+1:]...)
					return s.persistLocked()
				}
			}
		}
	}
	return ErrNotFound
}

func (s *Store) updateItem(itemID string, fn func(*model.ChecklistItem)) (model.ChecklistItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for wi := range s.weeks {
		for di := range s.weeks[wi].Days {
			items := s.weeks[wi].Days[di].Items
			for ii := range items {
				if items[ii].ID == itemID {
					fn(&items[ii])
					items[ii].UpdatedAt = s.now()
					if err := s.persistLocked(); err != nil {
						return model.ChecklistItem{}, err
					}
					return items[ii], nil
				}
			}
		}
	}
	return model.ChecklistItem{}, ErrNotFound
}
