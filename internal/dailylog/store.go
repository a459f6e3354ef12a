// Package dailylog owns today's nutrition log: it persists every mutation,
// detects calendar-day rollover and archives finished days.
package dailylog

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Naimy441/nutriuni/internal/clock"
	"github.com/Naimy441/nutriuni/internal/constants"
	"github.com/Naimy441/nutriuni/internal/logger"
	"github.com/Naimy441/nutriuni/internal/models"
	"github.com/Naimy441/nutriuni/internal/storage"
	"github.com/Naimy441/nutriuni/internal/utils"
)

// ErrDisposed is returned by Start after Dispose.
var ErrDisposed = errors.New("daily log store disposed")

// Recorder is notified of every item successfully added to today's log.
type Recorder interface {
	RecordUse(ctx context.Context, item models.TrackedItem) error
}

// DateChange describes a forward rollover.
type DateChange struct {
	Previous string
	Current  string
}

type Option func(*Store)

func WithClock(c clock.Clock) Option {
	return func(s *Store) { s.clock = c }
}

func WithLocation(loc *time.Location) Option {
	return func(s *Store) { s.loc = loc }
}

// WithLifecycle subscribes the store to foreground/background transitions on Start.
func WithLifecycle(l *clock.Lifecycle) Option {
	return func(s *Store) { s.lifecycle = l }
}

func WithRecorder(r Recorder) Option {
	return func(s *Store) { s.recorder = r }
}

type listener struct {
	id int
	fn func(DateChange)
}

type Store struct {
	kv        storage.Provider
	clock     clock.Clock
	loc       *time.Location
	lifecycle *clock.Lifecycle
	recorder  Recorder

	mu          sync.Mutex
	currentDate string
	currentLog  *models.DailyLog // nil until first read or write
	listeners   []listener
	nextID      int
	timer       clock.Timer
	unsubscribe func()
	started     bool
	disposed    bool
}

func New(kv storage.Provider, opts ...Option) *Store {
	s := &Store{
		kv:    kv,
		clock: clock.Real{},
		loc:   time.Local,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.loc == nil {
		s.loc = time.Local
	}
	s.currentDate = s.today()
	return s
}

func (s *Store) now() time.Time {
	return s.clock.Now().In(s.loc)
}

func (s *Store) today() string {
	return utils.DateString(s.clock.Now(), s.loc)
}

// Key returns the storage key of the log for date.
func Key(date string) string {
	return constants.DailyLogKeyPrefix + date
}

// CurrentDate is the day the store currently treats as today.
func (s *Store) CurrentDate() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentDate
}

// Start consumes a background timestamp left by a previous run, checks for a
// rollover, arms the midnight timer and subscribes to lifecycle transitions.
// Listeners registered before Start observe a rollover that happened while
// the app was not running.
func (s *Store) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.disposed {
		s.mu.Unlock()
		return ErrDisposed
	}
	if s.started {
		s.mu.Unlock()
		return nil
	}
	s.started = true

	if ts, ok := s.takeBackgroundTimestampLocked(ctx); ok {
		if d := utils.DateString(ts, s.loc); d < s.currentDate {
			s.currentDate = d
		}
	}
	change := s.checkRolloverLocked(ctx)
	s.scheduleLocked()
	if s.lifecycle != nil {
		s.unsubscribe = s.lifecycle.Subscribe(func(st clock.State) {
			s.HandleLifecycle(context.Background(), st)
		})
	}
	s.mu.Unlock()

	s.notify(change)
	return nil
}

// Dispose cancels the midnight timer and the lifecycle subscription. It is
// safe to call more than once.
func (s *Store) Dispose() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.disposed {
		return
	}
	s.disposed = true
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	if s.unsubscribe != nil {
		s.unsubscribe()
		s.unsubscribe = nil
	}
}

// scheduleLocked arms a one-shot timer for the next local midnight.
func (s *Store) scheduleLocked() {
	if s.disposed || !s.started {
		return
	}
	if s.timer != nil {
		s.timer.Stop()
	}
	d := clock.UntilNextMidnight(s.now())
	s.timer = s.clock.AfterFunc(d, s.onMidnight)
	logger.Debug("Scheduled midnight check", "in", d)
}

func (s *Store) onMidnight() {
	s.mu.Lock()
	if s.disposed {
		s.mu.Unlock()
		return
	}
	change := s.checkRolloverLocked(context.Background())
	s.scheduleLocked()
	s.mu.Unlock()

	s.notify(change)
}

// HandleLifecycle records the moment the app goes to the background and, on
// return to the foreground, forces a rollover check when the calendar day
// changed in between.
func (s *Store) HandleLifecycle(ctx context.Context, st clock.State) {
	s.mu.Lock()
	if s.disposed {
		s.mu.Unlock()
		return
	}

	var change *DateChange
	switch st {
	case clock.Background:
		ts := strconv.FormatInt(s.clock.Now().UnixMilli(), 10)
		if err := s.kv.Set(ctx, constants.BackgroundTimestampKey, ts); err != nil {
			logger.Warn("Failed to record background timestamp", "error", err)
		}
	case clock.Foreground:
		ts, ok := s.takeBackgroundTimestampLocked(ctx)
		if !ok || utils.DateString(ts, s.loc) != s.today() {
			change = s.checkRolloverLocked(ctx)
		}
		// the scheduled timer may not have fired while suspended
		s.scheduleLocked()
	}
	s.mu.Unlock()

	s.notify(change)
}

// takeBackgroundTimestampLocked reads and deletes the persisted background instant.
func (s *Store) takeBackgroundTimestampLocked(ctx context.Context) (time.Time, bool) {
	raw, err := s.kv.Get(ctx, constants.BackgroundTimestampKey)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			logger.Warn("Failed to read background timestamp", "error", err)
		}
		return time.Time{}, false
	}
	if err := s.kv.Delete(ctx, constants.BackgroundTimestampKey); err != nil {
		logger.Warn("Failed to clear background timestamp", "error", err)
	}
	ms, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		logger.Warn("Ignoring malformed background timestamp", "value", raw, "error", err)
		return time.Time{}, false
	}
	return time.UnixMilli(ms), true
}

// CheckRollover compares the clock's calendar day with the store's and
// reports whether a forward rollover happened.
func (s *Store) CheckRollover(ctx context.Context) bool {
	s.mu.Lock()
	change := s.checkRolloverLocked(ctx)
	s.mu.Unlock()

	s.notify(change)
	return change != nil
}

func (s *Store) checkRolloverLocked(ctx context.Context) *DateChange {
	today := s.today()
	if today == s.currentDate {
		return nil
	}

	if today < s.currentDate {
		// Clock moved backward: resync without touching the log.
		logger.Warn("Clock moved backward, resynchronizing", "from", s.currentDate, "to", today)
		s.currentDate = today
		return nil
	}

	previous := s.currentDate
	if s.currentLog != nil && !s.currentLog.IsEmpty() {
		if err := s.persistLocked(ctx, *s.currentLog); err != nil {
			logger.Error("Failed to archive daily log", "date", s.currentLog.Date, "error", err)
		}
	}
	s.currentDate = today
	s.currentLog = nil
	logger.Info("Date rollover", "previous", previous, "current", today)
	return &DateChange{Previous: previous, Current: today}
}

// OnDateChange registers fn for forward rollovers. The returned func removes
// only this registration and may be called any number of times.
func (s *Store) OnDateChange(fn func(DateChange)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	id := s.nextID
	s.listeners = append(s.listeners, listener{id: id, fn: fn})

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			for i, l := range s.listeners {
				if l.id == id {
					s.listeners = append(s.listeners[:i:i], s.listeners[i+1:]...)
					return
				}
			}
		})
	}
}

// notify runs listeners in registration order. It must be called without mu held.
func (s *Store) notify(change *DateChange) {
	if change == nil {
		return
	}
	s.mu.Lock()
	listeners := make([]listener, len(s.listeners))
	copy(listeners, s.listeners)
	s.mu.Unlock()

	for _, l := range listeners {
		func() {
			defer func() {
				if r := recover(); r != nil {
					logger.Error("Date change listener panicked", "previous", change.Previous, "current", change.Current, "panic", r)
				}
			}()
			l.fn(*change)
		}()
	}
}

// GetTodaysLog returns today's log, loading it from storage or synthesizing an
// empty one. A synthesized log is not persisted until the first mutation.
func (s *Store) GetTodaysLog(ctx context.Context) models.DailyLog {
	s.mu.Lock()
	log, change := s.todaysLogLocked(ctx)
	s.mu.Unlock()

	s.notify(change)
	return log.Clone()
}

func (s *Store) TodaysTotals(ctx context.Context) models.DailyNutritionTotals {
	return s.GetTodaysLog(ctx).Totals
}

func (s *Store) TodaysItems(ctx context.Context) []models.TrackedItem {
	return s.GetTodaysLog(ctx).Items
}

func (s *Store) todaysLogLocked(ctx context.Context) (models.DailyLog, *DateChange) {
	change := s.checkRolloverLocked(ctx)
	if s.currentLog != nil && s.currentLog.Date == s.currentDate {
		return *s.currentLog, change
	}
	log, _ := s.loadLocked(ctx, s.currentDate)
	s.currentLog = &log
	return log, change
}

// loadLocked reads the log for date. Missing, unreadable and malformed records
// all yield an empty log; found reports whether a record was decoded.
func (s *Store) loadLocked(ctx context.Context, date string) (log models.DailyLog, found bool) {
	var stored models.DailyLog
	err := storage.GetJSON(ctx, s.kv, Key(date), &stored)
	switch {
	case err == nil:
	case errors.Is(err, storage.ErrNotFound):
		return models.NewDailyLog(date), false
	default:
		logger.Warn("Failed to load daily log, starting empty", "date", date, "error", err)
		return models.NewDailyLog(date), false
	}
	stored.Date = date
	stored.Recalculate()
	return stored, true
}

func (s *Store) persistLocked(ctx context.Context, log models.DailyLog) error {
	if err := storage.SetJSON(ctx, s.kv, Key(log.Date), log); err != nil {
		return fmt.Errorf("failed to save log for %s: %w", log.Date, err)
	}
	return nil
}

// mutate applies fn to a copy of today's log and persists it. The cache only
// changes after the write succeeds.
func (s *Store) mutate(ctx context.Context, fn func(*models.DailyLog)) (models.DailyLog, error) {
	s.mu.Lock()
	current, change := s.todaysLogLocked(ctx)
	next := current.Clone()
	fn(&next)
	next.Recalculate()

	if err := s.persistLocked(ctx, next); err != nil {
		s.mu.Unlock()
		s.notify(change)
		return current.Clone(), err
	}
	s.currentLog = &next
	s.mu.Unlock()

	s.notify(change)
	return next.Clone(), nil
}

func newItemID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

func (s *Store) add(ctx context.Context, item models.TrackedItem) (models.TrackedItem, error) {
	item.ID = newItemID()
	item.Timestamp = s.clock.Now().UnixMilli()
	item.NutritionValues = item.NutritionValues.Sanitized()

	if _, err := s.mutate(ctx, func(l *models.DailyLog) {
		l.Items = append(l.Items, item)
	}); err != nil {
		return models.TrackedItem{}, err
	}

	if s.recorder != nil {
		if err := s.recorder.RecordUse(ctx, item); err != nil {
			logger.Warn("Failed to update quick access", "item", item.Name, "error", err)
		}
	}
	return item, nil
}

// AddItem logs a catalog item. Missing nutrients count as zero.
func (s *Store) AddItem(ctx context.Context, item models.MenuItem, restaurant string) (models.TrackedItem, error) {
	return s.add(ctx, models.TrackedItem{
		Name:            item.Name,
		Restaurant:      restaurant,
		NutritionValues: item.Values(),
		ServingSize:     item.Nutrition.ServingSize,
	})
}

// AddCustomMeal logs a user-authored meal under the custom-meal sentinel restaurant.
func (s *Store) AddCustomMeal(ctx context.Context, meal models.CustomMeal) (models.TrackedItem, error) {
	return s.add(ctx, models.TrackedItem{
		Name:            meal.Name,
		Restaurant:      constants.CustomMealRestaurant,
		NutritionValues: meal.NutritionValues,
		ServingSize:     meal.ServingSize,
	})
}

// AddTrackedCopy re-logs a quick-access entry as a new item.
func (s *Store) AddTrackedCopy(ctx context.Context, entry models.QuickAccessEntry) (models.TrackedItem, error) {
	return s.add(ctx, models.TrackedItem{
		Name:            entry.Name,
		Restaurant:      entry.Restaurant,
		NutritionValues: entry.NutritionValues,
		ServingSize:     entry.ServingSize,
	})
}

// RemoveItem drops the item with id from today's log. An unknown id still
// persists the unchanged log and is not an error.
func (s *Store) RemoveItem(ctx context.Context, id string) error {
	_, err := s.mutate(ctx, func(l *models.DailyLog) {
		kept := l.Items[:0]
		for _, item := range l.Items {
			if item.ID != id {
				kept = append(kept, item)
			}
		}
		l.Items = kept
	})
	return err
}

// ClearToday deletes today's persisted record and caches an empty log.
func (s *Store) ClearToday(ctx context.Context) error {
	s.mu.Lock()
	_, change := s.todaysLogLocked(ctx)
	date := s.currentDate
	err := s.kv.Delete(ctx, Key(date))
	if err == nil {
		empty := models.NewDailyLog(date)
		s.currentLog = &empty
	}
	s.mu.Unlock()

	s.notify(change)
	if err != nil {
		return fmt.Errorf("failed to clear log for %s: %w", date, err)
	}
	return nil
}
