package dailylog

import (
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/Naimy441/nutriuni/internal/constants"
	"github.com/Naimy441/nutriuni/internal/logger"
	"github.com/Naimy441/nutriuni/internal/models"
	"github.com/Naimy441/nutriuni/internal/storage"
	"github.com/Naimy441/nutriuni/internal/utils"
)

// GetLog reads the persisted log for date. found is false when nothing was
// stored (or the record could not be read) and an empty log is returned.
func (s *Store) GetLog(ctx context.Context, date string) (models.DailyLog, bool) {
	var log models.DailyLog
	err := storage.GetJSON(ctx, s.kv, Key(date), &log)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			logger.Warn("Failed to load daily log", "date", date, "error", err)
		}
		return models.NewDailyLog(date), false
	}
	log.Date = date
	log.Recalculate()
	return log, true
}

// archived returns every parseable persisted log except today's, newest first.
func (s *Store) archived(ctx context.Context) []models.DailyLog {
	s.CheckRollover(ctx)
	today := s.CurrentDate()

	keys, err := storage.KeysWithPrefix(ctx, s.kv, constants.DailyLogKeyPrefix)
	if err != nil {
		logger.Warn("Failed to list daily logs", "error", err)
		return nil
	}

	logs := make([]models.DailyLog, 0, len(keys))
	for _, key := range keys {
		date := strings.TrimPrefix(key, constants.DailyLogKeyPrefix)
		if date == today || !utils.ValidateDate(date) {
			continue
		}
		var log models.DailyLog
		if err := storage.GetJSON(ctx, s.kv, key, &log); err != nil {
			logger.Warn("Skipping unreadable daily log", "date", date, "error", err)
			continue
		}
		log.Date = date
		log.Recalculate()
		logs = append(logs, log)
	}

	sort.Slice(logs, func(i, j int) bool {
		return logs[i].Date > logs[j].Date
	})
	return logs
}

func truncate(logs []models.DailyLog, n int) []models.DailyLog {
	if n > 0 && len(logs) > n {
		return logs[:n]
	}
	return logs
}

// GetPastDaysLogs returns the persisted logs dated within the n calendar days
// before today, newest first. n <= 0 means no window.
func (s *Store) GetPastDaysLogs(ctx context.Context, n int) []models.DailyLog {
	logs := s.archived(ctx)
	if n <= 0 {
		return logs
	}
	oldest, err := utils.AddDays(s.CurrentDate(), -n)
	if err != nil {
		return logs
	}
	out := logs[:0]
	for _, log := range logs {
		if log.Date >= oldest {
			out = append(out, log)
		}
	}
	return out
}

// GetMostRecentLogs returns up to n non-empty archived logs, newest first.
// n <= 0 returns all of them.
func (s *Store) GetMostRecentLogs(ctx context.Context, n int) []models.DailyLog {
	logs := s.archived(ctx)
	out := logs[:0]
	for _, log := range logs {
		if !log.IsEmpty() {
			out = append(out, log)
		}
	}
	return truncate(out, n)
}

// GetAllHistoricalLogs returns every archived log, including empty ones, newest first.
func (s *Store) GetAllHistoricalLogs(ctx context.Context) []models.DailyLog {
	return s.archived(ctx)
}
