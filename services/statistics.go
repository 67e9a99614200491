package services

import (
	"fmt"
	"sync"
	"time"

	"github.com/studyplanner/StudyPlannerBackend/cache"
	"github.com/studyplanner/StudyPlannerBackend/db"
	"github.com/studyplanner/StudyPlannerBackend/models"
	"go.uber.org/zap"
)

// StudyTimeSeries is a fixed 7-day trailing window, oldest day first.
type StudyTimeSeries struct {
	Labels    []string `json:"labels"`
	Durations []int    `json:"durations"`
}

type ReadingProgress struct {
	Labels   []string  `json:"labels"`
	Progress []float64 `json:"progress"`
}

type CategoryStat struct {
	Completed  int `json:"completed"`
	InProgress int `json:"inProgress"`
	Pending    int `json:"pending"`
}

type DashboardStats struct {
	StudyTimeData       StudyTimeSeries         `json:"studyTimeData"`
	ReadingProgressData ReadingProgress         `json:"readingProgressData"`
	TotalStudyTime      int                     `json:"totalStudyTime"`
	ActiveBooks         int                     `json:"activeBooks"`
	TotalGoals          int                     `json:"totalGoals"`
	CompletedGoals      int                     `json:"completedGoals"`
	CompletionRate      float64                 `json:"completionRate"`
	CategoryStats       map[string]CategoryStat `json:"categoryStats"`
	CategoryOrder       []string                `json:"categoryOrder"`
}

const statsWindowDays = 7

// windowCutoff returns midnight at the start of the oldest window day, in
// now's location. Truncating the instant instead would align the cutoff to a
// UTC day boundary and drop part of the oldest day on non-UTC servers.
func windowCutoff(now time.Time) time.Time {
	ws := now.AddDate(0, 0, -(statsWindowDays - 1))
	return time.Date(ws.Year(), ws.Month(), ws.Day(), 0, 0, 0, 0, ws.Location())
}

// Aggregate derives the dashboard rollups from per-user query results. It is
// pure over its inputs; "now" fixes the trailing window's last day.
func Aggregate(studyRecords []models.StudyRecord, bookRecords []models.BookRecord, goals []models.Goal, now time.Time) DashboardStats {
	stats := DashboardStats{
		CategoryStats: map[string]CategoryStat{},
	}

	// One bucket per calendar day (server-local), oldest to newest.
	labels := make([]string, 0, statsWindowDays)
	durations := make([]int, statsWindowDays)
	index := make(map[string]int, statsWindowDays)
	for i := statsWindowDays - 1; i >= 0; i-- {
		day := now.AddDate(0, 0, -i).Format("2006-01-02")
		index[day] = len(labels)
		labels = append(labels, day)
	}
	for _, record := range studyRecords {
		day := record.Date.Format("2006-01-02")
		if i, ok := index[day]; ok {
			durations[i] += record.Duration
		}
	}
	stats.StudyTimeData = StudyTimeSeries{Labels: labels, Durations: durations}
	for _, d := range durations {
		stats.TotalStudyTime += d
	}

	for _, book := range bookRecords {
		if book.Status != models.BookReading {
			continue
		}
		progress := 0.0
		if book.TotalPages > 0 {
			progress = float64(book.CurrentPage) / float64(book.TotalPages) * 100
		}
		stats.ReadingProgressData.Labels = append(stats.ReadingProgressData.Labels, book.Title)
		stats.ReadingProgressData.Progress = append(stats.ReadingProgressData.Progress, progress)
		stats.ActiveBooks++
	}

	stats.TotalGoals = len(goals)
	for _, goal := range goals {
		if goal.Status == models.StatusCompleted {
			stats.CompletedGoals++
		}

		entry, seen := stats.CategoryStats[goal.Category]
		if !seen {
			stats.CategoryOrder = append(stats.CategoryOrder, goal.Category)
		}
		switch goal.Status {
		case models.StatusCompleted:
			entry.Completed++
		case models.StatusInProgress:
			entry.InProgress++
		default:
			entry.Pending++
		}
		stats.CategoryStats[goal.Category] = entry
	}

	if stats.TotalGoals > 0 {
		stats.CompletionRate = float64(stats.CompletedGoals) / float64(stats.TotalGoals) * 100
	}

	return stats
}

// UserDashboardStats loads the three owner-scoped result sets concurrently,
// aggregates them, and caches the result for a short TTL.
func UserDashboardStats(userID uint, ttl time.Duration, logger *zap.Logger) (*DashboardStats, error) {
	startTime := time.Now()

	cacheKey := fmt.Sprintf("user_stats:%d", userID)
	var cachedStats DashboardStats
	if err := cache.Get(cacheKey, &cachedStats); err == nil {
		logger.Info("cache_hit", zap.String("key", cacheKey))
		return &cachedStats, nil
	}

	var (
		studyRecords []models.StudyRecord
		bookRecords  []models.BookRecord
		goals        []models.Goal
	)

	// The three queries are independent, so they run on their own goroutines.
	cutoff := windowCutoff(time.Now())
	errChan := make(chan error, 3)
	var wg sync.WaitGroup

	wg.Add(3)
	go func() {
		defer wg.Done()
		errChan <- db.DB.
			Where("user_id = ? AND date >= ?", userID, cutoff).
			Order("date ASC").
			Find(&studyRecords).Error
	}()
	go func() {
		defer wg.Done()
		errChan <- db.DB.Where("user_id = ?", userID).Find(&bookRecords).Error
	}()
	go func() {
		defer wg.Done()
		errChan <- db.DB.Where("user_id = ?", userID).Find(&goals).Error
	}()

	wg.Wait()
	close(errChan)

	for err := range errChan {
		if err != nil {
			return nil, err
		}
	}

	stats := Aggregate(studyRecords, bookRecords, goals, time.Now())

	if err := cache.Set(cacheKey, stats, ttl); err != nil {
		logger.Warn("stats_cache_set_failed", zap.Error(err))
	}

	logger.Info("stats_calculated",
		zap.Uint("user_id", userID),
		zap.Int("goals_count", len(goals)),
		zap.Duration("duration", time.Since(startTime)),
	)

	return &stats, nil
}
