package worker

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/actionhub/action-hub/internal/config"
	"github.com/hibiken/asynq"
)

// StartScheduler creates and starts an Asynq Scheduler for the periodic
// notification sweeps. Returns a stop function for graceful shutdown.
func StartScheduler(cfg *config.Config) (stop func(), err error) {
	redisOpt, err := asynq.ParseRedisURI(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	location, err := time.LoadLocation(cfg.BriefTimezone)
	if err != nil {
		slog.Warn("Invalid timezone, using UTC", "timezone", cfg.BriefTimezone, "error", err)
		location = time.UTC
	}

	logger := NewLogger(cfg.LogLevel, cfg.LogFormat)

	scheduler := asynq.NewScheduler(
		redisOpt,
		&asynq.SchedulerOpts{
			Location: location,
			LogLevel: asynq.InfoLevel,
			Logger:   &asynqLoggerAdapter{logger: logger},
		},
	)

	// user_id 0 means sweep all users; the handlers hold the per-user dedupe
	sweepPayload, err := json.Marshal(map[string]uint{"user_id": 0})
	if err != nil {
		return nil, err
	}

	briefTask := asynq.NewTask(
		TaskDailyBrief,
		sweepPayload,
		asynq.MaxRetry(3),
		asynq.Timeout(10*time.Minute),
		asynq.Retention(24*time.Hour),
	)
	briefEntry, err := scheduler.Register(cfg.BriefSchedule, briefTask)
	if err != nil {
		return nil, fmt.Errorf("failed to register brief schedule: %w", err)
	}

	reminderTask := asynq.NewTask(
		TaskUnresolvedReminders,
		sweepPayload,
		asynq.MaxRetry(3),
		asynq.Timeout(10*time.Minute),
		asynq.Retention(24*time.Hour),
	)
	reminderEntry, err := scheduler.Register(cfg.ReminderSchedule, reminderTask)
	if err != nil {
		return nil, fmt.Errorf("failed to register reminder schedule: %w", err)
	}

	if err := scheduler.Start(); err != nil {
		return nil, fmt.Errorf("failed to start scheduler: %w", err)
	}

	slog.Info(
		"Scheduler started",
		"brief_schedule", cfg.BriefSchedule,
		"reminder_schedule", cfg.ReminderSchedule,
		"timezone", cfg.BriefTimezone,
		"brief_entry", briefEntry,
		"reminder_entry", reminderEntry,
	)

	return func() { scheduler.Shutdown() }, nil
}
