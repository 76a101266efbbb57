package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/actionhub/action-hub/internal/config"
	"github.com/actionhub/action-hub/internal/models"
	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Notifier delivers user notifications produced by background tasks.
type Notifier interface {
	SendDailyBrief(user *models.User, meetings []models.Meeting)
	SendUnresolvedReminders(user *models.User, items []models.ActionItem)
}

// asynqLoggerAdapter wraps slog.Logger to implement asynq.Logger interface
type asynqLoggerAdapter struct {
	logger *slog.Logger
}

// Implement asynq.Logger interface methods
func (a *asynqLoggerAdapter) Debug(args ...interface{}) {
	a.logger.Debug(fmt.Sprint(args...))
}

func (a *asynqLoggerAdapter) Info(args ...interface{}) {
	a.logger.Info(fmt.Sprint(args...))
}

func (a *asynqLoggerAdapter) Warn(args ...interface{}) {
	a.logger.Warn(fmt.Sprint(args...))
}

func (a *asynqLoggerAdapter) Error(args ...interface{}) {
	a.logger.Error(fmt.Sprint(args...))
}

func (a *asynqLoggerAdapter) Fatal(args ...interface{}) {
	a.logger.Error(fmt.Sprint(args...))
	panic(fmt.Sprint(args...))
}

// Run starts the Asynq worker server and blocks until shutdown signal.
// Use this for standalone worker mode.
func Run(cfg *config.Config, db *gorm.DB, notifier Notifier) error {
	srv, mux, err := newServer(cfg, db, notifier)
	if err != nil {
		return err
	}

	// Run blocks and handles its own signal interception
	return srv.Run(mux)
}

// Start starts the Asynq worker in non-blocking mode and returns a stop function.
// Use this for embedded mode so the caller can coordinate shutdown.
func Start(cfg *config.Config, db *gorm.DB, notifier Notifier) (stop func(), err error) {
	srv, mux, err := newServer(cfg, db, notifier)
	if err != nil {
		return nil, err
	}
	if err := srv.Start(mux); err != nil {
		return nil, fmt.Errorf("failed to start worker: %w", err)
	}
	return func() { srv.Shutdown() }, nil
}

func newServer(cfg *config.Config, db *gorm.DB, notifier Notifier) (*asynq.Server, *asynq.ServeMux, error) {
	redisOpt, err := asynq.ParseRedisURI(cfg.RedisURL)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	logger := NewLogger(cfg.LogLevel, cfg.LogFormat)

	srv := asynq.NewServer(
		redisOpt,
		asynq.Config{
			Concurrency:     5,
			ShutdownTimeout: 30 * time.Second,
			ErrorHandler:    asynq.ErrorHandlerFunc(makeErrorHandler(logger)),
			Logger:          &asynqLoggerAdapter{logger: logger},
		},
	)

	// Dedicated Redis client for the once-per-day send dedupe marks.
	// This is separate from the Asynq internal connection.
	rdb, err := newDedupeRedisClient(cfg.RedisURL)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create dedupe Redis client: %w", err)
	}

	mux := asynq.NewServeMux()
	mux.HandleFunc(TaskDailyBrief, handleDailyBrief(logger, db, rdb, notifier))
	mux.HandleFunc(TaskUnresolvedReminders, handleUnresolvedReminders(logger, db, rdb, notifier))

	logger.Info("Worker starting", "concurrency", 5, "redis", cfg.RedisURL)
	return srv, mux, nil
}

// newDedupeRedisClient creates the Redis client backing the send-once marks.
func newDedupeRedisClient(redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}
	return redis.NewClient(opts), nil
}

type notifyPayload struct {
	UserID uint `json:"user_id"`
}

// handleDailyBrief sends the morning digest. A sweep (user_id 0) covers every
// user with the dailyBrief preference enabled and marks each send in Redis so
// overlapping scheduler runs stay idempotent. A targeted task is an explicit
// user request and skips both the preference check and the dedupe mark.
func handleDailyBrief(logger *slog.Logger, db *gorm.DB, rdb *redis.Client, notifier Notifier) func(context.Context, *asynq.Task) error {
	return func(ctx context.Context, task *asynq.Task) error {
		var payload notifyPayload
		if err := json.Unmarshal(task.Payload(), &payload); err != nil {
			return fmt.Errorf("invalid payload: %w", asynq.SkipRetry)
		}

		users, err := loadTargets(ctx, db, payload.UserID)
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
		endOfDay := time.Date(now.Year(), now.Month(), now.Day(), 23, 59, 59, 999999000, time.UTC)

		sent := 0
		for i := range users {
			user := &users[i]
			sweep := payload.UserID == 0

			if sweep {
				wantsBrief, _ := user.NotificationFlags()
				if !wantsBrief {
					continue
				}
				ok, err := markSent(ctx, rdb, "brief", user.ID, now)
				if err != nil {
					logger.Error("Dedupe check failed", "user_id", user.ID, "error", err.Error())
					continue
				}
				if !ok {
					continue
				}
			}

			var meetings []models.Meeting
			err := db.WithContext(ctx).
				Where("user_id = ? AND start_time >= ? AND start_time <= ?", user.ID, startOfDay, endOfDay).
				Order("start_time").
				Find(&meetings).Error
			if err != nil {
				logger.Error("Failed to load meetings for brief", "user_id", user.ID, "error", err.Error())
				continue
			}

			notifier.SendDailyBrief(user, meetings)
			sent++
		}

		logger.Info("Daily brief task completed", "targets", len(users), "sent", sent)
		return nil
	}
}

// handleUnresolvedReminders nudges users about incomplete action items. Sweep
// and dedupe semantics match handleDailyBrief.
func handleUnresolvedReminders(logger *slog.Logger, db *gorm.DB, rdb *redis.Client, notifier Notifier) func(context.Context, *asynq.Task) error {
	return func(ctx context.Context, task *asynq.Task) error {
		var payload notifyPayload
		if err := json.Unmarshal(task.Payload(), &payload); err != nil {
			return fmt.Errorf("invalid payload: %w", asynq.SkipRetry)
		}

		users, err := loadTargets(ctx, db, payload.UserID)
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		sent := 0
		for i := range users {
			user := &users[i]
			sweep := payload.UserID == 0

			if sweep {
				_, wantsReminders := user.NotificationFlags()
				if !wantsReminders {
					continue
				}
				ok, err := markSent(ctx, rdb, "reminders", user.ID, now)
				if err != nil {
					logger.Error("Dedupe check failed", "user_id", user.ID, "error", err.Error())
					continue
				}
				if !ok {
					continue
				}
			}

			var pending []models.ActionItem
			err := db.WithContext(ctx).
				Joins("JOIN meetings ON meetings.id = action_items.meeting_id").
				Where("meetings.user_id = ? AND meetings.deleted_at IS NULL AND action_items.is_completed = ?", user.ID, false).
				Find(&pending).Error
			if err != nil {
				logger.Error("Failed to load pending items", "user_id", user.ID, "error", err.Error())
				continue
			}
			if len(pending) == 0 {
				continue
			}

			notifier.SendUnresolvedReminders(user, pending)
			sent++
		}

		logger.Info("Reminder task completed", "targets", len(users), "sent", sent)
		return nil
	}
}

// loadTargets returns the single addressed user, or every user for a sweep.
func loadTargets(ctx context.Context, db *gorm.DB, userID uint) ([]models.User, error) {
	var users []models.User
	if userID != 0 {
		var user models.User
		if err := db.WithContext(ctx).First(&user, userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("user not found: %w", asynq.SkipRetry)
			}
			return nil, fmt.Errorf("failed to fetch user: %w", err)
		}
		return []models.User{user}, nil
	}

	if err := db.WithContext(ctx).Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// markSent claims the once-per-day send slot for a user. Returns false when
// today's notification was already sent. The TTL outlives the day boundary
// slightly so a retry near midnight cannot double-send.
func markSent(ctx context.Context, rdb *redis.Client, kind string, userID uint, now time.Time) (bool, error) {
	key := fmt.Sprintf("notify:%s:%d:%s", kind, userID, now.Format("2006-01-02"))
	return rdb.SetNX(ctx, key, "1", 26*time.Hour).Result()
}

// makeErrorHandler creates an error handler function with logger closure.
func makeErrorHandler(logger *slog.Logger) func(context.Context, *asynq.Task, error) {
	return func(ctx context.Context, task *asynq.Task, err error) {
		retried, _ := asynq.GetRetryCount(ctx)
		maxRetry, _ := asynq.GetMaxRetry(ctx)

		logger.Error(
			"Task execution failed",
			"task_type", task.Type(),
			"error", err.Error(),
			"retry_count", retried,
			"max_retry", maxRetry,
		)

		if retried >= maxRetry {
			logger.Error(
				"Task moved to dead letter queue (all retries exhausted)",
				"task_type", task.Type(),
				"payload", string(task.Payload()),
			)
		}
	}
}
