package worker

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

// Task type constants
const (
	TaskDailyBrief          = "notify:daily_brief"
	TaskUnresolvedReminders = "notify:reminders"
)

// Package-level Asynq client (singleton)
var client *asynq.Client

// InitClient initializes the global Asynq client for task enqueueing.
// Must be called before any EnqueueX functions.
func InitClient(redisURL string) error {
	opt, err := asynq.ParseRedisURI(redisURL)
	if err != nil {
		return err
	}

	client = asynq.NewClient(opt)
	return nil
}

// CloseClient closes the Asynq client connection gracefully.
func CloseClient() error {
	if client != nil {
		return client.Close()
	}
	return nil
}

// EnqueueDailyBrief enqueues a daily brief task. A non-zero userID targets
// that user and bypasses the once-per-day dedupe; zero sweeps all users.
func EnqueueDailyBrief(userID uint) error {
	return enqueueNotifyTask(TaskDailyBrief, userID)
}

// EnqueueUnresolvedReminders enqueues a reminder task, scoped the same way
// as EnqueueDailyBrief.
func EnqueueUnresolvedReminders(userID uint) error {
	return enqueueNotifyTask(TaskUnresolvedReminders, userID)
}

func enqueueNotifyTask(taskType string, userID uint) error {
	payload, err := json.Marshal(map[string]uint{
		"user_id": userID,
	})
	if err != nil {
		return err
	}

	task := asynq.NewTask(
		taskType,
		payload,
		asynq.MaxRetry(3),
		asynq.Timeout(5*time.Minute),
		asynq.Retention(24*time.Hour),
	)

	_, err = client.Enqueue(task)
	return err
}
