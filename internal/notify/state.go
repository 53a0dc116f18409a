package notify

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"
)

var (
	bucketReminders = []byte("notified_reminders")
	bucketOverdue   = []byte("notified_overdue")
)

// StateStore persists which tasks have already been notified per alert kind,
// so a process restart does not re-fire notifications for thresholds that were
// crossed before it. Every mutation is a durable bolt transaction.
type StateStore struct {
	db *bolt.DB
}

func OpenState(path string) (*StateStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create state dir: %w", err)
	}
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open state store: %w", err)
	}
	if err := db.Update(func(tx *bolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists(bucketReminders); err != nil {
			return err
		}
		_, err := tx.CreateBucketIfNotExists(bucketOverdue)
		return err
	}); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init state buckets: %w", err)
	}
	return &StateStore{db: db}, nil
}

func (s *StateStore) Close() error {
	return s.db.Close()
}

func (s *StateStore) MarkReminder(taskID string) error {
	return s.mark(bucketReminders, taskID)
}

func (s *StateStore) MarkOverdue(taskID string) error {
	return s.mark(bucketOverdue, taskID)
}

func (s *StateStore) ReminderNotified(taskID string) bool {
	return s.has(bucketReminders, taskID)
}

func (s *StateStore) OverdueNotified(taskID string) bool {
	return s.has(bucketOverdue, taskID)
}

// Clear removes the task from both alert-kind sets. Called when the user
// toggles or deletes the task so a future occurrence is eligible again.
func (s *StateStore) Clear(taskID string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		if err := tx.Bucket(bucketReminders).Delete([]byte(taskID)); err != nil {
			return err
		}
		return tx.Bucket(bucketOverdue).Delete([]byte(taskID))
	})
}

func (s *StateStore) mark(bucket []byte, taskID string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucket).Put([]byte(taskID), []byte{1})
	})
}

func (s *StateStore) has(bucket []byte, taskID string) bool {
	found := false
	_ = s.db.View(func(tx *bolt.Tx) error {
		found = tx.Bucket(bucket).Get([]byte(taskID)) != nil
		return nil
	})
	return found
}
