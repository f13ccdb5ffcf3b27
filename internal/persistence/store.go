// Package persistence is the optional external collaborator spec §6
// describes: the engine offers it task-lifecycle events, but never
// depends on it for correctness. The schema mirrors
// original_source/utils/Database.h's TaskRecord; the storage backend is
// gorm.io/gorm over sqlite rather than hand-rolled sqlite3_stmt calls.
package persistence

import (
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// TaskRecord is the persisted shape of a task-lifecycle event, matching
// the original's TaskRecord field set.
type TaskRecord struct {
	ID          int `gorm:"primaryKey"`
	Name        string
	Priority    string
	MaxRetries  int
	RetryCount  int
	State       int
	Type        string
	ParamsJSON  string
	CreatedAt   time.Time
	StartedAt   *time.Time
	CompletedAt *time.Time
	WorkerID    int
	ErrorMsg    string
}

// Store records task lifecycle events to a relational store. The core
// engine never reads from it; it is a write-only sink for external
// observability. Started/Completed/Failed satisfy pool.Observer: they log
// and continue on failure rather than propagating an error, since a
// background sink must never stall or fail task execution.
type Store struct {
	db     *gorm.DB
	logger *zap.Logger
}

// Open initializes a sqlite-backed Store at dbPath, creating the schema if
// absent. logger is used for the background lifecycle-event sinks' own
// failures; it must not be nil.
func Open(dbPath string, logger *zap.Logger) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&TaskRecord{}); err != nil {
		return nil, err
	}
	return &Store{db: db, logger: logger}, nil
}

// Created records a task's creation, matching the "created" lifecycle
// event named in spec §6.
func (s *Store) Created(rec TaskRecord) error {
	rec.CreatedAt = time.Now()
	return s.db.Create(&rec).Error
}

// Started records the "started" lifecycle event.
func (s *Store) Started(id int, workerID int) {
	now := time.Now()
	err := s.db.Model(&TaskRecord{}).Where("id = ?", id).
		Updates(map[string]any{"state": 2, "started_at": &now, "worker_id": workerID}).Error
	if err != nil {
		s.logger.Warn("failed to persist task start", zap.Int("task_id", id), zap.Error(err))
	}
}

// Completed records the "completed" lifecycle event.
func (s *Store) Completed(id int, retryCount int) {
	now := time.Now()
	err := s.db.Model(&TaskRecord{}).Where("id = ?", id).
		Updates(map[string]any{"state": 3, "completed_at": &now, "retry_count": retryCount}).Error
	if err != nil {
		s.logger.Warn("failed to persist task completion", zap.Int("task_id", id), zap.Error(err))
	}
}

// Failed records the "failed" lifecycle event.
func (s *Store) Failed(id int, retryCount int, errMsg string) {
	now := time.Now()
	err := s.db.Model(&TaskRecord{}).Where("id = ?", id).
		Updates(map[string]any{"state": 4, "completed_at": &now, "retry_count": retryCount, "error_msg": errMsg}).Error
	if err != nil {
		s.logger.Warn("failed to persist task failure", zap.Int("task_id", id), zap.Error(err))
	}
}

// Stats returns counts of persisted records grouped by state, matching the
// original's Database::getTaskStats.
func (s *Store) Stats() (map[int]int64, error) {
	var rows []struct {
		State int
		Count int64
	}
	if err := s.db.Model(&TaskRecord{}).Select("state, count(*) as count").Group("state").Scan(&rows).Error; err != nil {
		return nil, err
	}
	out := make(map[int]int64, len(rows))
	for _, r := range rows {
		out[r.State] = r.Count
	}
	return out, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
