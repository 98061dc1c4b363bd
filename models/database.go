package models

import (
	"context"
	"fmt"

	"quantmind/config"
	"quantmind/quant"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// InitDatabase opens the audit database with connection pooling. An empty
// DSN disables auditing and returns a nil handle.
func InitDatabase(dsn string, pool config.ConnectionPoolConfig) (*gorm.DB, error) {
	if dsn == "" {
		return nil, nil
	}

	cfg := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	}

	db, err := gorm.Open(postgres.Open(dsn), cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	sqlDB.SetMaxIdleConns(pool.MaxIdleConns)
	sqlDB.SetMaxOpenConns(pool.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(pool.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(pool.ConnMaxIdleTime)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if err := db.AutoMigrate(&PredictionRequest{}); err != nil {
		return nil, fmt.Errorf("failed to migrate: %w", err)
	}

	return db, nil
}

// AuditStore writes and reads PredictionRequest rows.
type AuditStore struct {
	db *gorm.DB
}

func NewAuditStore(db *gorm.DB) *AuditStore {
	return &AuditStore{db: db}
}

// RecordPrediction inserts one audit row for b.
func (s *AuditStore) RecordPrediction(ctx context.Context, b quant.PredictionBundle) error {
	row := NewPredictionRequest(b)
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return fmt.Errorf("insert prediction request: %w", err)
	}
	return nil
}

// Recent returns the newest rows, optionally for one ticker.
func (s *AuditStore) Recent(ctx context.Context, ticker string, limit int) ([]PredictionRequest, error) {
	if limit <= 0 || limit > 500 {
		limit = 50
	}
	q := s.db.WithContext(ctx).Order("created_at desc").Limit(limit)
	if ticker != "" {
		q = q.Where("ticker = ?", quant.NormalizeTicker(ticker))
	}
	var rows []PredictionRequest
	if err := q.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list prediction requests: %w", err)
	}
	return rows, nil
}
