package services

import (
	"context"
	"fmt"

	"github.com/Conceptual-Machines/alpacka-api/internal/models"
	"gorm.io/gorm"
)

const (
	defaultHistoryLimit = 20
	maxHistoryLimit     = 100
)

type UsageService struct {
	db *gorm.DB
}

func NewUsageService(db *gorm.DB) *UsageService {
	return &UsageService{db: db}
}

// Record stores one optimization attempt
func (s *UsageService) Record(ctx context.Context, entry *models.UsageLog) error {
	if err := s.db.WithContext(ctx).Create(entry).Error; err != nil {
		return fmt.Errorf("failed to record usage: %w", err)
	}
	return nil
}

// RecentForUser returns the user's successful optimizations, newest first
func (s *UsageService) RecentForUser(ctx context.Context, userID uint, limit int) ([]models.UsageLog, error) {
	limit = clampHistoryLimit(limit)

	var logs []models.UsageLog
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND success = ?", userID, true).
		Order("created_at DESC").
		Limit(limit).
		Find(&logs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load usage history: %w", err)
	}
	return logs, nil
}

func clampHistoryLimit(limit int) int {
	if limit <= 0 {
		return defaultHistoryLimit
	}
	if limit > maxHistoryLimit {
		return maxHistoryLimit
	}
	return limit
}
