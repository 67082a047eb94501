package reports

import (
	"context"
	"errors"

	"keystone-backend/internal/domain"

	"github.com/google/uuid"
)

// ErrUnknownFavoriteType is returned when pinning a report type that does not exist.
var ErrUnknownFavoriteType = errors.New("Invalid report type")

// AddFavorite pins a report type for a user. Adding the same type twice is a no-op.
func (s *Store) AddFavorite(ctx context.Context, userID uuid.UUID, reportType string) error {
	if GetDefinition(reportType) == nil {
		return ErrUnknownFavoriteType
	}
	var count int64
	err := s.DB.WithContext(ctx).Model(&domain.ReportFavorite{}).
		Where("user_id = ? AND report_type = ?", userID, reportType).
		Count(&count).Error
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	return s.DB.WithContext(ctx).Create(&domain.ReportFavorite{
		UserID:     userID,
		ReportType: reportType,
	}).Error
}

// RemoveFavorite unpins a report type. Removing an absent pin is a no-op.
func (s *Store) RemoveFavorite(ctx context.Context, userID uuid.UUID, reportType string) error {
	if GetDefinition(reportType) == nil {
		return ErrUnknownFavoriteType
	}
	return s.DB.WithContext(ctx).
		Where("user_id = ? AND report_type = ?", userID, reportType).
		Delete(&domain.ReportFavorite{}).Error
}
