package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ReportFavorite marks a report type as pinned for a user in the discovery listing.
type ReportFavorite struct {
	ID         uuid.UUID `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	UserID     uuid.UUID `gorm:"column:user_id;type:uuid;not null;uniqueIndex:idx_fav_user_type" json:"user_id"`
	ReportType string    `gorm:"column:report_type;type:varchar(40);not null;uniqueIndex:idx_fav_user_type" json:"report_type"`
	CreatedAt  time.Time `json:"createdAt"`
}

func (ReportFavorite) TableName() string {
	return "ReportFavorites"
}

func (f *ReportFavorite) BeforeCreate(tx *gorm.DB) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	return nil
}
