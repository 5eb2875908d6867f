package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"civic-commons/townhall/internal/models/gorm"

	gormlib "gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SystemSettingRepo handles the named marker rows
type SystemSettingRepo struct {
	db *gormlib.DB
}

// NewSystemSettingRepo creates a new system setting repository
func NewSystemSettingRepo(db *gormlib.DB) *SystemSettingRepo {
	return &SystemSettingRepo{db: db}
}

// LastResetAt returns the marker timestamp for key, or nil when it has never been written
func (r *SystemSettingRepo) LastResetAt(ctx context.Context, key string) (*time.Time, error) {
	var setting gorm.SystemSetting

	err := r.db.WithContext(ctx).
		Where("name = ?", key).
		First(&setting).Error

	if err != nil {
		if errors.Is(err, gormlib.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read setting %s: %w", key, err)
	}

	return setting.LastResetAt, nil
}

// ClaimReset moves the marker to now if it is absent or at or before dueBefore.
// Exactly one of several concurrent callers gets true: the conditional update re-checks
// the marker under the row lock, and the insert path does nothing on conflict.
func (r *SystemSettingRepo) ClaimReset(ctx context.Context, key string, now, dueBefore time.Time) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&gorm.SystemSetting{}).
		Where("name = ? AND (last_reset_at IS NULL OR last_reset_at <= ?)", key, dueBefore).
		Updates(map[string]interface{}{
			"last_reset_at": now,
			"value":         now.Format(time.RFC3339),
		})
	if res.Error != nil {
		return false, fmt.Errorf("failed to update setting %s: %w", key, res.Error)
	}
	if res.RowsAffected == 1 {
		return true, nil
	}

	setting := gorm.SystemSetting{
		Key:         key,
		Value:       now.Format(time.RFC3339),
		LastResetAt: &now,
	}
	res = r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&setting)
	if res.Error != nil {
		return false, fmt.Errorf("failed to insert setting %s: %w", key, res.Error)
	}
	return res.RowsAffected == 1, nil
}
