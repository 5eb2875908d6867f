package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"civic-commons/townhall/internal/constants"
	gormModels "civic-commons/townhall/internal/models/gorm"

	"gorm.io/gorm"
)

type UserRepositoryGORM struct {
	db *gorm.DB
}

// NewUserRepositoryGORM creates a new GORM-based user repository
func NewUserRepositoryGORM(db *gorm.DB) *UserRepositoryGORM {
	return &UserRepositoryGORM{db: db}
}

func (r *UserRepositoryGORM) Create(ctx context.Context, user *gormModels.User) error {
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicate
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (r *UserRepositoryGORM) GetByID(ctx context.Context, id string) (*gormModels.User, error) {
	var user gormModels.User
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch user: %w", err)
	}
	return &user, nil
}

func (r *UserRepositoryGORM) GetByEmail(ctx context.Context, email string) (*gormModels.User, error) {
	var user gormModels.User
	err := r.db.WithContext(ctx).
		Where("email = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch user by email: %w", err)
	}
	return &user, nil
}

// AdminExists reports whether the community already has its ADMIN account.
func (r *UserRepositoryGORM) AdminExists(ctx context.Context, communityName string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&gormModels.User{}).
		Where("community_name = ? AND role = ?", communityName, constants.RoleAdmin).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to count admins: %w", err)
	}
	return count > 0, nil
}

// AddPoints applies delta to both the lifetime and weekly balances in one statement.
func (r *UserRepositoryGORM) AddPoints(ctx context.Context, userID string, delta int) error {
	res := r.db.WithContext(ctx).
		Model(&gormModels.User{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{
			"civic_points":  gorm.Expr("civic_points + ?", delta),
			"weekly_points": gorm.Expr("weekly_points + ?", delta),
		})
	if res.Error != nil {
		return fmt.Errorf("failed to apply points: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *UserRepositoryGORM) UpdateLocation(ctx context.Context, userID string, lat, lon float64, at time.Time) error {
	res := r.db.WithContext(ctx).
		Model(&gormModels.User{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{
			"last_latitude":    lat,
			"last_longitude":   lon,
			"last_location_at": at,
		})
	if res.Error != nil {
		return fmt.Errorf("failed to update location: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ListLocatedMembers returns USER-role members of a community with a known location,
// excluding one user id (the reporter). Ordered by creation so scans are deterministic.
func (r *UserRepositoryGORM) ListLocatedMembers(ctx context.Context, communityName, excludeID string) ([]gormModels.User, error) {
	var users []gormModels.User
	err := r.db.WithContext(ctx).
		Where("community_name = ? AND role = ? AND id <> ?", communityName, constants.RoleUser, excludeID).
		Where("last_latitude IS NOT NULL AND last_longitude IS NOT NULL").
		Order("created_at ASC").
		Find(&users).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list located members: %w", err)
	}
	return users, nil
}

// TopByWeeklyPoints returns the community's leaders; ties fall back to lifetime points, then name.
func (r *UserRepositoryGORM) TopByWeeklyPoints(ctx context.Context, communityName string, limit int) ([]gormModels.User, error) {
	var users []gormModels.User
	err := r.db.WithContext(ctx).
		Where("community_name = ? AND role = ?", communityName, constants.RoleUser).
		Order("weekly_points DESC").
		Order("civic_points DESC").
		Order("name ASC").
		Limit(limit).
		Find(&users).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch leaderboard: %w", err)
	}
	return users, nil
}

// ResetWeeklyPoints zeroes every non-zero weekly balance and returns how many rows changed.
func (r *UserRepositoryGORM) ResetWeeklyPoints(ctx context.Context) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&gormModels.User{}).
		Where("weekly_points <> ?", 0).
		Update("weekly_points", 0)
	if res.Error != nil {
		return 0, fmt.Errorf("failed to reset weekly points: %w", res.Error)
	}
	return res.RowsAffected, nil
}
