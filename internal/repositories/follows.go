package repositories

import (
	"context"

	"github.com/rohits-web03/warbler/internal/models"
	"gorm.io/gorm"
)

type FollowRepository struct {
	db *gorm.DB
}

func NewFollowRepository(db *gorm.DB) *FollowRepository {
	return &FollowRepository{db: db}
}

// Follow records that followerID follows followedID. Following twice is a
// constraint violation.
func (r *FollowRepository) Follow(ctx context.Context, followerID, followedID uint) error {
	if followerID == followedID {
		return ErrSelfFollow
	}
	edge := models.Follows{FollowerID: followerID, FollowedID: followedID}
	return translate("follow", r.db.WithContext(ctx).Create(&edge).Error)
}

// Unfollow removes the edge. Removing a missing edge returns ErrNotFound.
func (r *FollowRepository) Unfollow(ctx context.Context, followerID, followedID uint) error {
	res := r.db.WithContext(ctx).
		Where("follower_id = ? AND followed_id = ?", followerID, followedID).
		Delete(&models.Follows{})
	if res.Error != nil {
		return translate("unfollow", res.Error)
	}
	if res.RowsAffected == 0 {
		return translate("unfollow", gorm.ErrRecordNotFound)
	}
	return nil
}

// IsFollowing reports whether followerID follows followedID.
func (r *FollowRepository) IsFollowing(ctx context.Context, followerID, followedID uint) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Follows{}).
		Where("follower_id = ? AND followed_id = ?", followerID, followedID).
		Count(&n).Error
	if err != nil {
		return false, translate("is following", err)
	}
	return n > 0, nil
}

// IsFollowedBy reports whether otherID follows userID.
func (r *FollowRepository) IsFollowedBy(ctx context.Context, userID, otherID uint) (bool, error) {
	return r.IsFollowing(ctx, otherID, userID)
}

// Followers lists the users following userID, ordered by username.
func (r *FollowRepository) Followers(ctx context.Context, userID uint) ([]models.User, error) {
	users := []models.User{}
	err := r.db.WithContext(ctx).
		Joins("JOIN follows ON follows.follower_id = users.id").
		Where("follows.followed_id = ?", userID).
		Order("users.username").
		Find(&users).Error
	return users, translate("list followers", err)
}

// Following lists the users userID follows, ordered by username.
func (r *FollowRepository) Following(ctx context.Context, userID uint) ([]models.User, error) {
	users := []models.User{}
	err := r.db.WithContext(ctx).
		Joins("JOIN follows ON follows.followed_id = users.id").
		Where("follows.follower_id = ?", userID).
		Order("users.username").
		Find(&users).Error
	return users, translate("list following", err)
}

func (r *FollowRepository) CountFollowers(ctx context.Context, userID uint) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Follows{}).Where("followed_id = ?", userID).Count(&n).Error
	return n, translate("count followers", err)
}

func (r *FollowRepository) CountFollowing(ctx context.Context, userID uint) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Follows{}).Where("follower_id = ?", userID).Count(&n).Error
	return n, translate("count following", err)
}
