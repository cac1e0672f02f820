package repositories

import (
	"context"

	"github.com/rohits-web03/warbler/internal/models"
	"gorm.io/gorm"
)

const DefaultMessageLimit = 100

type MessageRepository struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) *MessageRepository {
	return &MessageRepository{db: db}
}

// Create inserts m. Timestamp is set to the insert time when left zero.
func (r *MessageRepository) Create(ctx context.Context, m *models.Message) error {
	return translate("create message", r.db.WithContext(ctx).Omit("User").Create(m).Error)
}

func (r *MessageRepository) FindByID(ctx context.Context, id uint) (*models.Message, error) {
	var m models.Message
	if err := r.db.WithContext(ctx).Preload("User").First(&m, id).Error; err != nil {
		return nil, translate("find message", err)
	}
	return &m, nil
}

// MessagesOf returns a user's messages, newest first.
func (r *MessageRepository) MessagesOf(ctx context.Context, userID uint, limit int) ([]models.Message, error) {
	messages := []models.Message{}
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("messages.timestamp DESC, messages.id DESC").
		Limit(normalizeLimit(limit)).
		Find(&messages).Error
	return messages, translate("list messages", err)
}

// Timeline returns messages written by userID or anyone userID follows,
// newest first.
func (r *MessageRepository) Timeline(ctx context.Context, userID uint, limit int) ([]models.Message, error) {
	following := r.db.Model(&models.Follows{}).Select("followed_id").Where("follower_id = ?", userID)

	messages := []models.Message{}
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("user_id = ? OR user_id IN (?)", userID, following).
		Order("messages.timestamp DESC, messages.id DESC").
		Limit(normalizeLimit(limit)).
		Find(&messages).Error
	return messages, translate("timeline", err)
}

// Delete removes message id if it belongs to ownerID.
func (r *MessageRepository) Delete(ctx context.Context, id, ownerID uint) error {
	res := r.db.WithContext(ctx).Where("user_id = ?", ownerID).Delete(&models.Message{}, id)
	if res.Error != nil {
		return translate("delete message", res.Error)
	}
	if res.RowsAffected == 0 {
		return translate("delete message", gorm.ErrRecordNotFound)
	}
	return nil
}

func (r *MessageRepository) CountByUser(ctx context.Context, userID uint) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Message{}).Where("user_id = ?", userID).Count(&n).Error
	return n, translate("count messages", err)
}

func normalizeLimit(limit int) int {
	if limit <= 0 || limit > DefaultMessageLimit {
		return DefaultMessageLimit
	}
	return limit
}
