package repositories

import (
	"context"

	"gorm.io/gorm"
)

// Store groups the repositories that share one connection or transaction.
type Store struct {
	DB       *gorm.DB
	Users    *UserRepository
	Follows  *FollowRepository
	Messages *MessageRepository
}

func NewStore(db *gorm.DB) *Store {
	return &Store{
		DB:       db,
		Users:    NewUserRepository(db),
		Follows:  NewFollowRepository(db),
		Messages: NewMessageRepository(db),
	}
}

// Transaction runs fn against a store bound to a single transaction. The
// transaction commits when fn returns nil and rolls back otherwise, so nothing
// fn wrote is visible outside it until then.
func (s *Store) Transaction(ctx context.Context, fn func(tx *Store) error) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewStore(tx))
	})
}
