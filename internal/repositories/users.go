package repositories

import (
	"context"
	"errors"

	"github.com/rohits-web03/warbler/internal/models"
	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts u. Duplicate usernames or emails and empty required fields
// fail with ErrConstraintViolation.
func (r *UserRepository) Create(ctx context.Context, u *models.User) error {
	return translate("create user", r.db.WithContext(ctx).Create(u).Error)
}

// profileColumns are the fields a user may change after signing up.
var profileColumns = []string{"Email", "ImageURL", "HeaderImageURL", "Bio", "Location"}

// Update writes the profile columns of an existing user. A user that no
// longer exists yields ErrNotFound rather than being inserted again.
func (r *UserRepository) Update(ctx context.Context, u *models.User) error {
	if u.ID == 0 {
		return translate("update user", gorm.ErrRecordNotFound)
	}
	res := r.db.WithContext(ctx).Model(u).Select(profileColumns).Updates(u)
	if res.Error != nil {
		return translate("update user", res.Error)
	}
	if res.RowsAffected == 0 {
		return translate("update user", gorm.ErrRecordNotFound)
	}
	return nil
}

func (r *UserRepository) FindByID(ctx context.Context, id uint) (*models.User, error) {
	var u models.User
	if err := r.db.WithContext(ctx).First(&u, id).Error; err != nil {
		return nil, translate("find user", err)
	}
	return &u, nil
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	var u models.User
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&u).Error; err != nil {
		return nil, translate("find user", err)
	}
	return &u, nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&u).Error; err != nil {
		return nil, translate("find user", err)
	}
	return &u, nil
}

// Authenticate returns the user whose username and password match.
// Unknown usernames and wrong passwords yield (nil, nil); only storage
// failures are returned as errors.
func (r *UserRepository) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	u, err := r.FindByUsername(ctx, username)
	switch {
	case errors.Is(err, ErrNotFound):
		return nil, nil
	case err != nil:
		return nil, err
	}
	if !u.CheckPassword(password) {
		return nil, nil
	}
	return u, nil
}

// Delete removes a user. Messages and follow edges go with it through
// ON DELETE CASCADE.
func (r *UserRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.User{}, id)
	if res.Error != nil {
		return translate("delete user", res.Error)
	}
	if res.RowsAffected == 0 {
		return translate("delete user", gorm.ErrRecordNotFound)
	}
	return nil
}

func (r *UserRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.User{}).Count(&n).Error
	return n, translate("count users", err)
}
