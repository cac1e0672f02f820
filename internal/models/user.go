package models

import (
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// DefaultImageURL is used when a user signs up without a profile image.
const DefaultImageURL = "/static/images/default-pic.png"

// BcryptCost is the work factor used by Signup. Tests lower it.
var BcryptCost = bcrypt.DefaultCost

type User struct {
	ID             uint      `json:"id" gorm:"primaryKey"`
	Email          string    `json:"email" gorm:"uniqueIndex;not null;check:chk_users_email,email <> ''"`
	Username       string    `json:"username" gorm:"uniqueIndex;not null;check:chk_users_username,username <> ''"`
	Password       string    `json:"-" gorm:"not null"`
	ImageURL       string    `json:"imageUrl"`
	HeaderImageURL string    `json:"headerImageUrl"`
	Bio            string    `json:"bio"`
	Location       string    `json:"location"`
	CreatedAt      time.Time `json:"createdAt" gorm:"autoCreateTime"`
	UpdatedAt      time.Time `json:"updatedAt" gorm:"autoUpdateTime"`
}

// Signup builds a user with a hashed password. The user is not persisted;
// uniqueness and required fields are enforced when it is written.
func Signup(username, email, password, imageURL string) (*User, error) {
	hash, err := HashPassword(password)
	if err != nil {
		return nil, err
	}
	if imageURL == "" {
		imageURL = DefaultImageURL
	}
	return &User{
		Username: username,
		Email:    email,
		Password: hash,
		ImageURL: imageURL,
	}, nil
}

// HashPassword returns a bcrypt digest tagged with the $2b$ revision.
// x/crypto writes $2a$, which is the same algorithm for inputs bcrypt accepts.
func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), BcryptCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return strings.Replace(string(hashed), "$2a$", "$2b$", 1), nil
}

// CheckPassword reports whether password matches the stored digest.
func (u *User) CheckPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)) == nil
}
