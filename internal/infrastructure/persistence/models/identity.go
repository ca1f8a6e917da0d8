package models

import (
	"time"

	"github.com/foodgram/backend/internal/domain/identity"
	"github.com/google/uuid"
)

// UserModel is the persistence model for the User domain entity.
type UserModel struct {
	BaseModel
	Email        string     `gorm:"type:varchar(254);not null;uniqueIndex:uq_users_email"`
	Username     string     `gorm:"type:varchar(150);not null;uniqueIndex:uq_users_username"`
	FirstName    string     `gorm:"type:varchar(150);not null"`
	LastName     string     `gorm:"type:varchar(150);not null"`
	PasswordHash string     `gorm:"type:varchar(255);not null"`
	IsAdmin      bool       `gorm:"not null;default:false"`
	LastLoginAt  *time.Time
}

// TableName returns the table name for GORM
func (UserModel) TableName() string {
	return "users"
}

// ToDomain converts the persistence model to a domain User entity.
func (m *UserModel) ToDomain() *identity.User {
	var lastLogin *time.Time
	if m.LastLoginAt != nil {
		t := m.LastLoginAt.UTC()
		lastLogin = &t
	}
	return &identity.User{
		BaseEntity:   m.BaseModel.ToDomain(),
		Email:        m.Email,
		Username:     m.Username,
		FirstName:    m.FirstName,
		LastName:     m.LastName,
		PasswordHash: m.PasswordHash,
		IsAdmin:      m.IsAdmin,
		LastLoginAt:  lastLogin,
	}
}

// FromDomain populates the persistence model from a domain User entity.
func (m *UserModel) FromDomain(u *identity.User) {
	m.FromDomainBaseEntity(u.BaseEntity)
	m.Email = u.Email
	m.Username = u.Username
	m.FirstName = u.FirstName
	m.LastName = u.LastName
	m.PasswordHash = u.PasswordHash
	m.IsAdmin = u.IsAdmin
	m.LastLoginAt = u.LastLoginAt
}

// UserModelFromDomain creates a new persistence model from a domain User entity.
func UserModelFromDomain(u *identity.User) *UserModel {
	m := &UserModel{}
	m.FromDomain(u)
	return m
}

// FollowingModel is the persistence model for a subscription. UserID is the follower.
type FollowingModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_followings_user_author,priority:1"`
	AuthorID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_followings_user_author,priority:2"`
	CreatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (FollowingModel) TableName() string {
	return "followings"
}

// ToDomain converts the persistence model to a domain Following.
func (m *FollowingModel) ToDomain() *identity.Following {
	return &identity.Following{
		ID:         m.ID,
		FollowerID: m.UserID,
		AuthorID:   m.AuthorID,
		CreatedAt:  m.CreatedAt.UTC(),
	}
}

// FollowingModelFromDomain creates a new persistence model from a domain Following.
func FollowingModelFromDomain(f *identity.Following) *FollowingModel {
	return &FollowingModel{
		ID:        f.ID,
		UserID:    f.FollowerID,
		AuthorID:  f.AuthorID,
		CreatedAt: f.CreatedAt,
	}
}
