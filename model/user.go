package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User 用户表
type User struct {
	ID           uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Username     string    `json:"username" gorm:"type:varchar(30);uniqueIndex;not null"`
	Email        string    `json:"email" gorm:"type:varchar(100);uniqueIndex;not null"`
	Fullname     string    `json:"fullname" gorm:"type:varchar(100);not null"`
	Password     string    `json:"-" gorm:"type:varchar(100);not null"` // bcrypt 哈希
	Role         string    `json:"role" gorm:"type:varchar(10);not null;default:'user'"` // 'user' | 'admin'
	Avatar       string    `json:"avatar" gorm:"type:text"`
	CoverImage   string    `json:"cover_image" gorm:"type:text"`
	FriendIDs    UUIDList  `json:"friend_ids" gorm:"type:jsonb"` // 冗余好友列表，与账本事务同步
	RefreshToken string    `json:"-" gorm:"type:text"`
	CreatedAt    time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt    time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// UserSummary 公开的用户摘要（列表、关联填充用）
type UserSummary struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
	Fullname string    `json:"fullname"`
	Avatar   string    `json:"avatar"`
}

func (u *User) Summary() UserSummary {
	return UserSummary{
		ID:       u.ID,
		Username: u.Username,
		Fullname: u.Fullname,
		Avatar:   u.Avatar,
	}
}
