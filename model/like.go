package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Like 点赞表，(post_id, liked_by) 唯一，存在与否即点赞状态
type Like struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	PostID    uuid.UUID `json:"post_id" gorm:"type:uuid;not null;uniqueIndex:idx_likes_post_user"`
	LikedBy   uuid.UUID `json:"liked_by" gorm:"type:uuid;not null;uniqueIndex:idx_likes_post_user"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
}

func (Like) TableName() string {
	return "likes"
}

func (l *Like) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}

// LikeWithUser 点赞 DTO（附带点赞者摘要）
type LikeWithUser struct {
	Like
	User UserSummary `json:"user"`
}
