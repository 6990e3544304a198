package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Post 帖子表，content 和 media_file 至少一个非空
type Post struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	OwnerID   uuid.UUID `json:"owner_id" gorm:"type:uuid;not null;index"`
	Content   string    `json:"content" gorm:"type:text"`
	MediaFile string    `json:"media_file" gorm:"type:text"` // 媒体存储引用
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

func (Post) TableName() string {
	return "posts"
}

func (p *Post) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// PostWithOwner 帖子 DTO（附带作者摘要）
type PostWithOwner struct {
	Post
	Owner UserSummary `json:"owner"`
}
