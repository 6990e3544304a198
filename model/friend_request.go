package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// 好友请求状态
// pending 只能流转到 accepted / rejected（仅接收者可操作）
// ended 是解除好友关系的终态，与 rejected 区分开，二者都不阻塞重新发起请求
const (
	FriendStatusPending  = "pending"
	FriendStatusAccepted = "accepted"
	FriendStatusRejected = "rejected"
	FriendStatusEnded    = "ended"
)

// FriendRequest 好友请求账本
type FriendRequest struct {
	ID         uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	SenderID   uuid.UUID `json:"sender_id" gorm:"type:uuid;not null;index"`
	ReceiverID uuid.UUID `json:"receiver_id" gorm:"type:uuid;not null;index"`
	Status     string    `json:"status" gorm:"type:varchar(20);not null;default:'pending'"`
	CreatedAt  time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt  time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

func (FriendRequest) TableName() string {
	return "friend_requests"
}

func (r *FriendRequest) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// FriendRequestWithSender 待处理列表 DTO（附带发送者摘要）
type FriendRequestWithSender struct {
	FriendRequest
	Sender UserSummary `json:"sender"`
}

// FriendRequestWithUsers 管理端列表 DTO（双方摘要）
type FriendRequestWithUsers struct {
	FriendRequest
	Sender   UserSummary `json:"sender"`
	Receiver UserSummary `json:"receiver"`
}
