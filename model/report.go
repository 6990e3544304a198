package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// 举报状态
// pending 创建后可流转到 resolved / dismissed
// 重复设置终态是允许的（管理员可以改判）
const (
	ReportStatusPending   = "pending"
	ReportStatusResolved  = "resolved"
	ReportStatusDismissed = "dismissed"
)

// 举报原因枚举
var ReportReasons = map[string]bool{
	"spam":                  true,
	"harassment":            true,
	"inappropriate_content": true,
	"hate_speech":           true,
	"other":                 true,
}

// Report 举报表
// reported_post 可空：举报可以只针对用户；非空时帖子作者必须等于被举报用户
type Report struct {
	ID             uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey"`
	ReporterID     uuid.UUID  `json:"reporter_id" gorm:"type:uuid;not null;index"`
	ReportedUserID uuid.UUID  `json:"reported_user_id" gorm:"type:uuid;not null;index"`
	ReportedPostID *uuid.UUID `json:"reported_post_id" gorm:"type:uuid;index"`
	Reason         string     `json:"reason" gorm:"type:varchar(30);not null"`
	Status         string     `json:"status" gorm:"type:varchar(20);not null;default:'pending'"`
	CreatedAt      time.Time  `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt      time.Time  `json:"updated_at" gorm:"autoUpdateTime"`
}

func (Report) TableName() string {
	return "reports"
}

func (r *Report) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// ReportResolved 举报列表 DTO（各方摘要 + 被举报帖子内容）
type ReportResolved struct {
	Report
	Reporter     UserSummary `json:"reporter"`
	ReportedUser UserSummary `json:"reported_user"`
	PostContent  *string     `json:"post_content,omitempty"`
}
