package service

import (
	"errors"
	"fmt"

	"dinq_social/model"
	"dinq_social/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ReportService 举报账本
type ReportService struct {
	db *gorm.DB
}

func NewReportService(db *gorm.DB) *ReportService {
	return &ReportService{db: db}
}

// Create 提交举报，总是以 pending 创建
// 带帖子的举报要求帖子作者与被举报用户一致
func (s *ReportService) Create(reporterID, reportedUserID uuid.UUID, reportedPostID *uuid.UUID, reason string) (*model.Report, error) {
	if reason == "" {
		return nil, utils.ErrInvalid("a reason for the report is required")
	}
	if !model.ReportReasons[reason] {
		return nil, utils.ErrInvalid("invalid report reason")
	}

	var reportedUser model.User
	if err := s.db.First(&reportedUser, "id = ?", reportedUserID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.ErrNotFound("user to be reported not found")
		}
		return nil, fmt.Errorf("failed to load reported user: %w", err)
	}

	if reportedPostID != nil {
		var post model.Post
		if err := s.db.First(&post, "id = ?", *reportedPostID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, utils.ErrNotFound("post to be reported not found")
			}
			return nil, fmt.Errorf("failed to load reported post: %w", err)
		}
		if post.OwnerID != reportedUserID {
			return nil, utils.ErrInvalid("post owner and reported user do not match")
		}
	}

	report := &model.Report{
		ReporterID:     reporterID,
		ReportedUserID: reportedUserID,
		ReportedPostID: reportedPostID,
		Reason:         reason,
		Status:         model.ReportStatusPending,
	}
	if err := s.db.Create(report).Error; err != nil {
		return nil, fmt.Errorf("failed to create report: %w", err)
	}
	return report, nil
}

// List 举报列表，可按状态过滤，新的在前，各方摘要已填充
func (s *ReportService) List(statusFilter string) ([]model.ReportResolved, error) {
	query := s.db.Model(&model.Report{})
	if statusFilter != "" {
		query = query.Where("status = ?", statusFilter)
	}

	var reports []model.Report
	if err := query.Order("created_at DESC").Find(&reports).Error; err != nil {
		return nil, fmt.Errorf("failed to query reports: %w", err)
	}

	userIDs := make([]uuid.UUID, 0, len(reports)*2)
	postIDs := make([]uuid.UUID, 0, len(reports))
	for _, r := range reports {
		userIDs = append(userIDs, r.ReporterID, r.ReportedUserID)
		if r.ReportedPostID != nil {
			postIDs = append(postIDs, *r.ReportedPostID)
		}
	}

	summaries, err := loadUserSummaries(s.db, userIDs)
	if err != nil {
		return nil, err
	}

	postContents := make(map[uuid.UUID]string, len(postIDs))
	if len(postIDs) > 0 {
		var posts []model.Post
		if err := s.db.Where("id IN ?", postIDs).Find(&posts).Error; err != nil {
			return nil, fmt.Errorf("failed to load reported posts: %w", err)
		}
		for _, p := range posts {
			postContents[p.ID] = p.Content
		}
	}

	result := make([]model.ReportResolved, 0, len(reports))
	for _, r := range reports {
		resolved := model.ReportResolved{
			Report:       r,
			Reporter:     summaries[r.ReporterID],
			ReportedUser: summaries[r.ReportedUserID],
		}
		if r.ReportedPostID != nil {
			if content, ok := postContents[*r.ReportedPostID]; ok {
				resolved.PostContent = &content
			}
		}
		result = append(result, resolved)
	}
	return result, nil
}

// UpdateStatus 流转举报状态，只接受 resolved / dismissed
// 不要求当前是 pending：管理员可以反复改判
func (s *ReportService) UpdateStatus(reportID uuid.UUID, status string) (*model.Report, error) {
	if status != model.ReportStatusResolved && status != model.ReportStatusDismissed {
		return nil, utils.ErrInvalid("invalid status, must be 'resolved' or 'dismissed'")
	}

	var report model.Report
	if err := s.db.First(&report, "id = ?", reportID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.ErrNotFound("report not found")
		}
		return nil, fmt.Errorf("failed to load report: %w", err)
	}

	report.Status = status
	if err := s.db.Save(&report).Error; err != nil {
		return nil, fmt.Errorf("failed to update report status: %w", err)
	}
	return &report, nil
}
