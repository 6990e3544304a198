package service

import (
	"errors"
	"fmt"
	"strings"

	"dinq_social/model"
	"dinq_social/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CommentService 评论管理
type CommentService struct {
	db       *gorm.DB
	notifier EventNotifier
}

func NewCommentService(db *gorm.DB) *CommentService {
	return &CommentService{db: db}
}

// SetNotifier 注入事件推送器（可选）
func (s *CommentService) SetNotifier(n EventNotifier) {
	s.notifier = n
}

// Add 在帖子下添加评论
func (s *CommentService) Add(postID, ownerID uuid.UUID, content string) (*model.CommentWithOwner, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, utils.ErrInvalid("comment content is required")
	}

	var post model.Post
	if err := s.db.First(&post, "id = ?", postID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.ErrNotFound("post not found")
		}
		return nil, fmt.Errorf("failed to load post: %w", err)
	}

	comment := &model.Comment{
		PostID:  postID,
		OwnerID: ownerID,
		Content: content,
	}
	if err := s.db.Create(comment).Error; err != nil {
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}

	summaries, err := loadUserSummaries(s.db, []uuid.UUID{ownerID})
	if err != nil {
		return nil, err
	}

	// 通知帖子作者（自己评论自己的帖子不推）
	if s.notifier != nil && post.OwnerID != ownerID {
		s.notifier.PushEvent(post.OwnerID, "new_comment", comment)
	}

	return &model.CommentWithOwner{Comment: *comment, Owner: summaries[ownerID]}, nil
}

// List 帖子的评论列表，新的在前
func (s *CommentService) List(postID uuid.UUID) ([]model.CommentWithOwner, error) {
	var comments []model.Comment
	err := s.db.Where("post_id = ?", postID).Order("created_at DESC").Find(&comments).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query comments: %w", err)
	}

	ownerIDs := make([]uuid.UUID, 0, len(comments))
	for _, c := range comments {
		ownerIDs = append(ownerIDs, c.OwnerID)
	}
	summaries, err := loadUserSummaries(s.db, ownerIDs)
	if err != nil {
		return nil, err
	}

	result := make([]model.CommentWithOwner, 0, len(comments))
	for _, c := range comments {
		result = append(result, model.CommentWithOwner{Comment: c, Owner: summaries[c.OwnerID]})
	}
	return result, nil
}

// Update 改评论，仅限作者
func (s *CommentService) Update(commentID, actorID uuid.UUID, content string) (*model.Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, utils.ErrInvalid("content is required")
	}

	var comment model.Comment
	if err := s.db.First(&comment, "id = ?", commentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.ErrNotFound("comment not found")
		}
		return nil, fmt.Errorf("failed to load comment: %w", err)
	}

	if comment.OwnerID != actorID {
		return nil, utils.ErrForbidden("you are not authorized to update this comment")
	}

	comment.Content = content
	if err := s.db.Save(&comment).Error; err != nil {
		return nil, fmt.Errorf("failed to update comment: %w", err)
	}
	return &comment, nil
}

// Delete 删评论，作者或管理员
func (s *CommentService) Delete(commentID, actorID uuid.UUID, isAdmin bool) error {
	var comment model.Comment
	if err := s.db.First(&comment, "id = ?", commentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.ErrNotFound("comment not found")
		}
		return fmt.Errorf("failed to load comment: %w", err)
	}

	if comment.OwnerID != actorID && !isAdmin {
		return utils.ErrForbidden("you are not authorized to delete this comment")
	}

	if err := s.db.Delete(&comment).Error; err != nil {
		return fmt.Errorf("failed to delete comment: %w", err)
	}
	return nil
}
