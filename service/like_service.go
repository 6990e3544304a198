package service

import (
	"errors"
	"fmt"

	"dinq_social/model"
	"dinq_social/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// 点赞状态
const (
	LikeStatusLiked   = "liked"
	LikeStatusUnliked = "unliked"
)

// LikeService 点赞开关
// (post, user) 唯一，点赞记录存在与否即状态，没有计数字段
type LikeService struct {
	db       *gorm.DB
	notifier EventNotifier
}

func NewLikeService(db *gorm.DB) *LikeService {
	return &LikeService{db: db}
}

// SetNotifier 注入事件推送器（可选）
func (s *LikeService) SetNotifier(n EventNotifier) {
	s.notifier = n
}

// Toggle 切换点赞状态，返回切换后的状态
func (s *LikeService) Toggle(postID, userID uuid.UUID) (string, error) {
	var post model.Post
	if err := s.db.First(&post, "id = ?", postID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", utils.ErrNotFound("post not found")
		}
		return "", fmt.Errorf("failed to load post: %w", err)
	}

	var existing model.Like
	err := s.db.Where("post_id = ? AND liked_by = ?", postID, userID).First(&existing).Error
	if err == nil {
		// 已点赞，取消
		if err := s.db.Delete(&existing).Error; err != nil {
			return "", fmt.Errorf("failed to unlike post: %w", err)
		}
		return LikeStatusUnliked, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", fmt.Errorf("failed to check like: %w", err)
	}

	like := &model.Like{PostID: postID, LikedBy: userID}
	if err := s.db.Create(like).Error; err != nil {
		return "", fmt.Errorf("failed to like post: %w", err)
	}

	if s.notifier != nil && post.OwnerID != userID {
		s.notifier.PushEvent(post.OwnerID, "new_like", like)
	}

	return LikeStatusLiked, nil
}

// List 帖子的点赞列表（附点赞者摘要）
func (s *LikeService) List(postID uuid.UUID) ([]model.LikeWithUser, error) {
	var likes []model.Like
	if err := s.db.Where("post_id = ?", postID).Find(&likes).Error; err != nil {
		return nil, fmt.Errorf("failed to query likes: %w", err)
	}

	userIDs := make([]uuid.UUID, 0, len(likes))
	for _, l := range likes {
		userIDs = append(userIDs, l.LikedBy)
	}
	summaries, err := loadUserSummaries(s.db, userIDs)
	if err != nil {
		return nil, err
	}

	result := make([]model.LikeWithUser, 0, len(likes))
	for _, l := range likes {
		result = append(result, model.LikeWithUser{Like: l, User: summaries[l.LikedBy]})
	}
	return result, nil
}
