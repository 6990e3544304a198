package service

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"dinq_social/model"
	"dinq_social/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PostService 帖子管理
// 删除帖子会级联删除它的评论和点赞（任何作者的），媒体删除尽力而为
type PostService struct {
	db      *gorm.DB
	storage utils.MediaStorage
}

func NewPostService(db *gorm.DB, storage utils.MediaStorage) *PostService {
	return &PostService{db: db, storage: storage}
}

// Create 发帖，正文和媒体至少要有一个
func (s *PostService) Create(ownerID uuid.UUID, content, mediaFile string) (*model.Post, error) {
	content = strings.TrimSpace(content)
	if content == "" && mediaFile == "" {
		return nil, utils.ErrInvalid("post must include content or a media file")
	}

	post := &model.Post{
		OwnerID:   ownerID,
		Content:   content,
		MediaFile: mediaFile,
	}
	if err := s.db.Create(post).Error; err != nil {
		return nil, fmt.Errorf("failed to create post: %w", err)
	}
	return post, nil
}

// Feed 全量帖子流，新的在前，附作者摘要
func (s *PostService) Feed() ([]model.PostWithOwner, error) {
	var posts []model.Post
	if err := s.db.Order("created_at DESC").Find(&posts).Error; err != nil {
		return nil, fmt.Errorf("failed to query posts: %w", err)
	}
	return s.withOwners(posts)
}

// ByUsername 某用户的帖子
func (s *PostService) ByUsername(username string) ([]model.PostWithOwner, error) {
	var user model.User
	if err := s.db.First(&user, "username = ?", username).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.ErrNotFound("user not found")
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	var posts []model.Post
	err := s.db.Where("owner_id = ?", user.ID).Order("created_at DESC").Find(&posts).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query posts: %w", err)
	}
	return s.withOwners(posts)
}

// Get 按 ID 取帖子
func (s *PostService) Get(postID uuid.UUID) (*model.Post, error) {
	var post model.Post
	if err := s.db.First(&post, "id = ?", postID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.ErrNotFound("post not found")
		}
		return nil, fmt.Errorf("failed to load post: %w", err)
	}
	return &post, nil
}

// Update 改正文，仅限作者
func (s *PostService) Update(postID, actorID uuid.UUID, content string) (*model.Post, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, utils.ErrInvalid("content is required to update")
	}

	post, err := s.Get(postID)
	if err != nil {
		return nil, err
	}

	if post.OwnerID != actorID {
		return nil, utils.ErrForbidden("you are not authorized to update this post")
	}

	post.Content = content
	if err := s.db.Save(post).Error; err != nil {
		return nil, fmt.Errorf("failed to update post: %w", err)
	}
	return post, nil
}

// Delete 删帖，作者或管理员
// 帖子、评论、点赞在同一个事务里删除；事务提交后再尽力删除媒体
func (s *PostService) Delete(postID, actorID uuid.UUID, isAdmin bool) error {
	post, err := s.Get(postID)
	if err != nil {
		return err
	}

	if post.OwnerID != actorID && !isAdmin {
		return utils.ErrForbidden("you are not authorized to delete this post")
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		return cascadeDeletePost(tx, post.ID)
	})
	if err != nil {
		return err
	}

	if post.MediaFile != "" {
		s.removeMedia(post.MediaFile)
	}
	return nil
}

// cascadeDeletePost 删除帖子及其评论、点赞（不处理媒体）
// 管理员删用户的级联也走这里，保证其他用户挂在帖子下的评论不会变成孤儿
func cascadeDeletePost(tx *gorm.DB, postID uuid.UUID) error {
	if err := tx.Where("post_id = ?", postID).Delete(&model.Comment{}).Error; err != nil {
		return fmt.Errorf("failed to delete comments: %w", err)
	}
	if err := tx.Where("post_id = ?", postID).Delete(&model.Like{}).Error; err != nil {
		return fmt.Errorf("failed to delete likes: %w", err)
	}
	if err := tx.Where("id = ?", postID).Delete(&model.Post{}).Error; err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}
	return nil
}

// removeMedia 删媒体失败只记日志
func (s *PostService) removeMedia(ref string) {
	if s.storage == nil {
		return
	}
	if err := s.storage.Remove(ref); err != nil {
		log.Printf("[WARN] Failed to remove media %s: %v", ref, err)
	}
}

func (s *PostService) withOwners(posts []model.Post) ([]model.PostWithOwner, error) {
	ownerIDs := make([]uuid.UUID, 0, len(posts))
	for _, p := range posts {
		ownerIDs = append(ownerIDs, p.OwnerID)
	}
	summaries, err := loadUserSummaries(s.db, ownerIDs)
	if err != nil {
		return nil, err
	}

	result := make([]model.PostWithOwner, 0, len(posts))
	for _, p := range posts {
		result = append(result, model.PostWithOwner{
			Post:  p,
			Owner: summaries[p.OwnerID],
		})
	}
	return result, nil
}
