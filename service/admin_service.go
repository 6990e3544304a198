package service

import (
	"errors"
	"fmt"
	"log"

	"dinq_social/model"
	"dinq_social/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AdminService 管理端：用户管理、全量列表、强制处理请求、级联删除
type AdminService struct {
	db      *gorm.DB
	storage utils.MediaStorage
}

func NewAdminService(db *gorm.DB, storage utils.MediaStorage) *AdminService {
	return &AdminService{db: db, storage: storage}
}

// ListUsers 全量用户，新的在前（凭证字段由 json:"-" 屏蔽）
func (s *AdminService) ListUsers() ([]model.User, error) {
	var users []model.User
	if err := s.db.Order("created_at DESC").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	return users, nil
}

// UpdateRole 修改用户角色
func (s *AdminService) UpdateRole(userID uuid.UUID, role string) (*model.User, error) {
	if role != model.RoleUser && role != model.RoleAdmin {
		return nil, utils.ErrInvalid("invalid role")
	}

	var user model.User
	if err := s.db.First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.ErrNotFound("user not found")
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	user.Role = role
	if err := s.db.Save(&user).Error; err != nil {
		return nil, fmt.Errorf("failed to update role: %w", err)
	}
	return &user, nil
}

// DeleteUser 级联删除用户
// 两段式：先在单个事务里完成所有主存储删除（任何一步失败整体回滚），
// 提交后再尽力删除对象存储里的媒体（失败只记日志）
// 每个帖子都走逐帖级联，其他用户挂在这些帖子下的评论/点赞一并删除，不留孤儿
func (s *AdminService) DeleteUser(userID uuid.UUID) error {
	var user model.User
	if err := s.db.First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.ErrNotFound("user not found")
		}
		return fmt.Errorf("failed to load user: %w", err)
	}

	// 先收集待删除的媒体引用，事务提交后统一处理
	mediaRefs := make([]string, 0, 2)
	if user.Avatar != "" {
		mediaRefs = append(mediaRefs, user.Avatar)
	}
	if user.CoverImage != "" {
		mediaRefs = append(mediaRefs, user.CoverImage)
	}

	var posts []model.Post
	if err := s.db.Where("owner_id = ?", userID).Find(&posts).Error; err != nil {
		return fmt.Errorf("failed to load user posts: %w", err)
	}
	for _, p := range posts {
		if p.MediaFile != "" {
			mediaRefs = append(mediaRefs, p.MediaFile)
		}
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		// 逐帖级联：帖子下任何人的评论/点赞一起删
		for _, p := range posts {
			if err := cascadeDeletePost(tx, p.ID); err != nil {
				return err
			}
		}

		// 该用户发在别人帖子下的评论
		if err := tx.Where("owner_id = ?", userID).Delete(&model.Comment{}).Error; err != nil {
			return fmt.Errorf("failed to delete user comments: %w", err)
		}

		// 该用户点出的赞
		if err := tx.Where("liked_by = ?", userID).Delete(&model.Like{}).Error; err != nil {
			return fmt.Errorf("failed to delete user likes: %w", err)
		}

		// 涉及该用户的所有好友请求
		err := tx.Where("sender_id = ? OR receiver_id = ?", userID, userID).
			Delete(&model.FriendRequest{}).Error
		if err != nil {
			return fmt.Errorf("failed to delete friend requests: %w", err)
		}

		// 从每个好友的冗余列表里摘掉该用户
		for _, friendID := range user.FriendIDs {
			var friend model.User
			if err := tx.First(&friend, "id = ?", friendID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					continue
				}
				return fmt.Errorf("failed to load friend %s: %w", friendID, err)
			}
			updated := friend.FriendIDs.Remove(userID)
			if err := tx.Model(&model.User{}).Where("id = ?", friendID).
				Update("friend_ids", updated).Error; err != nil {
				return fmt.Errorf("failed to update friend list: %w", err)
			}
		}

		if err := tx.Delete(&model.User{}, "id = ?", userID).Error; err != nil {
			return fmt.Errorf("failed to delete user: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	// 媒体删除尽力而为，失败不回滚已提交的删除
	if s.storage != nil {
		for _, ref := range mediaRefs {
			if err := s.storage.Remove(ref); err != nil {
				log.Printf("[WARN] Failed to remove media %s: %v", ref, err)
			}
		}
	}
	return nil
}

// ListPosts 全量帖子，新的在前，附作者摘要
func (s *AdminService) ListPosts() ([]model.PostWithOwner, error) {
	var posts []model.Post
	if err := s.db.Order("created_at DESC").Find(&posts).Error; err != nil {
		return nil, fmt.Errorf("failed to query posts: %w", err)
	}

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
		result = append(result, model.PostWithOwner{Post: p, Owner: summaries[p.OwnerID]})
	}
	return result, nil
}

// ListFriendRequests 全量好友请求，双方摘要已填充
func (s *AdminService) ListFriendRequests() ([]model.FriendRequestWithUsers, error) {
	var requests []model.FriendRequest
	if err := s.db.Order("created_at DESC").Find(&requests).Error; err != nil {
		return nil, fmt.Errorf("failed to query friend requests: %w", err)
	}

	userIDs := make([]uuid.UUID, 0, len(requests)*2)
	for _, r := range requests {
		userIDs = append(userIDs, r.SenderID, r.ReceiverID)
	}
	summaries, err := loadUserSummaries(s.db, userIDs)
	if err != nil {
		return nil, err
	}

	result := make([]model.FriendRequestWithUsers, 0, len(requests))
	for _, r := range requests {
		result = append(result, model.FriendRequestWithUsers{
			FriendRequest: r,
			Sender:        summaries[r.SenderID],
			Receiver:      summaries[r.ReceiverID],
		})
	}
	return result, nil
}

// ManageFriendRequest 管理员强制处理待处理请求（无需是接收者）
// 接受时的列表同步与用户侧 accept 走同一套事务逻辑
func (s *AdminService) ManageFriendRequest(requestID uuid.UUID, status string) (*model.FriendRequest, error) {
	if status != model.FriendStatusAccepted && status != model.FriendStatusRejected {
		return nil, utils.ErrInvalid("invalid status")
	}

	var request model.FriendRequest
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&request, "id = ?", requestID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return utils.ErrNotFound("friend request not found")
			}
			return fmt.Errorf("failed to load friend request: %w", err)
		}

		if request.Status != model.FriendStatusPending {
			return utils.ErrConflict("request has already been actioned")
		}

		request.Status = status
		if err := tx.Save(&request).Error; err != nil {
			return fmt.Errorf("failed to update request status: %w", err)
		}

		if status == model.FriendStatusAccepted {
			return linkFriends(tx, request.SenderID, request.ReceiverID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &request, nil
}
