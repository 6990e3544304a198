package service

import (
	"errors"
	"fmt"

	"dinq_social/model"
	"dinq_social/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// EventNotifier 实时事件推送（WebSocket Hub 实现）
// 推送失败或对方不在线都不是错误，尽力而为
type EventNotifier interface {
	PushEvent(userID uuid.UUID, eventType string, data interface{})
}

// RelationshipService 好友请求账本
// 好友关系同时存在于两处：账本状态 accepted 与双方 User.FriendIDs 冗余列表
// 所有改动两者的操作都在单个事务内完成，保证列表与账本不会分叉
type RelationshipService struct {
	db       *gorm.DB
	notifier EventNotifier
}

func NewRelationshipService(db *gorm.DB) *RelationshipService {
	return &RelationshipService{db: db}
}

// SetNotifier 注入事件推送器（可选）
func (s *RelationshipService) SetNotifier(n EventNotifier) {
	s.notifier = n
}

// SendRequest 发送好友请求
func (s *RelationshipService) SendRequest(senderID, receiverID uuid.UUID) (*model.FriendRequest, error) {
	if senderID == receiverID {
		return nil, utils.ErrInvalid("you cannot send a friend request to yourself")
	}

	var receiver model.User
	if err := s.db.First(&receiver, "id = ?", receiverID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.ErrNotFound("receiving user not found")
		}
		return nil, fmt.Errorf("failed to load receiver: %w", err)
	}

	if receiver.FriendIDs.Contains(senderID) {
		return nil, utils.ErrConflict("you are already friends with this user")
	}

	// 无向对之间最多存在一条未终结的请求
	var existing model.FriendRequest
	err := s.db.Where(
		"((sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)) AND status IN ?",
		senderID, receiverID, receiverID, senderID,
		[]string{model.FriendStatusPending, model.FriendStatusAccepted},
	).First(&existing).Error
	if err == nil {
		if existing.Status == model.FriendStatusAccepted {
			return nil, utils.ErrConflict("you are already friends with this user")
		}
		return nil, utils.ErrConflict("friend request already sent")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check existing request: %w", err)
	}

	request := &model.FriendRequest{
		SenderID:   senderID,
		ReceiverID: receiverID,
		Status:     model.FriendStatusPending,
	}
	if err := s.db.Create(request).Error; err != nil {
		return nil, fmt.Errorf("failed to create friend request: %w", err)
	}

	if s.notifier != nil {
		s.notifier.PushEvent(receiverID, "friend_request", request)
	}

	return request, nil
}

// PendingRequests 查询当前用户收到的待处理请求（附发送者摘要，新的在前）
func (s *RelationshipService) PendingRequests(userID uuid.UUID) ([]model.FriendRequestWithSender, error) {
	var requests []model.FriendRequest
	err := s.db.Where("receiver_id = ? AND status = ?", userID, model.FriendStatusPending).
		Order("created_at DESC").
		Find(&requests).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query pending requests: %w", err)
	}

	senderIDs := make([]uuid.UUID, 0, len(requests))
	for _, r := range requests {
		senderIDs = append(senderIDs, r.SenderID)
	}
	summaries, err := s.userSummaries(senderIDs)
	if err != nil {
		return nil, err
	}

	result := make([]model.FriendRequestWithSender, 0, len(requests))
	for _, r := range requests {
		result = append(result, model.FriendRequestWithSender{
			FriendRequest: r,
			Sender:        summaries[r.SenderID],
		})
	}
	return result, nil
}

// AcceptRequest 接受好友请求
// 状态流转与双方好友列表的插入在同一个事务里完成
func (s *RelationshipService) AcceptRequest(requestID, actorID uuid.UUID) (*model.FriendRequest, error) {
	var request model.FriendRequest

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&request, "id = ?", requestID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return utils.ErrNotFound("friend request not found")
			}
			return fmt.Errorf("failed to load friend request: %w", err)
		}

		if request.ReceiverID != actorID {
			return utils.ErrForbidden("you are not authorized to accept this request")
		}

		if request.Status != model.FriendStatusPending {
			return utils.ErrConflict("this request has already been actioned")
		}

		request.Status = model.FriendStatusAccepted
		if err := tx.Save(&request).Error; err != nil {
			return fmt.Errorf("failed to update request status: %w", err)
		}

		return linkFriends(tx, request.SenderID, request.ReceiverID)
	})
	if err != nil {
		return nil, err
	}

	if s.notifier != nil {
		s.notifier.PushEvent(request.SenderID, "request_accepted", request)
	}

	return &request, nil
}

// RejectRequest 拒绝好友请求，不动好友列表
func (s *RelationshipService) RejectRequest(requestID, actorID uuid.UUID) (*model.FriendRequest, error) {
	var request model.FriendRequest
	if err := s.db.First(&request, "id = ?", requestID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.ErrNotFound("friend request not found")
		}
		return nil, fmt.Errorf("failed to load friend request: %w", err)
	}

	if request.ReceiverID != actorID {
		return nil, utils.ErrForbidden("you are not authorized to reject this request")
	}

	if request.Status != model.FriendStatusPending {
		return nil, utils.ErrConflict("this request has already been actioned")
	}

	request.Status = model.FriendStatusRejected
	if err := s.db.Save(&request).Error; err != nil {
		return nil, fmt.Errorf("failed to update request status: %w", err)
	}

	return &request, nil
}

// Friends 查询好友列表（摘要）
func (s *RelationshipService) Friends(userID uuid.UUID) ([]model.UserSummary, error) {
	var user model.User
	if err := s.db.First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.ErrNotFound("user not found")
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	summaries, err := s.userSummaries(user.FriendIDs)
	if err != nil {
		return nil, err
	}

	result := make([]model.UserSummary, 0, len(user.FriendIDs))
	for _, id := range user.FriendIDs {
		if summary, ok := summaries[id]; ok {
			result = append(result, summary)
		}
	}
	return result, nil
}

// RemoveFriend 解除好友关系
// 幂等：对非好友调用是安全的空操作
// 双方列表的移除和账本状态流转到 ended 在同一个事务里完成
func (s *RelationshipService) RemoveFriend(userID, friendID uuid.UUID) error {
	var friend model.User
	if err := s.db.First(&friend, "id = ?", friendID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.ErrNotFound("user not found")
		}
		return fmt.Errorf("failed to load user: %w", err)
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := unlinkFriends(tx, userID, friendID); err != nil {
			return err
		}

		// 把已接受的账本记录标记为 ended，解除关系和被拒绝在账本中可区分
		err := tx.Model(&model.FriendRequest{}).
			Where("((sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)) AND status = ?",
				userID, friendID, friendID, userID, model.FriendStatusAccepted).
			Update("status", model.FriendStatusEnded).Error
		if err != nil {
			return fmt.Errorf("failed to end friendship record: %w", err)
		}
		return nil
	})
}

// linkFriends 把双方互相加入对方的好友列表（重复接受不会重复插入）
func linkFriends(tx *gorm.DB, a, b uuid.UUID) error {
	for _, pair := range [][2]uuid.UUID{{a, b}, {b, a}} {
		var user model.User
		if err := tx.First(&user, "id = ?", pair[0]).Error; err != nil {
			return fmt.Errorf("failed to load user %s: %w", pair[0], err)
		}
		updated := user.FriendIDs.Add(pair[1])
		if err := tx.Model(&model.User{}).Where("id = ?", pair[0]).
			Update("friend_ids", updated).Error; err != nil {
			return fmt.Errorf("failed to update friend list: %w", err)
		}
	}
	return nil
}

// unlinkFriends 把双方从对方的好友列表中移除（移除非好友是空操作）
func unlinkFriends(tx *gorm.DB, a, b uuid.UUID) error {
	for _, pair := range [][2]uuid.UUID{{a, b}, {b, a}} {
		var user model.User
		if err := tx.First(&user, "id = ?", pair[0]).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				continue
			}
			return fmt.Errorf("failed to load user %s: %w", pair[0], err)
		}
		updated := user.FriendIDs.Remove(pair[1])
		if err := tx.Model(&model.User{}).Where("id = ?", pair[0]).
			Update("friend_ids", updated).Error; err != nil {
			return fmt.Errorf("failed to update friend list: %w", err)
		}
	}
	return nil
}

// userSummaries 批量取用户摘要
func (s *RelationshipService) userSummaries(ids []uuid.UUID) (map[uuid.UUID]model.UserSummary, error) {
	return loadUserSummaries(s.db, ids)
}

func loadUserSummaries(db *gorm.DB, ids []uuid.UUID) (map[uuid.UUID]model.UserSummary, error) {
	result := make(map[uuid.UUID]model.UserSummary, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	var users []model.User
	if err := db.Where("id IN ?", ids).Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to load users: %w", err)
	}
	for _, u := range users {
		result[u.ID] = u.Summary()
	}
	return result, nil
}
