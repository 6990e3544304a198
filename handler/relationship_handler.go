package handler

import (
	"dinq_social/middleware"
	"dinq_social/service"
	"dinq_social/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type RelationshipHandler struct {
	relSvc *service.RelationshipService
}

func NewRelationshipHandler(relSvc *service.RelationshipService) *RelationshipHandler {
	return &RelationshipHandler{relSvc: relSvc}
}

// SendRequest 发送好友请求（接收者在路径参数里）
func (h *RelationshipHandler) SendRequest(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		utils.Unauthorized(c, "unauthorized")
		return
	}

	receiverID, err := uuid.Parse(c.Param("receiverId"))
	if err != nil {
		utils.BadRequest(c, "invalid receiver id")
		return
	}

	request, err := h.relSvc.SendRequest(userID, receiverID)
	if err != nil {
		utils.Error(c, err)
		return
	}

	utils.CreatedResponse(c, gin.H{"request": request})
}

// PendingRequests 收到的待处理请求
func (h *RelationshipHandler) PendingRequests(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		utils.Unauthorized(c, "unauthorized")
		return
	}

	requests, err := h.relSvc.PendingRequests(userID)
	if err != nil {
		utils.Error(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"requests": requests})
}

// AcceptRequest 接受好友请求
func (h *RelationshipHandler) AcceptRequest(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		utils.Unauthorized(c, "unauthorized")
		return
	}

	requestID, err := uuid.Parse(c.Param("requestId"))
	if err != nil {
		utils.BadRequest(c, "invalid request id")
		return
	}

	request, err := h.relSvc.AcceptRequest(requestID, userID)
	if err != nil {
		utils.Error(c, err)
		return
	}

	utils.SuccessWithMessage(c, "friend request accepted", gin.H{"request": request})
}

// RejectRequest 拒绝好友请求
func (h *RelationshipHandler) RejectRequest(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		utils.Unauthorized(c, "unauthorized")
		return
	}

	requestID, err := uuid.Parse(c.Param("requestId"))
	if err != nil {
		utils.BadRequest(c, "invalid request id")
		return
	}

	request, err := h.relSvc.RejectRequest(requestID, userID)
	if err != nil {
		utils.Error(c, err)
		return
	}

	utils.SuccessWithMessage(c, "friend request rejected", gin.H{"request": request})
}

// Friends 好友列表
func (h *RelationshipHandler) Friends(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		utils.Unauthorized(c, "unauthorized")
		return
	}

	friends, err := h.relSvc.Friends(userID)
	if err != nil {
		utils.Error(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"friends": friends})
}

// RemoveFriend 解除好友关系（幂等）
func (h *RelationshipHandler) RemoveFriend(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		utils.Unauthorized(c, "unauthorized")
		return
	}

	friendID, err := uuid.Parse(c.Param("friendId"))
	if err != nil {
		utils.BadRequest(c, "invalid friend id")
		return
	}

	if err := h.relSvc.RemoveFriend(userID, friendID); err != nil {
		utils.Error(c, err)
		return
	}

	utils.SuccessWithMessage(c, "friend removed successfully", nil)
}
