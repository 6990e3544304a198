package handler

import (
	"dinq_social/middleware"
	"dinq_social/service"
	"dinq_social/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type LikeHandler struct {
	likeSvc *service.LikeService
}

func NewLikeHandler(likeSvc *service.LikeService) *LikeHandler {
	return &LikeHandler{likeSvc: likeSvc}
}

// Toggle 点赞/取消点赞
func (h *LikeHandler) Toggle(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		utils.Unauthorized(c, "unauthorized")
		return
	}

	postID, err := uuid.Parse(c.Param("postId"))
	if err != nil {
		utils.BadRequest(c, "invalid post id")
		return
	}

	status, err := h.likeSvc.Toggle(postID, userID)
	if err != nil {
		utils.Error(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"like_status": status})
}

// List 帖子的点赞列表
func (h *LikeHandler) List(c *gin.Context) {
	postID, err := uuid.Parse(c.Param("postId"))
	if err != nil {
		utils.BadRequest(c, "invalid post id")
		return
	}

	likes, err := h.likeSvc.List(postID)
	if err != nil {
		utils.Error(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"likes": likes})
}
