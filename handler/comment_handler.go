package handler

import (
	"dinq_social/middleware"
	"dinq_social/service"
	"dinq_social/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type CommentHandler struct {
	commentSvc *service.CommentService
}

func NewCommentHandler(commentSvc *service.CommentService) *CommentHandler {
	return &CommentHandler{commentSvc: commentSvc}
}

// Add 在帖子下添加评论
func (h *CommentHandler) Add(c *gin.Context) {
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

	var req struct {
		Content string `json:"content" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	comment, err := h.commentSvc.Add(postID, userID, req.Content)
	if err != nil {
		utils.Error(c, err)
		return
	}

	utils.CreatedResponse(c, gin.H{"comment": comment})
}

// List 帖子的评论列表
func (h *CommentHandler) List(c *gin.Context) {
	postID, err := uuid.Parse(c.Param("postId"))
	if err != nil {
		utils.BadRequest(c, "invalid post id")
		return
	}

	comments, err := h.commentSvc.List(postID)
	if err != nil {
		utils.Error(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"comments": comments})
}

// Update 改评论
func (h *CommentHandler) Update(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		utils.Unauthorized(c, "unauthorized")
		return
	}

	commentID, err := uuid.Parse(c.Param("commentId"))
	if err != nil {
		utils.BadRequest(c, "invalid comment id")
		return
	}

	var req struct {
		Content string `json:"content" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	comment, err := h.commentSvc.Update(commentID, userID, req.Content)
	if err != nil {
		utils.Error(c, err)
		return
	}

	utils.SuccessWithMessage(c, "comment updated successfully", gin.H{"comment": comment})
}

// Delete 删评论（作者或管理员）
func (h *CommentHandler) Delete(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		utils.Unauthorized(c, "unauthorized")
		return
	}

	commentID, err := uuid.Parse(c.Param("commentId"))
	if err != nil {
		utils.BadRequest(c, "invalid comment id")
		return
	}

	if err := h.commentSvc.Delete(commentID, userID, middleware.IsAdmin(c)); err != nil {
		utils.Error(c, err)
		return
	}

	utils.SuccessWithMessage(c, "comment deleted successfully", nil)
}
