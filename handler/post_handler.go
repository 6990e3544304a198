package handler

import (
	"dinq_social/middleware"
	"dinq_social/service"
	"dinq_social/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type PostHandler struct {
	postSvc *service.PostService
	storage utils.MediaStorage
}

func NewPostHandler(postSvc *service.PostService, storage utils.MediaStorage) *PostHandler {
	return &PostHandler{postSvc: postSvc, storage: storage}
}

// Create 发帖（multipart：content 和/或 media_file）
func (h *PostHandler) Create(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		utils.Unauthorized(c, "unauthorized")
		return
	}

	content := c.PostForm("content")

	var mediaRef string
	if fileHeader, err := c.FormFile("media_file"); err == nil {
		ref, err := storeUploadedFile(c, fileHeader, h.storage)
		if err != nil {
			utils.Error(c, err)
			return
		}
		mediaRef = ref
	}

	post, err := h.postSvc.Create(userID, content, mediaRef)
	if err != nil {
		utils.Error(c, err)
		return
	}

	utils.CreatedResponse(c, gin.H{"post": post})
}

// Feed 全量帖子流
func (h *PostHandler) Feed(c *gin.Context) {
	posts, err := h.postSvc.Feed()
	if err != nil {
		utils.Error(c, err)
		return
	}
	utils.SuccessResponse(c, gin.H{"posts": posts})
}

// ByUsername 某用户的帖子
func (h *PostHandler) ByUsername(c *gin.Context) {
	posts, err := h.postSvc.ByUsername(c.Param("username"))
	if err != nil {
		utils.Error(c, err)
		return
	}
	utils.SuccessResponse(c, gin.H{"posts": posts})
}

// Update 改帖子正文
func (h *PostHandler) Update(c *gin.Context) {
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

	post, err := h.postSvc.Update(postID, userID, req.Content)
	if err != nil {
		utils.Error(c, err)
		return
	}

	utils.SuccessWithMessage(c, "post updated successfully", gin.H{"post": post})
}

// Delete 删帖（作者，管理员走管理端路由）
func (h *PostHandler) Delete(c *gin.Context) {
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

	if err := h.postSvc.Delete(postID, userID, middleware.IsAdmin(c)); err != nil {
		utils.Error(c, err)
		return
	}

	utils.SuccessWithMessage(c, "post deleted successfully", nil)
}
