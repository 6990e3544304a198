package handler

import (
	"fmt"
	"mime/multipart"
	"os"
	"path/filepath"

	"dinq_social/middleware"
	"dinq_social/service"
	"dinq_social/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type UserHandler struct {
	userSvc *service.UserService
	storage utils.MediaStorage
}

func NewUserHandler(userSvc *service.UserService, storage utils.MediaStorage) *UserHandler {
	return &UserHandler{userSvc: userSvc, storage: storage}
}

// Register 注册（multipart：字段 + 可选头像/封面）
func (h *UserHandler) Register(c *gin.Context) {
	var req struct {
		Username string `form:"username" binding:"required"`
		Email    string `form:"email" binding:"required"`
		Fullname string `form:"fullname" binding:"required"`
		Password string `form:"password" binding:"required"`
	}
	if err := c.ShouldBind(&req); err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	avatar, err := h.storeUpload(c, "avatar")
	if err != nil {
		utils.Error(c, err)
		return
	}
	cover, err := h.storeUpload(c, "cover_image")
	if err != nil {
		utils.Error(c, err)
		return
	}

	user, err := h.userSvc.Register(service.RegisterInput{
		Username:   req.Username,
		Email:      req.Email,
		Fullname:   req.Fullname,
		Password:   req.Password,
		Avatar:     avatar,
		CoverImage: cover,
	})
	if err != nil {
		utils.Error(c, err)
		return
	}

	utils.CreatedResponse(c, gin.H{"user": user})
}

// Login 登录，返回令牌对
func (h *UserHandler) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	user, tokens, err := h.userSvc.Login(req.Email, req.Password)
	if err != nil {
		utils.Error(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"user": user, "tokens": tokens})
}

// Refresh 刷新令牌对
func (h *UserHandler) Refresh(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refresh_token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	tokens, err := h.userSvc.Refresh(req.RefreshToken)
	if err != nil {
		utils.Error(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"tokens": tokens})
}

// Logout 登出，吊销当前 access token
func (h *UserHandler) Logout(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		utils.Unauthorized(c, "unauthorized")
		return
	}

	accessToken := c.GetString("access_token")
	if err := h.userSvc.Logout(userID, accessToken); err != nil {
		utils.Error(c, err)
		return
	}

	utils.SuccessWithMessage(c, "logged out", nil)
}

// storeUpload 把可选的表单文件落到临时目录再交给媒体存储，返回引用
func (h *UserHandler) storeUpload(c *gin.Context, field string) (string, error) {
	fileHeader, err := c.FormFile(field)
	if err != nil {
		return "", nil // 字段可选，没传不算错
	}
	return storeUploadedFile(c, fileHeader, h.storage)
}

func storeUploadedFile(c *gin.Context, fileHeader *multipart.FileHeader, storage utils.MediaStorage) (string, error) {
	tmpPath := filepath.Join(os.TempDir(), uuid.New().String()+filepath.Ext(fileHeader.Filename))
	if err := c.SaveUploadedFile(fileHeader, tmpPath); err != nil {
		return "", fmt.Errorf("failed to save upload: %w", err)
	}

	ref, err := storage.Store(tmpPath)
	if err != nil {
		os.Remove(tmpPath)
		return "", utils.ErrUpstream("media file upload failed")
	}
	return ref, nil
}
