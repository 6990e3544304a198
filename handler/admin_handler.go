package handler

import (
	"dinq_social/service"
	"dinq_social/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type AdminHandler struct {
	adminSvc  *service.AdminService
	userSvc   *service.UserService
	postSvc   *service.PostService
	reportSvc *service.ReportService
}

func NewAdminHandler(adminSvc *service.AdminService, userSvc *service.UserService, postSvc *service.PostService, reportSvc *service.ReportService) *AdminHandler {
	return &AdminHandler{
		adminSvc:  adminSvc,
		userSvc:   userSvc,
		postSvc:   postSvc,
		reportSvc: reportSvc,
	}
}

// Login 管理员登录
func (h *AdminHandler) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	user, tokens, err := h.userSvc.AdminLogin(req.Email, req.Password)
	if err != nil {
		utils.Error(c, err)
		return
	}

	utils.SuccessWithMessage(c, "admin logged in successfully", gin.H{"user": user, "tokens": tokens})
}

// ListUsers 全量用户
func (h *AdminHandler) ListUsers(c *gin.Context) {
	users, err := h.adminSvc.ListUsers()
	if err != nil {
		utils.Error(c, err)
		return
	}
	utils.SuccessResponse(c, gin.H{"users": users})
}

// DeleteUser 级联删除用户及其全部关联数据
func (h *AdminHandler) DeleteUser(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		utils.BadRequest(c, "invalid user id")
		return
	}

	if err := h.adminSvc.DeleteUser(userID); err != nil {
		utils.Error(c, err)
		return
	}

	utils.SuccessWithMessage(c, "user and all associated data deleted successfully", nil)
}

// UpdateUserRole 修改用户角色
func (h *AdminHandler) UpdateUserRole(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		utils.BadRequest(c, "invalid user id")
		return
	}

	var req struct {
		Role string `json:"role" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	user, err := h.adminSvc.UpdateRole(userID, req.Role)
	if err != nil {
		utils.Error(c, err)
		return
	}

	utils.SuccessWithMessage(c, "user role updated successfully", gin.H{"user": user})
}

// ListPosts 全量帖子
func (h *AdminHandler) ListPosts(c *gin.Context) {
	posts, err := h.adminSvc.ListPosts()
	if err != nil {
		utils.Error(c, err)
		return
	}
	utils.SuccessResponse(c, gin.H{"posts": posts})
}

// DeletePost 管理员删帖（与作者删帖同一套级联）
func (h *AdminHandler) DeletePost(c *gin.Context) {
	postID, err := uuid.Parse(c.Param("postId"))
	if err != nil {
		utils.BadRequest(c, "invalid post id")
		return
	}

	if err := h.postSvc.Delete(postID, uuid.Nil, true); err != nil {
		utils.Error(c, err)
		return
	}

	utils.SuccessWithMessage(c, "post deleted successfully by admin", nil)
}

// ListFriendRequests 全量好友请求
func (h *AdminHandler) ListFriendRequests(c *gin.Context) {
	requests, err := h.adminSvc.ListFriendRequests()
	if err != nil {
		utils.Error(c, err)
		return
	}
	utils.SuccessResponse(c, gin.H{"requests": requests})
}

// ManageFriendRequest 强制处理待处理请求
func (h *AdminHandler) ManageFriendRequest(c *gin.Context) {
	requestID, err := uuid.Parse(c.Param("requestId"))
	if err != nil {
		utils.BadRequest(c, "invalid request id")
		return
	}

	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	request, err := h.adminSvc.ManageFriendRequest(requestID, req.Status)
	if err != nil {
		utils.Error(c, err)
		return
	}

	utils.SuccessWithMessage(c, "friend request "+request.Status, gin.H{"request": request})
}

// ListReports 举报列表（可按状态过滤）
func (h *AdminHandler) ListReports(c *gin.Context) {
	reports, err := h.reportSvc.List(c.Query("status"))
	if err != nil {
		utils.Error(c, err)
		return
	}
	utils.SuccessResponse(c, gin.H{"reports": reports})
}

// UpdateReportStatus 流转举报状态
func (h *AdminHandler) UpdateReportStatus(c *gin.Context) {
	reportID, err := uuid.Parse(c.Param("reportId"))
	if err != nil {
		utils.BadRequest(c, "invalid report id")
		return
	}

	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	report, err := h.reportSvc.UpdateStatus(reportID, req.Status)
	if err != nil {
		utils.Error(c, err)
		return
	}

	utils.SuccessWithMessage(c, "report status updated successfully", gin.H{"report": report})
}
