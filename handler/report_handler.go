package handler

import (
	"dinq_social/middleware"
	"dinq_social/service"
	"dinq_social/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ReportHandler struct {
	reportSvc *service.ReportService
}

func NewReportHandler(reportSvc *service.ReportService) *ReportHandler {
	return &ReportHandler{reportSvc: reportSvc}
}

// Create 提交举报
func (h *ReportHandler) Create(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		utils.Unauthorized(c, "unauthorized")
		return
	}

	var req struct {
		ReportedUserID uuid.UUID  `json:"reported_user_id" binding:"required"`
		PostID         *uuid.UUID `json:"post_id"`
		Reason         string     `json:"reason" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	report, err := h.reportSvc.Create(userID, req.ReportedUserID, req.PostID, req.Reason)
	if err != nil {
		utils.Error(c, err)
		return
	}

	utils.CreatedResponse(c, gin.H{"report": report})
}
