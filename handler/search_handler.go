package handler

import (
	"dinq_social/service"
	"dinq_social/utils"

	"github.com/gin-gonic/gin"
)

type SearchHandler struct {
	searchSvc *service.SearchService
}

func NewSearchHandler(searchSvc *service.SearchService) *SearchHandler {
	return &SearchHandler{searchSvc: searchSvc}
}

// Search 搜索用户和帖子
func (h *SearchHandler) Search(c *gin.Context) {
	result, err := h.searchSvc.Search(c.Query("q"))
	if err != nil {
		utils.Error(c, err)
		return
	}
	utils.SuccessResponse(c, result)
}
