package service

import (
	"fmt"
	"strings"

	"dinq_social/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SearchService 用户和帖子的子串搜索
type SearchService struct {
	db *gorm.DB
}

func NewSearchService(db *gorm.DB) *SearchService {
	return &SearchService{db: db}
}

// SearchResult 搜索结果
type SearchResult struct {
	Users []model.UserSummary   `json:"users"`
	Posts []model.PostWithOwner `json:"posts"`
}

// Search 大小写不敏感的子串匹配，空查询返回空结果
func (s *SearchService) Search(q string) (*SearchResult, error) {
	result := &SearchResult{
		Users: []model.UserSummary{},
		Posts: []model.PostWithOwner{},
	}

	q = strings.TrimSpace(q)
	if q == "" {
		return result, nil
	}
	pattern := "%" + strings.ToLower(q) + "%"

	var users []model.User
	err := s.db.Where("LOWER(username) LIKE ? OR LOWER(fullname) LIKE ?", pattern, pattern).
		Find(&users).Error
	if err != nil {
		return nil, fmt.Errorf("failed to search users: %w", err)
	}
	for _, u := range users {
		result.Users = append(result.Users, u.Summary())
	}

	var posts []model.Post
	err = s.db.Where("LOWER(content) LIKE ?", pattern).Find(&posts).Error
	if err != nil {
		return nil, fmt.Errorf("failed to search posts: %w", err)
	}

	ownerIDs := make([]uuid.UUID, 0, len(posts))
	for _, p := range posts {
		ownerIDs = append(ownerIDs, p.OwnerID)
	}
	summaries, err := loadUserSummaries(s.db, ownerIDs)
	if err != nil {
		return nil, err
	}
	for _, p := range posts {
		result.Posts = append(result.Posts, model.PostWithOwner{Post: p, Owner: summaries[p.OwnerID]})
	}

	return result, nil
}
