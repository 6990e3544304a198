package service

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"dinq_social/middleware"
	"dinq_social/model"
	"dinq_social/utils"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// UserService 用户注册、登录、令牌管理
type UserService struct {
	db              *gorm.DB
	accessTokenTTL  time.Duration
	refreshTokenTTL time.Duration
}

func NewUserService(db *gorm.DB, accessTokenTTL, refreshTokenTTL time.Duration) *UserService {
	return &UserService{
		db:              db,
		accessTokenTTL:  accessTokenTTL,
		refreshTokenTTL: refreshTokenTTL,
	}
}

// RegisterInput 注册参数，头像/封面已由 handler 转存为存储引用
type RegisterInput struct {
	Username   string
	Email      string
	Fullname   string
	Password   string
	Avatar     string
	CoverImage string
}

// TokenPair 登录/刷新返回的令牌对
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// Register 注册新用户
func (s *UserService) Register(input RegisterInput) (*model.User, error) {
	input.Username = strings.TrimSpace(input.Username)
	input.Email = strings.TrimSpace(strings.ToLower(input.Email))
	input.Fullname = strings.TrimSpace(input.Fullname)

	if input.Username == "" || input.Email == "" || input.Fullname == "" || input.Password == "" {
		return nil, utils.ErrInvalid("username, email, fullname and password are required")
	}

	var count int64
	err := s.db.Model(&model.User{}).
		Where("username = ? OR email = ?", input.Username, input.Email).
		Count(&count).Error
	if err != nil {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}
	if count > 0 {
		return nil, utils.ErrConflict("username or email already exists")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		Username:   input.Username,
		Email:      input.Email,
		Fullname:   input.Fullname,
		Password:   string(hash),
		Role:       model.RoleUser,
		Avatar:     input.Avatar,
		CoverImage: input.CoverImage,
		FriendIDs:  model.UUIDList{},
	}
	if err := s.db.Create(user).Error; err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// Login 邮箱+密码登录，签发令牌对并保存 refresh token
func (s *UserService) Login(email, password string) (*model.User, *TokenPair, error) {
	return s.login(email, password, false)
}

// AdminLogin 管理员登录，额外校验角色
func (s *UserService) AdminLogin(email, password string) (*model.User, *TokenPair, error) {
	return s.login(email, password, true)
}

func (s *UserService) login(email, password string, adminOnly bool) (*model.User, *TokenPair, error) {
	if email == "" || password == "" {
		return nil, nil, utils.ErrInvalid("email and password are required")
	}

	var user model.User
	err := s.db.First(&user, "email = ?", strings.ToLower(strings.TrimSpace(email))).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, utils.ErrNotFound("user not found")
		}
		return nil, nil, fmt.Errorf("failed to load user: %w", err)
	}

	if adminOnly && user.Role != model.RoleAdmin {
		return nil, nil, utils.ErrForbidden("you are not authorized to access the admin panel")
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return nil, nil, utils.ErrUnauthorized("invalid credentials")
	}

	pair, err := s.issueTokens(&user)
	if err != nil {
		return nil, nil, err
	}
	return &user, pair, nil
}

// Refresh 用 refresh token 换新令牌对（旋转：旧 refresh token 立即失效）
func (s *UserService) Refresh(refreshToken string) (*TokenPair, error) {
	if refreshToken == "" {
		return nil, utils.ErrInvalid("refresh token is required")
	}

	claims, err := middleware.ParseToken(refreshToken)
	if err != nil {
		return nil, utils.ErrUnauthorized("invalid refresh token")
	}

	var user model.User
	if err := s.db.First(&user, "id = ?", claims.UserID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.ErrUnauthorized("invalid refresh token")
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	if user.RefreshToken == "" || user.RefreshToken != refreshToken {
		return nil, utils.ErrUnauthorized("refresh token is expired or used")
	}

	return s.issueTokens(&user)
}

// Logout 清除 refresh token 并吊销当前 access token
func (s *UserService) Logout(userID uuid.UUID, accessToken string) error {
	err := s.db.Model(&model.User{}).Where("id = ?", userID).
		Update("refresh_token", "").Error
	if err != nil {
		return fmt.Errorf("failed to clear refresh token: %w", err)
	}

	if err := middleware.RevokeToken(accessToken); err != nil {
		// 吊销失败只影响这枚短期 token，不阻塞登出
		log.Printf("[WARN] Failed to revoke access token for user %s: %v", userID, err)
	}
	return nil
}

// GetByID 按 ID 取用户
func (s *UserService) GetByID(userID uuid.UUID) (*model.User, error) {
	var user model.User
	if err := s.db.First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.ErrNotFound("user not found")
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	return &user, nil
}

func (s *UserService) issueTokens(user *model.User) (*TokenPair, error) {
	accessToken, err := middleware.GenerateAccessToken(user.ID, user.Role, s.accessTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to sign access token: %w", err)
	}

	refreshToken, err := middleware.GenerateRefreshToken(user.ID, s.refreshTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to sign refresh token: %w", err)
	}

	err = s.db.Model(&model.User{}).Where("id = ?", user.ID).
		Update("refresh_token", refreshToken).Error
	if err != nil {
		return nil, fmt.Errorf("failed to save refresh token: %w", err)
	}

	return &TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}
