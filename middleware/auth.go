package middleware

import (
	"context"
	"strings"
	"time"

	"dinq_social/utils"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

var (
	jwtSecret  []byte
	tokenStore *redis.Client // 已注销 access token 的黑名单，可为 nil（测试环境）
)

const revokedKeyPrefix = "revoked:"

// InitAuth 初始化认证中间件
func InitAuth(secret string) {
	jwtSecret = []byte(secret)
}

// SetTokenStore 注入 Redis，启用登出后的 token 吊销检查
func SetTokenStore(rdb *redis.Client) {
	tokenStore = rdb
}

// Claims JWT 声明
type Claims struct {
	UserID uuid.UUID `json:"user_id"`
	Role   string    `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// GenerateAccessToken 签发 access token（携带角色）
func GenerateAccessToken(userID uuid.UUID, role string, ttl time.Duration) (string, error) {
	claims := &Claims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(jwtSecret)
}

// GenerateRefreshToken 签发 refresh token（只携带用户 ID）
func GenerateRefreshToken(userID uuid.UUID, ttl time.Duration) (string, error) {
	claims := &Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(jwtSecret)
}

// AuthMiddleware HTTP API 认证中间件
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			utils.Unauthorized(c, "missing authorization header")
			c.Abort()
			return
		}

		// Bearer token
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			utils.Unauthorized(c, "invalid authorization header")
			c.Abort()
			return
		}

		tokenString := parts[1]
		claims, err := ParseToken(tokenString)
		if err != nil {
			utils.Unauthorized(c, "invalid token")
			c.Abort()
			return
		}

		// 登出后的 token 直接拒绝
		if IsTokenRevoked(tokenString) {
			utils.Unauthorized(c, "token has been revoked")
			c.Abort()
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("user_role", claims.Role)
		c.Set("access_token", tokenString)
		c.Next()
	}
}

// AdminMiddleware 管理员鉴权中间件，必须在 AuthMiddleware 之后
func AdminMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		role, _ := c.Get("user_role")
		if role != "admin" {
			utils.Forbidden(c, "you do not have permission to perform this action")
			c.Abort()
			return
		}
		c.Next()
	}
}

// ParseToken 验证 JWT 并返回声明
func ParseToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return jwtSecret, nil
	})
	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}

	return nil, jwt.ErrSignatureInvalid
}

// ValidateToken 验证 JWT Token，只取用户 ID（WebSocket 握手用）
func ValidateToken(tokenString string) (uuid.UUID, error) {
	claims, err := ParseToken(tokenString)
	if err != nil {
		return uuid.Nil, err
	}
	return claims.UserID, nil
}

// RevokeToken 把 access token 加入黑名单，保留到原本的过期时间
func RevokeToken(tokenString string) error {
	if tokenStore == nil {
		return nil
	}

	claims, err := ParseToken(tokenString)
	if err != nil {
		return err
	}

	ttl := time.Until(claims.ExpiresAt.Time)
	if ttl <= 0 {
		return nil // 已过期，无需入黑名单
	}

	ctx := context.Background()
	return tokenStore.Set(ctx, revokedKeyPrefix+tokenString, "1", ttl).Err()
}

// IsTokenRevoked 检查 token 是否已被吊销
func IsTokenRevoked(tokenString string) bool {
	if tokenStore == nil {
		return false
	}

	ctx := context.Background()
	n, err := tokenStore.Exists(ctx, revokedKeyPrefix+tokenString).Result()
	return err == nil && n > 0
}

// GetUserID 从上下文获取用户 ID
func GetUserID(c *gin.Context) (uuid.UUID, bool) {
	userID, exists := c.Get("user_id")
	if !exists {
		return uuid.Nil, false
	}
	return userID.(uuid.UUID), true
}

// GetUserRole 从上下文获取用户角色
func GetUserRole(c *gin.Context) string {
	role, exists := c.Get("user_role")
	if !exists {
		return ""
	}
	return role.(string)
}

// IsAdmin 判断当前请求者是否管理员
func IsAdmin(c *gin.Context) bool {
	return GetUserRole(c) == "admin"
}
