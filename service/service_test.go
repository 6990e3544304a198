package service

import (
	"fmt"
	"testing"

	"dinq_social/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB 每个测试一个独立的内存库
// cache=shared 让连接池里的连接看到同一个库，MaxOpenConns(1) 避免写锁冲突
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.New().String())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(
		&model.User{},
		&model.FriendRequest{},
		&model.Post{},
		&model.Comment{},
		&model.Like{},
		&model.Report{},
	))

	return db
}

// createTestUser 创建测试用户
func createTestUser(t *testing.T, db *gorm.DB, username string) *model.User {
	t.Helper()

	user := &model.User{
		Username:  username,
		Email:     username + "@example.com",
		Fullname:  "Test " + username,
		Password:  "hashed-password",
		Role:      model.RoleUser,
		FriendIDs: model.UUIDList{},
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

// createTestPost 创建测试帖子
func createTestPost(t *testing.T, db *gorm.DB, ownerID uuid.UUID, content string) *model.Post {
	t.Helper()

	post := &model.Post{OwnerID: ownerID, Content: content}
	require.NoError(t, db.Create(post).Error)
	return post
}

// reloadUser 重新读取用户
func reloadUser(t *testing.T, db *gorm.DB, id uuid.UUID) *model.User {
	t.Helper()

	var user model.User
	require.NoError(t, db.First(&user, "id = ?", id).Error)
	return &user
}

// countRows 按条件数行
func countRows(t *testing.T, db *gorm.DB, m interface{}, query string, args ...interface{}) int64 {
	t.Helper()

	var count int64
	require.NoError(t, db.Model(m).Where(query, args...).Count(&count).Error)
	return count
}
