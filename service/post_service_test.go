package service

import (
	"testing"

	"dinq_social/model"
	"dinq_social/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ============================================
// 帖子
// ============================================

// TestCreatePost_Validation 正文和媒体至少要有一个
func TestCreatePost_Validation(t *testing.T) {
	db := newTestDB(t)
	svc := NewPostService(db, nil)
	owner := createTestUser(t, db, "author")

	_, err := svc.Create(owner.ID, "   ", "")
	require.Error(t, err)
	assert.Equal(t, utils.KindValidation, kindOf(t, err))

	post, err := svc.Create(owner.ID, "", "uploads/pic.png")
	require.NoError(t, err)
	assert.Equal(t, "uploads/pic.png", post.MediaFile)

	post, err = svc.Create(owner.ID, "text only", "")
	require.NoError(t, err)
	assert.Equal(t, "text only", post.Content)
}

// TestFeed_OrderAndOwners 流里新的在前且带作者摘要
func TestFeed_OrderAndOwners(t *testing.T) {
	db := newTestDB(t)
	svc := NewPostService(db, nil)
	a := createTestUser(t, db, "alice")
	b := createTestUser(t, db, "bob")

	createTestPost(t, db, a.ID, "first")
	createTestPost(t, db, b.ID, "second")

	feed, err := svc.Feed()
	require.NoError(t, err)
	require.Len(t, feed, 2)
	for _, p := range feed {
		assert.NotEmpty(t, p.Owner.Username)
	}
}

// TestByUsername 按用户名取帖子，未知用户 not-found
func TestByUsername(t *testing.T) {
	db := newTestDB(t)
	svc := NewPostService(db, nil)
	a := createTestUser(t, db, "alice")
	b := createTestUser(t, db, "bob")
	createTestPost(t, db, a.ID, "alice post")
	createTestPost(t, db, b.ID, "bob post")

	posts, err := svc.ByUsername("alice")
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, "alice post", posts[0].Content)

	_, err = svc.ByUsername("nobody")
	require.Error(t, err)
	assert.Equal(t, utils.KindNotFound, kindOf(t, err))
}

// TestUpdatePost_OwnerOnly 非作者改帖被拒
func TestUpdatePost_OwnerOnly(t *testing.T) {
	db := newTestDB(t)
	svc := NewPostService(db, nil)
	owner := createTestUser(t, db, "author")
	stranger := createTestUser(t, db, "stranger")
	post := createTestPost(t, db, owner.ID, "original")

	_, err := svc.Update(post.ID, stranger.ID, "hijacked")
	require.Error(t, err)
	assert.Equal(t, utils.KindForbidden, kindOf(t, err))

	updated, err := svc.Update(post.ID, owner.ID, "edited")
	require.NoError(t, err)
	assert.Equal(t, "edited", updated.Content)

	_, err = svc.Update(post.ID, owner.ID, "  ")
	require.Error(t, err)
	assert.Equal(t, utils.KindValidation, kindOf(t, err))
}

// TestDeletePost_Authorization 作者可删、管理员可删、外人不可删
func TestDeletePost_Authorization(t *testing.T) {
	db := newTestDB(t)
	svc := NewPostService(db, nil)
	owner := createTestUser(t, db, "author")
	stranger := createTestUser(t, db, "stranger")

	post := createTestPost(t, db, owner.ID, "target")
	err := svc.Delete(post.ID, stranger.ID, false)
	require.Error(t, err)
	assert.Equal(t, utils.KindForbidden, kindOf(t, err))

	require.NoError(t, svc.Delete(post.ID, owner.ID, false))

	// 管理员绕过作者检查
	post = createTestPost(t, db, owner.ID, "target two")
	require.NoError(t, svc.Delete(post.ID, uuid.Nil, true))

	err = svc.Delete(uuid.New(), owner.ID, false)
	require.Error(t, err)
	assert.Equal(t, utils.KindNotFound, kindOf(t, err))
}

// TestDeletePost_Cascade 删帖连带删掉所有人的评论和点赞
func TestDeletePost_Cascade(t *testing.T) {
	db := newTestDB(t)
	svc := NewPostService(db, nil)
	owner := createTestUser(t, db, "author")
	other := createTestUser(t, db, "other")
	post := createTestPost(t, db, owner.ID, "doomed post")

	require.NoError(t, db.Create(&model.Comment{PostID: post.ID, OwnerID: other.ID, Content: "hi"}).Error)
	require.NoError(t, db.Create(&model.Like{PostID: post.ID, LikedBy: other.ID}).Error)

	require.NoError(t, svc.Delete(post.ID, owner.ID, false))

	assert.EqualValues(t, 0, countRows(t, db, &model.Post{}, "id = ?", post.ID))
	assert.EqualValues(t, 0, countRows(t, db, &model.Comment{}, "post_id = ?", post.ID))
	assert.EqualValues(t, 0, countRows(t, db, &model.Like{}, "post_id = ?", post.ID))
}
