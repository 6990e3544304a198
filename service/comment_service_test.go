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
// 评论
// ============================================

// stubNotifier 收集推送事件
type stubNotifier struct {
	events []struct {
		UserID uuid.UUID
		Type   string
	}
}

func (n *stubNotifier) PushEvent(userID uuid.UUID, eventType string, data interface{}) {
	n.events = append(n.events, struct {
		UserID uuid.UUID
		Type   string
	}{userID, eventType})
}

// TestAddComment 添加评论并通知帖子作者
func TestAddComment(t *testing.T) {
	db := newTestDB(t)
	svc := NewCommentService(db)
	notifier := &stubNotifier{}
	svc.SetNotifier(notifier)

	author := createTestUser(t, db, "author")
	commenter := createTestUser(t, db, "commenter")
	post := createTestPost(t, db, author.ID, "a post")

	comment, err := svc.Add(post.ID, commenter.ID, "  nice post  ")
	require.NoError(t, err)
	assert.Equal(t, "nice post", comment.Content)
	assert.Equal(t, "commenter", comment.Owner.Username)

	require.Len(t, notifier.events, 1)
	assert.Equal(t, author.ID, notifier.events[0].UserID)
	assert.Equal(t, "new_comment", notifier.events[0].Type)

	// 自己评论自己的帖子不推
	_, err = svc.Add(post.ID, author.ID, "thanks")
	require.NoError(t, err)
	assert.Len(t, notifier.events, 1)
}

// TestAddComment_Guards 空内容与不存在的帖子
func TestAddComment_Guards(t *testing.T) {
	db := newTestDB(t)
	svc := NewCommentService(db)
	user := createTestUser(t, db, "user")
	post := createTestPost(t, db, user.ID, "a post")

	_, err := svc.Add(post.ID, user.ID, "   ")
	require.Error(t, err)
	assert.Equal(t, utils.KindValidation, kindOf(t, err))

	_, err = svc.Add(uuid.New(), user.ID, "hello")
	require.Error(t, err)
	assert.Equal(t, utils.KindNotFound, kindOf(t, err))
}

// TestUpdateComment_OwnerOnly 只有作者能改
func TestUpdateComment_OwnerOnly(t *testing.T) {
	db := newTestDB(t)
	svc := NewCommentService(db)
	author := createTestUser(t, db, "author")
	stranger := createTestUser(t, db, "stranger")
	post := createTestPost(t, db, author.ID, "a post")

	comment, err := svc.Add(post.ID, author.ID, "original")
	require.NoError(t, err)

	_, err = svc.Update(comment.ID, stranger.ID, "hijacked")
	require.Error(t, err)
	assert.Equal(t, utils.KindForbidden, kindOf(t, err))

	updated, err := svc.Update(comment.ID, author.ID, "edited")
	require.NoError(t, err)
	assert.Equal(t, "edited", updated.Content)

	_, err = svc.Update(uuid.New(), author.ID, "whatever")
	require.Error(t, err)
	assert.Equal(t, utils.KindNotFound, kindOf(t, err))
}

// TestDeleteComment_Authorization 作者或管理员能删，外人不能
func TestDeleteComment_Authorization(t *testing.T) {
	db := newTestDB(t)
	svc := NewCommentService(db)
	author := createTestUser(t, db, "author")
	stranger := createTestUser(t, db, "stranger")
	post := createTestPost(t, db, author.ID, "a post")

	comment, err := svc.Add(post.ID, author.ID, "to be deleted")
	require.NoError(t, err)

	err = svc.Delete(comment.ID, stranger.ID, false)
	require.Error(t, err)
	assert.Equal(t, utils.KindForbidden, kindOf(t, err))

	require.NoError(t, svc.Delete(comment.ID, author.ID, false))
	assert.EqualValues(t, 0, countRows(t, db, &model.Comment{}, "id = ?", comment.ID))

	comment, err = svc.Add(post.ID, author.ID, "second")
	require.NoError(t, err)
	require.NoError(t, svc.Delete(comment.ID, uuid.Nil, true))
}

// TestListComments 列表带作者摘要
func TestListComments(t *testing.T) {
	db := newTestDB(t)
	svc := NewCommentService(db)
	author := createTestUser(t, db, "author")
	post := createTestPost(t, db, author.ID, "a post")

	_, err := svc.Add(post.ID, author.ID, "one")
	require.NoError(t, err)
	_, err = svc.Add(post.ID, author.ID, "two")
	require.NoError(t, err)

	comments, err := svc.List(post.ID)
	require.NoError(t, err)
	require.Len(t, comments, 2)
	for _, c := range comments {
		assert.Equal(t, "author", c.Owner.Username)
	}
}
