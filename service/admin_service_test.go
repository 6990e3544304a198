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
// 管理端
// ============================================

// TestDeleteUser_Cascade 级联删除全景：
// U 发了帖子 P，V 在 P 下评论并点赞，U 也在 V 的帖子下评论过。
// 删除 U 之后 U 的所有痕迹（含 V 挂在 P 下的评论/点赞）消失，
// V 自己的帖子和账号不受影响，V 的好友列表里不再有 U
func TestDeleteUser_Cascade(t *testing.T) {
	db := newTestDB(t)
	adminSvc := NewAdminService(db, nil)
	relSvc := NewRelationshipService(db)

	u := createTestUser(t, db, "doomed")
	v := createTestUser(t, db, "bystander")

	// 先成为好友
	request, err := relSvc.SendRequest(u.ID, v.ID)
	require.NoError(t, err)
	_, err = relSvc.AcceptRequest(request.ID, v.ID)
	require.NoError(t, err)

	// U 的帖子，V 在下面评论和点赞
	p := createTestPost(t, db, u.ID, "u's post")
	require.NoError(t, db.Create(&model.Comment{PostID: p.ID, OwnerID: v.ID, Content: "v's comment on p"}).Error)
	require.NoError(t, db.Create(&model.Like{PostID: p.ID, LikedBy: v.ID}).Error)

	// V 的帖子，U 在下面评论和点赞
	q := createTestPost(t, db, v.ID, "v's post")
	require.NoError(t, db.Create(&model.Comment{PostID: q.ID, OwnerID: u.ID, Content: "u's comment on q"}).Error)
	require.NoError(t, db.Create(&model.Like{PostID: q.ID, LikedBy: u.ID}).Error)

	require.NoError(t, adminSvc.DeleteUser(u.ID))

	// U 本人及其帖子消失
	assert.EqualValues(t, 0, countRows(t, db, &model.User{}, "id = ?", u.ID))
	assert.EqualValues(t, 0, countRows(t, db, &model.Post{}, "owner_id = ?", u.ID))

	// P 下所有人的评论/点赞消失（包括 V 的）
	assert.EqualValues(t, 0, countRows(t, db, &model.Comment{}, "post_id = ?", p.ID))
	assert.EqualValues(t, 0, countRows(t, db, &model.Like{}, "post_id = ?", p.ID))

	// U 在别人帖子下的评论/点赞消失
	assert.EqualValues(t, 0, countRows(t, db, &model.Comment{}, "owner_id = ?", u.ID))
	assert.EqualValues(t, 0, countRows(t, db, &model.Like{}, "liked_by = ?", u.ID))

	// 好友请求账本里不再有 U
	assert.EqualValues(t, 0, countRows(t, db, &model.FriendRequest{},
		"sender_id = ? OR receiver_id = ?", u.ID, u.ID))

	// V 不受波及：帖子还在，自己的账号还在，好友列表里没有 U
	assert.EqualValues(t, 1, countRows(t, db, &model.Post{}, "id = ?", q.ID))
	v = reloadUser(t, db, v.ID)
	assert.False(t, v.FriendIDs.Contains(u.ID))
}

// TestDeleteUser_Missing 删不存在的用户
func TestDeleteUser_Missing(t *testing.T) {
	db := newTestDB(t)
	svc := NewAdminService(db, nil)

	err := svc.DeleteUser(uuid.New())
	require.Error(t, err)
	assert.Equal(t, utils.KindNotFound, kindOf(t, err))
}

// TestUpdateRole 改角色，非法角色拒绝
func TestUpdateRole(t *testing.T) {
	db := newTestDB(t)
	svc := NewAdminService(db, nil)
	user := createTestUser(t, db, "promotee")

	updated, err := svc.UpdateRole(user.ID, model.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, updated.Role)

	_, err = svc.UpdateRole(user.ID, "superuser")
	require.Error(t, err)
	assert.Equal(t, utils.KindValidation, kindOf(t, err))

	_, err = svc.UpdateRole(uuid.New(), model.RoleUser)
	require.Error(t, err)
	assert.Equal(t, utils.KindNotFound, kindOf(t, err))
}

// TestManageFriendRequest_Accept 管理员代为接受，双方列表同步
func TestManageFriendRequest_Accept(t *testing.T) {
	db := newTestDB(t)
	adminSvc := NewAdminService(db, nil)
	relSvc := NewRelationshipService(db)

	a := createTestUser(t, db, "alice")
	b := createTestUser(t, db, "bob")

	request, err := relSvc.SendRequest(a.ID, b.ID)
	require.NoError(t, err)

	updated, err := adminSvc.ManageFriendRequest(request.ID, model.FriendStatusAccepted)
	require.NoError(t, err)
	assert.Equal(t, model.FriendStatusAccepted, updated.Status)

	a = reloadUser(t, db, a.ID)
	b = reloadUser(t, db, b.ID)
	assert.True(t, a.FriendIDs.Contains(b.ID))
	assert.True(t, b.FriendIDs.Contains(a.ID))
}

// TestManageFriendRequest_Guards 只处理 pending，状态值受限
func TestManageFriendRequest_Guards(t *testing.T) {
	db := newTestDB(t)
	adminSvc := NewAdminService(db, nil)
	relSvc := NewRelationshipService(db)

	a := createTestUser(t, db, "alice")
	b := createTestUser(t, db, "bob")

	request, err := relSvc.SendRequest(a.ID, b.ID)
	require.NoError(t, err)

	_, err = adminSvc.ManageFriendRequest(request.ID, model.FriendStatusPending)
	require.Error(t, err)
	assert.Equal(t, utils.KindValidation, kindOf(t, err))

	_, err = adminSvc.ManageFriendRequest(request.ID, model.FriendStatusRejected)
	require.NoError(t, err)

	// 已处理过的请求不能再动
	_, err = adminSvc.ManageFriendRequest(request.ID, model.FriendStatusAccepted)
	require.Error(t, err)
	assert.Equal(t, utils.KindConflict, kindOf(t, err))

	_, err = adminSvc.ManageFriendRequest(uuid.New(), model.FriendStatusAccepted)
	require.Error(t, err)
	assert.Equal(t, utils.KindNotFound, kindOf(t, err))
}

// TestAdminLists 三个全量列表都能带出关联摘要
func TestAdminLists(t *testing.T) {
	db := newTestDB(t)
	adminSvc := NewAdminService(db, nil)
	relSvc := NewRelationshipService(db)

	a := createTestUser(t, db, "alice")
	b := createTestUser(t, db, "bob")
	createTestPost(t, db, a.ID, "hello")
	_, err := relSvc.SendRequest(a.ID, b.ID)
	require.NoError(t, err)

	users, err := adminSvc.ListUsers()
	require.NoError(t, err)
	assert.Len(t, users, 2)

	posts, err := adminSvc.ListPosts()
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, "alice", posts[0].Owner.Username)

	requests, err := adminSvc.ListFriendRequests()
	require.NoError(t, err)
	require.Len(t, requests, 1)
	assert.Equal(t, "alice", requests[0].Sender.Username)
	assert.Equal(t, "bob", requests[0].Receiver.Username)
}
