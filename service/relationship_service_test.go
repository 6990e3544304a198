package service

import (
	"sync"
	"testing"

	"dinq_social/model"
	"dinq_social/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ============================================
// 好友请求账本
// ============================================

func kindOf(t *testing.T, err error) utils.ErrorKind {
	t.Helper()
	appErr, ok := err.(*utils.AppError)
	require.True(t, ok, "expected *utils.AppError, got %T: %v", err, err)
	return appErr.Kind
}

// TestSendRequest_SelfRejected 不能给自己发好友请求
func TestSendRequest_SelfRejected(t *testing.T) {
	db := newTestDB(t)
	svc := NewRelationshipService(db)
	a := createTestUser(t, db, "alice")

	_, err := svc.SendRequest(a.ID, a.ID)
	require.Error(t, err)
	assert.Equal(t, utils.KindValidation, kindOf(t, err))
}

// TestSendRequest_ReceiverMissing 接收者不存在返回 not-found
func TestSendRequest_ReceiverMissing(t *testing.T) {
	db := newTestDB(t)
	svc := NewRelationshipService(db)
	a := createTestUser(t, db, "alice")

	_, err := svc.SendRequest(a.ID, uuid.New())
	require.Error(t, err)
	assert.Equal(t, utils.KindNotFound, kindOf(t, err))
}

// TestAccept_Symmetry 接受后双方好友列表互相包含对方
func TestAccept_Symmetry(t *testing.T) {
	db := newTestDB(t)
	svc := NewRelationshipService(db)
	a := createTestUser(t, db, "alice")
	b := createTestUser(t, db, "bob")

	request, err := svc.SendRequest(a.ID, b.ID)
	require.NoError(t, err)
	assert.Equal(t, model.FriendStatusPending, request.Status)

	accepted, err := svc.AcceptRequest(request.ID, b.ID)
	require.NoError(t, err)
	assert.Equal(t, model.FriendStatusAccepted, accepted.Status)

	assert.True(t, reloadUser(t, db, a.ID).FriendIDs.Contains(b.ID))
	assert.True(t, reloadUser(t, db, b.ID).FriendIDs.Contains(a.ID))

	friendsA, err := svc.Friends(a.ID)
	require.NoError(t, err)
	require.Len(t, friendsA, 1)
	assert.Equal(t, b.ID, friendsA[0].ID)

	friendsB, err := svc.Friends(b.ID)
	require.NoError(t, err)
	require.Len(t, friendsB, 1)
	assert.Equal(t, a.ID, friendsB[0].ID)
}

// TestSendRequest_DuplicatePendingConflict 同一无向对之间有 pending 请求时，双向都不能再发
func TestSendRequest_DuplicatePendingConflict(t *testing.T) {
	db := newTestDB(t)
	svc := NewRelationshipService(db)
	a := createTestUser(t, db, "alice")
	b := createTestUser(t, db, "bob")

	_, err := svc.SendRequest(a.ID, b.ID)
	require.NoError(t, err)

	// 同方向
	_, err = svc.SendRequest(a.ID, b.ID)
	require.Error(t, err)
	assert.Equal(t, utils.KindConflict, kindOf(t, err))

	// 反方向
	_, err = svc.SendRequest(b.ID, a.ID)
	require.Error(t, err)
	assert.Equal(t, utils.KindConflict, kindOf(t, err))
}

// TestSendRequest_AlreadyFriendsConflict 已是好友不能再发请求
func TestSendRequest_AlreadyFriendsConflict(t *testing.T) {
	db := newTestDB(t)
	svc := NewRelationshipService(db)
	a := createTestUser(t, db, "alice")
	b := createTestUser(t, db, "bob")

	request, err := svc.SendRequest(a.ID, b.ID)
	require.NoError(t, err)
	_, err = svc.AcceptRequest(request.ID, b.ID)
	require.NoError(t, err)

	_, err = svc.SendRequest(a.ID, b.ID)
	require.Error(t, err)
	assert.Equal(t, utils.KindConflict, kindOf(t, err))

	_, err = svc.SendRequest(b.ID, a.ID)
	require.Error(t, err)
	assert.Equal(t, utils.KindConflict, kindOf(t, err))
}

// TestAccept_OnlyReceiver 非接收者接受请求返回授权错误，状态不变
func TestAccept_OnlyReceiver(t *testing.T) {
	db := newTestDB(t)
	svc := NewRelationshipService(db)
	a := createTestUser(t, db, "alice")
	b := createTestUser(t, db, "bob")
	c := createTestUser(t, db, "carol")

	request, err := svc.SendRequest(a.ID, b.ID)
	require.NoError(t, err)

	// 发送者自己不能接受
	_, err = svc.AcceptRequest(request.ID, a.ID)
	require.Error(t, err)
	assert.Equal(t, utils.KindForbidden, kindOf(t, err))

	// 第三方也不能
	_, err = svc.AcceptRequest(request.ID, c.ID)
	require.Error(t, err)
	assert.Equal(t, utils.KindForbidden, kindOf(t, err))

	// 状态保持 pending，列表未动
	var reloaded model.FriendRequest
	require.NoError(t, db.First(&reloaded, "id = ?", request.ID).Error)
	assert.Equal(t, model.FriendStatusPending, reloaded.Status)
	assert.False(t, reloadUser(t, db, a.ID).FriendIDs.Contains(b.ID))
}

// TestAccept_Twice 重复接受返回冲突，好友列表不会重复插入
func TestAccept_Twice(t *testing.T) {
	db := newTestDB(t)
	svc := NewRelationshipService(db)
	a := createTestUser(t, db, "alice")
	b := createTestUser(t, db, "bob")

	request, err := svc.SendRequest(a.ID, b.ID)
	require.NoError(t, err)

	_, err = svc.AcceptRequest(request.ID, b.ID)
	require.NoError(t, err)

	_, err = svc.AcceptRequest(request.ID, b.ID)
	require.Error(t, err)
	assert.Equal(t, utils.KindConflict, kindOf(t, err))

	// 列表里只有一份
	friendIDs := reloadUser(t, db, a.ID).FriendIDs
	count := 0
	for _, id := range friendIDs {
		if id == b.ID {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

// TestReject_NoListMutation 拒绝请求不动好友列表
func TestReject_NoListMutation(t *testing.T) {
	db := newTestDB(t)
	svc := NewRelationshipService(db)
	a := createTestUser(t, db, "alice")
	b := createTestUser(t, db, "bob")

	request, err := svc.SendRequest(a.ID, b.ID)
	require.NoError(t, err)

	rejected, err := svc.RejectRequest(request.ID, b.ID)
	require.NoError(t, err)
	assert.Equal(t, model.FriendStatusRejected, rejected.Status)

	assert.Empty(t, reloadUser(t, db, a.ID).FriendIDs)
	assert.Empty(t, reloadUser(t, db, b.ID).FriendIDs)
}

// TestPendingRequests 只返回收到的 pending 请求，附发送者摘要
func TestPendingRequests(t *testing.T) {
	db := newTestDB(t)
	svc := NewRelationshipService(db)
	a := createTestUser(t, db, "alice")
	b := createTestUser(t, db, "bob")
	c := createTestUser(t, db, "carol")

	_, err := svc.SendRequest(a.ID, b.ID)
	require.NoError(t, err)
	reqC, err := svc.SendRequest(c.ID, b.ID)
	require.NoError(t, err)
	_, err = svc.RejectRequest(reqC.ID, b.ID)
	require.NoError(t, err)

	pending, err := svc.PendingRequests(b.ID)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, a.ID, pending[0].SenderID)
	assert.Equal(t, "alice", pending[0].Sender.Username)

	// 发送者视角没有待处理请求
	pendingA, err := svc.PendingRequests(a.ID)
	require.NoError(t, err)
	assert.Empty(t, pendingA)
}

// TestRemoveFriend_Idempotent 解除好友幂等：第二次调用不报错，终态一致
func TestRemoveFriend_Idempotent(t *testing.T) {
	db := newTestDB(t)
	svc := NewRelationshipService(db)
	a := createTestUser(t, db, "alice")
	b := createTestUser(t, db, "bob")

	request, err := svc.SendRequest(a.ID, b.ID)
	require.NoError(t, err)
	_, err = svc.AcceptRequest(request.ID, b.ID)
	require.NoError(t, err)

	require.NoError(t, svc.RemoveFriend(a.ID, b.ID))
	require.NoError(t, svc.RemoveFriend(a.ID, b.ID))

	assert.False(t, reloadUser(t, db, a.ID).FriendIDs.Contains(b.ID))
	assert.False(t, reloadUser(t, db, b.ID).FriendIDs.Contains(a.ID))
}

// TestRemoveFriend_EndsLedgerRecord 解除好友把账本记录流转到 ended（与 rejected 可区分）
func TestRemoveFriend_EndsLedgerRecord(t *testing.T) {
	db := newTestDB(t)
	svc := NewRelationshipService(db)
	a := createTestUser(t, db, "alice")
	b := createTestUser(t, db, "bob")

	request, err := svc.SendRequest(a.ID, b.ID)
	require.NoError(t, err)
	_, err = svc.AcceptRequest(request.ID, b.ID)
	require.NoError(t, err)

	require.NoError(t, svc.RemoveFriend(a.ID, b.ID))

	var reloaded model.FriendRequest
	require.NoError(t, db.First(&reloaded, "id = ?", request.ID).Error)
	assert.Equal(t, model.FriendStatusEnded, reloaded.Status)
	assert.NotEqual(t, model.FriendStatusRejected, reloaded.Status)
}

// TestRelationshipLifecycle 完整闭环：
// A 发请求 → B 接受 → 双方互为好友 → A 解除 → 双方列表清空、记录 ended → A 重新发请求成功
func TestRelationshipLifecycle(t *testing.T) {
	db := newTestDB(t)
	svc := NewRelationshipService(db)
	a := createTestUser(t, db, "alice")
	b := createTestUser(t, db, "bob")

	r1, err := svc.SendRequest(a.ID, b.ID)
	require.NoError(t, err)

	_, err = svc.AcceptRequest(r1.ID, b.ID)
	require.NoError(t, err)
	assert.True(t, reloadUser(t, db, a.ID).FriendIDs.Contains(b.ID))
	assert.True(t, reloadUser(t, db, b.ID).FriendIDs.Contains(a.ID))

	require.NoError(t, svc.RemoveFriend(a.ID, b.ID))
	assert.False(t, reloadUser(t, db, a.ID).FriendIDs.Contains(b.ID))
	assert.False(t, reloadUser(t, db, b.ID).FriendIDs.Contains(a.ID))

	var ledger model.FriendRequest
	require.NoError(t, db.First(&ledger, "id = ?", r1.ID).Error)
	assert.Equal(t, model.FriendStatusEnded, ledger.Status)

	// 没有遗留的 pending/accepted 记录阻塞新请求
	r2, err := svc.SendRequest(a.ID, b.ID)
	require.NoError(t, err)
	assert.Equal(t, model.FriendStatusPending, r2.Status)
	assert.NotEqual(t, r1.ID, r2.ID)
}

// TestConcurrentAcceptRemove 并发 accept/remove 竞争
// 两个操作都在事务里，无论交错顺序如何，终态必须对称：
// 要么双方都在对方列表里，要么都不在
func TestConcurrentAcceptRemove(t *testing.T) {
	db := newTestDB(t)
	svc := NewRelationshipService(db)
	a := createTestUser(t, db, "alice")
	b := createTestUser(t, db, "bob")

	request, err := svc.SendRequest(a.ID, b.ID)
	require.NoError(t, err)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		// 竞争中失败是允许的（比如 remove 先跑完时 accept 已不是 pending）
		svc.AcceptRequest(request.ID, b.ID)
	}()
	go func() {
		defer wg.Done()
		svc.RemoveFriend(a.ID, b.ID)
	}()
	wg.Wait()

	aHasB := reloadUser(t, db, a.ID).FriendIDs.Contains(b.ID)
	bHasA := reloadUser(t, db, b.ID).FriendIDs.Contains(a.ID)
	assert.Equal(t, aHasB, bHasA, "friend lists must stay symmetric: a→b=%v b→a=%v", aHasB, bHasA)
}
