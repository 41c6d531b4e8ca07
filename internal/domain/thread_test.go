package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func buildMessages() []ContactMessage {
	base := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	return []ContactMessage{
		{
			ID:          "m1",
			ThreadID:    "t1",
			SenderID:    strPtr("alice"),
			RecipientID: strPtr("bob"),
			Status:      StatusRead,
			CreatedAt:   base,
		},
		{
			ID:          "m2",
			ThreadID:    "t1",
			SenderID:    strPtr("bob"),
			RecipientID: strPtr("alice"),
			Status:      StatusUnread,
			CreatedAt:   base.Add(2 * time.Hour),
		},
		{
			ID:          "m3",
			ThreadID:    "t2",
			SenderID:    strPtr("carol"),
			RecipientID: strPtr("alice"),
			Status:      StatusUnread,
			CreatedAt:   base.Add(1 * time.Hour),
		},
		{
			ID:        "m4",
			ThreadID:  "", // 无线程消息
			Status:    StatusUnread,
			CreatedAt: base.Add(30 * time.Minute),
		},
	}
}

func TestGroupByThread(t *testing.T) {
	t.Run("按线程聚合并统计未读", func(t *testing.T) {
		groups := GroupByThread(buildMessages())
		require.Len(t, groups, 3)

		// 按末条消息时间倒序：t1(12:00) > t2(11:00) > no-thread(10:30)
		assert.Equal(t, "t1", groups[0].ThreadID)
		assert.Equal(t, "t2", groups[1].ThreadID)
		assert.Equal(t, NoThreadKey, groups[2].ThreadID)

		t1 := groups[0]
		assert.Equal(t, 2, t1.MessageCount)
		assert.Equal(t, 1, t1.UnreadCount)
		assert.Equal(t, []string{"alice", "bob"}, t1.Participants)
		require.NotNil(t, t1.LastMessage)
		assert.Equal(t, "m2", t1.LastMessage.ID)
	})

	t.Run("匿名消息不产生参与者", func(t *testing.T) {
		groups := GroupByThread(buildMessages())
		noThread := groups[2]
		assert.Empty(t, noThread.Participants)
		assert.Equal(t, 1, noThread.MessageCount)
	})

	t.Run("分组是幂等的", func(t *testing.T) {
		msgs := buildMessages()
		first := GroupByThread(msgs)
		second := GroupByThread(msgs)

		require.Equal(t, len(first), len(second))
		for i := range first {
			assert.Equal(t, first[i].ThreadID, second[i].ThreadID)
			assert.Equal(t, first[i].UnreadCount, second[i].UnreadCount)
			assert.Equal(t, first[i].MessageCount, second[i].MessageCount)
			assert.Equal(t, first[i].Participants, second[i].Participants)
		}
	})

	t.Run("空输入返回空结果", func(t *testing.T) {
		assert.Empty(t, GroupByThread(nil))
	})
}
