package domain

import "sort"

// NoThreadKey 无线程消息在分组结果中的哨兵键
const NoThreadKey = "no-thread"

// ThreadSummary 读取时派生的会话线程聚合
//
// 线程不落库，由共享 thread_id 的消息在查询时聚合而成。
type ThreadSummary struct {
	ThreadID     string           `json:"threadId"`
	Messages     []ContactMessage `json:"messages"`
	MessageCount int              `json:"messageCount"`
	UnreadCount  int              `json:"unreadCount"`
	Participants []string         `json:"participants"`
	LastMessage  *ContactMessage  `json:"lastMessage"`
}

// GroupByThread 将消息按 thread_id 聚合为线程摘要
//
// 纯函数：同一输入集合多次分组产出相同的线程划分与未读计数。
// 无 thread_id 的消息归入 NoThreadKey 分组。线程按末条消息
// 时间倒序排列，参与者集合取自每条消息的发送方与接收方。
func GroupByThread(messages []ContactMessage) []ThreadSummary {
	groups := make(map[string][]ContactMessage)
	order := make([]string, 0)
	for _, msg := range messages {
		key := msg.ThreadID
		if key == "" {
			key = NoThreadKey
		}
		if _, seen := groups[key]; !seen {
			order = append(order, key)
		}
		groups[key] = append(groups[key], msg)
	}

	summaries := make([]ThreadSummary, 0, len(order))
	for _, key := range order {
		members := groups[key]

		unread := 0
		participantSet := make(map[string]struct{})
		var last *ContactMessage
		for i := range members {
			m := &members[i]
			if m.Status == StatusUnread {
				unread++
			}
			if m.SenderID != nil {
				participantSet[*m.SenderID] = struct{}{}
			}
			if m.RecipientID != nil {
				participantSet[*m.RecipientID] = struct{}{}
			}
			if last == nil || m.CreatedAt.After(last.CreatedAt) {
				last = m
			}
		}

		participants := make([]string, 0, len(participantSet))
		for id := range participantSet {
			participants = append(participants, id)
		}
		sort.Strings(participants)

		summaries = append(summaries, ThreadSummary{
			ThreadID:     key,
			Messages:     members,
			MessageCount: len(members),
			UnreadCount:  unread,
			Participants: participants,
			LastMessage:  last,
		})
	}

	// 按末条消息时间倒序；时间相同时按线程键保证稳定顺序
	sort.SliceStable(summaries, func(i, j int) bool {
		ti := summaries[i].LastMessage.CreatedAt
		tj := summaries[j].LastMessage.CreatedAt
		if ti.Equal(tj) {
			return summaries[i].ThreadID < summaries[j].ThreadID
		}
		return ti.After(tj)
	})

	return summaries
}
