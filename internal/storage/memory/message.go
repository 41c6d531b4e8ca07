package memory

import (
	"sort"
	"strings"
	"time"

	"brightonhub/backend/internal/domain"
	"brightonhub/backend/internal/storage"
)

// SaveContactMessage 保存一条联系消息。
func (s *Store) SaveContactMessage(msg *domain.ContactMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	copied := *msg
	if _, exists := s.messages[msg.ID]; !exists {
		s.messageOrder = append(s.messageOrder, msg.ID)
	}
	s.messages[msg.ID] = &copied
	return nil
}

// SaveBulkMessage 保存群发消息及其全部接收者记录。
//
// 在同一把锁内完成，保证不出现无父消息的接收者行。
func (s *Store) SaveBulkMessage(msg *domain.ContactMessage, recipients []*domain.BulkMessageRecipient) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	copied := *msg
	if _, exists := s.messages[msg.ID]; !exists {
		s.messageOrder = append(s.messageOrder, msg.ID)
	}
	s.messages[msg.ID] = &copied

	rows := make([]*domain.BulkMessageRecipient, 0, len(recipients))
	for _, r := range recipients {
		rc := *r
		rows = append(rows, &rc)
	}
	s.bulkRecipients[msg.ID] = rows
	return nil
}

// GetContactMessage 根据 ID 获取消息。
func (s *Store) GetContactMessage(id string) (*domain.ContactMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	msg, ok := s.messages[id]
	if !ok {
		return nil, storage.ErrMessageNotFound
	}
	copied := *msg
	return &copied, nil
}

// ListContactMessages 按条件过滤消息，按创建时间倒序分页返回。
func (s *Store) ListContactMessages(filter domain.MessageFilter) ([]domain.ContactMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := s.filterMessages(filter)

	// 创建时间倒序；相同时间按 ID 保证稳定顺序
	sort.SliceStable(matched, func(i, j int) bool {
		if matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].ID > matched[j].ID
		}
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	offset := filter.Offset
	if offset > len(matched) {
		offset = len(matched)
	}
	end := len(matched)
	if filter.Limit > 0 && offset+filter.Limit < end {
		end = offset + filter.Limit
	}
	return matched[offset:end], nil
}

// CountContactMessages 统计满足条件的消息总数。
func (s *Store) CountContactMessages(filter domain.MessageFilter) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.filterMessages(filter))), nil
}

// filterMessages 应用过滤条件，调用方必须持有读锁。
func (s *Store) filterMessages(filter domain.MessageFilter) []domain.ContactMessage {
	search := strings.ToLower(filter.Search)
	matched := make([]domain.ContactMessage, 0)
	for _, id := range s.messageOrder {
		msg := s.messages[id]
		if filter.UserID != nil && !msg.InvolvesUser(*filter.UserID) {
			continue
		}
		if filter.Status != "" && msg.Status != filter.Status {
			continue
		}
		if filter.MessageType != "" && msg.MessageType != filter.MessageType {
			continue
		}
		if filter.ThreadID != "" && msg.ThreadID != filter.ThreadID {
			continue
		}
		if filter.ContentType != "" && msg.ContentType != filter.ContentType {
			continue
		}
		if filter.Priority != "" && msg.Priority != filter.Priority {
			continue
		}
		if search != "" {
			if !strings.Contains(strings.ToLower(msg.Subject), search) &&
				!strings.Contains(strings.ToLower(msg.Message), search) &&
				!strings.Contains(strings.ToLower(msg.SenderName), search) {
				continue
			}
		}
		matched = append(matched, *msg)
	}
	return matched
}

// UpdateContactMessages 批量更新消息的状态、优先级与标签。
func (s *Store) UpdateContactMessages(ids []string, scopeUserID *string, patch domain.MessagePatch) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	var updated int64
	for _, id := range ids {
		msg, ok := s.messages[id]
		if !ok {
			continue
		}
		if scopeUserID != nil && !msg.InvolvesUser(*scopeUserID) {
			continue // 范围外的 id 静默跳过
		}

		if patch.Status != nil {
			// 转为已读时记录时间；离开已读状态不清除 read_at
			if *patch.Status == domain.StatusRead && msg.Status != domain.StatusRead {
				readAt := now
				msg.ReadAt = &readAt
			}
			msg.Status = *patch.Status
		}
		if patch.Priority != nil {
			msg.Priority = *patch.Priority
		}
		if patch.Tags != nil {
			msg.Tags = append([]string(nil), (*patch.Tags)...)
		}
		msg.UpdatedAt = now
		updated++
	}
	return updated, nil
}

// AddMessageParticipants 写入线程成员，重复的 (thread_id, user_id) 忽略。
func (s *Store) AddMessageParticipants(participants []*domain.MessageParticipant) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, p := range participants {
		byUser, ok := s.participants[p.ThreadID]
		if !ok {
			byUser = make(map[string]*domain.MessageParticipant)
			s.participants[p.ThreadID] = byUser
		}
		if _, exists := byUser[p.UserID]; exists {
			continue
		}
		copied := *p
		byUser[p.UserID] = &copied
	}
	return nil
}

// ListMessageParticipants 列出线程的全部成员。
func (s *Store) ListMessageParticipants(threadID string) ([]domain.MessageParticipant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	byUser := s.participants[threadID]
	out := make([]domain.MessageParticipant, 0, len(byUser))
	for _, p := range byUser {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	return out, nil
}

// ListBulkRecipients 列出群发消息的全部接收者记录。
func (s *Store) ListBulkRecipients(messageID string) ([]domain.BulkMessageRecipient, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows := s.bulkRecipients[messageID]
	out := make([]domain.BulkMessageRecipient, 0, len(rows))
	for _, r := range rows {
		out = append(out, *r)
	}
	return out, nil
}

// MarkEmailSent 回写通知邮件发送成功标记。
func (s *Store) MarkEmailSent(messageID string, sentAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	msg, ok := s.messages[messageID]
	if !ok {
		return storage.ErrMessageNotFound
	}
	msg.EmailSent = true
	msg.EmailSentAt = &sentAt
	msg.UpdatedAt = time.Now().UTC()
	return nil
}
