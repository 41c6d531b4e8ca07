package sql

import (
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"brightonhub/backend/internal/domain"
	"brightonhub/backend/internal/storage"
)

// SaveContactMessage 保存一条联系消息。
func (s *Store) SaveContactMessage(msg *domain.ContactMessage) error {
	return s.db.Save(msg).Error
}

// SaveBulkMessage 在同一事务内创建父消息与全部接收者记录。
func (s *Store) SaveBulkMessage(msg *domain.ContactMessage, recipients []*domain.BulkMessageRecipient) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(msg).Error; err != nil {
			return err
		}
		if len(recipients) == 0 {
			return nil
		}
		return tx.Create(recipients).Error
	})
}

// GetContactMessage 根据 ID 获取消息。
func (s *Store) GetContactMessage(id string) (*domain.ContactMessage, error) {
	var msg domain.ContactMessage
	err := s.db.First(&msg, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, storage.ErrMessageNotFound
	}
	if err != nil {
		return nil, err
	}
	return &msg, nil
}

// messageQuery 按过滤条件构建查询，供列表与计数复用。
func (s *Store) messageQuery(filter domain.MessageFilter) *gorm.DB {
	query := s.db.Model(&domain.ContactMessage{})
	if filter.UserID != nil {
		query = query.Where("sender_id = ? OR recipient_id = ?", *filter.UserID, *filter.UserID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.MessageType != "" {
		query = query.Where("message_type = ?", filter.MessageType)
	}
	if filter.ThreadID != "" {
		query = query.Where("thread_id = ?", filter.ThreadID)
	}
	if filter.ContentType != "" {
		query = query.Where("content_type = ?", filter.ContentType)
	}
	if filter.Priority != "" {
		query = query.Where("priority = ?", filter.Priority)
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where(
			"LOWER(subject) LIKE LOWER(?) OR LOWER(message) LIKE LOWER(?) OR LOWER(sender_name) LIKE LOWER(?)",
			pattern, pattern, pattern,
		)
	}
	return query
}

// ListContactMessages 按条件过滤消息，按创建时间倒序分页返回。
func (s *Store) ListContactMessages(filter domain.MessageFilter) ([]domain.ContactMessage, error) {
	query := s.messageQuery(filter).Order("created_at DESC, id DESC")
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	messages := make([]domain.ContactMessage, 0)
	if err := query.Find(&messages).Error; err != nil {
		return nil, err
	}
	return messages, nil
}

// CountContactMessages 统计满足条件的消息总数。
func (s *Store) CountContactMessages(filter domain.MessageFilter) (int64, error) {
	var count int64
	if err := s.messageQuery(filter).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// UpdateContactMessages 批量更新消息的状态、优先级与标签。
//
// scopeUserID 非空时仅更新该用户为发送方或接收方的行，范围外的 id 静默跳过。
func (s *Store) UpdateContactMessages(ids []string, scopeUserID *string, patch domain.MessagePatch) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	now := time.Now().UTC()
	updates := map[string]any{"updated_at": now}
	if patch.Status != nil {
		updates["status"] = *patch.Status
		if *patch.Status == domain.StatusRead {
			// 首次转为已读时记录时间；离开已读状态不清除 read_at
			updates["read_at"] = gorm.Expr("COALESCE(read_at, ?)", now)
		}
	}
	if patch.Priority != nil {
		updates["priority"] = *patch.Priority
	}
	if patch.Tags != nil {
		tags, err := marshalJSON(*patch.Tags)
		if err != nil {
			return 0, err
		}
		updates["tags"] = tags
	}

	query := s.db.Model(&domain.ContactMessage{}).Where("id IN ?", ids)
	if scopeUserID != nil {
		query = query.Where("sender_id = ? OR recipient_id = ?", *scopeUserID, *scopeUserID)
	}
	result := query.Updates(updates)
	return result.RowsAffected, result.Error
}

// AddMessageParticipants 写入线程成员，重复的 (thread_id, user_id) 忽略。
func (s *Store) AddMessageParticipants(participants []*domain.MessageParticipant) error {
	if len(participants) == 0 {
		return nil
	}
	return s.db.Clauses(clause.OnConflict{DoNothing: true}).Create(participants).Error
}

// ListMessageParticipants 列出线程的全部成员。
func (s *Store) ListMessageParticipants(threadID string) ([]domain.MessageParticipant, error) {
	participants := make([]domain.MessageParticipant, 0)
	err := s.db.Where("thread_id = ?", threadID).Order("user_id").Find(&participants).Error
	if err != nil {
		return nil, err
	}
	return participants, nil
}

// ListBulkRecipients 列出群发消息的全部接收者记录。
func (s *Store) ListBulkRecipients(messageID string) ([]domain.BulkMessageRecipient, error) {
	recipients := make([]domain.BulkMessageRecipient, 0)
	err := s.db.Where("message_id = ?", messageID).Find(&recipients).Error
	if err != nil {
		return nil, err
	}
	return recipients, nil
}

// MarkEmailSent 回写通知邮件发送成功标记。
func (s *Store) MarkEmailSent(messageID string, sentAt time.Time) error {
	result := s.db.Model(&domain.ContactMessage{}).Where("id = ?", messageID).Updates(map[string]any{
		"email_sent":    true,
		"email_sent_at": sentAt,
		"updated_at":    time.Now().UTC(),
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return storage.ErrMessageNotFound
	}
	return nil
}
