package notify

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"brightonhub/backend/internal/domain"
	"brightonhub/backend/internal/storage/memory"
)

type fakeSender struct {
	mu   sync.Mutex
	sent []string // 收件地址
	fail bool
	done chan struct{}
}

func (f *fakeSender) SendMessageNotification(to string, msg *domain.ContactMessage, itemCtx *domain.ItemContext) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	defer func() { f.done <- struct{}{} }()
	if f.fail {
		return errors.New("smtp unavailable")
	}
	f.sent = append(f.sent, to)
	return nil
}

func seedMessage(t *testing.T, store *memory.Store, recipientID *string) domain.ContactMessage {
	t.Helper()
	now := time.Now().UTC()
	msg := domain.ContactMessage{
		ID:          "msg-1",
		SenderName:  "Ada",
		SenderEmail: "ada@example.com",
		RecipientID: recipientID,
		Subject:     "Hello",
		Message:     "Hi there",
		ContentType: domain.ContentGeneral,
		MessageType: domain.TypeDirectMessage,
		Status:      domain.StatusUnread,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	require.NoError(t, store.SaveContactMessage(&msg))
	return msg
}

func TestDispatcher_MarksEmailSent(t *testing.T) {
	store := memory.NewStore()
	require.NoError(t, store.CreateUser(&domain.User{
		ID: "u1", Email: "recipient@example.com", Role: domain.RoleUser, IsActive: true,
	}))
	recipient := "u1"
	msg := seedMessage(t, store, &recipient)

	sender := &fakeSender{done: make(chan struct{}, 1)}
	d := NewDispatcher(DispatcherConfig{Workers: 1, QueueSize: 4, RatePerSecond: 100}, sender, store, store, nil)
	d.Start()

	d.Dispatch(msg, nil)

	select {
	case <-sender.done:
	case <-time.After(2 * time.Second):
		t.Fatal("notification not delivered")
	}
	d.Stop() // 等待回写完成

	assert.Equal(t, []string{"recipient@example.com"}, sender.sent)

	updated, err := store.GetContactMessage(msg.ID)
	require.NoError(t, err)
	assert.True(t, updated.EmailSent)
	assert.NotNil(t, updated.EmailSentAt)
}

func TestDispatcher_FailureLeavesFlagUnset(t *testing.T) {
	store := memory.NewStore()
	msg := seedMessage(t, store, nil)

	sender := &fakeSender{fail: true, done: make(chan struct{}, 1)}
	d := NewDispatcher(DispatcherConfig{Workers: 1, QueueSize: 4, RatePerSecond: 100}, sender, store, store, nil)
	d.Start()

	d.Dispatch(msg, nil)

	select {
	case <-sender.done:
	case <-time.After(2 * time.Second):
		t.Fatal("delivery attempt not observed")
	}
	d.Stop()

	updated, err := store.GetContactMessage(msg.ID)
	require.NoError(t, err)
	assert.False(t, updated.EmailSent)
	assert.Nil(t, updated.EmailSentAt)
}
