package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"brightonhub/backend/internal/domain"
	"brightonhub/backend/internal/storage/memory"
)

type fakeNotifier struct {
	dispatched []domain.ContactMessage
	contexts   []*domain.ItemContext
}

func (f *fakeNotifier) Dispatch(msg domain.ContactMessage, itemCtx *domain.ItemContext) {
	f.dispatched = append(f.dispatched, msg)
	f.contexts = append(f.contexts, itemCtx)
}

func newMessageService(store *memory.Store) *MessageService {
	catalog := NewCatalogService(store, nil, nil)
	return NewMessageService(store, store, catalog, nil)
}

func adminUser() *domain.AuthUser {
	return &domain.AuthUser{ID: "admin-1", Name: "Admin", Email: "admin@brightonhub.local", Role: domain.RoleAdmin}
}

func regularUser(id, name, email string) *domain.AuthUser {
	return &domain.AuthUser{ID: id, Name: name, Email: email, Role: domain.RoleUser}
}

func TestMessageService_Send_Anonymous(t *testing.T) {
	store := memory.NewStore()
	svc := newMessageService(store)
	notifier := &fakeNotifier{}
	svc.SetNotifier(notifier)

	result, err := svc.Send(nil, SendMessageInput{
		Name:    "Ada",
		Email:   "ada@example.com",
		Subject: "Contact Form: pricing question",
		Message: "How much is delivery?",
	})
	require.NoError(t, err)

	msg := result.Message
	assert.Nil(t, msg.SenderID)
	assert.Equal(t, "Ada", msg.SenderName)
	assert.Equal(t, domain.TypeContactForm, msg.MessageType)
	assert.Equal(t, domain.StatusUnread, msg.Status)
	assert.Equal(t, domain.PriorityNormal, msg.Priority)
	assert.NotEmpty(t, msg.ThreadID)

	// 落库校验
	saved, err := store.GetContactMessage(msg.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ContentGeneral, saved.ContentType)

	// 通知投递被触发
	require.Len(t, notifier.dispatched, 1)
	assert.Equal(t, msg.ID, notifier.dispatched[0].ID)
}

func TestMessageService_Send_Validation(t *testing.T) {
	store := memory.NewStore()
	svc := newMessageService(store)

	cases := []struct {
		name  string
		input SendMessageInput
		want  error
	}{
		{"缺少主题", SendMessageInput{Name: "A", Email: "a@b.com", Message: "hi"}, ErrMissingFields},
		{"缺少正文", SendMessageInput{Name: "A", Email: "a@b.com", Subject: "hi"}, ErrMissingFields},
		{"邮箱非法", SendMessageInput{Name: "A", Email: "not an email", Subject: "s", Message: "m"}, ErrInvalidSenderEmail},
		{"实体类型非法", SendMessageInput{Name: "A", Email: "a@b.com", Subject: "s", Message: "m", ContentType: "bogus"}, ErrInvalidContentType},
		{"优先级非法", SendMessageInput{Name: "A", Email: "a@b.com", Subject: "s", Message: "m", Priority: "urgent"}, ErrInvalidPriority},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Send(nil, tc.input)
			assert.ErrorIs(t, err, tc.want)
		})
	}

	// 校验失败不落库
	count, err := store.CountContactMessages(domain.MessageFilter{})
	require.NoError(t, err)
	assert.EqualValues(t, 0, count)
}

func TestMessageService_Send_AuthIdentityOverride(t *testing.T) {
	store := memory.NewStore()
	svc := newMessageService(store)

	caller := regularUser("user-1", "Real Name", "real@example.com")
	result, err := svc.Send(caller, SendMessageInput{
		Name:        "Spoofed",
		Email:       "spoofed@example.com",
		Subject:     "Hello",
		Message:     "Direct note",
		RecipientID: strPtr("user-2"),
	})
	require.NoError(t, err)

	msg := result.Message
	require.NotNil(t, msg.SenderID)
	assert.Equal(t, "user-1", *msg.SenderID)
	assert.Equal(t, "Real Name", msg.SenderName)
	assert.Equal(t, "real@example.com", msg.SenderEmail)
	assert.Equal(t, domain.TypeDirectMessage, msg.MessageType)

	// 双方都成为线程成员
	parts, err := store.ListMessageParticipants(msg.ThreadID)
	require.NoError(t, err)
	assert.Len(t, parts, 2)
}

func TestMessageService_Send_ProductInquiry(t *testing.T) {
	store := memory.NewStore()
	catalog := NewCatalogService(store, nil, nil)
	svc := NewMessageService(store, store, catalog, nil)

	property, err := catalog.CreateProperty(CreatePropertyInput{
		Title:    "Marina flat",
		Price:    250000,
		Location: "Brighton Marina",
		Images:   []string{"https://cdn.example.com/1.jpg"},
	})
	require.NoError(t, err)

	result, err := svc.Send(nil, SendMessageInput{
		Name:        "Buyer",
		Email:       "buyer@example.com",
		Subject:     "Is this available?",
		Message:     "I would like a viewing.",
		ContentType: domain.ContentProperty,
		ContentID:   &property.ID,
	})
	require.NoError(t, err)

	assert.Equal(t, domain.TypeProductInquiry, result.Message.MessageType)
	require.NotNil(t, result.ItemContext)
	assert.Equal(t, "Marina flat", result.ItemContext.Title)
	assert.Equal(t, "Brighton Marina", result.ItemContext.Location)
	require.NotNil(t, result.ItemContext.Price)
	assert.EqualValues(t, 250000, *result.ItemContext.Price)
}

func TestMessageService_Send_ItemContextDegrades(t *testing.T) {
	store := memory.NewStore()
	svc := newMessageService(store)

	// 关联条目不存在时不阻断消息创建
	missing := "missing-id"
	result, err := svc.Send(nil, SendMessageInput{
		Name:        "Buyer",
		Email:       "buyer@example.com",
		Subject:     "Question",
		Message:     "Still there?",
		ContentType: domain.ContentProperty,
		ContentID:   &missing,
	})
	require.NoError(t, err)
	assert.Nil(t, result.ItemContext)
	assert.Equal(t, domain.TypeProductInquiry, result.Message.MessageType)
}

func TestMessageService_SendBulk(t *testing.T) {
	store := memory.NewStore()
	svc := newMessageService(store)

	require.NoError(t, store.CreateUser(&domain.User{ID: "v1", Email: "v1@example.com", Role: domain.RoleVendor, IsActive: true}))
	require.NoError(t, store.CreateUser(&domain.User{ID: "v2", Email: "v2@example.com", Role: domain.RoleVendor, IsActive: true}))
	require.NoError(t, store.CreateUser(&domain.User{ID: "v3", Email: "v3@example.com", Role: domain.RoleVendor, IsActive: false}))

	t.Run("非管理员被拒绝", func(t *testing.T) {
		_, err := svc.Send(regularUser("user-1", "U", "u@example.com"), SendMessageInput{
			Name: "U", Email: "u@example.com", Subject: "s", Message: "m",
			Audience: domain.AudienceAllVendors,
		})
		assert.ErrorIs(t, err, ErrBulkForbidden)

		count, err := store.CountContactMessages(domain.MessageFilter{})
		require.NoError(t, err)
		assert.EqualValues(t, 0, count)
	})

	t.Run("显式群发类型同样要求管理员", func(t *testing.T) {
		// 不带受众、仅覆盖 messageType 也不能绕过校验
		_, err := svc.Send(regularUser("user-1", "U", "u@example.com"), SendMessageInput{
			Name: "U", Email: "u@example.com", Subject: "hello", Message: "hi",
			MessageType: domain.TypeBulkMessage,
		})
		assert.ErrorIs(t, err, ErrBulkForbidden)

		_, err = svc.Send(nil, SendMessageInput{
			Name: "Anon", Email: "anon@example.com", Subject: "hello", Message: "hi",
			MessageType: domain.TypeBulkMessage,
		})
		assert.ErrorIs(t, err, ErrBulkForbidden)

		count, err := store.CountContactMessages(domain.MessageFilter{})
		require.NoError(t, err)
		assert.EqualValues(t, 0, count)
	})

	t.Run("管理员群发全部活跃供应商", func(t *testing.T) {
		result, err := svc.Send(adminUser(), SendMessageInput{
			Name: "Admin", Email: "admin@brightonhub.local",
			Subject: "Platform update", Message: "New terms from July.",
			Audience: domain.AudienceAllVendors,
		})
		require.NoError(t, err)

		assert.Equal(t, domain.TypeBulkMessage, result.Message.MessageType)
		assert.Nil(t, result.Message.RecipientID)
		assert.NotEmpty(t, result.Message.ThreadID)
		assert.Equal(t, 2, result.Recipients) // 停用的供应商被排除

		rows, err := store.ListBulkRecipients(result.Message.ID)
		require.NoError(t, err)
		assert.Len(t, rows, 2)
		for _, r := range rows {
			assert.Equal(t, domain.StatusUnread, r.Status)
			assert.Equal(t, domain.AudienceAllVendors, r.RecipientType)
		}
	})

	t.Run("仅显式目标时受众标签为 broadcast", func(t *testing.T) {
		result, err := svc.Send(adminUser(), SendMessageInput{
			Name: "Admin", Email: "admin@brightonhub.local",
			Subject: "Direct notice", Message: "Please review your listing.",
			RecipientIDs: []string{"v1"},
		})
		require.NoError(t, err)
		assert.Equal(t, 1, result.Recipients)

		rows, err := store.ListBulkRecipients(result.Message.ID)
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, domain.AudienceBroadcast, rows[0].RecipientType)
	})

	t.Run("受众为空时拒绝", func(t *testing.T) {
		_, err := svc.Send(adminUser(), SendMessageInput{
			Name: "Admin", Email: "admin@brightonhub.local",
			Subject: "s", Message: "m",
			Audience: "nobody",
		})
		assert.ErrorIs(t, err, ErrNoRecipients)
	})

	t.Run("群发类型但无目标时拒绝", func(t *testing.T) {
		_, err := svc.Send(adminUser(), SendMessageInput{
			Name: "Admin", Email: "admin@brightonhub.local",
			Subject: "s", Message: "m",
			MessageType: domain.TypeBulkMessage,
		})
		assert.ErrorIs(t, err, ErrNoRecipients)
	})
}

func TestMessageService_ListScoping(t *testing.T) {
	store := memory.NewStore()
	svc := newMessageService(store)

	alice := regularUser("alice", "Alice", "alice@example.com")
	bob := regularUser("bob", "Bob", "bob@example.com")

	_, err := svc.Send(alice, SendMessageInput{
		Name: "Alice", Email: "alice@example.com",
		Subject: "To Bob", Message: "hi", RecipientID: strPtr("bob"),
	})
	require.NoError(t, err)
	_, err = svc.Send(bob, SendMessageInput{
		Name: "Bob", Email: "bob@example.com",
		Subject: "To Carol", Message: "hi", RecipientID: strPtr("carol"),
	})
	require.NoError(t, err)

	t.Run("普通用户仅见自己参与的消息", func(t *testing.T) {
		msgs, total, err := svc.List(alice, domain.MessageFilter{Limit: 50})
		require.NoError(t, err)
		assert.EqualValues(t, 1, total)
		require.Len(t, msgs, 1)
		assert.Equal(t, "To Bob", msgs[0].Subject)
	})

	t.Run("管理员看到全部", func(t *testing.T) {
		_, total, err := svc.List(adminUser(), domain.MessageFilter{Limit: 50})
		require.NoError(t, err)
		assert.EqualValues(t, 2, total)
	})

	t.Run("线程分组", func(t *testing.T) {
		threads, _, err := svc.ListThreads(bob, domain.MessageFilter{Limit: 50})
		require.NoError(t, err)
		assert.Len(t, threads, 2) // bob 参与两个线程
	})
}

func TestMessageService_GetAccess(t *testing.T) {
	store := memory.NewStore()
	svc := newMessageService(store)

	alice := regularUser("alice", "Alice", "alice@example.com")
	result, err := svc.Send(alice, SendMessageInput{
		Name: "Alice", Email: "alice@example.com",
		Subject: "Private", Message: "secret", RecipientID: strPtr("bob"),
	})
	require.NoError(t, err)

	_, err = svc.Get(regularUser("mallory", "M", "m@example.com"), result.Message.ID)
	assert.ErrorIs(t, err, ErrMessageAccess)

	got, err := svc.Get(regularUser("bob", "Bob", "bob@example.com"), result.Message.ID)
	require.NoError(t, err)
	assert.Equal(t, "Private", got.Subject)
}

func TestMessageService_BatchUpdate(t *testing.T) {
	store := memory.NewStore()
	svc := newMessageService(store)

	alice := regularUser("alice", "Alice", "alice@example.com")
	mine, err := svc.Send(alice, SendMessageInput{
		Name: "Alice", Email: "alice@example.com",
		Subject: "Mine", Message: "m", RecipientID: strPtr("bob"),
	})
	require.NoError(t, err)
	others, err := svc.Send(regularUser("carol", "Carol", "carol@example.com"), SendMessageInput{
		Name: "Carol", Email: "carol@example.com",
		Subject: "Not mine", Message: "m", RecipientID: strPtr("dave"),
	})
	require.NoError(t, err)

	read := domain.StatusRead
	updated, err := svc.BatchUpdate(alice, []string{mine.Message.ID, others.Message.ID}, domain.MessagePatch{Status: &read})
	require.NoError(t, err)
	assert.EqualValues(t, 1, updated)

	t.Run("空 id 列表被拒绝", func(t *testing.T) {
		_, err := svc.BatchUpdate(alice, nil, domain.MessagePatch{Status: &read})
		assert.ErrorIs(t, err, ErrNoMessageIDs)
	})

	t.Run("非法状态被拒绝", func(t *testing.T) {
		bad := domain.MessageStatus("archived")
		_, err := svc.BatchUpdate(alice, []string{mine.Message.ID}, domain.MessagePatch{Status: &bad})
		assert.ErrorIs(t, err, ErrInvalidStatus)
	})
}

func strPtr(s string) *string { return &s }
