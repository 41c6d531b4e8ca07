package httptransport

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"brightonhub/backend/internal/auth"
	jwtpkg "brightonhub/backend/internal/auth/jwt"
	"brightonhub/backend/internal/config"
	"brightonhub/backend/internal/domain"
	"brightonhub/backend/internal/service"
	"brightonhub/backend/internal/storage/memory"
)

type testEnv struct {
	router *gin.Engine
	store  *memory.Store
	jwt    *jwtpkg.Manager
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := memory.NewStore()
	log := zap.NewNop()

	jwtManager := jwtpkg.NewManager("test-secret-key-32-characters-long!!", "brightonhub", 15*time.Minute, 7*24*time.Hour)
	catalogService := service.NewCatalogService(store, nil, log)
	messageService := service.NewMessageService(store, store, catalogService, log)
	categoryService := service.NewCategoryService(store, nil, log)
	vendorService := service.NewVendorService(store, store, log)
	authService := auth.NewService(store)

	router := NewRouter(RouterDependencies{
		Config: &config.Config{
			CORS: config.CORSConfig{AllowedOrigins: []string{"*"}},
		},
		MessageService:  messageService,
		CategoryService: categoryService,
		CatalogService:  catalogService,
		VendorService:   vendorService,
		AuthService:     authService,
		JWTManager:      jwtManager,
		Logger:          log,
	})

	return &testEnv{router: router, store: store, jwt: jwtManager}
}

// seedUser 写入用户并返回其访问令牌
func (e *testEnv) seedUser(t *testing.T, id string, role domain.UserRole) string {
	t.Helper()
	now := time.Now().UTC()
	require.NoError(t, e.store.CreateUser(&domain.User{
		ID:        id,
		Email:     id + "@example.com",
		Name:      "用户" + id,
		Role:      role,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}))

	tokens, err := e.jwt.GenerateTokenPair(id, "用户"+id, id+"@example.com", string(role))
	require.NoError(t, err)
	return tokens.AccessToken
}

func (e *testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func TestCreateMessage(t *testing.T) {
	t.Run("匿名访客提交成功", func(t *testing.T) {
		env := newTestEnv(t)

		w := env.do(t, http.MethodPost, "/v1/contact-messages", "", gin.H{
			"name":    "Ada Lovelace",
			"email":   "ada@example.com",
			"subject": "General question",
			"message": "How do I list a property?",
		})

		assert.Equal(t, http.StatusCreated, w.Code)

		var resp struct {
			Data sendMessageResponse `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.True(t, resp.Data.Success)
		assert.NotEmpty(t, resp.Data.MessageID)
		assert.NotEmpty(t, resp.Data.ThreadID)

		saved, err := env.store.GetContactMessage(resp.Data.MessageID)
		require.NoError(t, err)
		assert.Nil(t, saved.SenderID)
		assert.Equal(t, domain.StatusUnread, saved.Status)
	})

	t.Run("缺少必填字段返回400", func(t *testing.T) {
		env := newTestEnv(t)

		w := env.do(t, http.MethodPost, "/v1/contact-messages", "", gin.H{
			"name":  "Ada",
			"email": "ada@example.com",
		})

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("登录用户身份以会话为准", func(t *testing.T) {
		env := newTestEnv(t)
		token := env.seedUser(t, "u1", domain.RoleUser)

		w := env.do(t, http.MethodPost, "/v1/contact-messages", token, gin.H{
			"name":    "Impostor",
			"email":   "impostor@example.com",
			"subject": "Hello",
			"message": "Hi",
		})

		assert.Equal(t, http.StatusCreated, w.Code)

		var resp struct {
			Data sendMessageResponse `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

		saved, err := env.store.GetContactMessage(resp.Data.MessageID)
		require.NoError(t, err)
		require.NotNil(t, saved.SenderID)
		assert.Equal(t, "u1", *saved.SenderID)
		assert.Equal(t, "u1@example.com", saved.SenderEmail)
	})

	t.Run("非管理员群发返回403", func(t *testing.T) {
		env := newTestEnv(t)
		token := env.seedUser(t, "u1", domain.RoleUser)

		w := env.do(t, http.MethodPost, "/v1/contact-messages", token, gin.H{
			"name":     "User",
			"email":    "u1@example.com",
			"subject":  "Announcement",
			"message":  "Hello all",
			"audience": "all_vendors",
		})

		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("非管理员显式群发类型返回403", func(t *testing.T) {
		env := newTestEnv(t)
		token := env.seedUser(t, "u1", domain.RoleUser)

		// 不带 audience，仅声明 messageType 也不能落库
		w := env.do(t, http.MethodPost, "/v1/contact-messages", token, gin.H{
			"name":        "User",
			"email":       "u1@example.com",
			"subject":     "hello",
			"message":     "hi",
			"messageType": "bulk_message",
		})

		assert.Equal(t, http.StatusForbidden, w.Code)

		msgs, err := env.store.ListContactMessages(domain.MessageFilter{Limit: 10})
		require.NoError(t, err)
		assert.Empty(t, msgs)
	})
}

func TestListMessages(t *testing.T) {
	t.Run("未认证返回401", func(t *testing.T) {
		env := newTestEnv(t)

		w := env.do(t, http.MethodGet, "/v1/contact-messages", "", nil)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("默认按线程分组", func(t *testing.T) {
		env := newTestEnv(t)
		adminToken := env.seedUser(t, "admin1", domain.RoleAdmin)

		for _, subject := range []string{"First", "Second"} {
			w := env.do(t, http.MethodPost, "/v1/contact-messages", "", gin.H{
				"name":    "Guest",
				"email":   "guest@example.com",
				"subject": subject,
				"message": "body",
			})
			require.Equal(t, http.StatusCreated, w.Code)
		}

		w := env.do(t, http.MethodGet, "/v1/contact-messages", adminToken, nil)
		assert.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			Data struct {
				Threads []domain.ThreadSummary `json:"threads"`
				Total   int64                  `json:"total"`
				HasMore bool                   `json:"hasMore"`
			} `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Len(t, resp.Data.Threads, 2)
		assert.EqualValues(t, 2, resp.Data.Total)
		assert.False(t, resp.Data.HasMore)
	})

	t.Run("分组模式下满页返回hasMore", func(t *testing.T) {
		env := newTestEnv(t)
		adminToken := env.seedUser(t, "admin1", domain.RoleAdmin)

		for _, subject := range []string{"First", "Second"} {
			w := env.do(t, http.MethodPost, "/v1/contact-messages", "", gin.H{
				"name":    "Guest",
				"email":   "guest@example.com",
				"subject": subject,
				"message": "body",
			})
			require.Equal(t, http.StatusCreated, w.Code)
		}

		w := env.do(t, http.MethodGet, "/v1/contact-messages?limit=1", adminToken, nil)
		assert.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			Data struct {
				Threads []domain.ThreadSummary `json:"threads"`
				HasMore bool                   `json:"hasMore"`
			} `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Len(t, resp.Data.Threads, 1)
		assert.True(t, resp.Data.HasMore)
	})

	t.Run("flat模式返回平铺列表", func(t *testing.T) {
		env := newTestEnv(t)
		adminToken := env.seedUser(t, "admin1", domain.RoleAdmin)

		w := env.do(t, http.MethodPost, "/v1/contact-messages", "", gin.H{
			"name":    "Guest",
			"email":   "guest@example.com",
			"subject": "Hello",
			"message": "body",
		})
		require.Equal(t, http.StatusCreated, w.Code)

		w = env.do(t, http.MethodGet, "/v1/contact-messages?flat=true", adminToken, nil)
		assert.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			Data struct {
				Messages []domain.ContactMessage `json:"messages"`
				HasMore  bool                    `json:"hasMore"`
			} `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Len(t, resp.Data.Messages, 1)
		assert.False(t, resp.Data.HasMore)
	})
}

func TestBatchUpdateMessages(t *testing.T) {
	t.Run("标记已读", func(t *testing.T) {
		env := newTestEnv(t)
		adminToken := env.seedUser(t, "admin1", domain.RoleAdmin)

		w := env.do(t, http.MethodPost, "/v1/contact-messages", "", gin.H{
			"name":    "Guest",
			"email":   "guest@example.com",
			"subject": "Hello",
			"message": "body",
		})
		require.Equal(t, http.StatusCreated, w.Code)

		var created struct {
			Data sendMessageResponse `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

		w = env.do(t, http.MethodPatch, "/v1/contact-messages", adminToken, gin.H{
			"ids":    []string{created.Data.MessageID},
			"status": "read",
		})
		assert.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			Data struct {
				Updated int64 `json:"updated"`
			} `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.EqualValues(t, 1, resp.Data.Updated)

		saved, err := env.store.GetContactMessage(created.Data.MessageID)
		require.NoError(t, err)
		assert.Equal(t, domain.StatusRead, saved.Status)
		assert.NotNil(t, saved.ReadAt)
	})

	t.Run("空ID列表返回400", func(t *testing.T) {
		env := newTestEnv(t)
		adminToken := env.seedUser(t, "admin1", domain.RoleAdmin)

		w := env.do(t, http.MethodPatch, "/v1/contact-messages", adminToken, gin.H{
			"ids":    []string{},
			"status": "read",
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
