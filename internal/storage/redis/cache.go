package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"brightonhub/backend/internal/domain"
)

// Cache Redis 缓存实现
type Cache struct {
	client *redis.Client
	ctx    context.Context
}

// NewCache 创建 Redis 缓存实例
func NewCache(addr, password string, db int) (*Cache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
		PoolSize: 10,
	})

	ctx := context.Background()

	// 测试连接
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &Cache{
		client: client,
		ctx:    ctx,
	}, nil
}

// ========== 目录条目上下文缓存 ==========

// CacheItemContext 缓存消息关联的目录条目摘要
func (c *Cache) CacheItemContext(itemCtx *domain.ItemContext, ttl time.Duration) error {
	key := fmt.Sprintf("item_context:%s:%s", itemCtx.Type, itemCtx.ID)
	data, err := json.Marshal(itemCtx)
	if err != nil {
		return err
	}
	return c.client.Set(c.ctx, key, data, ttl).Err()
}

// GetCachedItemContext 获取缓存的目录条目摘要
func (c *Cache) GetCachedItemContext(contentType domain.ContentType, contentID string) (*domain.ItemContext, error) {
	key := fmt.Sprintf("item_context:%s:%s", contentType, contentID)
	data, err := c.client.Get(c.ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, fmt.Errorf("item context not found in cache")
		}
		return nil, err
	}

	var itemCtx domain.ItemContext
	if err := json.Unmarshal([]byte(data), &itemCtx); err != nil {
		return nil, err
	}

	return &itemCtx, nil
}

// DeleteCachedItemContext 删除缓存的目录条目摘要
func (c *Cache) DeleteCachedItemContext(contentType domain.ContentType, contentID string) error {
	key := fmt.Sprintf("item_context:%s:%s", contentType, contentID)
	return c.client.Del(c.ctx, key).Err()
}

// ========== 分类缓存 ==========

// CacheCategoryList 缓存板块的分类列表
func (c *Cache) CacheCategoryList(categoryType domain.CategoryType, categories []domain.Category, ttl time.Duration) error {
	key := fmt.Sprintf("categories:%s", categoryType)
	data, err := json.Marshal(categories)
	if err != nil {
		return err
	}
	return c.client.Set(c.ctx, key, data, ttl).Err()
}

// GetCachedCategoryList 获取缓存的分类列表
func (c *Cache) GetCachedCategoryList(categoryType domain.CategoryType) ([]domain.Category, error) {
	key := fmt.Sprintf("categories:%s", categoryType)
	data, err := c.client.Get(c.ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, fmt.Errorf("category list not found in cache")
		}
		return nil, err
	}

	var categories []domain.Category
	if err := json.Unmarshal([]byte(data), &categories); err != nil {
		return nil, err
	}

	return categories, nil
}

// DeleteCachedCategoryList 分类变更后失效对应板块的列表缓存
func (c *Cache) DeleteCachedCategoryList(categoryType domain.CategoryType) error {
	key := fmt.Sprintf("categories:%s", categoryType)
	return c.client.Del(c.ctx, key).Err()
}

// ========== 未读计数缓存 ==========

// CacheUnreadCount 缓存用户未读消息数
func (c *Cache) CacheUnreadCount(userID string, count int64, ttl time.Duration) error {
	key := fmt.Sprintf("unread:%s", userID)
	return c.client.Set(c.ctx, key, count, ttl).Err()
}

// GetCachedUnreadCount 获取缓存的未读消息数，未命中返回 -1
func (c *Cache) GetCachedUnreadCount(userID string) (int64, error) {
	key := fmt.Sprintf("unread:%s", userID)
	count, err := c.client.Get(c.ctx, key).Int64()
	if err != nil {
		if err == redis.Nil {
			return -1, nil
		}
		return -1, err
	}
	return count, nil
}

// DeleteCachedUnreadCount 消息状态变更后失效未读计数
func (c *Cache) DeleteCachedUnreadCount(userID string) error {
	key := fmt.Sprintf("unread:%s", userID)
	return c.client.Del(c.ctx, key).Err()
}

// ========== 限流缓存 ==========

// IncrementRateLimit 增加限流计数
func (c *Cache) IncrementRateLimit(key string, window time.Duration) (int64, error) {
	pipe := c.client.Pipeline()

	// 增加计数
	incr := pipe.Incr(c.ctx, key)

	// 设置过期时间（如果是新键）
	pipe.Expire(c.ctx, key, window)

	_, err := pipe.Exec(c.ctx)
	if err != nil {
		return 0, err
	}

	return incr.Val(), nil
}

// GetRateLimit 获取限流计数
func (c *Cache) GetRateLimit(key string) (int64, error) {
	count, err := c.client.Get(c.ctx, key).Int64()
	if err != nil {
		if err == redis.Nil {
			return 0, nil
		}
		return 0, err
	}
	return count, nil
}

// ========== JWT 黑名单 ==========

// AddToBlacklist 将 JWT 添加到黑名单
func (c *Cache) AddToBlacklist(jti string, ttl time.Duration) error {
	key := fmt.Sprintf("blacklist:%s", jti)
	return c.client.Set(c.ctx, key, "1", ttl).Err()
}

// IsBlacklisted 检查 JWT 是否在黑名单中
func (c *Cache) IsBlacklisted(jti string) (bool, error) {
	key := fmt.Sprintf("blacklist:%s", jti)
	_, err := c.client.Get(c.ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// ========== 发布订阅 ==========

// PublishNewMessage 发布新消息通知，接收方的 WebSocket 连接据此推送
func (c *Cache) PublishNewMessage(recipientID string, message *domain.ContactMessage) error {
	channel := fmt.Sprintf("new_message:%s", recipientID)
	data, err := json.Marshal(message)
	if err != nil {
		return err
	}
	return c.client.Publish(c.ctx, channel, data).Err()
}

// SubscribeNewMessage 订阅某用户的新消息通知
func (c *Cache) SubscribeNewMessage(recipientID string) *redis.PubSub {
	channel := fmt.Sprintf("new_message:%s", recipientID)
	return c.client.Subscribe(c.ctx, channel)
}

// ========== 工具方法 ==========

// SetTTL 设置键的过期时间
func (c *Cache) SetTTL(key string, ttl time.Duration) error {
	return c.client.Expire(c.ctx, key, ttl).Err()
}

// Delete 删除键
func (c *Cache) Delete(key string) error {
	return c.client.Del(c.ctx, key).Err()
}

// Exists 检查键是否存在
func (c *Cache) Exists(key string) (bool, error) {
	count, err := c.client.Exists(c.ctx, key).Result()
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Close 关闭 Redis 连接
func (c *Cache) Close() error {
	return c.client.Close()
}
