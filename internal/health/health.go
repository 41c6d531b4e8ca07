package health

import (
	"fmt"
	"net/http"
	"time"

	"github.com/heptiolabs/healthcheck"
	"go.uber.org/zap"

	"brightonhub/backend/internal/storage"
	"brightonhub/backend/internal/storage/redis"
)

// HealthChecker 健康检查器
type HealthChecker struct {
	health healthcheck.Handler
	store  storage.Store
	cache  *redis.Cache // 可为 nil
	logger *zap.Logger
}

// NewHealthChecker 创建健康检查器
func NewHealthChecker(store storage.Store, cache *redis.Cache, logger *zap.Logger) *HealthChecker {
	hc := &HealthChecker{
		health: healthcheck.NewHandler(),
		store:  store,
		cache:  cache,
		logger: logger,
	}

	hc.addChecks()
	return hc
}

// addChecks 注册存活检查项
func (hc *HealthChecker) addChecks() {
	hc.health.AddLivenessCheck("database", func() error {
		return hc.store.Health()
	})

	if hc.cache != nil {
		hc.health.AddLivenessCheck("redis", func() error {
			_, err := hc.cache.GetRateLimit("health_check")
			return err
		})
	}
}

// Handler 返回健康检查处理器
func (hc *HealthChecker) Handler() http.Handler {
	return hc.health
}

// CheckHealth 执行一次健康检查并返回各项结果
func (hc *HealthChecker) CheckHealth() map[string]string {
	results := make(map[string]string)

	if err := hc.store.Health(); err != nil {
		results["database"] = fmt.Sprintf("ERROR: %v", err)
	} else {
		results["database"] = "OK"
	}

	if hc.cache != nil {
		if _, err := hc.cache.GetRateLimit("health_check"); err != nil {
			results["redis"] = fmt.Sprintf("ERROR: %v", err)
		} else {
			results["redis"] = "OK"
		}
	} else {
		results["redis"] = "NOT_AVAILABLE"
	}

	results["timestamp"] = time.Now().Format(time.RFC3339)
	return results
}
