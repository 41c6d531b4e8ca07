package notify

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"brightonhub/backend/internal/domain"
	"brightonhub/backend/internal/monitoring"
	"brightonhub/backend/internal/pool"
	"brightonhub/backend/internal/storage"
)

// Sender 发送单封通知邮件的抽象，便于测试替换。
type Sender interface {
	SendMessageNotification(to string, msg *domain.ContactMessage, itemCtx *domain.ItemContext) error
}

// Dispatcher 异步投递消息通知邮件。
//
// 投递即发即忘：失败只记日志与指标，不影响消息创建；
// 发送成功后回写 email_sent 标记。
type Dispatcher struct {
	sender   Sender
	msgRepo  storage.MessageRepository
	userRepo storage.UserRepository
	workers  *pool.WorkerPool
	limiter  *rate.Limiter
	metrics  *monitoring.Metrics
	log      *zap.Logger
	ctx      context.Context
	cancel   context.CancelFunc
}

// DispatcherConfig 投递器配置
type DispatcherConfig struct {
	Workers   int
	QueueSize int
	// RatePerSecond 对上游 SMTP 的发送速率上限
	RatePerSecond float64
	Burst         int
}

// NewDispatcher 创建通知投递器。
func NewDispatcher(cfg DispatcherConfig, sender Sender, msgRepo storage.MessageRepository, userRepo storage.UserRepository, log *zap.Logger) *Dispatcher {
	if log == nil {
		log = zap.NewNop()
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 4
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 256
	}
	if cfg.RatePerSecond <= 0 {
		cfg.RatePerSecond = 5
	}
	if cfg.Burst <= 0 {
		cfg.Burst = 10
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Dispatcher{
		sender:   sender,
		msgRepo:  msgRepo,
		userRepo: userRepo,
		workers:  pool.NewWorkerPool(cfg.Workers, cfg.QueueSize, log),
		limiter:  rate.NewLimiter(rate.Limit(cfg.RatePerSecond), cfg.Burst),
		log:      log,
		ctx:      ctx,
		cancel:   cancel,
	}
}

// SetMetrics 设置监控指标。
func (d *Dispatcher) SetMetrics(m *monitoring.Metrics) {
	d.metrics = m
}

// Start 启动后台工作协程。
func (d *Dispatcher) Start() {
	d.workers.Start(d.ctx)
}

// Stop 停止投递并等待在途任务完成。
func (d *Dispatcher) Stop() {
	d.cancel()
	d.workers.Stop()
}

// Dispatch 将通知任务提交到队列，队列已满时丢弃并告警。
func (d *Dispatcher) Dispatch(msg domain.ContactMessage, itemCtx *domain.ItemContext) {
	ok := d.workers.TrySubmit(func() {
		d.deliver(msg, itemCtx)
	})
	if !ok {
		d.log.Warn("notification queue full, dropping",
			zap.String("message_id", msg.ID),
		)
		if d.metrics != nil {
			d.metrics.RecordEmailFailed()
		}
	}
}

// deliver 解析接收地址并发送，成功后回写发送标记。
func (d *Dispatcher) deliver(msg domain.ContactMessage, itemCtx *domain.ItemContext) {
	if err := d.limiter.Wait(d.ctx); err != nil {
		return // 已停止
	}

	to := d.resolveRecipient(&msg)

	if err := d.sender.SendMessageNotification(to, &msg, itemCtx); err != nil {
		d.log.Warn("notification email failed",
			zap.String("message_id", msg.ID),
			zap.Error(err),
		)
		if d.metrics != nil {
			d.metrics.RecordEmailFailed()
		}
		return
	}

	if err := d.msgRepo.MarkEmailSent(msg.ID, time.Now().UTC()); err != nil {
		d.log.Warn("mark email sent failed",
			zap.String("message_id", msg.ID),
			zap.Error(err),
		)
	}
	if d.metrics != nil {
		d.metrics.RecordEmailSent()
	}
}

// resolveRecipient 取接收者的注册邮箱，无站内接收者时返回空交由兜底地址。
func (d *Dispatcher) resolveRecipient(msg *domain.ContactMessage) string {
	if msg.RecipientID == nil {
		return ""
	}
	user, err := d.userRepo.GetUserByID(*msg.RecipientID)
	if err != nil {
		d.log.Warn("recipient lookup failed",
			zap.String("recipient_id", *msg.RecipientID),
			zap.Error(err),
		)
		return ""
	}
	return user.Email
}
