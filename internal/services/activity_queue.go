package services

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
	"github.com/seoforge/backend/internal/config"
	"github.com/seoforge/backend/pkg/logger"
)

const TaskTypeActivity = "activity:record"

// ActivityTask is the payload carried through the activity side channel.
type ActivityTask struct {
	ProjectID    uint      `json:"project_id"`
	UserID       uint      `json:"user_id"`
	Action       string    `json:"action"`
	ResourceType string    `json:"resource_type"`
	ResourceID   *uint     `json:"resource_id,omitempty"`
	Metadata     string    `json:"metadata,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// ActivityQueue is the best-effort side channel for audit entries. Enqueue
// errors are the caller's to swallow: audit completeness never blocks the
// primary action.
type ActivityQueue interface {
	Enqueue(task *ActivityTask) error
	IsAsync() bool
	Close() error
}

// InitActivityQueue returns a Redis-backed async queue when Redis is enabled
// and reachable, otherwise a local queue writing through the given store
// function.
func InitActivityQueue(cfg *config.RedisConfig, store func(*ActivityTask) error) ActivityQueue {
	if cfg.Enabled {
		queue, err := NewAsyncActivityQueue(cfg)
		if err != nil {
			logger.Warnf("[Activity] Redis unavailable, falling back to local recorder: %v", err)
		} else {
			logger.Infof("[Activity] Async recorder initialized with Redis at %s", cfg.Addr)
			return queue
		}
	}
	return NewLocalActivityQueue(store)
}

// AsyncActivityQueue enqueues activity tasks onto Redis via asynq; a Worker
// drains them into the activity_logs table.
type AsyncActivityQueue struct {
	client *asynq.Client
}

func NewAsyncActivityQueue(cfg *config.RedisConfig) (*AsyncActivityQueue, error) {
	redisOpt := asynq.RedisClientOpt{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	}

	client := asynq.NewClient(redisOpt)

	// Verify the connection up front so callers can fall back.
	inspector := asynq.NewInspector(redisOpt)
	defer inspector.Close()
	if _, err := inspector.Queues(); err != nil {
		client.Close()
		return nil, err
	}

	return &AsyncActivityQueue{client: client}, nil
}

func (q *AsyncActivityQueue) Enqueue(task *ActivityTask) error {
	payload, err := json.Marshal(task)
	if err != nil {
		return err
	}

	t := asynq.NewTask(TaskTypeActivity, payload)
	_, err = q.client.Enqueue(t,
		asynq.Queue("default"),
		asynq.MaxRetry(3),
	)
	return err
}

func (q *AsyncActivityQueue) IsAsync() bool { return true }

func (q *AsyncActivityQueue) Close() error { return q.client.Close() }

// LocalActivityQueue writes entries through the store function in the calling
// goroutine. The write is a single insert, so inline processing keeps the
// recorded order deterministic without Redis.
type LocalActivityQueue struct {
	store func(*ActivityTask) error
}

func NewLocalActivityQueue(store func(*ActivityTask) error) *LocalActivityQueue {
	return &LocalActivityQueue{store: store}
}

func (q *LocalActivityQueue) Enqueue(task *ActivityTask) error {
	if q.store == nil {
		logger.Warnf("[Activity] no store configured, entry dropped")
		return nil
	}
	return q.store(task)
}

func (q *LocalActivityQueue) IsAsync() bool { return false }

func (q *LocalActivityQueue) Close() error { return nil }
