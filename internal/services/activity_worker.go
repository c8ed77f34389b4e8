package services

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/hibiken/asynq"
	"github.com/seoforge/backend/internal/config"
	"github.com/seoforge/backend/pkg/logger"
)

// ActivityWorker drains the Redis activity queue into the database.
type ActivityWorker struct {
	server  *asynq.Server
	mux     *asynq.ServeMux
	store   func(*ActivityTask) error
	wg      sync.WaitGroup
	running bool
	mu      sync.Mutex
}

func NewActivityWorker(cfg *config.RedisConfig, store func(*ActivityTask) error) *ActivityWorker {
	if !cfg.Enabled {
		return nil
	}

	redisOpt := asynq.RedisClientOpt{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	}

	server := asynq.NewServer(
		redisOpt,
		asynq.Config{
			Concurrency: 4,
			Queues: map[string]int{
				"default": 1,
			},
			ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
				logger.Warnf("[ActivityWorker] error processing task %s: %v", task.Type(), err)
			}),
		},
	)

	return &ActivityWorker{
		server: server,
		mux:    asynq.NewServeMux(),
		store:  store,
	}
}

// Start begins draining the queue.
func (w *ActivityWorker) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.running {
		return nil
	}

	w.mux.HandleFunc(TaskTypeActivity, w.handleActivityTask)

	w.running = true
	w.wg.Add(1)

	go func() {
		defer w.wg.Done()
		logger.Infof("[ActivityWorker] starting...")
		if err := w.server.Run(w.mux); err != nil {
			logger.Errorf("[ActivityWorker] server error: %v", err)
		}
	}()

	return nil
}

// Stop gracefully shuts down the worker.
func (w *ActivityWorker) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.running {
		return
	}

	w.server.Shutdown()
	w.running = false
	w.wg.Wait()
	logger.Infof("[ActivityWorker] shutdown complete")
}

func (w *ActivityWorker) handleActivityTask(ctx context.Context, t *asynq.Task) error {
	var task ActivityTask
	if err := json.Unmarshal(t.Payload(), &task); err != nil {
		logger.Warnf("[ActivityWorker] failed to unmarshal task: %v", err)
		return err
	}
	return w.store(&task)
}
