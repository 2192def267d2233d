package scheduler

import (
	"context"
	"fmt"

	"lead_dashboard_backend/platform/config"
	"lead_dashboard_backend/platform/logger"

	"github.com/hibiken/asynq"
)

type Worker struct {
	server  *asynq.Server
	mux     *asynq.ServeMux
	checker *FollowUpChecker
	log     *logger.Logger
}

func NewWorker(cfg config.SchedulerConfig, checker *FollowUpChecker, log *logger.Logger) (*Worker, error) {
	opt, err := redisClientOpt(cfg)
	if err != nil {
		return nil, err
	}

	concurrency := cfg.GetAsynqConcurrency()
	if concurrency < 1 {
		concurrency = 2
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			queueName(cfg): 1,
		},
	})

	mux := asynq.NewServeMux()
	w := &Worker{
		server:  server,
		mux:     mux,
		checker: checker,
		log:     log,
	}

	mux.HandleFunc(TaskFollowUpDigest, w.handleFollowUpDigest)

	return w, nil
}

func (w *Worker) handleFollowUpDigest(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseFollowUpDigestPayload(task)
	if err != nil {
		return fmt.Errorf("%w: %v", asynq.SkipRetry, err)
	}

	_, err = w.checker.Check(ctx, payload.AsOf)
	return err
}

func (w *Worker) Run(ctx context.Context) {
	if w == nil || w.server == nil {
		return
	}

	go func() {
		<-ctx.Done()
		w.server.Shutdown()
	}()

	if err := w.server.Run(w.mux); err != nil {
		w.log.Error("scheduler worker stopped", "error", err)
	}
}
