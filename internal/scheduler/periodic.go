package scheduler

import (
	"fmt"

	"lead_dashboard_backend/platform/config"
	"lead_dashboard_backend/platform/logger"

	"github.com/hibiken/asynq"
)

// NewPeriodicScheduler returns an asynq scheduler that enqueues the
// follow-up digest on the configured cron schedule.
func NewPeriodicScheduler(cfg config.SchedulerConfig, log *logger.Logger) (*asynq.Scheduler, error) {
	opt, err := redisClientOpt(cfg)
	if err != nil {
		return nil, err
	}

	scheduler := asynq.NewScheduler(opt, &asynq.SchedulerOpts{
		PostEnqueueFunc: func(info *asynq.TaskInfo, err error) {
			if err != nil {
				log.Error("failed to enqueue follow-up digest", "error", err)
				return
			}
			log.Info("follow-up digest enqueued", "taskId", info.ID, "queue", info.Queue)
		},
	})

	task := asynq.NewTask(TaskFollowUpDigest, nil)
	entryID, err := scheduler.Register(cfg.GetFollowUpDigestCron(), task, asynq.Queue(queueName(cfg)))
	if err != nil {
		return nil, fmt.Errorf("register follow-up digest %q: %w", cfg.GetFollowUpDigestCron(), err)
	}
	log.Info("follow-up digest registered", "cron", cfg.GetFollowUpDigestCron(), "entryId", entryID)
	return scheduler, nil
}
