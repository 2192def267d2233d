package scheduler

import (
	"context"
	"time"

	"lead_dashboard_backend/platform/config"
	"lead_dashboard_backend/platform/redisclient"

	"github.com/hibiken/asynq"
)

type Client struct {
	client *asynq.Client
	queue  string
}

// DigestEnqueuer enqueues a one-off follow-up digest.
type DigestEnqueuer interface {
	EnqueueFollowUpDigest(ctx context.Context, asOf time.Time) error
}

func NewClient(cfg config.SchedulerConfig) (*Client, error) {
	opt, err := redisClientOpt(cfg)
	if err != nil {
		return nil, err
	}

	return &Client{
		client: asynq.NewClient(opt),
		queue:  queueName(cfg),
	}, nil
}

func (c *Client) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}

func (c *Client) EnqueueFollowUpDigest(ctx context.Context, asOf time.Time) error {
	if c == nil || c.client == nil {
		return nil
	}

	task, err := NewFollowUpDigestTask(FollowUpDigestPayload{AsOf: asOf})
	if err != nil {
		return err
	}

	_, err = c.client.EnqueueContext(ctx, task, asynq.Queue(c.queue))
	return err
}

func redisClientOpt(cfg config.RedisConfig) (asynq.RedisClientOpt, error) {
	opt, err := redisclient.Options(cfg)
	if err != nil {
		return asynq.RedisClientOpt{}, err
	}

	return asynq.RedisClientOpt{
		Addr:      opt.Addr,
		Username:  opt.Username,
		Password:  opt.Password,
		DB:        opt.DB,
		TLSConfig: opt.TLSConfig,
	}, nil
}

func queueName(cfg config.SchedulerConfig) string {
	if queue := cfg.GetAsynqQueueName(); queue != "" {
		return queue
	}
	return "default"
}

var _ DigestEnqueuer = (*Client)(nil)
