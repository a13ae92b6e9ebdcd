package scheduler

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"time"

	"sales_quotation_backend/platform/config"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
)

const (
	recalculationMaxRetry = 8
	followUpDelay         = 30 * time.Second
)

type Client struct {
	client    *asynq.Client
	inspector *asynq.Inspector
	queue     string
}

// RecalculationScheduler is what quotation-deriving services depend on.
type RecalculationScheduler interface {
	EnqueueRecalculation(ctx context.Context, quotationID int64, reason string) error
}

func NewClient(cfg config.SchedulerConfig) (*Client, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redisClientOpt(redisURL, cfg.GetRedisTLSInsecure())
	if err != nil {
		return nil, err
	}

	return &Client{
		client:    asynq.NewClient(opt),
		inspector: asynq.NewInspector(opt),
		queue:     queueName(cfg),
	}, nil
}

func (c *Client) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	if c.inspector != nil {
		_ = c.inspector.Close()
	}
	return c.client.Close()
}

// EnqueueRecalculation queues a recalculation. A recalculation still waiting to run
// for the same quotation absorbs this one. A finished or archived one is replaced,
// and a running one gets a delayed follow-up so edits made during the run are priced.
func (c *Client) EnqueueRecalculation(ctx context.Context, quotationID int64, reason string) error {
	if c == nil || c.client == nil {
		return nil
	}

	task, err := NewRecalculateQuotationTask(RecalculateQuotationPayload{QuotationID: quotationID, Reason: reason})
	if err != nil {
		return err
	}

	queued, err := c.enqueueUnder(ctx, task, RecalculationTaskID(quotationID), 0)
	if err != nil || queued {
		return err
	}
	queued, err = c.enqueueUnder(ctx, task, RecalculationFollowUpTaskID(quotationID), followUpDelay)
	if err != nil || queued {
		return err
	}

	// Both slots are running; queue an untracked follow-up.
	_, err = c.client.EnqueueContext(ctx, task,
		asynq.Queue(c.queue),
		asynq.MaxRetry(recalculationMaxRetry),
		asynq.ProcessIn(followUpDelay),
	)
	return err
}

// enqueueUnder places task under taskID. It reports false without error only when
// the task holding taskID is running.
func (c *Client) enqueueUnder(ctx context.Context, task *asynq.Task, taskID string, delay time.Duration) (bool, error) {
	opts := []asynq.Option{
		asynq.Queue(c.queue),
		asynq.TaskID(taskID),
		asynq.MaxRetry(recalculationMaxRetry),
	}
	if delay > 0 {
		opts = append(opts, asynq.ProcessIn(delay))
	}

	for attempt := 0; attempt < 2; attempt++ {
		_, err := c.client.EnqueueContext(ctx, task, opts...)
		if err == nil {
			return true, nil
		}
		if !errors.Is(err, asynq.ErrTaskIDConflict) {
			return false, err
		}

		info, err := c.inspector.GetTaskInfo(c.queue, taskID)
		if errors.Is(err, asynq.ErrTaskNotFound) {
			continue
		}
		if err != nil {
			return false, fmt.Errorf("inspect task %s: %w", taskID, err)
		}

		switch info.State {
		case asynq.TaskStatePending, asynq.TaskStateScheduled, asynq.TaskStateRetry, asynq.TaskStateAggregating:
			return true, nil
		case asynq.TaskStateActive:
			return false, nil
		default:
			if err := c.inspector.DeleteTask(c.queue, taskID); err != nil && !errors.Is(err, asynq.ErrTaskNotFound) {
				return false, fmt.Errorf("delete %s task %s: %w", info.State, taskID, err)
			}
		}
	}

	return false, fmt.Errorf("task %s still conflicts after replacing it", taskID)
}

func queueName(cfg config.SchedulerConfig) string {
	if queue := cfg.GetAsynqQueueName(); queue != "" {
		return queue
	}
	return "default"
}

func redisClientOpt(redisURL string, tlsInsecure bool) (asynq.RedisClientOpt, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return asynq.RedisClientOpt{}, err
	}

	var tlsConfig *tls.Config
	if opt.TLSConfig != nil {
		clone := opt.TLSConfig.Clone()
		if tlsInsecure {
			clone.InsecureSkipVerify = true
		}
		tlsConfig = clone
	} else if tlsInsecure {
		tlsConfig = &tls.Config{InsecureSkipVerify: true}
	}

	return asynq.RedisClientOpt{
		Addr:      opt.Addr,
		Password:  opt.Password,
		DB:        opt.DB,
		TLSConfig: tlsConfig,
	}, nil
}
