package scheduler

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

const TaskFollowUpDigest = "leads.followups.digest"

// FollowUpDigestPayload names the day to evaluate. A zero AsOf means "now".
type FollowUpDigestPayload struct {
	AsOf time.Time `json:"asOf"`
}

func NewFollowUpDigestTask(payload FollowUpDigestPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskFollowUpDigest, data), nil
}

// ParseFollowUpDigestPayload decodes the task payload. Periodic tasks are
// registered without a payload, which decodes as a zero AsOf.
func ParseFollowUpDigestPayload(task *asynq.Task) (FollowUpDigestPayload, error) {
	var payload FollowUpDigestPayload
	if len(task.Payload()) == 0 {
		return payload, nil
	}
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return FollowUpDigestPayload{}, err
	}
	return payload, nil
}
