// Package scheduler provides the Redis-backed task queue (asynq) used for
// delayed follow-up emails and the daily outreach batch.
package scheduler

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const TaskLeadFollowUp = "leads.followup"

const TaskDailyOutreach = "outreach.daily"

type LeadFollowUpPayload struct {
	LeadID string `json:"leadId"`
}

type DailyOutreachPayload struct {
	RequestedBy string `json:"requestedBy,omitempty"`
}

func NewLeadFollowUpTask(payload LeadFollowUpPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskLeadFollowUp, data), nil
}

func ParseLeadFollowUpPayload(task *asynq.Task) (LeadFollowUpPayload, error) {
	var payload LeadFollowUpPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return LeadFollowUpPayload{}, err
	}
	return payload, nil
}

func NewDailyOutreachTask(payload DailyOutreachPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskDailyOutreach, data), nil
}

func ParseDailyOutreachPayload(task *asynq.Task) (DailyOutreachPayload, error) {
	var payload DailyOutreachPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return DailyOutreachPayload{}, err
	}
	return payload, nil
}
