package scheduler

import (
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
)

const TaskRecalculateQuotation = "quotations.recalculate"

// Reasons a recalculation is requested.
const (
	ReasonDuplicated = "duplicated"
	ReasonAddendum   = "addendum"
	ReasonRecontract = "recontract"
	ReasonEdited     = "edited"
	ReasonBackfill   = "backfill"
)

type RecalculateQuotationPayload struct {
	QuotationID int64  `json:"quotationId"`
	Reason      string `json:"reason"`
}

// RecalculationTaskID de-duplicates pending recalculations of one quotation.
func RecalculationTaskID(quotationID int64) string {
	return fmt.Sprintf("quotation-recalc:%d", quotationID)
}

// RecalculationFollowUpTaskID holds the recalculation queued behind a running one.
func RecalculationFollowUpTaskID(quotationID int64) string {
	return fmt.Sprintf("quotation-recalc:%d:followup", quotationID)
}

func NewRecalculateQuotationTask(payload RecalculateQuotationPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskRecalculateQuotation, data), nil
}

func ParseRecalculateQuotationPayload(task *asynq.Task) (RecalculateQuotationPayload, error) {
	var payload RecalculateQuotationPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return RecalculateQuotationPayload{}, err
	}
	return payload, nil
}
