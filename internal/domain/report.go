package domain

import "time"

// Migration job status constants.
const (
	JobStatusPlanning       = "PLANNING"
	JobStatusRunning        = "RUNNING"
	JobStatusRetrying       = "RETRYING"
	JobStatusDone           = "DONE"
	JobStatusFailedPlanning = "FAILED_PLANNING"
)

// FailedRecord identifies one record that did not import, with enough
// context for a caller to re-run just the failed subset.
type FailedRecord struct {
	ExternalID     string   `json:"external_id"`
	SourceRowIndex int      `json:"source_row_index"`
	Reasons        []string `json:"reasons"`
}

// EntityReport aggregates per-record outcomes for one entity type.
type EntityReport struct {
	Success       int            `json:"success"`
	Partial       int            `json:"partial"`
	Failed        int            `json:"failed"`
	FailedRecords []FailedRecord `json:"failed_records,omitempty"`
}

// Report is the sole output surface of a migration run.
type Report struct {
	JobID      string                       `json:"job_id"`
	Status     string                       `json:"status"`
	DryRun     bool                         `json:"dry_run,omitempty"`
	StartedAt  time.Time                    `json:"started_at"`
	FinishedAt time.Time                    `json:"finished_at"`
	Entities   map[EntityType]*EntityReport `json:"entities"`
	// PlanningErrors is non-empty only when Status is FAILED_PLANNING.
	PlanningErrors []string `json:"planning_errors,omitempty"`
}

// Entity returns the report bucket for an entity type, creating it on demand.
func (r *Report) Entity(entityType EntityType) *EntityReport {
	if r.Entities == nil {
		r.Entities = make(map[EntityType]*EntityReport)
	}
	er, ok := r.Entities[entityType]
	if !ok {
		er = &EntityReport{}
		r.Entities[entityType] = er
	}
	return er
}

// TotalFailed returns the number of failed records across all entity types.
func (r *Report) TotalFailed() int {
	n := 0
	for _, er := range r.Entities {
		n += er.Failed
	}
	return n
}
