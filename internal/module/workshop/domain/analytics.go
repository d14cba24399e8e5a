package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// JobAnalytics はジョブの派生メトリクスです
type JobAnalytics struct {
	JobID               string          `json:"jobID"`
	Status              JobStatus       `json:"status"`
	Progress            int             `json:"progress"`
	TaskTotal           int             `json:"taskTotal"`
	TaskCompleted       int             `json:"taskCompleted"`
	TaskCompletionRatio float64         `json:"taskCompletionRatio"`
	EstimatedMinutes    int             `json:"estimatedMinutes"`
	ActualMinutes       int             `json:"actualMinutes"`
	PartsCost           decimal.Decimal `json:"partsCost"`
	TechnicianCount     int             `json:"technicianCount"`
	ToolCount           int             `json:"toolCount"`
	MachineCount        int             `json:"machineCount"`
	ElapsedHours        float64         `json:"elapsedHours"`
}

// ComputeAnalytics はジョブから派生メトリクスを算出します
func ComputeAnalytics(job *Job, now time.Time) *JobAnalytics {
	a := &JobAnalytics{
		JobID:           job.ID.String(),
		Status:          job.Status,
		Progress:        job.Progress,
		TaskTotal:       len(job.Tasks),
		TaskCompleted:   job.CompletedTaskCount(),
		TechnicianCount: len(job.Technicians),
		ToolCount:       len(job.Tools),
		MachineCount:    len(job.Machines),
		PartsCost:       decimal.Zero,
	}

	if a.TaskTotal > 0 {
		a.TaskCompletionRatio = float64(a.TaskCompleted) / float64(a.TaskTotal)
	}

	for _, t := range job.Tasks {
		a.EstimatedMinutes += t.EstimatedMinutes
		if t.ActualMinutes != nil {
			a.ActualMinutes += *t.ActualMinutes
		}
	}

	for _, p := range job.Parts {
		qty := p.QuantityRequired
		if p.QuantityUsed > 0 {
			qty = p.QuantityUsed
		}
		a.PartsCost = a.PartsCost.Add(p.UnitCost.Mul(decimal.NewFromInt(int64(qty))))
	}

	end := now
	if job.Completion != nil {
		end = job.Completion.CompletedAt
	}
	a.ElapsedHours = end.Sub(job.CreatedAt).Hours()

	return a
}
