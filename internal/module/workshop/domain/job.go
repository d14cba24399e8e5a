package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// JobStatus はジョブの状態を表します
type JobStatus string

const (
	JobStatusDraft      JobStatus = "draft"
	JobStatusScheduled  JobStatus = "scheduled"
	JobStatusInProgress JobStatus = "in_progress"
	JobStatusOnHold     JobStatus = "on_hold"
	JobStatusCompleted  JobStatus = "completed"
	JobStatusCancelled  JobStatus = "cancelled"
)

// ValidJobStatus はステータス文字列として正当かどうかを判定します
func ValidJobStatus(s JobStatus) bool {
	switch s {
	case JobStatusDraft, JobStatusScheduled, JobStatusInProgress,
		JobStatusOnHold, JobStatusCompleted, JobStatusCancelled:
		return true
	}
	return false
}

// TaskStatus はタスクの状態を表します
type TaskStatus string

const (
	TaskStatusTodo       TaskStatus = "todo"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusCompleted  TaskStatus = "completed"
)

// Task はジョブ配下の作業タスクです（ジョブが排他的に所有）
type Task struct {
	ID               uuid.UUID  `json:"id"`
	Title            string     `json:"title"`
	Description      string     `json:"description,omitempty"`
	AssigneeID       *uuid.UUID `json:"assigneeID,omitempty"`
	Status           TaskStatus `json:"status"`
	EstimatedMinutes int        `json:"estimatedMinutes"`
	ActualMinutes    *int       `json:"actualMinutes,omitempty"`
	CreatedAt        time.Time  `json:"createdAt"`
	CompletedAt      *time.Time `json:"completedAt,omitempty"`
}

// Part はジョブで使用する部品です
// 数量はジョブ側の状態で、商品エンティティへの参照のみ外部に依存します
// QuantityUsed / QuantityReturned は完了時にのみ確定します
type Part struct {
	ProductID        uuid.UUID       `json:"productID"`
	Name             string          `json:"name"`
	QuantityRequired int             `json:"quantityRequired"`
	QuantityUsed     int             `json:"quantityUsed"`
	QuantityReturned int             `json:"quantityReturned"`
	UnitCost         decimal.Decimal `json:"unitCost"`
	Available        bool            `json:"available"`
}

// AssignedTechnician はジョブへの技術者割り当てです
type AssignedTechnician struct {
	TechnicianID uuid.UUID `json:"technicianID"`
	Name         string    `json:"name"`
	Role         string    `json:"role"`
	AssignedAt   time.Time `json:"assignedAt"`
}

// ReservedTool はジョブに予約された工具です
type ReservedTool struct {
	ToolID        uuid.UUID  `json:"toolID"`
	Name          string     `json:"name"`
	RequiredFrom  *time.Time `json:"requiredFrom,omitempty"`
	RequiredUntil *time.Time `json:"requiredUntil,omitempty"`
	ReservedAt    time.Time  `json:"reservedAt"`
}

// ReservedMachine はジョブに予約された機械です
type ReservedMachine struct {
	MachineID     uuid.UUID  `json:"machineID"`
	Name          string     `json:"name"`
	RequiredFrom  *time.Time `json:"requiredFrom,omitempty"`
	RequiredUntil *time.Time `json:"requiredUntil,omitempty"`
	ReservedAt    time.Time  `json:"reservedAt"`
}

// ReservedWorkStation はジョブに予約された作業場所です
type ReservedWorkStation struct {
	WorkStationID uuid.UUID `json:"workStationID"`
	Name          string    `json:"name"`
	ReservedAt    time.Time `json:"reservedAt"`
}

// ProgressEntry は進捗履歴の1エントリです（追記専用）
type ProgressEntry struct {
	Progress  int       `json:"progress"`
	Status    JobStatus `json:"status"`
	Step      string    `json:"step"`
	Message   string    `json:"message"`
	Actor     string    `json:"actor"`
	Timestamp time.Time `json:"timestamp"`
}

// Charge は完了時に計上する作業料金です
type Charge struct {
	Name           string           `json:"name"`
	Amount         decimal.Decimal  `json:"amount"`
	TaxRatePercent *decimal.Decimal `json:"taxRatePercent,omitempty"`
}

// Completion は完了詳細です。一度設定されたら変更されません
type Completion struct {
	ActualDurationMinutes int       `json:"actualDurationMinutes"`
	Charges               []Charge  `json:"charges"`
	Notes                 string    `json:"notes,omitempty"`
	CompletedBy           string    `json:"completedBy"`
	CompletedAt           time.Time `json:"completedAt"`
}

// Job は作業ジョブの集約ルートです
type Job struct {
	ID              uuid.UUID             `json:"id"`
	JobNumber       string                `json:"jobNumber"`
	CustomerID      *uuid.UUID            `json:"customerID,omitempty"`
	CustomerName    string                `json:"customerName"`
	CustomerPhone   string                `json:"customerPhone"`
	Title           string                `json:"title"`
	Description     string                `json:"description,omitempty"`
	Priority        string                `json:"priority"`
	Status          JobStatus             `json:"status"`
	Progress        int                   `json:"progress"`
	ScheduledStart  *time.Time            `json:"scheduledStart,omitempty"`
	ScheduledEnd    *time.Time            `json:"scheduledEnd,omitempty"`
	Tasks           []Task                `json:"tasks"`
	Parts           []Part                `json:"parts"`
	Technicians     []AssignedTechnician  `json:"technicians"`
	Tools           []ReservedTool        `json:"tools"`
	Machines        []ReservedMachine     `json:"machines"`
	WorkStations    []ReservedWorkStation `json:"workStations"`
	ProgressHistory []ProgressEntry       `json:"progressHistory"`
	Completion      *Completion           `json:"completion,omitempty"`
	IsActive        bool                  `json:"isActive"`
	CreatedAt       time.Time             `json:"createdAt"`
	UpdatedAt       time.Time             `json:"updatedAt"`
}

// IsTerminal は完了またはキャンセル済みかどうかを返します
func (j *Job) IsTerminal() bool {
	return j.Status == JobStatusCompleted || j.Status == JobStatusCancelled
}

// AppendProgress は進捗履歴にエントリを追記し、進捗値を更新します
// 進捗値は常に[0,100]にクランプされます
func (j *Job) AppendProgress(progress int, step, message, actor string, at time.Time) {
	j.Progress = ClampProgress(progress)
	j.ProgressHistory = append(j.ProgressHistory, ProgressEntry{
		Progress:  j.Progress,
		Status:    j.Status,
		Step:      step,
		Message:   message,
		Actor:     actor,
		Timestamp: at,
	})
}

// FindPart は商品IDで部品を検索します（見つからなければnil）
func (j *Job) FindPart(productID uuid.UUID) *Part {
	for i := range j.Parts {
		if j.Parts[i].ProductID == productID {
			return &j.Parts[i]
		}
	}
	return nil
}

// FindTask はタスクIDでタスクを検索します（見つからなければnil）
func (j *Job) FindTask(taskID uuid.UUID) *Task {
	for i := range j.Tasks {
		if j.Tasks[i].ID == taskID {
			return &j.Tasks[i]
		}
	}
	return nil
}

// HasTechnician は技術者が割り当て済みかどうかを返します
func (j *Job) HasTechnician(technicianID uuid.UUID) bool {
	for _, t := range j.Technicians {
		if t.TechnicianID == technicianID {
			return true
		}
	}
	return false
}

// CompletedTaskCount は完了済みタスク数を返します
func (j *Job) CompletedTaskCount() int {
	count := 0
	for _, t := range j.Tasks {
		if t.Status == TaskStatusCompleted {
			count++
		}
	}
	return count
}
