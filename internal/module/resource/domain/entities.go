package domain

import (
	"time"

	"github.com/google/uuid"
)

// Technician は技術者リソースを表します
type Technician struct {
	ID                uuid.UUID   `json:"id"`
	Name              string      `json:"name"`
	Role              string      `json:"role"`
	Phone             *string     `json:"phone,omitempty"`
	MaxConcurrentJobs int         `json:"maxConcurrentJobs"`
	OnLeave           bool        `json:"onLeave"`
	CurrentJobs       []uuid.UUID `json:"currentJobs"`
	CreatedAt         time.Time   `json:"createdAt"`
	UpdatedAt         time.Time   `json:"updatedAt"`
}

// Available は現在の稼働状況から受け入れ可能かどうかを算出します
func (t *Technician) Available() bool {
	return !t.OnLeave && len(t.CurrentJobs) < t.MaxConcurrentJobs
}

// AssignedTo は指定ジョブに割り当て済みかどうかを返します
func (t *Technician) AssignedTo(jobID uuid.UUID) bool {
	for _, id := range t.CurrentJobs {
		if id == jobID {
			return true
		}
	}
	return false
}

// Tool は工具リソースを表します
type Tool struct {
	ID               uuid.UUID  `json:"id"`
	Name             string     `json:"name"`
	Category         string     `json:"category"`
	Available        bool       `json:"available"`
	ExpectedReturnAt *time.Time `json:"expectedReturnAt,omitempty"`
	CreatedAt        time.Time  `json:"createdAt"`
	UpdatedAt        time.Time  `json:"updatedAt"`
}

// Machine は機械リソースを表します
type Machine struct {
	ID          uuid.UUID  `json:"id"`
	Name        string     `json:"name"`
	Model       string     `json:"model"`
	Operational bool       `json:"operational"`
	Available   bool       `json:"available"`
	BookedUntil *time.Time `json:"bookedUntil,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// Bookable は予約可能かどうかを返します（稼働可能かつ未予約）
func (m *Machine) Bookable() bool {
	return m.Operational && m.Available
}

// WorkStation は作業場所リソースを表します
type WorkStation struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Available bool      `json:"available"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
