package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// TechnicianRepository は技術者プールの永続化ポートです
type TechnicianRepository interface {
	TechnicianReader
	TechnicianWriter
}

// TechnicianReader は技術者の読み取り操作を定義します
type TechnicianReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Technician, error)
	List(ctx context.Context) ([]*Technician, error)
}

// TechnicianWriter は技術者の書き込み操作を定義します
type TechnicianWriter interface {
	Create(ctx context.Context, technician *Technician) (*Technician, error)
	// AddJob は技術者の担当ジョブ一覧にジョブを追加します
	AddJob(ctx context.Context, technicianID, jobID uuid.UUID) error
	// RemoveJob は技術者の担当ジョブ一覧からジョブを除外します
	RemoveJob(ctx context.Context, technicianID, jobID uuid.UUID) error
}

// ToolRepository は工具プールの永続化ポートです
type ToolRepository interface {
	ToolReader
	ToolWriter
}

// ToolReader は工具の読み取り操作を定義します
type ToolReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Tool, error)
	List(ctx context.Context) ([]*Tool, error)
}

// ToolWriter は工具の書き込み操作を定義します
type ToolWriter interface {
	Create(ctx context.Context, tool *Tool) (*Tool, error)
	SetAvailability(ctx context.Context, id uuid.UUID, available bool, expectedReturnAt *time.Time) error
}

// MachineRepository は機械プールの永続化ポートです
type MachineRepository interface {
	MachineReader
	MachineWriter
}

// MachineReader は機械の読み取り操作を定義します
type MachineReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Machine, error)
	List(ctx context.Context) ([]*Machine, error)
}

// MachineWriter は機械の書き込み操作を定義します
type MachineWriter interface {
	Create(ctx context.Context, machine *Machine) (*Machine, error)
	SetAvailability(ctx context.Context, id uuid.UUID, available bool, bookedUntil *time.Time) error
}

// WorkStationRepository は作業場所プールの永続化ポートです
type WorkStationRepository interface {
	WorkStationReader
	WorkStationWriter
}

// WorkStationReader は作業場所の読み取り操作を定義します
type WorkStationReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*WorkStation, error)
	List(ctx context.Context) ([]*WorkStation, error)
}

// WorkStationWriter は作業場所の書き込み操作を定義します
type WorkStationWriter interface {
	Create(ctx context.Context, station *WorkStation) (*WorkStation, error)
	SetAvailability(ctx context.Context, id uuid.UUID, available bool) error
}
