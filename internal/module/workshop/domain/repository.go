package domain

import (
	"context"

	"github.com/google/uuid"
)

// JobFilter はジョブ一覧取得時のフィルターです
type JobFilter struct {
	Search        string
	Status        *JobStatus
	Priority      string
	CustomerID    *uuid.UUID
	CustomerPhone string
	Page          int
	Limit         int
}

// JobRepository はジョブ集約の永続化ポートです
type JobRepository interface {
	JobReader
	JobWriter
}

// JobReader はジョブの読み取り操作を定義します
type JobReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Job, error)
	// List はフィルターに一致するジョブと総件数を返します
	List(ctx context.Context, filter JobFilter) ([]*Job, int, error)
}

// JobWriter はジョブの書き込み操作を定義します
// Updateは集約全体を1行として保存します（ドキュメント単位の原子的更新）
type JobWriter interface {
	Create(ctx context.Context, job *Job) (*Job, error)
	Update(ctx context.Context, job *Job) (*Job, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
