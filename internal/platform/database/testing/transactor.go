package testing

import (
	"context"

	"github.com/jinford/workshop-ops/internal/platform/database"
)

// StubTransactor はテスト用のTransactorです
// トランザクションを開始せず、与えられたAdapterをそのままfnに渡します
type StubTransactor struct {
	Adapter *database.Adapter
}

var _ database.Transactor = (*StubTransactor)(nil)

// NewStubTransactor はモックリポジトリを詰めたAdapterからStubTransactorを作成します
// Adapter.LocksがnilならNoopLockerを補います
func NewStubTransactor(adapter *database.Adapter) *StubTransactor {
	if adapter.Locks == nil {
		adapter.Locks = &NoopLocker{}
	}
	return &StubTransactor{Adapter: adapter}
}

func (t *StubTransactor) Transact(_ context.Context, fn func(*database.Adapter) error) error {
	return fn(t.Adapter)
}

// NoopLocker は何もロックしないLockerです
type NoopLocker struct {
	AcquiredIDs []int64
}

var _ database.Locker = (*NoopLocker)(nil)

func (l *NoopLocker) Acquire(_ context.Context, lockID int64) error {
	l.AcquiredIDs = append(l.AcquiredIDs, lockID)
	return nil
}
