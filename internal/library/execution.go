package bot

import (
	"context"
	"sync"
	"time"

	"github.com/iqbalbaharum/swap-executor/internal/adapter"
	"github.com/iqbalbaharum/swap-executor/internal/storage"
	"github.com/iqbalbaharum/swap-executor/internal/types"
)

var (
	dbMutex     sync.Mutex
	storageOnce sync.Once
)

// ExecutionHistory records swap invocations in MySQL.
type ExecutionHistory struct{}

func executions() (*storage.ExecutionStorage, error) {
	if storage.Execution != nil {
		return storage.Execution, nil
	}

	db, err := adapter.GetMySQLClient()
	if err != nil {
		return nil, err
	}

	storageOnce.Do(func() {
		storage.Init(db)
	})

	return storage.Execution, nil
}

func (ExecutionHistory) Record(ctx context.Context, execution *types.Execution) error {
	store, err := executions()
	if err != nil {
		return err
	}

	dbMutex.Lock()
	defer dbMutex.Unlock()

	if execution.CreatedAt.IsZero() {
		execution.CreatedAt = time.Now().UTC()
	}

	return store.Set(ctx, execution)
}

func (ExecutionHistory) Search(ctx context.Context, filter types.ExecutionFilter) ([]types.Execution, error) {
	store, err := executions()
	if err != nil {
		return nil, err
	}

	return store.Search(ctx, filter)
}
