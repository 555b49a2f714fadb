package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/iqbalbaharum/swap-executor/internal/types"
)

type ExecutionStorage struct {
	client *sql.DB
}

func NewExecutionStorage(db *sql.DB) *ExecutionStorage {
	return &ExecutionStorage{client: db}
}

const executionColumns = `id, idempotency_key, input_mint, output_mint, amount, mode, success, signature, received_amount, slot, error_kind, error, created_at`

func (s *ExecutionStorage) Set(ctx context.Context, execution *types.Execution) error {
	if execution.ID == "" {
		execution.ID = uuid.NewString()
	}

	query := `
			INSERT INTO executions (` + executionColumns + `)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`

	_, err := s.client.ExecContext(
		ctx,
		query,
		execution.ID,
		execution.IdempotencyKey,
		execution.InputMint,
		execution.OutputMint,
		execution.Amount,
		execution.Mode,
		execution.Success,
		execution.Signature,
		execution.ReceivedAmount,
		execution.Slot,
		execution.ErrorKind,
		execution.Error,
		execution.CreatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to insert execution: %w", err)
	}

	return nil
}

func (s *ExecutionStorage) Get(ctx context.Context, id string) (*types.Execution, error) {
	query := `SELECT ` + executionColumns + ` FROM executions WHERE id = ?`

	row := s.client.QueryRowContext(ctx, query, id)

	execution, err := scanExecution(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrExecutionNotFound
		}
		return nil, fmt.Errorf("%s: %w", ErrScanData, err)
	}

	return execution, nil
}

func (s *ExecutionStorage) Search(ctx context.Context, filter types.ExecutionFilter) ([]types.Execution, error) {
	var (
		conditions []string
		args       []interface{}
	)

	if filter.IdempotencyKey != "" {
		conditions = append(conditions, "idempotency_key = ?")
		args = append(args, filter.IdempotencyKey)
	}

	if filter.Signature != "" {
		conditions = append(conditions, "signature = ?")
		args = append(args, filter.Signature)
	}

	if filter.Success != nil {
		conditions = append(conditions, "success = ?")
		args = append(args, *filter.Success)
	}

	query := `SELECT ` + executionColumns + ` FROM executions`
	if len(conditions) > 0 {
		query += ` WHERE ` + strings.Join(conditions, " AND ")
	}
	query += ` ORDER BY created_at DESC LIMIT ? OFFSET ?`

	limit := filter.Limit
	if limit <= 0 {
		limit = DEFAULT_PAGE_LIMIT
	}
	if limit > MAX_PAGE_LIMIT {
		limit = MAX_PAGE_LIMIT
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}
	args = append(args, limit, offset)

	rows, err := s.client.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrExecuteQuery, err)
	}
	defer rows.Close()

	executions := []types.Execution{}
	for rows.Next() {
		execution, err := scanExecution(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", ErrScanData, err)
		}
		executions = append(executions, *execution)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrRetrieveRows, err)
	}

	return executions, nil
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanExecution(row scanner) (*types.Execution, error) {
	var execution types.Execution

	err := row.Scan(
		&execution.ID,
		&execution.IdempotencyKey,
		&execution.InputMint,
		&execution.OutputMint,
		&execution.Amount,
		&execution.Mode,
		&execution.Success,
		&execution.Signature,
		&execution.ReceivedAmount,
		&execution.Slot,
		&execution.ErrorKind,
		&execution.Error,
		&execution.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &execution, nil
}
