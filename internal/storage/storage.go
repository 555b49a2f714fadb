package storage

import "database/sql"

var (
	Execution *ExecutionStorage
)

func Init(client *sql.DB) {
	Execution = NewExecutionStorage(client)
}
