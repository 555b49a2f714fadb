package db

import (
	"database/sql"
	"embed"
	"fmt"
	"path"
	"sort"
)

//go:embed migrations/*.sql
var migrations embed.FS

type Database struct {
	dbName      string
	MysqlClient *sql.DB
}

func NewDatabase(client *sql.DB, dbName string) (*Database, error) {
	if dbName == "" {
		return nil, fmt.Errorf("database name is empty")
	}

	return &Database{
		dbName:      dbName,
		MysqlClient: client,
	}, nil
}

func (d *Database) CreateDatabaseAndTable() error {
	createDatabase := "CREATE DATABASE IF NOT EXISTS `" + d.dbName + "`"

	_, err := d.MysqlClient.Exec(createDatabase)
	if err != nil {
		return fmt.Errorf("failed to create db %s: %w", d.dbName, err)
	}

	useDatabase := "USE `" + d.dbName + "`"

	_, err = d.MysqlClient.Exec(useDatabase)
	if err != nil {
		return fmt.Errorf("failed to use db %s: %w", d.dbName, err)
	}

	entries, err := migrations.ReadDir("migrations")
	if err != nil {
		return err
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	sort.Strings(names)

	for _, name := range names {
		c, err := migrations.ReadFile(path.Join("migrations", name))
		if err != nil {
			return err
		}

		if _, err = d.MysqlClient.Exec(string(c)); err != nil {
			return fmt.Errorf("failed to apply migration %s: %w", name, err)
		}
	}

	return nil
}
