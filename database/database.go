package database

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	_ "github.com/lib/pq"           // Postgres driver
	_ "github.com/mattn/go-sqlite3" // Import the SQLite3 driver
)

// Dialect captures the few SQL differences between the supported drivers.
type Dialect struct {
	Name string
	// ForUpdate is appended to row reads inside a vote transaction.
	ForUpdate string
	// Numbered placeholders ($1, $2, ...) instead of '?'.
	Numbered bool
	// AutoID is the surrogate key column definition.
	AutoID string
}

var (
	SQLite = Dialect{
		Name:   "sqlite3",
		AutoID: "INTEGER PRIMARY KEY AUTOINCREMENT",
	}
	Postgres = Dialect{
		Name:      "postgres",
		ForUpdate: " FOR UPDATE",
		Numbered:  true,
		AutoID:    "BIGSERIAL PRIMARY KEY",
	}
)

// Rebind rewrites '?' placeholders for dialects that use numbered ones.
func (d Dialect) Rebind(query string) string {
	if !d.Numbered {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteString("$")
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Open opens the ledger database for the given driver. For sqlite the dsn is a file path;
// the directory is created and the connection is configured so that write transactions
// take the database lock up front.
func Open(driver, dsn string) (*sql.DB, Dialect, error) {
	switch driver {
	case "", SQLite.Name:
		db, err := InitDB(dsn)
		return db, SQLite, err
	case Postgres.Name, "postgresql":
		db, err := sql.Open("postgres", dsn)
		if err != nil {
			return nil, Postgres, fmt.Errorf("failed to open database: %w", err)
		}
		if err = db.Ping(); err != nil {
			db.Close()
			return nil, Postgres, fmt.Errorf("failed to connect to database: %w", err)
		}
		log.Println("Successfully connected to the postgres ledger database")
		return db, Postgres, nil
	default:
		return nil, Dialect{}, fmt.Errorf("unsupported database driver %q", driver)
	}
}

// InitDB initializes the sqlite database connection. It takes the database path as input.
func InitDB(dbPath string) (*sql.DB, error) {
	// Ensure the directory for the database file exists.
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	// _txlock=immediate makes BeginTx issue BEGIN IMMEDIATE, which serializes vote
	// read-modify-write cycles.
	dsn := fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL&_txlock=immediate", dbPath)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Ping the database to verify the connection.
	if err = db.Ping(); err != nil {
		db.Close() // Close the connection if ping fails
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	log.Println("Successfully connected to the database at", dbPath)
	return db, nil
}
