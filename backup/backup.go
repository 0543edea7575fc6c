package backup

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"burrito-rater-api/storage"

	"gorm.io/gorm"
)

// Trigger tags a backup artifact with how it was started.
type Trigger string

const (
	TriggerManual    Trigger = "manual"
	TriggerScheduled Trigger = "scheduled"
)

// ErrNoTables is returned when the store has no user tables to dump.
var ErrNoTables = errors.New("no tables found to backup")

// Result is the JSON shape handed back to backup callers.
type Result struct {
	Success    bool   `json:"success"`
	Message    string `json:"message"`
	Filename   string `json:"filename,omitempty"`
	Timestamp  string `json:"timestamp,omitempty"`
	TableCount int    `json:"tableCount,omitempty"`
	Error      string `json:"error,omitempty"`
}

// Service dumps every user table to a single SQL blob and writes it to
// object storage under a timestamped key.
type Service struct {
	DB     *gorm.DB
	Store  storage.ObjectStore
	Bucket string
}

func NewService(db *gorm.DB, store storage.ObjectStore, bucket string) *Service {
	return &Service{DB: db, Store: store, Bucket: bucket}
}

// Run performs one backup and never returns an error: failures come back as
// an unsuccessful Result so HTTP callers always get a response body.
// Scheduled callers check Success and escalate themselves (see RunScheduled).
func (s *Service) Run(ctx context.Context, trigger Trigger) *Result {
	// ISO-8601 with ':' and '.' replaced so the key is storage-safe. The
	// timestamp also makes overlapping runs produce distinct artifacts.
	now := time.Now().UTC().Format("2006-01-02T15:04:05.000Z")
	timestamp := strings.NewReplacer(":", "-", ".", "-").Replace(now)
	filename := fmt.Sprintf("backup-%s.sql", timestamp)

	log.Printf("starting backup: %s", filename)

	dump, tableCount, err := s.buildDump()
	if err != nil {
		log.Printf("backup failed: %v", err)
		return &Result{Success: false, Message: "Backup failed", Error: err.Error()}
	}

	err = s.Store.Put(ctx, s.Bucket, filename, []byte(dump), storage.PutOptions{
		ContentType: "application/sql",
		Metadata: map[string]string{
			"timestamp":  timestamp,
			"tableCount": strconv.Itoa(tableCount),
			"backupType": string(trigger),
		},
	})
	if err != nil {
		log.Printf("backup upload failed: %v", err)
		return &Result{Success: false, Message: "Backup failed", Error: err.Error()}
	}

	log.Printf("backup completed successfully: %s (%d tables)", filename, tableCount)
	return &Result{
		Success:    true,
		Message:    "Backup completed successfully",
		Filename:   filename,
		Timestamp:  timestamp,
		TableCount: tableCount,
	}
}

// RunScheduled propagates failure instead of swallowing it, so the host
// scheduler's retry machinery engages. Do not add a local retry loop here;
// retries belong to the scheduler.
func (s *Service) RunScheduled(ctx context.Context) error {
	result := s.Run(ctx, TriggerScheduled)
	if !result.Success {
		return fmt.Errorf("scheduled backup failed: %s", result.Error)
	}
	return nil
}

// buildDump serializes schema plus data for every user table. A failure on
// table N abandons the whole dump; no partial artifact is ever written.
func (s *Service) buildDump() (string, int, error) {
	var tables []string
	err := s.DB.Raw(
		"SELECT name FROM sqlite_master WHERE type='table' AND name NOT LIKE 'sqlite_%'",
	).Scan(&tables).Error
	if err != nil {
		return "", 0, err
	}
	if len(tables) == 0 {
		return "", 0, ErrNoTables
	}

	var dump strings.Builder
	for _, table := range tables {
		var ddl string
		err := s.DB.Raw(
			"SELECT sql FROM sqlite_master WHERE type='table' AND name=?", table,
		).Scan(&ddl).Error
		if err != nil {
			return "", 0, err
		}
		if ddl != "" {
			dump.WriteString(ddl)
			dump.WriteString(";\n\n")
		}

		if err := s.dumpTableRows(&dump, table); err != nil {
			return "", 0, err
		}
		dump.WriteString("\n")
	}

	return dump.String(), len(tables), nil
}

func (s *Service) dumpTableRows(dump *strings.Builder, table string) error {
	rows, err := s.DB.Raw("SELECT * FROM " + quoteIdent(table)).Rows()
	if err != nil {
		return err
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return err
	}

	values := make([]any, len(columns))
	scanTargets := make([]any, len(columns))
	for i := range values {
		scanTargets[i] = &values[i]
	}

	for rows.Next() {
		if err := rows.Scan(scanTargets...); err != nil {
			return err
		}
		literals := make([]string, len(values))
		for i, v := range values {
			literals[i] = sqlLiteral(v)
		}
		fmt.Fprintf(dump, "INSERT INTO %s (%s) VALUES (%s);\n",
			table, strings.Join(columns, ", "), strings.Join(literals, ", "))
	}
	return rows.Err()
}

// sqlLiteral renders one scanned value as a SQL literal: NULL for nulls,
// single-quote-doubled strings, numerics passed through.
func sqlLiteral(v any) string {
	switch value := v.(type) {
	case nil:
		return "NULL"
	case string:
		return "'" + strings.ReplaceAll(value, "'", "''") + "'"
	case []byte:
		return "'" + strings.ReplaceAll(string(value), "'", "''") + "'"
	case bool:
		if value {
			return "1"
		}
		return "0"
	case time.Time:
		return "'" + value.UTC().Format(time.RFC3339Nano) + "'"
	default:
		return fmt.Sprintf("%v", value)
	}
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
