package store

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/samanvaya/samanvaya/pkg/db/models"
	"github.com/samanvaya/samanvaya/pkg/errs"
	"github.com/samanvaya/samanvaya/pkg/policy"
)

// ChangeLogFilter narrows ListChangeLog. Zero fields match everything.
type ChangeLogFilter struct {
	UserID    *uint
	Tablename string
	Action    models.ChangeAction
}

// ExportFormat selects the encoding of ExportChangeLog.
type ExportFormat string

const (
	FormatJSON ExportFormat = "json"
	FormatCSV  ExportFormat = "csv"
	FormatTSV  ExportFormat = "tsv"
)

// ParseExportFormat accepts json, csv or tsv in any case.
func ParseExportFormat(value string) (ExportFormat, error) {
	switch format := ExportFormat(strings.ToLower(strings.TrimSpace(value))); format {
	case FormatJSON, FormatCSV, FormatTSV:
		return format, nil
	case "":
		return FormatJSON, nil
	}
	return "", errs.Invalid("format", "unsupported export format '%s'", value)
}

// ContentType returns the media type of an export in format.
func (f ExportFormat) ContentType() string {
	switch f {
	case FormatCSV:
		return "text/csv"
	case FormatTSV:
		return "text/tab-separated-values"
	}
	return "application/json"
}

// ListChangeLog returns matching entries, newest first.
func (s *SQLiteStore) ListChangeLog(ctx context.Context, actor policy.Identity, filter ChangeLogFilter) ([]models.ChangeLog, error) {
	if err := policy.Authorize(actor, policy.ClassChangeLog, policy.Read); err != nil {
		return nil, err
	}

	query := s.db.WithContext(ctx).Model(&models.ChangeLog{})
	if filter.UserID != nil {
		query = query.Where("user_id = ?", *filter.UserID)
	}
	if filter.Tablename != "" {
		query = query.Where("tablename = ?", filter.Tablename)
	}
	if filter.Action != "" {
		query = query.Where("action = ?", filter.Action)
	}

	entries := []models.ChangeLog{}
	if err := query.Order("id DESC").Find(&entries).Error; err != nil {
		return nil, s.fail("list change log", err)
	}
	return entries, nil
}

var changeLogHeader = []string{"id", "user_id", "tablename", "action", "detail", "timestamp"}

// ExportChangeLog writes the whole change log to w.
func (s *SQLiteStore) ExportChangeLog(ctx context.Context, actor policy.Identity, format ExportFormat, w io.Writer) error {
	entries, err := s.ListChangeLog(ctx, actor, ChangeLogFilter{})
	if err != nil {
		return err
	}

	switch format {
	case FormatJSON:
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(entries)
	case FormatCSV, FormatTSV:
		return writeChangeLogTable(w, format, entries)
	}
	return errs.Invalid("format", "unsupported export format '%s'", format)
}

func writeChangeLogTable(w io.Writer, format ExportFormat, entries []models.ChangeLog) error {
	writer := csv.NewWriter(w)
	if format == FormatTSV {
		writer.Comma = '\t'
	}

	if err := writer.Write(changeLogHeader); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, entry := range entries {
		record := []string{
			strconv.FormatUint(uint64(entry.ID), 10),
			strconv.FormatUint(uint64(entry.UserID), 10),
			entry.Tablename,
			string(entry.Action),
			entry.Detail,
			entry.Timestamp.UTC().Format(time.RFC3339),
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write entry %d: %w", entry.ID, err)
		}
	}

	writer.Flush()
	return writer.Error()
}
