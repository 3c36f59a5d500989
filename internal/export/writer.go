// Package export writes admin datasets and statistics to CSV, JSON lines or
// Parquet files, locally or in cloud object storage.
package export

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"

	"github.com/chrisdamba/foodadmin/internal/cloudwriter"
	"github.com/chrisdamba/foodadmin/internal/models"
)

// Writer persists one dataset per call.
type Writer interface {
	WriteRows(dataset Dataset, rows []Row) error
	// WriteSummary writes a statistics document as indented JSON.
	WriteSummary(name string, v any) error
	Close() error
}

// Target opens named output objects. Names use forward slashes.
type Target interface {
	Create(name string) (io.WriteCloser, error)
	// Location describes where a name ends up, for logs.
	Location(name string) string
}

// LocalTarget writes under a directory.
type LocalTarget struct {
	Dir string
}

func (t LocalTarget) Create(name string) (io.WriteCloser, error) {
	full := filepath.Join(t.Dir, filepath.FromSlash(name))
	if err := os.MkdirAll(filepath.Dir(full), os.ModePerm); err != nil {
		return nil, err
	}
	return os.Create(full)
}

func (t LocalTarget) Location(name string) string {
	return filepath.Join(t.Dir, filepath.FromSlash(name))
}

// CloudTarget writes objects to a bucket through a cloud writer factory.
type CloudTarget struct {
	Factory cloudwriter.CloudWriterFactory
	Bucket  string
	Prefix  string
}

func (t CloudTarget) Create(name string) (io.WriteCloser, error) {
	w, err := t.Factory.NewWriter(t.Bucket, path.Join(t.Prefix, name))
	if err != nil {
		return nil, fmt.Errorf("failed to create cloud writer: %w", err)
	}
	return w, nil
}

func (t CloudTarget) Location(name string) string {
	return fmt.Sprintf("%s/%s", t.Bucket, path.Join(t.Prefix, name))
}

// NewTarget picks a local or cloud target from the export settings.
func NewTarget(ctx context.Context, cfg *models.Config) (Target, error) {
	switch cfg.Export.Destination {
	case "", "local":
		return LocalTarget{Dir: cfg.Export.OutputPath}, nil
	case "cloud":
		factory, err := cloudwriter.NewFactory(ctx, cfg.CloudStorage)
		if err != nil {
			return nil, err
		}
		return CloudTarget{Factory: factory, Bucket: cfg.CloudStorage.BucketName, Prefix: cfg.Export.OutputPath}, nil
	default:
		return nil, models.Invalid("unknown export destination %q", cfg.Export.Destination)
	}
}

// NewWriter returns the writer for format over target.
func NewWriter(format string, target Target) (Writer, error) {
	switch format {
	case "csv":
		return &CSVWriter{target: target}, nil
	case "", "json":
		return &JSONWriter{target: target}, nil
	case "parquet":
		return &ParquetWriter{target: target}, nil
	default:
		return nil, models.Invalid("unsupported export format %q", format)
	}
}

// CSVWriter writes <dataset>.csv with a header line.
type CSVWriter struct {
	target Target
}

func (c *CSVWriter) WriteRows(dataset Dataset, rows []Row) error {
	f, err := c.target.Create(string(dataset) + ".csv")
	if err != nil {
		return err
	}
	csvWriter := csv.NewWriter(f)

	if len(rows) > 0 {
		if err := csvWriter.Write(rows[0].Columns()); err != nil {
			f.Close()
			return err
		}
	}
	for _, row := range rows {
		if err := csvWriter.Write(row.Values()); err != nil {
			f.Close()
			return err
		}
	}
	csvWriter.Flush()
	if err := csvWriter.Error(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func (c *CSVWriter) WriteSummary(name string, v any) error {
	return writeSummary(c.target, name, v)
}

func (c *CSVWriter) Close() error { return nil }

// JSONWriter writes <dataset>.json with one JSON object per line.
type JSONWriter struct {
	target Target
}

func (j *JSONWriter) WriteRows(dataset Dataset, rows []Row) error {
	f, err := j.target.Create(string(dataset) + ".json")
	if err != nil {
		return err
	}
	enc := json.NewEncoder(f)
	for _, row := range rows {
		if err := enc.Encode(row); err != nil {
			f.Close()
			return err
		}
	}
	return f.Close()
}

func (j *JSONWriter) WriteSummary(name string, v any) error {
	return writeSummary(j.target, name, v)
}

func (j *JSONWriter) Close() error { return nil }

func writeSummary(target Target, name string, v any) error {
	f, err := target.Create(name + ".json")
	if err != nil {
		return err
	}
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
