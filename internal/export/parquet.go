package export

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go/source"
	"github.com/xitongsys/parquet-go/writer"
)

// ParquetWriter writes <dataset>.parquet, one row group per call.
type ParquetWriter struct {
	target Target
}

func (p *ParquetWriter) open(name string) (source.ParquetFile, error) {
	if t, ok := p.target.(LocalTarget); ok {
		full := t.Location(name)
		if err := os.MkdirAll(filepath.Dir(full), os.ModePerm); err != nil {
			return nil, err
		}
		fw, err := local.NewLocalFileWriter(full)
		if err != nil {
			return nil, fmt.Errorf("failed to create local file writer: %w", err)
		}
		return fw, nil
	}
	w, err := p.target.Create(name)
	if err != nil {
		return nil, err
	}
	return NewCloudParquetFile(w), nil
}

func (p *ParquetWriter) WriteRows(dataset Dataset, rows []Row) error {
	tmpl, err := rowTemplate(dataset)
	if err != nil {
		return err
	}
	fw, err := p.open(string(dataset) + ".parquet")
	if err != nil {
		return err
	}

	pw, err := writer.NewParquetWriter(fw, tmpl, 4)
	if err != nil {
		fw.Close()
		return fmt.Errorf("failed to create ParquetWriter: %w", err)
	}
	for _, row := range rows {
		if err := pw.Write(row); err != nil {
			fw.Close()
			return fmt.Errorf("failed to write %s row: %w", dataset, err)
		}
	}
	if err := pw.WriteStop(); err != nil {
		fw.Close()
		return fmt.Errorf("failed to finish %s: %w", dataset, err)
	}
	return fw.Close()
}

func (p *ParquetWriter) WriteSummary(name string, v any) error {
	return writeSummary(p.target, name, v)
}

func (p *ParquetWriter) Close() error { return nil }

// CloudParquetFile adapts a write-only object stream to source.ParquetFile.
// The parquet writer only appends, so Seek just tracks the offset.
type CloudParquetFile struct {
	w      io.WriteCloser
	offset int64
}

func NewCloudParquetFile(w io.WriteCloser) *CloudParquetFile {
	return &CloudParquetFile{w: w}
}

func (c *CloudParquetFile) Open(name string) (source.ParquetFile, error) {
	return c, nil
}

func (c *CloudParquetFile) Create(name string) (source.ParquetFile, error) {
	return c, nil
}

func (c *CloudParquetFile) Seek(offset int64, whence int) (int64, error) {
	switch whence {
	case io.SeekStart:
		c.offset = offset
	case io.SeekCurrent:
		c.offset += offset
	case io.SeekEnd:
		return 0, fmt.Errorf("seek from end not supported for cloud storage")
	}
	return c.offset, nil
}

func (c *CloudParquetFile) Read(p []byte) (int, error) {
	return 0, fmt.Errorf("read not supported for cloud storage")
}

func (c *CloudParquetFile) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.offset += int64(n)
	return n, err
}

func (c *CloudParquetFile) Close() error {
	return c.w.Close()
}
