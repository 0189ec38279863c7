// Package exporter writes enhanced catalogs to export files: CSV with a
// UTF-8 BOM for spreadsheet compatibility, and XLSX workbooks.
package exporter

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/xuri/excelize/v2"
	"golang.org/x/sync/errgroup"

	"catalogcli/internal/catalog"
	"catalogcli/internal/config"
	"catalogcli/internal/infrastructure"
)

// utf8BOM helps Excel recognize UTF-8 encoded CSV files
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ExportFile describes one generated export
type ExportFile struct {
	Filename string          `json:"filename"`
	Path     string          `json:"-"`
	Size     int64           `json:"size"`
	Dialect  catalog.Dialect `json:"dialect"`
}

// Writer renders records into export files under the output directory
type Writer struct {
	paths   config.PathsConfig
	logger  *slog.Logger
	metrics *infrastructure.Metrics
	now     func() time.Time
}

// NewWriter creates an export writer. metrics may be nil in tests.
func NewWriter(paths config.PathsConfig, logger *slog.Logger, metrics *infrastructure.Metrics) *Writer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Writer{paths: paths, logger: logger, metrics: metrics, now: time.Now}
}

// WriteCSV serializes records in the given dialect and writes them as a
// BOM-prefixed CSV file. The filename carries the dialect and a
// timestamp, matching what the download endpoint advertises.
func (w *Writer) WriteCSV(records []catalog.Record, dialect catalog.Dialect) (*ExportFile, error) {
	content, err := catalog.Serialize(records, dialect)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize %s export: %w", dialect, err)
	}

	filename := w.exportName(dialect, "csv")
	path := w.paths.OutputPath(filename)

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	payload := append(append([]byte{}, utf8BOM...), content...)
	if err := os.WriteFile(path, payload, 0644); err != nil {
		return nil, fmt.Errorf("failed to write export file: %w", err)
	}

	w.logger.Info("export written",
		slog.String("filename", filename),
		slog.String("dialect", string(dialect)),
		slog.Int("records", len(records)),
	)
	if w.metrics != nil {
		w.metrics.ExportsGenerated.WithLabelValues(string(dialect)).Inc()
	}

	return &ExportFile{
		Filename: filename,
		Path:     path,
		Size:     int64(len(payload)),
		Dialect:  dialect,
	}, nil
}

// WriteWorkbook writes records as an XLSX workbook in the given dialect
func (w *Writer) WriteWorkbook(records []catalog.Record, dialect catalog.Dialect) (*ExportFile, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	columns := dialect.Columns()

	header := make([]interface{}, len(columns))
	for i, col := range columns {
		header[i] = col
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return nil, fmt.Errorf("failed to write header row: %w", err)
	}

	for i, cells := range catalog.Rows(records, dialect) {
		row := make([]interface{}, len(cells))
		for j, cell := range cells {
			row[j] = cell
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, fmt.Errorf("failed to compute cell name: %w", err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return nil, fmt.Errorf("failed to write row %d: %w", i+1, err)
		}
	}

	filename := w.exportName(dialect, "xlsx")
	path := w.paths.OutputPath(filename)

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := f.SaveAs(path); err != nil {
		return nil, fmt.Errorf("failed to save workbook: %w", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat workbook: %w", err)
	}

	if w.metrics != nil {
		w.metrics.ExportsGenerated.WithLabelValues(string(dialect)).Inc()
	}

	return &ExportFile{
		Filename: filename,
		Path:     path,
		Size:     info.Size(),
		Dialect:  dialect,
	}, nil
}

// WriteAll writes both dialects concurrently and returns the files in
// dialect order: woocommerce first, enhanced second.
func (w *Writer) WriteAll(records []catalog.Record) ([]*ExportFile, error) {
	files := make([]*ExportFile, 2)

	var g errgroup.Group
	g.Go(func() error {
		file, err := w.WriteCSV(records, catalog.DialectWooCommerce)
		files[0] = file
		return err
	})
	g.Go(func() error {
		file, err := w.WriteCSV(records, catalog.DialectEnhanced)
		files[1] = file
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return files, nil
}

// exportName builds the timestamped export filename
func (w *Writer) exportName(dialect catalog.Dialect, ext string) string {
	return fmt.Sprintf("%s_products_%s.%s", dialect, w.now().Format("20060102_150405"), ext)
}
