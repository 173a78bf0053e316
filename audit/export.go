package audit

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/parquet-go/parquet-go"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// Exporter writes a run's records to every configured path.  Empty paths are skipped.
type Exporter struct {
	JSONPath    string
	CSVPath     string
	ParquetPath string

	logger zerolog.Logger
}

// NewExporter writes <prefix>.json and <prefix>.csv, plus <prefix>.parquet when asked to.
func NewExporter(prefix string, withParquet bool, logger zerolog.Logger) *Exporter {
	e := &Exporter{
		JSONPath: prefix + ".json",
		CSVPath:  prefix + ".csv",
		logger:   logger.With().Str("component", "exporter").Logger(),
	}
	if withParquet {
		e.ParquetPath = prefix + ".parquet"
	}
	return e
}

// Paths lists the files Export will write.
func (e *Exporter) Paths() []string {
	paths := []string{}
	for _, p := range []string{e.JSONPath, e.CSVPath, e.ParquetPath} {
		if p != "" {
			paths = append(paths, p)
		}
	}
	return paths
}

// Export writes all formats side by side and fails if any of them does.
func (e *Exporter) Export(ctx context.Context, records []Record) error {
	grp, _ := errgroup.WithContext(ctx)

	if e.JSONPath != "" {
		grp.Go(func() error { return WriteJSON(e.JSONPath, records) })
	}
	if e.CSVPath != "" {
		grp.Go(func() error { return WriteCSV(e.CSVPath, records) })
	}
	if e.ParquetPath != "" {
		grp.Go(func() error { return WriteParquet(e.ParquetPath, records) })
	}

	if err := grp.Wait(); err != nil {
		return err
	}

	e.logger.Info().
		Int("records", len(records)).
		Strs("files", e.Paths()).
		Msg("Export complete")
	return nil
}

func WriteJSON(path string, records []Record) error {
	if records == nil {
		records = []Record{}
	}
	contents, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("audit: couldn't encode records: %w", err)
	}
	if err := ensureDir(path); err != nil {
		return err
	}
	if err := os.WriteFile(path, contents, 0600); err != nil {
		return fmt.Errorf("audit: couldn't write %s: %w", path, err)
	}
	return nil
}

func WriteCSV(path string, records []Record) error {
	if err := ensureDir(path); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0600)
	if err != nil {
		return fmt.Errorf("audit: couldn't create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(csvHeader); err != nil {
		return fmt.Errorf("audit: couldn't write %s: %w", path, err)
	}
	for _, r := range records {
		if err := w.Write(r.csvRow()); err != nil {
			return fmt.Errorf("audit: couldn't write %s: %w", path, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("audit: couldn't write %s: %w", path, err)
	}

	return f.Close()
}

func WriteParquet(path string, records []Record) error {
	if err := ensureDir(path); err != nil {
		return err
	}
	if err := parquet.WriteFile(path, records); err != nil {
		return fmt.Errorf("audit: couldn't write %s: %w", path, err)
	}
	return nil
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("audit: couldn't create directory %s: %w", dir, err)
	}
	return nil
}
