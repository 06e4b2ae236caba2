package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/loykin/apicheck/internal/task"
)

// CSVHeader is the first row of every CSV report.
var CSVHeader = []string{
	"environment_name",
	"url",
	"status_code",
	"response_body_preview",
	"passed",
	"error_message",
	"duration_secs",
	"state_param",
}

// WriteCSV writes the header and one row per result in the given order.
// Absent optional values are written as empty fields.
func WriteCSV(w io.Writer, results []task.Result) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader); err != nil {
		return err
	}
	for _, r := range results {
		if err := cw.Write(csvRow(r)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteCSVFile creates (or truncates) path and writes the report to it.
func WriteCSVFile(path string, results []task.Result) (err error) {
	// #nosec G304 -- output path is provided intentionally by the user
	f, err := os.Create(filepath.Clean(path))
	if err != nil {
		return fmt.Errorf("create csv report: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	if err := WriteCSV(f, results); err != nil {
		return fmt.Errorf("write csv report: %w", err)
	}
	return nil
}

func csvRow(r task.Result) []string {
	return []string{
		r.Environment,
		r.URL,
		optionalInt(r.StatusCode),
		r.Preview,
		strconv.FormatBool(r.Passed),
		optionalString(r.ErrorMessage),
		strconv.FormatFloat(r.Duration.Seconds(), 'f', 6, 64),
		optionalString(r.State),
	}
}

func optionalInt(p *int) string {
	if p == nil {
		return ""
	}
	return strconv.Itoa(*p)
}

func optionalString(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
