package report

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/loykin/apicheck/internal/task"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteCSV(t *testing.T) {
	results := []task.Result{
		{Environment: "dev", URL: "http://dev/a?state=s1", StatusCode: intPtr(200), Preview: `{"ok":true}`, Passed: true, Duration: 1234567 * time.Microsecond, State: strPtr("s1")},
		{Environment: "dev", URL: "http://dev/b", Preview: "line1\nline2, more", ErrorMessage: strPtr("connection refused"), Duration: 5 * time.Millisecond},
	}
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, results))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"environment_name", "url", "status_code", "response_body_preview", "passed", "error_message", "duration_secs", "state_param"}, rows[0])
	assert.Equal(t, []string{"dev", "http://dev/a?state=s1", "200", `{"ok":true}`, "true", "", "1.234567", "s1"}, rows[1])
	assert.Equal(t, []string{"dev", "http://dev/b", "", "line1\nline2, more", "false", "connection refused", "0.005000", ""}, rows[2])
}

func TestWriteCSV_HeaderOnly(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, nil))
	assert.Equal(t, "environment_name,url,status_code,response_body_preview,passed,error_message,duration_secs,state_param\n", buf.String())
}

func TestWriteCSVFile(t *testing.T) {
	p := filepath.Join(t.TempDir(), "report.csv")
	require.NoError(t, WriteCSVFile(p, []task.Result{{Environment: "dev", URL: "http://dev", Passed: true}}))
	data, err := os.ReadFile(p)
	require.NoError(t, err)
	assert.Contains(t, string(data), "dev,http://dev,,,true,,0.000000,\n")

	err = WriteCSVFile(filepath.Join(t.TempDir(), "missing", "r.csv"), nil)
	require.Error(t, err)
}
