package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/jwalton/go-supportscolor"
	"github.com/loykin/apicheck/internal/common"
	"github.com/loykin/apicheck/internal/constants"
	"github.com/loykin/apicheck/internal/task"
	"github.com/loykin/apicheck/internal/util"
	"github.com/loykin/apicheck/pkg/status"
)

const (
	notAvailable = "N/A"
	noError      = "None"
)

// Console renders a result set as the passing and failing tables.
type Console struct {
	Out io.Writer
	// Color wraps PASS/FAIL in ANSI colors.
	Color bool
}

// NewConsole returns a Console writing to w. Colors are used when stdout
// supports them unless noColor is set.
func NewConsole(w io.Writer, noColor bool) *Console {
	return &Console{Out: w, Color: !noColor && supportscolor.Stdout().SupportsColor}
}

// Write prints the duration summary followed by the passing table and, when
// there are failures, the failing table.
func (c *Console) Write(rs *status.ResultSet) error {
	var b strings.Builder
	fmt.Fprintf(&b, "\nTotal Test Duration: %s\n", status.FormatDuration(rs.Elapsed))

	if pass := rs.Passing(); len(pass) > 0 {
		c.table(&b, "Passing", pass)
	} else {
		b.WriteString("\n--- No Passing Tests Detected ---\n")
	}
	if fail := rs.Failing(); len(fail) > 0 {
		c.table(&b, "Failing", fail)
	}

	_, err := io.WriteString(c.Out, b.String())
	return err
}

func (c *Console) table(b *strings.Builder, title string, results []task.Result) {
	fmt.Fprintf(b, "\n--- %s Tests Report (%d) ---\n", title, len(results))
	writeHeader(b)
	for _, r := range results {
		c.writeRow(b, r)
	}
	fmt.Fprintf(b, "\n--- %s Tests Report End ---\n", title)
}

func writeHeader(b *strings.Builder) {
	fmt.Fprintf(b, "%-*s | %-*s | %-*s | %-*s | %-*s | %-*s\n",
		constants.TableEnvWidth, "Env",
		constants.TableStateWidth, "State",
		constants.TableStatusWidth, "Status",
		constants.TablePassedWidth, "Passed",
		constants.TableDurationWidth, "Duration",
		constants.TableErrorWidth, "Error Message")
	b.WriteString(strings.Repeat("-", constants.TableRuleWidth))
	b.WriteByte('\n')
}

func (c *Console) writeRow(b *strings.Builder, r task.Result) {
	statusCode := notAvailable
	if r.StatusCode != nil {
		statusCode = strconv.Itoa(*r.StatusCode)
	}
	state := notAvailable
	if r.State != nil {
		state = *r.State
	}
	errMsg := noError
	if r.ErrorMessage != nil {
		errMsg = *r.ErrorMessage
	}

	// cells keep a two-column margin inside their width
	fmt.Fprintf(b, "%-*s | %-*s | %-*s | %s | %-*s | %-*s\n",
		constants.TableEnvWidth, util.Truncate(r.Environment, constants.TableEnvWidth-2),
		constants.TableStateWidth, util.Truncate(state, constants.TableStateWidth-2),
		constants.TableStatusWidth, statusCode,
		c.verdict(r.Passed),
		constants.TableDurationWidth, fmt.Sprintf("%.2fs", r.Duration.Seconds()),
		constants.TableErrorWidth, util.Truncate(errMsg, constants.TableErrorWidth-2))
}

// verdict pads before coloring so escape codes do not count toward the width.
func (c *Console) verdict(passed bool) string {
	text, color := "FAIL", common.Red
	if passed {
		text, color = "PASS", common.Green
	}
	pad := strings.Repeat(" ", constants.TablePassedWidth-len(text))
	if !c.Color {
		return text + pad
	}
	return common.Colorize(color, text) + pad
}
