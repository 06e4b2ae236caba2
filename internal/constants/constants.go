package constants

import (
	"net/http"
	"time"
)

// Classification defaults
const (
	// DefaultAppErrorKey is the top-level JSON key inspected when no key is configured.
	DefaultAppErrorKey = "code"
	// AppMessageKey is the top-level JSON key whose string value enriches app error messages.
	AppMessageKey = "message"
)

// Request defaults
const (
	DefaultMethod      = http.MethodGet
	DefaultHTTPTimeout = 10 * time.Second
	// StateParam is the query parameter copied into every result for cross-referencing.
	StateParam = "state"
)

// Report defaults
const (
	// BodyPreviewLength is the number of runes of the response body kept for reports.
	BodyPreviewLength = 100

	TableEnvWidth      = 10
	TableStateWidth    = 20
	TableStatusWidth   = 10
	TablePassedWidth   = 7
	TableDurationWidth = 10
	TableErrorWidth    = 60
	TableRuleWidth     = 128
)
