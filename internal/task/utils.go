package task

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/loykin/apicheck/internal/constants"
	"github.com/tidwall/gjson"
)

func anyToString(v interface{}) string {
	switch val := v.(type) {
	case string:
		return val
	case float64:
		// Avoid scientific notation for integers
		if val == float64(int64(val)) {
			return fmt.Sprintf("%d", int64(val))
		}
		return fmt.Sprintf("%v", val)
	case bool:
		if val {
			return "true"
		}
		return "false"
	case nil:
		return "null"
	default:
		return fmt.Sprintf("%v", val)
	}
}

// resultToString gives the string representation compared against the
// configured error value: numbers and strings compare by text.
func resultToString(r gjson.Result) string {
	switch r.Type {
	case gjson.JSON:
		return r.Raw
	case gjson.Number:
		// keep the literal for values a float64 cannot hold exactly
		if !strings.ContainsAny(r.Raw, ".eE") {
			return r.Raw
		}
		return anyToString(r.Num)
	default:
		return anyToString(r.Value())
	}
}

// ExtractState returns the value of the first query parameter named "state"
// (case-insensitive) in rawURL, or nil when the URL has none.
func ExtractState(rawURL string) *string {
	var query string
	if u, err := url.Parse(rawURL); err == nil {
		query = u.RawQuery
	} else if _, rest, ok := strings.Cut(rawURL, "?"); ok {
		// paths are joined unencoded, so /50% still carries a readable query
		query, _, _ = strings.Cut(rest, "#")
	}
	if query == "" {
		return nil
	}
	for _, pair := range strings.Split(query, "&") {
		k, v, _ := strings.Cut(pair, "=")
		if key, err := url.QueryUnescape(k); err != nil || !strings.EqualFold(key, constants.StateParam) {
			continue
		}
		if unescaped, err := url.QueryUnescape(v); err == nil {
			v = unescaped
		}
		return &v
	}
	return nil
}
