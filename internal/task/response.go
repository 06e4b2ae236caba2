package task

import (
	"fmt"
	"net/http"

	"github.com/loykin/apicheck/internal/constants"
	"github.com/tidwall/gjson"
)

// Classify decides whether a captured result passes under the given policy.
// It is pure: the same inputs always give the same verdict and message.
//
//   - an error recorded by Execute (transport or body read failure) fails with that message
//   - a status outside 200-299 fails
//   - a 2xx passes unless the policy is enabled and the body is a JSON object
//     whose top-level policy key has the policy value
func Classify(r Result, policy ErrorPolicy) (bool, *string) {
	if r.ErrorMessage != nil || r.StatusCode == nil {
		msg := "request failed without a response"
		if r.ErrorMessage != nil {
			msg = *r.ErrorMessage
		}
		return false, &msg
	}

	status := *r.StatusCode
	if status < 200 || status > 299 {
		msg := fmt.Sprintf("HTTP Status Error: %d %s", status, http.StatusText(status))
		return false, &msg
	}

	if !policy.Enabled() {
		return true, nil
	}

	value, found := topLevelValue(r.Body, policy.Key)
	if !found || value != *policy.Value {
		return true, nil
	}

	var msg string
	if m, ok := topLevelValue(r.Body, constants.AppMessageKey); ok {
		msg = fmt.Sprintf("App Error (%s: %s): %s", policy.Key, value, m)
	} else {
		msg = fmt.Sprintf("App Error (%s: %s): message parsing failed.", policy.Key, value)
	}
	return false, &msg
}

// Apply classifies r and stores the verdict on it.
func (r *Result) Apply(policy ErrorPolicy) {
	r.Passed, r.ErrorMessage = Classify(*r, policy)
}

// topLevelValue looks key up among the members of a top-level JSON object
// without interpreting it as a path. Bodies that are not valid JSON objects
// never contain the key.
func topLevelValue(body, key string) (string, bool) {
	if !gjson.Valid(body) {
		return "", false
	}
	parsed := gjson.Parse(body)
	if !parsed.IsObject() {
		return "", false
	}
	var (
		value string
		found bool
	)
	parsed.ForEach(func(k, v gjson.Result) bool {
		if k.String() != key {
			return true
		}
		value, found = resultToString(v), true
		return false
	})
	return value, found
}
