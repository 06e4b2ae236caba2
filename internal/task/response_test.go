package task

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }
func intPtr(i int) *int { return &i }

func TestClassify(t *testing.T) {
	active := ErrorPolicy{Key: "code", Value: strPtr("50000")}
	disabled := ErrorPolicy{Key: "code"}

	tests := []struct {
		name       string
		result     Result
		policy     ErrorPolicy
		wantPass   bool
		wantSubstr string
	}{
		{"200 without policy", Result{StatusCode: intPtr(200), Body: `{"code":"50000"}`}, disabled, true, ""},
		{"500 regardless of body", Result{StatusCode: intPtr(500), Body: `{"code":"00000"}`}, active, false, "500"},
		{"404 without policy", Result{StatusCode: intPtr(404)}, disabled, false, "HTTP Status Error: 404 Not Found"},
		{"301 is not success", Result{StatusCode: intPtr(301)}, disabled, false, "301"},
		{"app error string", Result{StatusCode: intPtr(200), Body: `{"code":"50000"}`}, active, false, "50000"},
		{"app ok string", Result{StatusCode: intPtr(200), Body: `{"code":"00000"}`}, active, true, ""},
		{"non json body", Result{StatusCode: intPtr(200), Body: "OK"}, active, true, ""},
		{"empty body", Result{StatusCode: intPtr(204)}, active, true, ""},
		{"json array body", Result{StatusCode: intPtr(200), Body: `[{"code":"50000"}]`}, active, true, ""},
		{"key absent", Result{StatusCode: intPtr(200), Body: `{"status":"50000"}`}, active, true, ""},
		{"nested key ignored", Result{StatusCode: intPtr(200), Body: `{"data":{"code":"50000"}}`}, active, true, ""},
		{"numeric value matches string policy", Result{StatusCode: intPtr(200), Body: `{"code":50000}`}, active, false, "50000"},
		{"float literal matches integer policy", Result{StatusCode: intPtr(201), Body: `{"code":50000.0}`}, active, false, "50000"},
		{"transport failure", Result{ErrorMessage: strPtr("dial tcp: connection refused")}, active, false, "connection refused"},
		{"body read failure keeps message", Result{StatusCode: intPtr(200), ErrorMessage: strPtr("Failed to read response body: unexpected EOF")}, disabled, false, "unexpected EOF"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pass, msg := Classify(tt.result, tt.policy)
			assert.Equal(t, tt.wantPass, pass)
			if tt.wantPass {
				assert.Nil(t, msg)
				return
			}
			require.NotNil(t, msg)
			assert.Contains(t, *msg, tt.wantSubstr)
		})
	}
}

func TestClassify_EmptyValueIsLiteral(t *testing.T) {
	policy := ErrorPolicy{Key: "code", Value: strPtr("")}

	pass, msg := Classify(Result{StatusCode: intPtr(200), Body: `{"code":""}`}, policy)
	assert.False(t, pass)
	require.NotNil(t, msg)

	pass, _ = Classify(Result{StatusCode: intPtr(200), Body: `{"other":""}`}, policy)
	assert.True(t, pass, "absent key must not match an empty configured value")
}

func TestClassify_KeyWithPathSyntax(t *testing.T) {
	policy := ErrorPolicy{Key: "error.code", Value: strPtr("E1")}

	pass, _ := Classify(Result{StatusCode: intPtr(200), Body: `{"error":{"code":"E1"}}`}, policy)
	assert.True(t, pass, "dotted key must not be treated as a nested path")

	pass, _ = Classify(Result{StatusCode: intPtr(200), Body: `{"error.code":"E1"}`}, policy)
	assert.False(t, pass)
}

func TestClassify_Messages(t *testing.T) {
	policy := ErrorPolicy{Key: "code", Value: strPtr("50000")}

	_, msg := Classify(Result{StatusCode: intPtr(200), Body: `{"code":"50000","message":"backend unavailable"}`}, policy)
	require.NotNil(t, msg)
	assert.Equal(t, "App Error (code: 50000): backend unavailable", *msg)

	_, msg = Classify(Result{StatusCode: intPtr(200), Body: `{"code":"50000"}`}, policy)
	require.NotNil(t, msg)
	assert.Equal(t, "App Error (code: 50000): message parsing failed.", *msg)

	_, msg = Classify(Result{StatusCode: intPtr(503)}, policy)
	require.NotNil(t, msg)
	assert.Equal(t, "HTTP Status Error: 503 Service Unavailable", *msg)
}

func TestResult_Apply(t *testing.T) {
	r := Result{StatusCode: intPtr(200), Body: `{"code":"50000"}`}
	r.Apply(ErrorPolicy{Key: "code", Value: strPtr("50000")})
	assert.False(t, r.Passed)
	require.NotNil(t, r.ErrorMessage)

	ok := Result{StatusCode: intPtr(200), Body: `{}`}
	ok.Apply(ErrorPolicy{Key: "code"})
	assert.True(t, ok.Passed)
	assert.Nil(t, ok.ErrorMessage)
}
