package builtin

import (
	"fmt"

	skilltypes "github.com/byrencheema/tappy/pkg/types/skills"
)

// envelope unwraps the provider's result envelope. The second return
// value carries a provider-reported error message ("CODE: message") when
// the call itself succeeded but the provider flagged a failure, e.g. rate
// limiting.
func envelope(result skilltypes.ExecutionResult) (data map[string]any, providerErr string, ok bool) {
	if result.Output == nil {
		return nil, "", false
	}
	resultData, found := result.Output["result"].(map[string]any)
	if !found {
		return nil, "", false
	}

	if success, declared := resultData["success"].(bool); declared && !success {
		code := "ERROR"
		message := "Unknown error"
		if errObj, isMap := resultData["error"].(map[string]any); isMap {
			code = getString(errObj, "code", code)
			message = getString(errObj, "message", message)
		}
		return nil, fmt.Sprintf("%s: %s", code, message), true
	}

	data, _ = resultData["data"].(map[string]any)
	if data == nil {
		data = map[string]any{}
	}
	return data, "", true
}

// getString reads a string value, substituting a neutral placeholder when
// the field is missing or of the wrong type.
func getString(m map[string]any, key, fallback string) string {
	if v, ok := m[key].(string); ok && v != "" {
		return v
	}
	return fallback
}

// getScalar renders a string or numeric value for display, substituting
// the fallback when the field is missing.
func getScalar(m map[string]any, key, fallback string) string {
	switch v := m[key].(type) {
	case string:
		if v != "" {
			return v
		}
	case float64:
		if v == float64(int64(v)) {
			return fmt.Sprintf("%d", int64(v))
		}
		return fmt.Sprintf("%g", v)
	case int:
		return fmt.Sprintf("%d", v)
	}
	return fallback
}

// getInt reads a numeric value that may arrive as a JSON float.
func getInt(m map[string]any, key string, fallback int) int {
	switch v := m[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	}
	return fallback
}

// getList reads a list of objects under the given key.
func getList(m map[string]any, key string) []map[string]any {
	raw, ok := m[key].([]any)
	if !ok {
		return nil
	}
	items := make([]map[string]any, 0, len(raw))
	for _, entry := range raw {
		if item, isMap := entry.(map[string]any); isMap {
			items = append(items, item)
		}
	}
	return items
}

// plural returns "s" unless n is exactly one.
func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}

// truncate caps a string for display.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

func pending(title, message string) skilltypes.FormattedResult {
	return skilltypes.FormattedResult{
		Title:   title,
		Message: message,
		Status:  skilltypes.FormattedPending,
	}
}
