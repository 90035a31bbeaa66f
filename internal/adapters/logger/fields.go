package logger

import (
	"context"

	"stockDash/internal/ports"
)

// mergeFields combines context fields with call-site fields. Later maps win.
func mergeFields(ctx context.Context, fields []map[string]interface{}) map[string]interface{} {
	merged := make(map[string]interface{})
	for k, v := range ports.LogFields(ctx) {
		merged[k] = v
	}
	for _, f := range fields {
		for k, v := range f {
			merged[k] = v
		}
	}
	return merged
}
