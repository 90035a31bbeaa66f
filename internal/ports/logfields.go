package ports

import "context"

type logFieldsKey struct{}

// WithLogFields returns a context whose log lines carry the given fields,
// e.g. the run ID of a dashboard refresh. Logger implementations read them
// back with LogFields.
func WithLogFields(ctx context.Context, fields map[string]interface{}) context.Context {
	merged := make(map[string]interface{})
	for k, v := range LogFields(ctx) {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}
	return context.WithValue(ctx, logFieldsKey{}, merged)
}

// LogFields returns the fields attached with WithLogFields, or nil.
func LogFields(ctx context.Context) map[string]interface{} {
	if ctx == nil {
		return nil
	}
	fields, _ := ctx.Value(logFieldsKey{}).(map[string]interface{})
	return fields
}
