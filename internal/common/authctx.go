package common

import "context"

type ctxKey string

const employeeIDKey ctxKey = "auth/employee-id"

// WithEmployeeID stores the authenticated back-office employee on the context.
func WithEmployeeID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, employeeIDKey, id)
}

// EmployeeID extracts the authenticated employee identifier from the context if present.
func EmployeeID(ctx context.Context) (string, bool) {
	v := ctx.Value(employeeIDKey)
	if v == nil {
		return "", false
	}
	id, ok := v.(string)
	return id, ok && id != ""
}
