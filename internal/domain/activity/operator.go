package activity

import "context"

type operatorKey struct{}

// ContextWithOperator attaches the name of whoever triggered the work to ctx.
// Record stamps it on every entry written under that context.
func ContextWithOperator(ctx context.Context, operator string) context.Context {
	return context.WithValue(ctx, operatorKey{}, operator)
}

// OperatorFromContext returns the operator set by ContextWithOperator, or "".
func OperatorFromContext(ctx context.Context) string {
	v, _ := ctx.Value(operatorKey{}).(string)
	return v
}
