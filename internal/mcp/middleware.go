package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/OrionApplePie/ProjectsAutomation/internal/domain/activity"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

const localOperator = "local"

// getOperator returns the operator the request was authenticated as.
func getOperator(ctx context.Context) string {
	return activity.OperatorFromContext(ctx)
}

// KeyResolver maps a bearer token to the operator it was issued to.
type KeyResolver interface {
	ResolveKey(ctx context.Context, token string) (string, error)
}

// authMiddleware implements bearer token authentication as MCP middleware.
func authMiddleware(resolver KeyResolver) sdkmcp.Middleware {
	return func(next sdkmcp.MethodHandler) sdkmcp.MethodHandler {
		return func(ctx context.Context, method string, req sdkmcp.Request) (sdkmcp.Result, error) {
			// Skip auth for protocol methods
			if method == "initialize" || method == "ping" || strings.HasPrefix(method, "notifications/") {
				return next(ctx, method, req)
			}

			extra := req.GetExtra()
			if extra == nil || extra.Header == nil {
				return nil, fmt.Errorf("unauthorized: missing headers")
			}

			auth := extra.Header.Get("Authorization")
			token := strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
			if token == "" {
				return nil, fmt.Errorf("unauthorized: missing bearer token")
			}

			operator, err := resolver.ResolveKey(ctx, token)
			if err != nil {
				return nil, fmt.Errorf("unauthorized: %w", err)
			}
			if operator == "" {
				return nil, fmt.Errorf("unauthorized: invalid bearer token")
			}

			ctx = activity.ContextWithOperator(ctx, operator)
			return next(ctx, method, req)
		}
	}
}

// noAuthMiddleware tags every request with a fixed operator when auth is disabled.
func noAuthMiddleware(operator string) sdkmcp.Middleware {
	return func(next sdkmcp.MethodHandler) sdkmcp.MethodHandler {
		return func(ctx context.Context, method string, req sdkmcp.Request) (sdkmcp.Result, error) {
			ctx = activity.ContextWithOperator(ctx, operator)
			return next(ctx, method, req)
		}
	}
}
