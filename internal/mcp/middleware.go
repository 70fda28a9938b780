package mcp

import (
	"context"
	"fmt"
	"strings"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/ganot/rollcall/internal/identity"
)

type contextKey int

const identityCtxKey contextKey = iota

// callerFromContext extracts the authenticated caller from context.
func callerFromContext(ctx context.Context) (identity.Identity, bool) {
	id, ok := ctx.Value(identityCtxKey).(identity.Identity)
	return id, ok
}

// authMiddleware implements bearer token authentication as MCP
// middleware.
func authMiddleware(resolver IdentityResolver) sdkmcp.Middleware {
	return func(next sdkmcp.MethodHandler) sdkmcp.MethodHandler {
		return func(ctx context.Context, method string, req sdkmcp.Request) (sdkmcp.Result, error) {
			// Skip auth for protocol methods
			if method == "initialize" || method == "ping" {
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

			caller, err := resolver.ResolveIdentity(ctx, token)
			if err != nil || caller.UserID == "" {
				return nil, fmt.Errorf("unauthorized: invalid bearer token")
			}

			return next(context.WithValue(ctx, identityCtxKey, caller), method, req)
		}
	}
}
