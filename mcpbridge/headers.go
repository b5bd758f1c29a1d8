package mcpbridge

import "context"

type callHeadersKey struct{}

// WithCallHeaders returns a context whose tool calls carry the given HTTP
// headers, winning over the client's defaults on key conflict. Hosts that
// authenticate MCP sessions use this to forward per-session credentials to
// the upstream API.
func WithCallHeaders(ctx context.Context, headers map[string]string) context.Context {
	if len(headers) == 0 {
		return ctx
	}
	return context.WithValue(ctx, callHeadersKey{}, headers)
}

func callHeaders(ctx context.Context) map[string]string {
	headers, _ := ctx.Value(callHeadersKey{}).(map[string]string)
	return headers
}
