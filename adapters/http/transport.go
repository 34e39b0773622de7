package http

import "context"

// ChannelGate implements the account layer's TransportGate using the
// channel tag that ChannelMiddleware put on the request context.
type ChannelGate struct{}

func NewChannelGate() ChannelGate {
	return ChannelGate{}
}

func (ChannelGate) Secure(ctx context.Context) bool {
	secure, ok := ctx.Value(channelCtxKey{}).(bool)
	return ok && secure
}

// WithChannel marks a context with channel security directly. Used by
// tests that bypass the middleware.
func WithChannel(ctx context.Context, secure bool) context.Context {
	return context.WithValue(ctx, channelCtxKey{}, secure)
}
