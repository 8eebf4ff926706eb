package discord

import "context"

type channelKey struct{}

// WithChannel records the channel prompts for this request should be posted in
func WithChannel(ctx context.Context, channelID string) context.Context {
	return context.WithValue(ctx, channelKey{}, channelID)
}

// ChannelFromContext returns the channel set by WithChannel
func ChannelFromContext(ctx context.Context) (string, bool) {
	channelID, ok := ctx.Value(channelKey{}).(string)
	return channelID, ok && channelID != ""
}
