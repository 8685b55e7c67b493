package provider

import (
	"context"

	"github.com/google/uuid"

	"notifhub-be/internal/entity"
)

// Recipient carries the delivery addresses resolved for one user. Empty
// fields mean the user has no usable address for that channel.
type Recipient struct {
	UserId uuid.UUID
	Email  string
	Phone  string
}

// Result reports a successful hand-off to the channel's transport.
type Result struct {
	MessageId string
}

// Provider performs delivery for exactly one channel.
type Provider interface {
	Channel() entity.NotificationChannel
	Send(ctx context.Context, notification *entity.Notification, recipient *Recipient) (*Result, error)
}

// Registry maps each channel to its provider. Dispatch looks providers up
// here; a channel without a provider is a recorded delivery failure, never a
// panic.
type Registry struct {
	providers map[entity.NotificationChannel]Provider
}

func NewRegistry(providers ...Provider) *Registry {
	registry := &Registry{
		providers: make(map[entity.NotificationChannel]Provider, len(providers)),
	}
	for _, p := range providers {
		registry.providers[p.Channel()] = p
	}
	return registry
}

func (r *Registry) Get(channel entity.NotificationChannel) (Provider, bool) {
	p, ok := r.providers[channel]
	return p, ok
}

func (r *Registry) Register(p Provider) {
	r.providers[p.Channel()] = p
}

func (r *Registry) Channels() []entity.NotificationChannel {
	channels := make([]entity.NotificationChannel, 0, len(r.providers))
	for channel := range r.providers {
		channels = append(channels, channel)
	}
	return channels
}
