package channel

import (
	"context"
	"errors"
)

// ErrNotReady is returned for any send attempted while the channel
// session is not connected. It is surfaced to callers verbatim and never
// retried here.
var ErrNotReady = errors.New("channel not ready")

// Client is the messaging transport the engine depends on. The real
// implementation is the whatsmeow adapter; tests substitute fakes.
type Client interface {
	Connect(ctx context.Context) error
	Disconnect()
	SendText(ctx context.Context, to, body string) error
	SendMedia(ctx context.Context, to string, data []byte, mimeType, caption string) error
}

// Events receives connection-lifecycle notifications from a Client.
type Events interface {
	OnPairingAvailable(artifact string)
	OnConnected(accountLabel string)
	OnDisconnected()
}
