package dispatch

import (
	"context"
	"errors"
	"strings"
	"testing"

	"event-checkin/internal/channel"
	"event-checkin/internal/models"
	"event-checkin/internal/registry"
	pkgmodels "event-checkin/pkg/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

// ==========================
// Mock Implementations
// ==========================

type mockSender struct {
	ready       bool
	textErr     error
	mediaErr    error
	textCalls   int
	mediaCalls  int
	lastTo      string
	lastBody    string
	lastCaption string
	lastMime    string
}

func (m *mockSender) Ready() bool { return m.ready }

func (m *mockSender) SendText(ctx context.Context, to, body string) error {
	m.textCalls++
	m.lastTo = to
	m.lastBody = body
	return m.textErr
}

func (m *mockSender) SendMedia(ctx context.Context, to string, data []byte, mimeType, caption string) error {
	m.mediaCalls++
	m.lastTo = to
	m.lastCaption = caption
	m.lastMime = mimeType
	return m.mediaErr
}

type mockGuests struct {
	guests map[string]models.Guest
}

func (m *mockGuests) Get(name string) (*models.Guest, error) {
	for key, g := range m.guests {
		if strings.EqualFold(key, name) {
			guest := g
			return &guest, nil
		}
	}
	return nil, registry.ErrNotFound
}

type fixedCaption string

func (c fixedCaption) Caption() string { return string(c) }

func newTestDispatcher(sender *mockSender, guests map[string]models.Guest, template string) *Dispatcher {
	return NewDispatcher(&mockGuests{guests: guests}, sender, fixedCaption(template), nil, zerolog.Nop())
}

// ==========================
// Tests
// ==========================

func TestDispatchFailsWhenChannelNotReady(t *testing.T) {
	sender := &mockSender{ready: false}
	d := newTestDispatcher(sender, map[string]models.Guest{
		"Alice": {Name: "Alice", Phone: "919876543210", Seat: "A12"},
	}, "Welcome {name}")

	result := d.Dispatch(context.Background(), "Alice", nil, "")

	assert.Equal(t, pkgmodels.OutcomeFailed, result.Outcome)
	assert.Equal(t, channel.ErrNotReady.Error(), result.Error)
	assert.Zero(t, sender.textCalls, "send must never be attempted while disconnected")
	assert.Zero(t, sender.mediaCalls)
}

func TestDispatchUnknownGuest(t *testing.T) {
	sender := &mockSender{ready: true}
	d := newTestDispatcher(sender, map[string]models.Guest{}, "Welcome {name}")

	result := d.Dispatch(context.Background(), "Mallory", nil, "")

	assert.Equal(t, pkgmodels.OutcomeFailed, result.Outcome)
	assert.Equal(t, registry.ErrNotFound.Error(), result.Error)
	assert.Zero(t, sender.textCalls)
}

func TestDispatchCaseInsensitiveLookupSendsRenderedText(t *testing.T) {
	sender := &mockSender{ready: true}
	d := newTestDispatcher(sender, map[string]models.Guest{
		"Alice": {Name: "Alice", Phone: "919876543210", Seat: "A12"},
	}, "Welcome {name}, seat {seat}")

	result := d.Dispatch(context.Background(), "alice", nil, "")

	assert.Equal(t, pkgmodels.OutcomeSentTextOnly, result.Outcome)
	assert.Empty(t, result.Error)
	assert.Equal(t, "919876543210", result.Recipient)
	assert.Equal(t, "919876543210", sender.lastTo)
	assert.Equal(t, "Welcome Alice, seat A12", sender.lastBody)
}

func TestDispatchWithMediaUsesCaption(t *testing.T) {
	sender := &mockSender{ready: true}
	d := newTestDispatcher(sender, map[string]models.Guest{
		"Bob": {Name: "Bob", Phone: "911111111111", Seat: "General"},
	}, "Hi {name}")

	result := d.Dispatch(context.Background(), "Bob", []byte{0xff, 0xd8}, "")

	assert.Equal(t, pkgmodels.OutcomeSentWithMedia, result.Outcome)
	assert.Equal(t, 1, sender.mediaCalls)
	assert.Zero(t, sender.textCalls)
	assert.Equal(t, "Hi Bob", sender.lastCaption)
	assert.Equal(t, "image/jpeg", sender.lastMime, "empty mime defaults to jpeg")
}

func TestDispatchPassesMediaMimeThrough(t *testing.T) {
	sender := &mockSender{ready: true}
	d := newTestDispatcher(sender, map[string]models.Guest{
		"Bob": {Name: "Bob", Phone: "911111111111", Seat: "General"},
	}, "Hi {name}")

	d.Dispatch(context.Background(), "Bob", []byte{0x89, 0x50}, "image/png")

	assert.Equal(t, "image/png", sender.lastMime)
}

func TestDispatchSendFailureIsNotRetried(t *testing.T) {
	sender := &mockSender{ready: true, textErr: errors.New("recipient unreachable")}
	d := newTestDispatcher(sender, map[string]models.Guest{
		"Carol": {Name: "Carol", Phone: "912222222222", Seat: "C3"},
	}, "Hi {name}")

	result := d.Dispatch(context.Background(), "Carol", nil, "")

	assert.Equal(t, pkgmodels.OutcomeFailed, result.Outcome)
	assert.Equal(t, "recipient unreachable", result.Error)
	assert.Equal(t, 1, sender.textCalls, "single-attempt path must not retry")
}
