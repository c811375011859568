package dispatch

import (
	"context"

	"event-checkin/internal/channel"
	"event-checkin/internal/message"
	"event-checkin/internal/models"
	pkgmodels "event-checkin/pkg/models"

	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// Sender is the connected-channel surface the dispatchers send through.
// channel.Manager implements it.
type Sender interface {
	Ready() bool
	SendText(ctx context.Context, to, body string) error
	SendMedia(ctx context.Context, to string, data []byte, mimeType, caption string) error
}

// GuestSource resolves an identity label to a guest record. It must
// return registry.ErrNotFound when no record exists.
type GuestSource interface {
	Get(name string) (*models.Guest, error)
}

// CaptionSource yields the current check-in message template.
type CaptionSource interface {
	Caption() string
}

// Dispatcher sends one notification per recognition event. The path is
// deliberately single-attempt: a duplicate delivery on a transient
// failure is worse than a missed one, and the operator can re-trigger by
// presenting the guest again.
type Dispatcher struct {
	guests  GuestSource
	sender  Sender
	caption CaptionSource
	history *gorm.DB
	log     zerolog.Logger
}

func NewDispatcher(guests GuestSource, sender Sender, caption CaptionSource, history *gorm.DB, log zerolog.Logger) *Dispatcher {
	return &Dispatcher{
		guests:  guests,
		sender:  sender,
		caption: caption,
		history: history,
		log:     log.With().Str("component", "dispatch").Logger(),
	}
}

// Dispatch notifies the guest behind the recognized identity, attaching
// media (the captured or stylized photo) when supplied. An empty
// mimeType defaults to image/jpeg.
func (d *Dispatcher) Dispatch(ctx context.Context, identity string, media []byte, mimeType string) pkgmodels.DispatchResult {
	if !d.sender.Ready() {
		return d.record(identity, "", pkgmodels.DispatchResult{
			Recipient: identity,
			Outcome:   pkgmodels.OutcomeFailed,
			Error:     channel.ErrNotReady.Error(),
		})
	}

	guest, err := d.guests.Get(identity)
	if err != nil {
		return d.record(identity, "", pkgmodels.DispatchResult{
			Recipient: identity,
			Outcome:   pkgmodels.OutcomeFailed,
			Error:     err.Error(),
		})
	}

	text := message.Render(d.caption.Caption(), guest.Name, guest.Seat)

	if mimeType == "" {
		mimeType = "image/jpeg"
	}

	outcome := pkgmodels.OutcomeSentTextOnly
	var sendErr error
	if len(media) > 0 {
		outcome = pkgmodels.OutcomeSentWithMedia
		sendErr = d.sender.SendMedia(ctx, guest.Phone, media, mimeType, text)
	} else {
		sendErr = d.sender.SendText(ctx, guest.Phone, text)
	}

	result := pkgmodels.DispatchResult{Recipient: guest.Phone, Outcome: outcome}
	if sendErr != nil {
		result.Outcome = pkgmodels.OutcomeFailed
		result.Error = sendErr.Error()
		d.log.Error().Err(sendErr).Str("guest", guest.Name).Msg("Notification failed")
	} else {
		d.log.Info().Str("guest", guest.Name).Str("to", guest.Phone).Msg("Notification sent")
	}
	return d.record(guest.Name, text, result)
}

func (d *Dispatcher) record(guestName, content string, result pkgmodels.DispatchResult) pkgmodels.DispatchResult {
	if d.history == nil {
		return result
	}
	entry := models.DispatchLog{
		Recipient: result.Recipient,
		GuestName: guestName,
		Content:   content,
		Outcome:   string(result.Outcome),
		Error:     result.Error,
	}
	if err := d.history.Create(&entry).Error; err != nil {
		d.log.Warn().Err(err).Msg("Failed to record dispatch log")
	}
	return result
}
