package dispatch

import (
	"context"
	"strings"
	"time"

	"event-checkin/internal/message"
	"event-checkin/internal/phone"
	"event-checkin/internal/registry"
	pkgmodels "event-checkin/pkg/models"

	"github.com/rs/zerolog"
)

// Broadcaster sends one notification per recipient row, strictly
// sequentially. The channel enforces anti-automation rate limits, so no
// two sends are ever issued concurrently and a fixed pause follows every
// completed row.
type Broadcaster struct {
	sender      Sender
	fetcher     Fetcher
	countryCode string
	delay       time.Duration
	log         zerolog.Logger
}

func NewBroadcaster(sender Sender, fetcher Fetcher, countryCode string, delay time.Duration, log zerolog.Logger) *Broadcaster {
	if countryCode == "" {
		countryCode = phone.DefaultCountryCode
	}
	return &Broadcaster{
		sender:      sender,
		fetcher:     fetcher,
		countryCode: countryCode,
		delay:       delay,
		log:         log.With().Str("component", "broadcast").Logger(),
	}
}

// Broadcast processes rows in input order. A single recipient's failure
// never aborts the batch; cancellation is honored between rows and rows
// already processed keep their recorded outcome.
func (b *Broadcaster) Broadcast(ctx context.Context, rows []pkgmodels.BroadcastRow, template string) pkgmodels.BulkReport {
	if template == "" {
		template = message.DefaultBroadcastTemplate
	}

	var report pkgmodels.BulkReport
	b.log.Info().Int("rows", len(rows)).Msg("Starting bulk broadcast")

	for _, row := range rows {
		select {
		case <-ctx.Done():
			b.log.Warn().Int("processed", report.Total).Msg("Broadcast cancelled")
			return report
		default:
		}

		report.Total++
		result := b.sendRow(ctx, row, template)
		report.Results = append(report.Results, result)

		switch result.Outcome {
		case pkgmodels.OutcomeSentWithMedia, pkgmodels.OutcomeSentTextOnly:
			report.Sent++
		case pkgmodels.OutcomeFailed:
			report.Failed++
			report.Failures = append(report.Failures, row.Name)
		}

		// Pause after every completed row, success or failure, to stay
		// under the channel's throttling threshold.
		if result.Outcome != pkgmodels.OutcomeSkipped && b.delay > 0 {
			select {
			case <-ctx.Done():
				b.log.Warn().Int("processed", report.Total).Msg("Broadcast cancelled")
				return report
			case <-time.After(b.delay):
			}
		}
	}

	b.log.Info().Int("sent", report.Sent).Int("failed", report.Failed).Msg("Bulk broadcast complete")
	return report
}

func (b *Broadcaster) sendRow(ctx context.Context, row pkgmodels.BroadcastRow, template string) pkgmodels.DispatchResult {
	name := strings.TrimSpace(row.Name)
	rawPhone := strings.TrimSpace(row.Phone)
	if name == "" || rawPhone == "" {
		return pkgmodels.DispatchResult{Recipient: rawPhone, Outcome: pkgmodels.OutcomeSkipped}
	}

	seat := strings.TrimSpace(row.Seat)
	if seat == "" {
		seat = registry.DefaultSeat
	}

	to := phone.Normalize(rawPhone, b.countryCode)
	text := message.Render(template, name, seat)

	if url := strings.TrimSpace(row.ImageURL); fetchable(url) {
		data, mimeType, err := b.fetcher.Fetch(ctx, DirectDriveLink(url))
		if err == nil {
			if sendErr := b.sender.SendMedia(ctx, to, data, mimeType, text); sendErr != nil {
				b.log.Error().Err(sendErr).Str("guest", name).Msg("Bulk send failed")
				return pkgmodels.DispatchResult{Recipient: to, Outcome: pkgmodels.OutcomeFailed, Error: sendErr.Error()}
			}
			return pkgmodels.DispatchResult{Recipient: to, Outcome: pkgmodels.OutcomeSentWithMedia}
		}
		// Degraded delivery: the fetch failure is not a row failure.
		b.log.Warn().Err(err).Str("guest", name).Msg("Image fetch failed, falling back to text")
	}

	if err := b.sender.SendText(ctx, to, text); err != nil {
		b.log.Error().Err(err).Str("guest", name).Msg("Bulk send failed")
		return pkgmodels.DispatchResult{Recipient: to, Outcome: pkgmodels.OutcomeFailed, Error: err.Error()}
	}
	return pkgmodels.DispatchResult{Recipient: to, Outcome: pkgmodels.OutcomeSentTextOnly}
}

// fetchable reports whether the reference is scheme-qualified enough to
// attempt a download.
func fetchable(url string) bool {
	return strings.HasPrefix(url, "http://") || strings.HasPrefix(url, "https://")
}
