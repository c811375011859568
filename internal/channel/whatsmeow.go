package channel

import (
	"context"
	"fmt"
	"os"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"
	"github.com/skip2/go-qrcode"
	"go.mau.fi/whatsmeow"
	"go.mau.fi/whatsmeow/proto/waE2E"
	"go.mau.fi/whatsmeow/store/sqlstore"
	"go.mau.fi/whatsmeow/types"
	"go.mau.fi/whatsmeow/types/events"
	"google.golang.org/protobuf/proto"
)

// Whatsmeow is the real Client implementation, backed by a linked-device
// WhatsApp session persisted under dataDir.
type Whatsmeow struct {
	client *whatsmeow.Client
	events Events
	log    zerolog.Logger
}

// NewWhatsmeow opens the session store and prepares the client. The
// session is not connected until Connect is called.
func NewWhatsmeow(dataDir string, log zerolog.Logger) (*Whatsmeow, error) {
	ctx := context.Background()
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data dir: %w", err)
	}

	container, err := sqlstore.New(ctx, "sqlite3", fmt.Sprintf("file:%s/whatsmeow.db?_foreign_keys=on", dataDir), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create session store: %w", err)
	}

	deviceStore, err := container.GetFirstDevice(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get device: %w", err)
	}

	w := &Whatsmeow{
		client: whatsmeow.NewClient(deviceStore, nil),
		log:    log.With().Str("component", "whatsmeow").Logger(),
	}
	w.client.AddEventHandler(w.handleEvent)
	return w, nil
}

// SetEvents registers the lifecycle sink. Must be called before Connect.
func (w *Whatsmeow) SetEvents(ev Events) {
	w.events = ev
}

// Connect establishes the session. A fresh device walks the QR pairing
// flow: each code is forwarded as a pairing artifact and printed to the
// terminal for the operator.
func (w *Whatsmeow) Connect(ctx context.Context) error {
	if w.client.Store.ID == nil {
		qrChan, _ := w.client.GetQRChannel(ctx)
		if err := w.client.Connect(); err != nil {
			return fmt.Errorf("failed to connect: %w", err)
		}
		for evt := range qrChan {
			if evt.Event == "code" {
				if w.events != nil {
					w.events.OnPairingAvailable(evt.Code)
				}
				if q, err := qrcode.New(evt.Code, qrcode.Medium); err == nil {
					fmt.Println("\n" + q.ToSmallString(false))
					fmt.Println("📱 Scan the QR code above with WhatsApp (Settings > Linked Devices)")
				}
			} else {
				w.log.Info().Str("event", evt.Event).Msg("Login event")
			}
		}
		return nil
	}
	if err := w.client.Connect(); err != nil {
		return fmt.Errorf("failed to connect: %w", err)
	}
	return nil
}

func (w *Whatsmeow) Disconnect() {
	w.client.Disconnect()
}

// SendText delivers a plain conversation message.
func (w *Whatsmeow) SendText(ctx context.Context, to, body string) error {
	jid := types.NewJID(to, types.DefaultUserServer)
	_, err := w.client.SendMessage(ctx, jid, &waE2E.Message{
		Conversation: proto.String(body),
	})
	if err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}
	return nil
}

// SendMedia uploads the image bytes and delivers them with the caption.
func (w *Whatsmeow) SendMedia(ctx context.Context, to string, data []byte, mimeType, caption string) error {
	uploaded, err := w.client.Upload(ctx, data, whatsmeow.MediaImage)
	if err != nil {
		return fmt.Errorf("failed to upload media: %w", err)
	}

	jid := types.NewJID(to, types.DefaultUserServer)
	_, err = w.client.SendMessage(ctx, jid, &waE2E.Message{
		ImageMessage: &waE2E.ImageMessage{
			Caption:       proto.String(caption),
			Mimetype:      proto.String(mimeType),
			URL:           proto.String(uploaded.URL),
			DirectPath:    proto.String(uploaded.DirectPath),
			MediaKey:      uploaded.MediaKey,
			FileEncSHA256: uploaded.FileEncSHA256,
			FileSHA256:    uploaded.FileSHA256,
			FileLength:    proto.Uint64(uploaded.FileLength),
		},
	})
	if err != nil {
		return fmt.Errorf("failed to send media message: %w", err)
	}
	return nil
}

func (w *Whatsmeow) handleEvent(evt interface{}) {
	if w.events == nil {
		return
	}
	switch evt.(type) {
	case *events.Connected:
		label := ""
		if w.client.Store.ID != nil {
			label = w.client.Store.ID.User
		}
		w.events.OnConnected(label)
	case *events.Disconnected:
		w.events.OnDisconnected()
	case *events.LoggedOut:
		w.events.OnDisconnected()
	}
}
