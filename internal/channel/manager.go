package channel

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
)

// State of the channel session. Exactly one holds at any time.
type State string

const (
	StateDisconnected State = "disconnected"
	StatePairing      State = "pairing"
	StateConnected    State = "connected"
)

// Snapshot is a read-only copy of the current connection state.
type Snapshot struct {
	State           State  `json:"state"`
	PairingArtifact string `json:"pairing_artifact,omitempty"`
	AccountLabel    string `json:"account_label,omitempty"`
	SignalIndicator string `json:"signal,omitempty"`
}

// Manager owns the lifecycle of the messaging-channel session. It is the
// only component that transitions connection state; everything else reads
// it through Snapshot or sends through the guarded pass-throughs.
type Manager struct {
	client Client
	log    zerolog.Logger
	notify func(Snapshot)

	mu       sync.RWMutex
	state    State
	artifact string
	account  string
	signal   string

	// sendMu serializes all outbound traffic onto one exclusive path so
	// concurrent callers cannot interleave sends on the shared session.
	sendMu sync.Mutex
}

func NewManager(client Client, log zerolog.Logger) *Manager {
	return &Manager{
		client: client,
		log:    log.With().Str("component", "channel").Logger(),
		state:  StateDisconnected,
	}
}

// SetNotify registers a hook invoked after every state transition. Must
// be called before Start.
func (m *Manager) SetNotify(fn func(Snapshot)) {
	m.notify = fn
}

// Start kicks off session establishment in the background. Callers never
// wait on it; progress is observed via Snapshot.
func (m *Manager) Start(ctx context.Context) {
	go func() {
		if err := m.client.Connect(ctx); err != nil {
			m.log.Error().Err(err).Msg("Channel connect failed")
		}
	}()
}

// Stop tears down the session.
func (m *Manager) Stop() {
	m.client.Disconnect()
}

// OnPairingAvailable stores a fresh pairing artifact. Ignored while
// connected; a new artifact may replace an unconsumed one.
func (m *Manager) OnPairingAvailable(artifact string) {
	m.mu.Lock()
	if m.state == StateConnected {
		m.mu.Unlock()
		return
	}
	m.state = StatePairing
	m.artifact = artifact
	snap := m.snapshotLocked()
	m.mu.Unlock()

	m.log.Info().Msg("Pairing artifact available, waiting for scan")
	m.publish(snap)
}

// OnConnected transitions to Connected and clears any pairing artifact.
func (m *Manager) OnConnected(accountLabel string) {
	m.mu.Lock()
	m.state = StateConnected
	m.account = accountLabel
	m.artifact = ""
	snap := m.snapshotLocked()
	m.mu.Unlock()

	m.log.Info().Str("account", accountLabel).Msg("Channel connected")
	m.publish(snap)
}

// OnDisconnected transitions to Disconnected and clears the account label
// and any pairing artifact.
func (m *Manager) OnDisconnected() {
	m.mu.Lock()
	m.state = StateDisconnected
	m.account = ""
	m.artifact = ""
	m.signal = ""
	snap := m.snapshotLocked()
	m.mu.Unlock()

	m.log.Warn().Msg("Channel disconnected")
	m.publish(snap)
}

// SetSignal updates the optional battery/signal indicator.
func (m *Manager) SetSignal(indicator string) {
	m.mu.Lock()
	m.signal = indicator
	m.mu.Unlock()
}

// Snapshot returns a copy of the current connection state.
func (m *Manager) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.snapshotLocked()
}

// Ready reports whether sends are currently accepted.
func (m *Manager) Ready() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state == StateConnected
}

// SendText delivers a plain text message, or ErrNotReady when the session
// is not connected.
func (m *Manager) SendText(ctx context.Context, to, body string) error {
	m.sendMu.Lock()
	defer m.sendMu.Unlock()
	if !m.Ready() {
		return ErrNotReady
	}
	return m.client.SendText(ctx, to, body)
}

// SendMedia delivers a media message with caption, or ErrNotReady when
// the session is not connected.
func (m *Manager) SendMedia(ctx context.Context, to string, data []byte, mimeType, caption string) error {
	m.sendMu.Lock()
	defer m.sendMu.Unlock()
	if !m.Ready() {
		return ErrNotReady
	}
	return m.client.SendMedia(ctx, to, data, mimeType, caption)
}

func (m *Manager) snapshotLocked() Snapshot {
	return Snapshot{
		State:           m.state,
		PairingArtifact: m.artifact,
		AccountLabel:    m.account,
		SignalIndicator: m.signal,
	}
}

func (m *Manager) publish(snap Snapshot) {
	if m.notify != nil {
		m.notify(snap)
	}
}
