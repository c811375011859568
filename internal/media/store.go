package media

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Store holds captured photos between the scan and confirm steps. Files
// are keyed by an opaque id handed to the UI and cleaned up after use.
type Store struct {
	dir string
	log zerolog.Logger
}

func NewStore(dir string, log zerolog.Logger) (*Store, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create uploads dir: %w", err)
	}
	return &Store{
		dir: dir,
		log: log.With().Str("component", "media").Logger(),
	}, nil
}

// Save writes the capture and returns its id.
func (s *Store) Save(data []byte) (string, error) {
	id := "capture_" + uuid.NewString() + ".jpg"
	if err := os.WriteFile(filepath.Join(s.dir, id), data, 0644); err != nil {
		return "", fmt.Errorf("failed to save capture: %w", err)
	}
	return id, nil
}

// Load reads a capture back by id.
func (s *Store) Load(id string) ([]byte, error) {
	path, err := s.resolve(id)
	if err != nil {
		return nil, err
	}
	return os.ReadFile(path)
}

// Discard removes a capture immediately. Missing files are not an error.
func (s *Store) Discard(id string) {
	path, err := s.resolve(id)
	if err != nil {
		return
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		s.log.Warn().Err(err).Str("id", id).Msg("Failed to remove capture")
	}
}

// DiscardAfter removes a capture once the grace period has passed, giving
// any in-flight send time to finish reading it.
func (s *Store) DiscardAfter(id string, d time.Duration) {
	time.AfterFunc(d, func() { s.Discard(id) })
}

func (s *Store) resolve(id string) (string, error) {
	// The id doubles as the filename; reject anything path-like.
	if id == "" || id != filepath.Base(id) || strings.ContainsAny(id, "/\\") {
		return "", fmt.Errorf("invalid capture id %q", id)
	}
	return filepath.Join(s.dir, id), nil
}
