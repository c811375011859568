package registry

import (
	"errors"
	"strings"

	"event-checkin/internal/models"
	"event-checkin/internal/phone"
	pkgmodels "event-checkin/pkg/models"

	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// DefaultSeat is assigned when an import row carries no seat label.
const DefaultSeat = "General"

// ErrNotFound is returned when no guest record exists for a name.
var ErrNotFound = errors.New("guest not found")

// Registry is the durable source of truth for who is expected at the
// event. All mutating calls commit before returning.
type Registry struct {
	db          *gorm.DB
	countryCode string
	log         zerolog.Logger
}

func New(db *gorm.DB, countryCode string, log zerolog.Logger) *Registry {
	if countryCode == "" {
		countryCode = phone.DefaultCountryCode
	}
	return &Registry{
		db:          db,
		countryCode: countryCode,
		log:         log.With().Str("component", "registry").Logger(),
	}
}

// Get looks up a guest by name, case-insensitively.
func (r *Registry) Get(name string) (*models.Guest, error) {
	var guest models.Guest
	err := r.db.Where("LOWER(name) = LOWER(?)", name).First(&guest).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &guest, nil
}

// FindByPhoneSuffix matches a guest by the trailing digits of their
// stored contact, the fail-safe path when the camera cannot identify
// someone.
func (r *Registry) FindByPhoneSuffix(suffix string) (*models.Guest, error) {
	if suffix == "" {
		return nil, ErrNotFound
	}
	var guest models.Guest
	err := r.db.Where("phone LIKE ?", "%"+suffix).First(&guest).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &guest, nil
}

// UpsertBatch imports guest rows. A row is accepted iff name and phone
// are non-blank after trimming; seat defaults to DefaultSeat and the
// phone is normalized before storage. Re-importing a name overwrites the
// existing record (last write wins) while preserving its entered flag.
// Returns the number of rows accepted.
func (r *Registry) UpsertBatch(rows []pkgmodels.ImportRow) (int, error) {
	accepted := 0
	err := r.db.Transaction(func(tx *gorm.DB) error {
		for _, row := range rows {
			name := strings.TrimSpace(row.Name)
			rawPhone := strings.TrimSpace(row.Phone)
			if name == "" || rawPhone == "" {
				continue
			}
			seat := strings.TrimSpace(row.Seat)
			if seat == "" {
				seat = DefaultSeat
			}

			guest := models.Guest{
				Name:     name,
				Phone:    phone.Normalize(rawPhone, r.countryCode),
				Seat:     seat,
				ImageURL: strings.TrimSpace(row.ImageURL),
			}

			var existing models.Guest
			if err := tx.Where("LOWER(name) = LOWER(?)", name).First(&existing).Error; err == nil {
				// Keep the stored key casing and the check-in state.
				guest.Name = existing.Name
				guest.Entered = existing.Entered
				guest.CreatedAt = existing.CreatedAt
			} else if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}

			if err := tx.Save(&guest).Error; err != nil {
				return err
			}
			accepted++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	r.log.Info().Int("accepted", accepted).Int("rows", len(rows)).Msg("Guest import committed")
	return accepted, nil
}

// Remove deletes a guest by name, case-insensitively. Returns true iff a
// record existed.
func (r *Registry) Remove(name string) (bool, error) {
	result := r.db.Where("LOWER(name) = LOWER(?)", name).Delete(&models.Guest{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// List returns all guest records in insertion order.
func (r *Registry) List() ([]models.Guest, error) {
	var guests []models.Guest
	if err := r.db.Order("created_at").Find(&guests).Error; err != nil {
		return nil, err
	}
	if guests == nil {
		guests = []models.Guest{}
	}
	return guests, nil
}

// SetEntered marks whether a guest has checked in.
func (r *Registry) SetEntered(name string, entered bool) error {
	result := r.db.Model(&models.Guest{}).
		Where("LOWER(name) = LOWER(?)", name).
		Update("entered", entered)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ToggleEntered flips the check-in flag and returns the new value.
func (r *Registry) ToggleEntered(name string) (bool, error) {
	guest, err := r.Get(name)
	if err != nil {
		return false, err
	}
	next := !guest.Entered
	if err := r.SetEntered(guest.Name, next); err != nil {
		return false, err
	}
	return next, nil
}
