package postgres

import (
	"github.com/jinzhu/gorm"
	"github.com/pkg/errors"

	"booking-flow/internal/models"
)

type BookingPostgresRepo struct {
	db *gorm.DB
}

func NewBookingPostgres(db *gorm.DB) *BookingPostgresRepo {
	return &BookingPostgresRepo{db: db}
}

// Create inserts a booking. A second booking with the same idempotency key
// fails with ErrDuplicate.
func (r *BookingPostgresRepo) Create(b models.Booking) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		return tx.Create(&b).Error
	})
	if isUniqueViolation(err) {
		return errors.Wrapf(ErrDuplicate, "booking %s", b.IdempotencyKey)
	}
	return err
}

func (r *BookingPostgresRepo) Get(id string) (models.Booking, error) {
	var b models.Booking
	q := r.db.Where("id = ?", id).First(&b)
	return b, q.Error
}

func (r *BookingPostgresRepo) GetByKey(key string) (models.Booking, error) {
	var b models.Booking
	q := r.db.Where("idempotency_key = ?", key).First(&b)
	return b, q.Error
}

func (r *BookingPostgresRepo) GetAll() ([]models.Booking, error) {
	var out []models.Booking
	q := r.db.Order("created_at desc").Find(&out)
	return out, q.Error
}
