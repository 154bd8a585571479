package postgres

import (
	"strings"

	"github.com/jinzhu/gorm"
	"github.com/pkg/errors"

	"booking-flow/internal/models"
)

type AccountPostgresRepo struct {
	db *gorm.DB
}

func NewAccountPostgres(db *gorm.DB) *AccountPostgresRepo {
	return &AccountPostgresRepo{db: db}
}

func (r *AccountPostgresRepo) Create(a models.Account) error {
	a.Email = strings.ToLower(strings.TrimSpace(a.Email))
	err := r.db.Create(&a).Error
	if isUniqueViolation(err) {
		return errors.Wrapf(ErrDuplicate, "account %s", a.Email)
	}
	return err
}

func (r *AccountPostgresRepo) GetByEmail(email string) (models.Account, error) {
	var a models.Account
	q := r.db.Where("email = ?", strings.ToLower(strings.TrimSpace(email))).First(&a)
	return a, q.Error
}
