package models

import "time"

type SignInForm struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type SignUpForm struct {
	Name            string `json:"name"             validate:"required,min=2"`
	Email           string `json:"email"            validate:"required,email"`
	Phone           string `json:"phone"            validate:"required,phone"`
	Password        string `json:"password"         validate:"required,min=8"`
	ConfirmPassword string `json:"confirm_password" validate:"required,eqfield=Password"`
}

type Account struct {
	ID           string    `json:"id"         gorm:"primary_key;type:varchar(36)"`
	Name         string    `json:"name"`
	Email        string    `json:"email"      gorm:"type:varchar(254);unique_index"`
	Phone        string    `json:"phone"`
	PasswordHash []byte    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

func (a Account) Profile() Profile {
	return Profile{Name: a.Name, Email: a.Email, Phone: a.Phone}
}
