package http_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/stretchr/testify/require"

	"booking-flow/internal/models"
)

func fakeBooking(f *gofakeit.Faker) models.Booking {
	kind := models.Kinds[f.Number(0, len(models.Kinds)-1)]
	payload, _ := json.Marshal(map[string]any{
		"name":    f.Name(),
		"email":   f.Email(),
		"address": f.Street(),
	})
	return models.Booking{
		ID:             f.UUID(),
		Kind:           kind,
		IdempotencyKey: f.UUID(),
		Category:       f.RandomString([]string{"small", "ankara", "malaria", "fitting"}),
		Total:          int64(f.Number(500, 90000)),
		Payload:        string(payload),
		CreatedAt:      time.Now().UTC().Add(-time.Duration(f.Number(0, 72)) * time.Hour),
	}
}

func Test_GetAllBookings_Many(t *testing.T) {
	f := gofakeit.New(42)
	var bookings []models.Booking
	for i := 0; i < 20; i++ {
		bookings = append(bookings, fakeBooking(f))
	}

	s := &svcStub{getAll: func() ([]models.Booking, error) { return bookings, nil }}

	w := do(routes(s, nil), http.MethodGet, "/api/bookings", "")

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data []models.Booking `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Data, len(bookings))
	require.Equal(t, bookings[0].IdempotencyKey, resp.Data[0].IdempotencyKey)
}

func Test_SignUp_FakeForms(t *testing.T) {
	f := gofakeit.New(7)
	a := &authStub{signUp: func(form models.SignUpForm) (models.Account, error) {
		return models.Account{ID: "a-1", Name: form.Name, Email: form.Email, Phone: form.Phone, PasswordHash: []byte(form.Password)}, nil
	}}
	r := routes(&svcStub{}, a)

	for i := 0; i < 10; i++ {
		pass := f.Password(true, true, true, false, false, 12)
		form := models.SignUpForm{
			Name:            f.Name(),
			Email:           f.Email(),
			Phone:           f.Phone(),
			Password:        pass,
			ConfirmPassword: pass,
		}
		body, err := json.Marshal(form)
		require.NoError(t, err)

		w := do(r, http.MethodPost, "/api/auth/signup", string(body))

		require.Equal(t, http.StatusCreated, w.Code, fmt.Sprintf("form %d", i))
		var acc models.Account
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &acc))
		require.Equal(t, form.Email, acc.Email)
		require.Empty(t, acc.PasswordHash)
		require.NotContains(t, w.Body.String(), pass)
	}
}
