package store

import (
	"errors"
	"testing"

	"orderdesk/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCustomerCreateNormalizesPhone(t *testing.T) {
	g := newTestDB(t)
	s := NewCustomerStore(g)

	customer, err := s.Create(models.CustomerInput{
		Name:  "João Silva",
		Email: "joao@email.com",
		Phone: "(11) 98765-4321",
	})
	require.NoError(t, err)
	assert.NotZero(t, customer.ID)
	assert.Equal(t, "11987654321", customer.Phone)

	got, err := s.Get(customer.ID)
	require.NoError(t, err)
	assert.Equal(t, "João Silva", got.Name)
	assert.Equal(t, "11987654321", got.Phone)
}

func TestCustomerValidation(t *testing.T) {
	g := newTestDB(t)
	s := NewCustomerStore(g)

	tests := []struct {
		name  string
		in    models.CustomerInput
		field string
	}{
		{"missing name", models.CustomerInput{Email: "a@b.com"}, "Name"},
		{"bad email", models.CustomerInput{Name: "Ana", Email: "not-an-email"}, "Email"},
		{"phone too short", models.CustomerInput{Name: "Ana", Phone: "1234567"}, "Phone"},
		{"phone too long", models.CustomerInput{Name: "Ana", Phone: "1234567890123456"}, "Phone"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Create(tt.in)
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Field)
		})
	}

	// Optional fields may be empty.
	_, err := s.Create(models.CustomerInput{Name: "Ana"})
	require.NoError(t, err)
}

func TestCustomerSearch(t *testing.T) {
	g := newTestDB(t)
	s := NewCustomerStore(g)

	seedCustomer(t, g, "Maria Souza")
	seedCustomer(t, g, "Ana Beatriz")
	_, err := s.Create(models.CustomerInput{Name: "Carlos", Email: "carlos@souza.net"})
	require.NoError(t, err)

	all, err := s.List("")
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "Ana Beatriz", all[0].Name) // ordered by name

	// Substring match on name or email.
	found, err := s.List("souza")
	require.NoError(t, err)
	require.Len(t, found, 2)
	assert.Equal(t, "Carlos", found[0].Name)
	assert.Equal(t, "Maria Souza", found[1].Name)
}

func TestCustomerUpdate(t *testing.T) {
	g := newTestDB(t)
	s := NewCustomerStore(g)

	customer := seedCustomer(t, g, "Ana")
	updated, err := s.Update(customer.ID, models.CustomerInput{Name: "Ana Beatriz", Email: "ana.b@email.com"})
	require.NoError(t, err)
	assert.Equal(t, "Ana Beatriz", updated.Name)

	_, err = s.Update(999, models.CustomerInput{Name: "Nobody"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCustomerDeleteBlockedWhileReferenced(t *testing.T) {
	g := newTestDB(t)
	s := NewCustomerStore(g)

	customer := seedCustomer(t, g, "Ana")
	product := seedProduct(t, g, "Widget", 10)
	seedOrder(t, g, customer.ID, "2025-06-01",
		models.OrderItemInput{ProductID: product.ID, Quantity: 1, UnitPrice: 10})

	err := s.Delete(customer.ID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInUse), "want ErrInUse, got %v", err)

	// The customer row must remain.
	got, err := s.Get(customer.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ana", got.Name)
}

func TestCustomerDelete(t *testing.T) {
	g := newTestDB(t)
	s := NewCustomerStore(g)

	customer := seedCustomer(t, g, "Ana")
	require.NoError(t, s.Delete(customer.ID))

	_, err := s.Get(customer.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, s.Delete(999), ErrNotFound)
}
