package models_test

import (
	"testing"

	"lapak/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestOrderStatus_Valid(t *testing.T) {
	valid := []models.OrderStatus{
		models.StatusPending,
		models.StatusProcessing,
		models.StatusShipped,
		models.StatusDelivered,
		models.StatusCancelled,
	}
	for _, s := range valid {
		assert.True(t, s.Valid(), "expected %s to be valid", s)
	}

	assert.False(t, models.OrderStatus("").Valid())
	assert.False(t, models.OrderStatus("refunded").Valid())
	assert.False(t, models.OrderStatus("PENDING").Valid())
}

func TestOrderStatus_Guards(t *testing.T) {
	tests := []struct {
		status      models.OrderStatus
		cancellable bool
		processable bool
		cancelled   bool
	}{
		{models.StatusPending, true, true, false},
		{models.StatusProcessing, true, true, false},
		{models.StatusShipped, false, false, false},
		{models.StatusDelivered, false, false, false},
		{models.StatusCancelled, false, false, true},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.cancellable, tt.status.Cancellable(), "Cancellable(%s)", tt.status)
		assert.Equal(t, tt.processable, tt.status.Processable(), "Processable(%s)", tt.status)
		assert.Equal(t, tt.cancelled, tt.status.IsCancelled(), "IsCancelled(%s)", tt.status)
	}
}
