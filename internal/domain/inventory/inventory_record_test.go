package inventory

import (
	"testing"

	"github.com/google/uuid"
	"github.com/inventory/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewInventoryRecord(t *testing.T) {
	rec, err := NewInventoryRecord(uuid.New(), uuid.New(), 100)

	require.NoError(t, err)
	assert.Equal(t, 100, rec.Total)
	assert.Equal(t, 100, rec.Available)
	assert.Equal(t, 0, rec.Reserved)
	assert.Equal(t, 1, rec.Version)
	assert.NoError(t, rec.CheckInvariants())
}

func TestNewInventoryRecordNegativeQuantity(t *testing.T) {
	_, err := NewInventoryRecord(uuid.New(), uuid.New(), -1)

	domainErr := &shared.DomainError{}
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, shared.CodeValidation, domainErr.Code)
}

func TestCheckInvariants(t *testing.T) {
	t.Run("unbalanced counters", func(t *testing.T) {
		rec, _ := NewInventoryRecord(uuid.New(), uuid.New(), 10)
		rec.Available = 3

		err := rec.CheckInvariants()

		domainErr := &shared.DomainError{}
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, shared.CodeBusinessRule, domainErr.Code)
	})

	t.Run("negative counter", func(t *testing.T) {
		rec, _ := NewInventoryRecord(uuid.New(), uuid.New(), 10)
		rec.Available = -2
		rec.Reserved = 12

		assert.Error(t, rec.CheckInvariants())
	})
}

func TestCanReserve(t *testing.T) {
	rec, _ := NewInventoryRecord(uuid.New(), uuid.New(), 10)

	t.Run("within available", func(t *testing.T) {
		assert.NoError(t, rec.CanReserve(10))
	})

	t.Run("exceeds available", func(t *testing.T) {
		err := rec.CanReserve(11)

		domainErr := &shared.DomainError{}
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, shared.CodeInsufficientStock, domainErr.Code)
		assert.Equal(t, 10, domainErr.Details["available"])
	})

	t.Run("non-positive quantity", func(t *testing.T) {
		assert.Error(t, rec.CanReserve(0))
		assert.Error(t, rec.CanReserve(-3))
	})
}

func TestCanAdjust(t *testing.T) {
	rec, _ := NewInventoryRecord(uuid.New(), uuid.New(), 10)

	assert.NoError(t, rec.CanAdjust(-10))
	assert.NoError(t, rec.CanAdjust(500))

	err := rec.CanAdjust(-11)
	domainErr := &shared.DomainError{}
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, shared.CodeBusinessRule, domainErr.Code)
	assert.Equal(t, "Stock cannot go below zero", domainErr.Message)
}

func TestCounterDeltas(t *testing.T) {
	// Each lifecycle delta keeps total = available + reserved balanced
	cases := []struct {
		name  string
		delta CounterDelta
	}{
		{"reserve", ReserveDelta(5)},
		{"consume", ConsumeDelta(5)},
		{"release", ReleaseDelta(5)},
		{"adjust", AdjustDelta(-3)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.delta.Total, tc.delta.Available+tc.delta.Reserved)
		})
	}
}
