package order_test

import (
	"fmt"
	"testing"

	"pawtraits/internal/core/domain/model/order"
	"pawtraits/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatus_Constants(t *testing.T) {
	t.Run("should have correct enum values", func(t *testing.T) {
		assert.Equal(t, 0, int(order.Unknown))
		assert.Equal(t, 1, int(order.Pending))
		assert.Equal(t, 2, int(order.Processing))
		assert.Equal(t, 3, int(order.Fulfilled))
		assert.Equal(t, 4, int(order.PartiallyFulfilled))
		assert.Equal(t, 5, int(order.Failed))
	})
}

func TestStatus_Validate(t *testing.T) {
	t.Run("should validate valid statuses", func(t *testing.T) {
		validStatuses := []order.Status{
			order.Pending,
			order.Processing,
			order.Fulfilled,
			order.PartiallyFulfilled,
			order.Failed,
		}

		for _, status := range validStatuses {
			t.Run(fmt.Sprintf("should validate %s status", status.String()), func(t *testing.T) {
				err := status.Validate()
				require.NoError(t, err)
			})
		}
	})

	t.Run("should reject Unknown status", func(t *testing.T) {
		err := order.Unknown.Validate()

		require.Error(t, err)
		assert.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("should reject out-of-range status", func(t *testing.T) {
		err := order.Status(99).Validate()

		require.Error(t, err)
		assert.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})
}

func TestStatus_String(t *testing.T) {
	tests := []struct {
		status   order.Status
		expected string
	}{
		{order.Unknown, "unknown"},
		{order.Pending, "pending"},
		{order.Processing, "processing"},
		{order.Fulfilled, "fulfilled"},
		{order.PartiallyFulfilled, "partially_fulfilled"},
		{order.Failed, "failed"},
		{order.Status(42), "unknown"},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("should return %s", tt.expected), func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.status.String())
		})
	}
}

func TestStatus_Start(t *testing.T) {
	t.Run("should start from Pending", func(t *testing.T) {
		newStatus, err := order.Pending.Start()

		require.NoError(t, err)
		assert.Equal(t, order.Processing, newStatus)
	})

	t.Run("should start from Failed", func(t *testing.T) {
		newStatus, err := order.Failed.Start()

		require.NoError(t, err)
		assert.Equal(t, order.Processing, newStatus)
	})

	t.Run("should reject start from active or terminal statuses", func(t *testing.T) {
		blocked := []order.Status{
			order.Processing,
			order.Fulfilled,
			order.PartiallyFulfilled,
			order.Unknown,
		}

		for _, status := range blocked {
			t.Run(fmt.Sprintf("from %s", status.String()), func(t *testing.T) {
				newStatus, err := status.Start()

				require.Error(t, err)
				assert.ErrorIs(t, err, errs.ErrValueIsInvalid)
				assert.Equal(t, order.Status(0), newStatus)
			})
		}
	})
}

func TestStatus_CompleteWith(t *testing.T) {
	t.Run("should complete with each run outcome", func(t *testing.T) {
		outcomes := []order.Status{
			order.Fulfilled,
			order.PartiallyFulfilled,
			order.Failed,
		}

		for _, outcome := range outcomes {
			t.Run(fmt.Sprintf("outcome %s", outcome.String()), func(t *testing.T) {
				newStatus, err := order.Processing.CompleteWith(outcome)

				require.NoError(t, err)
				assert.Equal(t, outcome, newStatus)
			})
		}
	})

	t.Run("should reject completion when not processing", func(t *testing.T) {
		newStatus, err := order.Pending.CompleteWith(order.Fulfilled)

		require.Error(t, err)
		assert.ErrorIs(t, err, errs.ErrValueIsInvalid)
		assert.Equal(t, order.Status(0), newStatus)
	})

	t.Run("should reject invalid outcomes", func(t *testing.T) {
		for _, outcome := range []order.Status{order.Pending, order.Processing, order.Unknown} {
			t.Run(fmt.Sprintf("outcome %s", outcome.String()), func(t *testing.T) {
				_, err := order.Processing.CompleteWith(outcome)

				require.Error(t, err)
				assert.ErrorIs(t, err, errs.ErrValueIsInvalid)
			})
		}
	})
}
