package postgres

import (
	"testing"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestNumericToDecimal(t *testing.T) {
	t.Run("round trip", func(t *testing.T) {
		for _, s := range []string{"0", "600000", "12345.67", "-500"} {
			d := decimal.RequireFromString(s)
			got := numericToDecimal(decimalToNumeric(d))
			assert.True(t, got.Equal(d), "round trip of %s gave %s", s, got)
		}
	})

	t.Run("null coerces to zero", func(t *testing.T) {
		got := numericToDecimal(pgtype.Numeric{})
		assert.True(t, got.IsZero())
	})

	t.Run("nan coerces to zero", func(t *testing.T) {
		got := numericToDecimal(pgtype.Numeric{NaN: true, Valid: true})
		assert.True(t, got.IsZero())
	})

	t.Run("infinity coerces to zero", func(t *testing.T) {
		got := numericToDecimal(pgtype.Numeric{InfinityModifier: pgtype.Infinity, Valid: true})
		assert.True(t, got.IsZero())
	})
}
