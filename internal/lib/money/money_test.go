package money

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestString(t *testing.T) {
	tests := []struct {
		name  string
		cents int64
		want  string
	}{
		{name: "ноль", cents: 0, want: "0.00"},
		{name: "один цент", cents: 1, want: "0.01"},
		{name: "десять центов", cents: 10, want: "0.10"},
		{name: "целые евро", cents: 3500, want: "35.00"},
		{name: "крупная сумма", cents: 9999999, want: "99999.99"},
		{name: "отрицательная сумма", cents: -305, want: "-3.05"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, String(tt.cents))
		})
	}
}

func TestEuroAndFormat(t *testing.T) {
	assert.Equal(t, 12.5, Euro(1250))
	assert.Equal(t, 0.07, Euro(7))
	assert.Equal(t, "€ 12.50", Format(1250))
	assert.Equal(t, "€ 12.50", Format(-1250))
}
