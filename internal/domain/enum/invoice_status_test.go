package enum

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseInvoiceStatus(t *testing.T) {
	tests := []struct {
		in     string
		want   InvoiceStatus
		wantOK bool
	}{
		{"Pending", InvoiceStatusPending, true},
		{"paid", InvoiceStatusPaid, true},
		{" CANCELLED ", InvoiceStatusCancelled, true},
		{"Refunded", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseInvoiceStatus(tt.in)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestInvoiceStatusIsValid(t *testing.T) {
	assert.True(t, InvoiceStatusPaid.IsValid())
	assert.False(t, InvoiceStatus("paid").IsValid())
}

func TestInvoiceStatusScan(t *testing.T) {
	var s InvoiceStatus
	require.NoError(t, s.Scan([]byte("Paid")))
	assert.Equal(t, InvoiceStatusPaid, s)

	require.NoError(t, s.Scan(nil))
	assert.Equal(t, InvoiceStatusPending, s)

	assert.Error(t, s.Scan(42))

	v, err := InvoiceStatusCancelled.Value()
	require.NoError(t, err)
	assert.Equal(t, "Cancelled", v)
}
