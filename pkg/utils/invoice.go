package utils

import "fmt"

// InvoiceNumberPrefix is prepended to every allocated invoice number
const InvoiceNumberPrefix = "INV-"

// FormatInvoiceNumber renders a sequence value as an invoice number,
// e.g. 42 -> INV-000042. Values wider than six digits are not truncated.
func FormatInvoiceNumber(seq int64) string {
	return fmt.Sprintf("%s%06d", InvoiceNumberPrefix, seq)
}
