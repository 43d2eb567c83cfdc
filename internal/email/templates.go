package email

import (
	"fmt"

	"academy_backend/internal/models"
)

// ReceiptBody renders the payment receipt email.
func ReceiptBody(athlete *models.Athlete, receipt *models.PaymentReceipt) (subject, body string) {
	subject = fmt.Sprintf("Payment receipt %s", receipt.ReceiptNumber)

	body = fmt.Sprintf(`
		<h2>Payment received</h2>
		<p>Dear %s,</p>
		<p>We have received your payment of <b>%s</b> against invoice <b>%s</b>.</p>
		<p>Receipt number: <b>%s</b><br>
		Invoice status: %s<br>
		Remaining balance: %s</p>
		<p>Thank you.</p>
	`,
		athlete.FullName,
		receipt.AmountPaid.StringFixed(2),
		receipt.InvoiceNumber,
		receipt.ReceiptNumber,
		receipt.InvoiceStatus,
		receipt.Remaining.StringFixed(2),
	)
	return subject, body
}

// InvoiceBody renders the new invoice notification email.
func InvoiceBody(athlete *models.Athlete, invoice *models.Invoice) (subject, body string) {
	subject = fmt.Sprintf("Invoice %s", invoice.InvoiceNumber)

	body = fmt.Sprintf(`
		<h2>New invoice</h2>
		<p>Dear %s,</p>
		<p>Invoice <b>%s</b> for <b>%s</b> has been issued to your account.</p>
		<p>Due date: %s</p>
	`,
		athlete.FullName,
		invoice.InvoiceNumber,
		invoice.AmountDue.StringFixed(2),
		invoice.DueDate.Format("2 January 2006"),
	)
	return subject, body
}
