package whatsapp

import (
	"context"
	"fmt"
)

// Messenger sends a UTF-8 text message to a WhatsApp channel address
// ("<digits>@s.whatsapp.net"). Implementations report delivery failure via the
// returned error; no delivery receipts are consumed.
type Messenger interface {
	SendText(ctx context.Context, channelAddress, text string) error
}

const otpMessageTemplate = "🔐 *Código de Verificação*\n\n" +
	"Seu código é: *%v*\n\n" +
	"Este código expira em 5 minutos.\n\n" +
	"_Dashboard Financeiro_"

func FormatOTPMessage(code string) string {
	return fmt.Sprintf(otpMessageTemplate, code)
}
