package mail

import (
	"fmt"
	"strings"
	"time"

	"github.com/marcotuliovd/betimfc-v0/internal/domain/money"
	"github.com/marcotuliovd/betimfc-v0/internal/domain/order"
)

type Message struct {
	Subject string
	Body    string
}

func PasswordRecovery(name, resetURL string) Message {
	var b strings.Builder
	fmt.Fprintf(&b, "Hi %s,\n\n", name)
	b.WriteString("We received a request to recover the password of your fan club account.\n")
	fmt.Fprintf(&b, "Follow the instructions at %s to choose a new one.\n\n", resetURL)
	b.WriteString("If you didn't request this, ignore this email.")
	return Message{Subject: "Password recovery", Body: b.String()}
}

func OrderConfirmation(name string, r order.Receipt) Message {
	var b strings.Builder
	fmt.Fprintf(&b, "Hi %s,\n\n", name)
	fmt.Fprintf(&b, "Thank you for your purchase! Order #%s was confirmed on %s.\n\n",
		r.OrderNumber, r.CreatedAt.Format(time.RFC1123))
	fmt.Fprintf(&b, "Subtotal: %s\n", money.Format(r.Subtotal))
	if r.Discount.IsPositive() {
		fmt.Fprintf(&b, "Member discount: -%s\n", money.Format(r.Discount))
	}
	if r.ShippingCost.IsZero() {
		b.WriteString("Shipping: free\n")
	} else {
		fmt.Fprintf(&b, "Shipping (%s): %s\n", r.ShippingMethod, money.Format(r.ShippingCost))
	}
	fmt.Fprintf(&b, "Total: %s\n\n", money.Format(r.Total))
	b.WriteString("You will receive tracking information as soon as your order ships.")
	return Message{Subject: "Order #" + r.OrderNumber + " confirmed", Body: b.String()}
}

// SendMessage is Send for a prepared Message.
func SendMessage(m Mailer, to string, msg Message) error {
	return m.Send(to, msg.Subject, msg.Body)
}
