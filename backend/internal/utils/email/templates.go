package email

import (
	"fmt"
	"strings"
)

// Message is a rendered subject and markdown body.
type Message struct {
	Subject string
	Body    string
}

// escape neutralizes markdown control characters in interpolated values.
var escaper = strings.NewReplacer(
	`\`, `\\`, "*", `\*`, "_", `\_`, "`", "\\`", "[", `\[`, "]", `\]`, "#", `\#`, "<", "&lt;", ">", "&gt;",
)

func escape(s string) string { return escaper.Replace(s) }

func DonationRequestMessage(donorName, senderName, note string) Message {
	body := fmt.Sprintf("Hello %s,\n\n**%s** has asked you to donate blood.\n", escape(donorName), escape(senderName))
	if note != "" {
		body += fmt.Sprintf("\n> %s\n", escape(note))
	}
	body += "\nOpen BloodLink to accept or decline the request."
	return Message{Subject: "New blood donation request", Body: body}
}

func BookingConfirmedMessage(donorName, bankName, date, clock string, token int) Message {
	body := fmt.Sprintf("Hello %s,\n\nYour donation appointment is confirmed.\n\n"+
		"| Blood bank | Date | Time | Token |\n|---|---|---|---|\n| %s | %s | %s | **%d** |\n\n"+
		"Please bring a photo ID and arrive a few minutes early.",
		escape(donorName), escape(bankName), date, clock, token)
	return Message{Subject: "Donation appointment confirmed", Body: body}
}

func AccountStatusMessage(name, action, reason string) Message {
	body := fmt.Sprintf("Hello %s,\n\nYour BloodLink account has been **%s**.", escape(name), action)
	if reason != "" {
		body += fmt.Sprintf("\n\nReason: %s", escape(reason))
	}
	return Message{Subject: "Your account status changed", Body: body}
}
