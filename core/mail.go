package core

import "net/mail"

type (
	EmailMessage struct {
		To      []mail.Address
		Cc      []mail.Address
		Subject string
		Body    string // text/plain
	}

	// EmailService is any service that can send emails
	EmailService interface {
		// SendMessages sends messages concurrently
		SendMessages(messages ...*EmailMessage)
	}
)

func (m *EmailMessage) HasRecipients() bool { return len(m.To) > 0 }
func (m *EmailMessage) HasContent() bool    { return m.Body != "" }

// Recipients parses a comma separated list of addresses; nil if the list is malformed.
func Recipients(list string) []mail.Address {
	addrs, err := mail.ParseAddressList(list)
	if err != nil {
		return nil
	}
	res := make([]mail.Address, 0, len(addrs))
	for _, a := range addrs {
		res = append(res, *a)
	}
	return res
}
