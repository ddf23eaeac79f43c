package identity

import (
	"errors"
	"strings"
)

// Channel is the contact channel an identifier belongs to.
type Channel string

const (
	ChannelEmail Channel = "email"
	ChannelPhone Channel = "phone"
)

var ErrInvalidIdentifier = errors.New("invalid identifier")

// Identifier is an account lookup key: either an email address or a phone
// number, never both.
type Identifier struct {
	channel Channel
	value   string
}

func Email(address string) Identifier {
	return Identifier{channel: ChannelEmail, value: NormalizeEmail(address)}
}

func Phone(number string) Identifier {
	return Identifier{channel: ChannelPhone, value: NormalizePhone(number)}
}

// Parse classifies a raw identifier by shape: anything containing "@" is an
// email address, everything else a phone number.
func Parse(raw string) (Identifier, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return Identifier{}, ErrInvalidIdentifier
	}
	if strings.Contains(trimmed, "@") {
		return Email(trimmed), nil
	}
	phone := NormalizePhone(trimmed)
	if phone == "" {
		return Identifier{}, ErrInvalidIdentifier
	}
	return Phone(phone), nil
}

func (i Identifier) Channel() Channel {
	return i.channel
}

func (i Identifier) Value() string {
	return i.value
}

func (i Identifier) IsZero() bool {
	return i.value == ""
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// NormalizePhone keeps digits and a single leading "+" so the same number
// always maps to the same row regardless of spacing or dashes.
func NormalizePhone(number string) string {
	trimmed := strings.TrimSpace(number)
	var b strings.Builder
	for i, r := range trimmed {
		if r == '+' && i == 0 {
			b.WriteRune(r)
			continue
		}
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	normalized := b.String()
	if strings.TrimPrefix(normalized, "+") == "" {
		return ""
	}
	return normalized
}
