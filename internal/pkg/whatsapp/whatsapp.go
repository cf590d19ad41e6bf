// Package whatsapp builds wa.me click-to-chat links.
package whatsapp

import (
	"net/url"
	"strings"
)

const baseURL = "https://wa.me/"

// Link returns a click-to-chat link that opens a conversation with phone,
// prefilled with message. Non-digits in phone are ignored; a phone without
// digits yields "".
func Link(phone, message string) string {
	digits := Digits(phone)
	if digits == "" {
		return ""
	}

	text := strings.ReplaceAll(url.QueryEscape(message), "+", "%20")

	return baseURL + digits + "?text=" + text
}

func Digits(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
