package whatsapp

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLink(t *testing.T) {
	got := Link("+91 98765-43210", "Hello Jane, 1+1\nok")
	assert.Equal(t, "https://wa.me/919876543210?text=Hello%20Jane%2C%201%2B1%0Aok", got)
}

func TestLink_NoPhone(t *testing.T) {
	assert.Equal(t, "", Link("", "hello"))
	assert.Equal(t, "", Link("n/a", "hello"))
}
