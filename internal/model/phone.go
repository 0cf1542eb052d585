package model

import (
	"strings"

	"golang.org/x/text/width"
)

// NormalizePhone folds full-width characters to their ASCII forms and
// strips everything but digits.
func NormalizePhone(phone string) string {
	phone = width.Narrow.String(phone)
	var b strings.Builder
	b.Grow(len(phone))
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
