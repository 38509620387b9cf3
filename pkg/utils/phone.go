package utils

import "strings"

// DigitsOnly remove tudo que não for dígito
func DigitsOnly(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// FullPhone concatena o DDI ao telefone quando presente
func FullPhone(ddi, phone string) string {
	ddi = DigitsOnly(ddi)
	phone = strings.TrimSpace(phone)
	if ddi == "" {
		return phone
	}

	// telefone já carrega o DDI
	if strings.HasPrefix(DigitsOnly(phone), ddi) && strings.HasPrefix(phone, "+") {
		return phone
	}

	return "+" + ddi + phone
}
