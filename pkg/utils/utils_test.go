package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeTitle(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Prospecção", "prospeccao"},
		{"  Novo   Lead ", "novo lead"},
		{"EM ANÁLISE", "em analise"},
		{"Desqualificado", "desqualificado"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeTitle(tt.in))
		})
	}
}

func TestDigitsOnly(t *testing.T) {
	assert.Equal(t, "5511999990000", DigitsOnly("+55 (11) 99999-0000"))
	assert.Equal(t, "", DigitsOnly("sem telefone"))
}

func TestFullPhone(t *testing.T) {
	assert.Equal(t, "+5511999990000", FullPhone("55", "11999990000"))
	assert.Equal(t, "+5511999990000", FullPhone("+55", "11999990000"))
	assert.Equal(t, "11999990000", FullPhone("", "11999990000"))
	assert.Equal(t, "+5511999990000", FullPhone("55", "+5511999990000"))
}

func TestGenerateID(t *testing.T) {
	a, err := GenerateID()
	assert.NoError(t, err)
	b, err := GenerateID()
	assert.NoError(t, err)

	assert.Len(t, a, 12)
	assert.NotEqual(t, a, b)
}

func TestRoundWithTwoDecimalPlace(t *testing.T) {
	assert.Equal(t, 10.56, RoundWithTwoDecimalPlace(10.556))
	assert.Equal(t, 0.0, RoundWithTwoDecimalPlace(0))
}

func TestSumCents(t *testing.T) {
	assert.Equal(t, 0.3, SumCents(0.1, 0.2))
	assert.Equal(t, 1500.5, SumCents(1000.25, 500.25))
	assert.Equal(t, 0.0, SumCents())
}
