package texto_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/egniscano-stack/sigma-changuinola-sub000/pkg/texto"
)

func TestNormalize(t *testing.T) {
	casos := []struct {
		entrada string
		espera  string
	}{
		{"José PÉREZ", "jose perez"},
		{"  María   Núñez ", "maria nunez"},
		{"ABARROTERIA", "abarroteria"},
		{"", ""},
	}
	for _, c := range casos {
		assert.Equal(t, c.espera, texto.Normalize(c.entrada), "entrada %q", c.entrada)
	}
}

func TestMatches(t *testing.T) {
	assert.True(t, texto.Matches("Comercial Pérez S.A.", "perez"))
	assert.True(t, texto.Matches("JOSE PEREZ", "José Pérez"))
	assert.False(t, texto.Matches("Comercial Pérez", "gonzalez"))
	assert.False(t, texto.Matches("Cualquiera", ""), "aguja vacía nunca cruza")
}
