package normalize_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rtrejos/almacen-api/pkg/normalize"
)

func TestFold(t *testing.T) {
	cases := map[string]string{
		"Dañado":     "danado",
		"DAÑADO":     "danado",
		"danado":     "danado",
		"  Consumido ": "consumido",
		"Otro":       "otro",
		"":           "",
	}
	for in, want := range cases {
		assert.Equal(t, want, normalize.Fold(in), "entrada %q", in)
	}
}
