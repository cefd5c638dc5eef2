package ids

import (
	"crypto/rand"
	"math/big"
)

const base62Alphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

// Base62 erzeugt einen zufälligen Base62-String mit exakt n Zeichen.
// Die IDs sind über DB-Instanzen hinweg gültig und kollisionsfrei mit
// überwältigender Wahrscheinlichkeit (62^12 ≈ 3*10^21 für n=12).
func Base62(n int) string {
	max := big.NewInt(int64(len(base62Alphabet)))
	buf := make([]byte, n)
	for i := range buf {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			// crypto/rand liefert auf allen unterstützten Plattformen Entropie;
			// ein Fehler hier ist nicht behebbar.
			panic(err)
		}
		buf[i] = base62Alphabet[idx.Int64()]
	}
	return string(buf)
}

// Base62_8 erzeugt eine 8-stellige Universal-ID (Ontologie-Registries).
func Base62_8() string { return Base62(8) }

// Base62_12 erzeugt eine 12-stellige Universal-ID (Standard-Registries).
func Base62_12() string { return Base62(12) }
