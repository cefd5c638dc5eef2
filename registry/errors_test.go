package registry

import (
	"errors"
	"fmt"
	"testing"

	"gorm.io/gorm"
)

func TestTranslateDeleteClassifiesRestrictViolations(t *testing.T) {
	cases := []struct {
		name string
		in   error
		want error
	}{
		{"translated fk violation", gorm.ErrForeignKeyViolated, ErrProtected},
		{"wrapped fk violation", fmt.Errorf("delete: %w", gorm.ErrForeignKeyViolated), ErrProtected},
		// SQLite liefert RESTRICT-Verletzungen untranslatiert mit diesem Text.
		{"raw sqlite restrict error", errors.New("FOREIGN KEY constraint failed"), ErrProtected},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := translateDelete(tc.in); !errors.Is(got, tc.want) {
				t.Errorf("translateDelete(%v) = %v, want %v", tc.in, got, tc.want)
			}
		})
	}
}

func TestTranslateDeletePassesThroughOtherErrors(t *testing.T) {
	other := errors.New("disk I/O error")
	if got := translateDelete(other); !errors.Is(got, other) {
		t.Errorf("expected error to pass through, got %v", got)
	}
	if got := translateDelete(nil); got != nil {
		t.Errorf("expected nil for nil input, got %v", got)
	}
}
