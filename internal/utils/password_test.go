package utils_test

import (
	"testing"

	"github.com/propgate/propgate/internal/utils"
)

func TestValidatePasswordStrength(t *testing.T) {
	cases := []struct {
		password string
		wantErr  error
	}{
		{"short1", utils.ErrPasswordTooShort},
		{"12345678", utils.ErrPasswordNoLetter},
		{"abcdefgh", utils.ErrPasswordNoDigit},
		{"abcdefg1", nil},
		{"Str0ngEnough!", nil},
	}
	for _, tc := range cases {
		if err := utils.ValidatePasswordStrength(tc.password); err != tc.wantErr {
			t.Fatalf("ValidatePasswordStrength(%q) = %v, want %v", tc.password, err, tc.wantErr)
		}
	}
}
