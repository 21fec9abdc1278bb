package service

import (
	"strings"
	"testing"

	"github.com/lalith-99/flockr/internal/apperr"
	"github.com/stretchr/testify/assert"
)

func TestValidateEmail(t *testing.T) {
	cases := []struct {
		email string
		ok    bool
	}{
		{email: "ann@example.com", ok: true},
		{email: "ann.lee@example.com", ok: true},
		{email: "ann_lee99@example.com", ok: true},
		{email: "a1@b.c", ok: true},
		{email: "ann..lee@example.com", ok: false},
		{email: "Ann@example.com", ok: false},
		{email: "ann@example", ok: false},
		{email: "a@example.com", ok: false},
		{email: "", ok: false},
	}

	for _, tc := range cases {
		t.Run(tc.email, func(t *testing.T) {
			err := validateEmail(tc.email)
			if tc.ok {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, apperr.ErrInvalidEmail)
			}
		})
	}
}

func TestGenerateHandle(t *testing.T) {
	taken := map[string]bool{}
	exists := func(h string) bool { return taken[h] }

	cases := []struct {
		first string
		want  string
	}{
		{first: "Ann", want: "ann"},
		{first: "Ann", want: "ann0"},
		{first: "Ann", want: "ann1"},
		{first: "Bartholomewthethird", want: "bartholomewthethird"},
		{first: "Abcdefghijklmnopqrstuvwxyz", want: "abcdefghijklmnopqrst"},
		{first: "Abcdefghijklmnopqrstuvwxyz", want: "abcdefghijklmnopqrs0"},
	}

	for _, tc := range cases {
		got := generateHandle(tc.first, exists)
		assert.Equal(t, tc.want, got)
		taken[got] = true
	}
}

func TestGenerateHandle_LongSuffixKeepsLength(t *testing.T) {
	taken := map[string]bool{"abcdefghijklmnopqrst": true}
	for i := 0; i < 10; i++ {
		taken["abcdefghijklmnopqrs"+string(rune('0'+i))] = true
	}

	got := generateHandle("Abcdefghijklmnopqrstuvwxyz", func(h string) bool { return taken[h] })
	assert.Equal(t, "abcdefghijklmnopqr10", got)
}

func TestValidatePassword(t *testing.T) {
	assert.ErrorIs(t, validatePassword("12345"), apperr.ErrWeakPassword)
	assert.NoError(t, validatePassword("123456"))

	// Six bytes but three characters.
	assert.ErrorIs(t, validatePassword("ééé"), apperr.ErrWeakPassword)
	assert.NoError(t, validatePassword("éééééé"))

	// 36 two-byte characters fill bcrypt's 72 bytes; one more overflows it.
	assert.NoError(t, validatePassword(strings.Repeat("é", 36)))
	assert.ErrorIs(t, validatePassword(strings.Repeat("é", 37)), apperr.ErrPasswordTooLong)
}
