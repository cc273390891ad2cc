package validator

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

const (
	// PasswordMinLength is the minimum number of characters of a password.
	PasswordMinLength = 12

	govIDLetters = "TRWAGMYFPDXBNJZSQVHLCKE"
)

var (
	tokenRegex = regexp.MustCompile(`^[0-9a-z]{32}$`)
	nifRegex   = regexp.MustCompile(`^[0-9]{8}[A-Z]$`)
	nieRegex   = regexp.MustCompile(`^[XYZ][0-9]{7}[A-Z]$`)
)

// IsGovID reports whether s is a Spanish NIF or NIE with a valid check letter.
// Case is ignored.
func IsGovID(s string) bool {
	s = strings.ToUpper(s)
	switch {
	case nifRegex.MatchString(s):
		return checkLetter(s[:8], s[8])
	case nieRegex.MatchString(s):
		prefix := strings.NewReplacer("X", "0", "Y", "1", "Z", "2").Replace(s[:1])
		return checkLetter(prefix+s[1:8], s[8])
	}
	return false
}

func checkLetter(digits string, letter byte) bool {
	n, err := strconv.Atoi(digits)
	if err != nil {
		return false
	}
	return govIDLetters[n%23] == letter
}

// IsToken reports whether s is a 32 character recovery or activation token
// made of digits and lowercase ASCII letters.
func IsToken(s string) bool {
	return tokenRegex.MatchString(s)
}

// IsPassword reports whether s has at least PasswordMinLength characters,
// a lowercase letter, an uppercase letter and a digit. Latin-1 accented
// letters count as letters.
func IsPassword(s string) bool {
	if utf8.RuneCountInString(s) < PasswordMinLength {
		return false
	}
	var lower, upper, digit bool
	for _, r := range s {
		switch {
		case isLowerExt(r):
			lower = true
		case isUpperExt(r):
			upper = true
		case r >= '0' && r <= '9':
			digit = true
		case r == '\n' || r == '\r':
			return false
		}
	}
	return lower && upper && digit
}

func isLowerExt(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 0xE0 && r <= 0xF6) || (r >= 0xF8 && r <= 0xFD)
}

func isUpperExt(r rune) bool {
	return (r >= 'A' && r <= 'Z') || (r >= 0xC0 && r <= 0xD6) || (r >= 0xD8 && r <= 0xDD)
}

// CheckUTF8 reports whether s is valid UTF-8.
func CheckUTF8(s string) bool {
	return utf8.ValidString(s)
}

// EnsureUTF8 returns s unchanged when it is valid UTF-8. Otherwise s is
// assumed to be Windows-1252, the usual encoding of legacy form posts,
// and is converted.
func EnsureUTF8(s string) string {
	if CheckUTF8(s) {
		return s
	}
	out, err := charmap.Windows1252.NewDecoder().String(s)
	if err != nil {
		return strings.ToValidUTF8(s, string(unicode.ReplacementChar))
	}
	return out
}
