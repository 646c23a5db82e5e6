// Package taxid validates Brazilian tax identifiers: CPF (11 digits, individuals)
// and CNPJ (14 digits, companies). All functions are pure.
package taxid

import (
	"errors"
	"strings"
)

var (
	// ErrWrongLength is returned when the input does not hold 11 or 14 digits.
	ErrWrongLength = errors.New("taxid: document must have 11 (CPF) or 14 (CNPJ) digits")
	// ErrBadChecksum is returned when the check digits do not match.
	ErrBadChecksum = errors.New("taxid: check digits do not match")
)

// Kind tells which document a digit string is.
type Kind string

const (
	KindCPF  Kind = "CPF"
	KindCNPJ Kind = "CNPJ"
)

const (
	cpfLen  = 11
	cnpjLen = 14
)

var (
	cnpjWeights1 = []int{5, 4, 3, 2, 9, 8, 7, 6, 5, 4, 3, 2}
	cnpjWeights2 = []int{6, 5, 4, 3, 2, 9, 8, 7, 6, 5, 4, 3, 2}
)

// Digits strips every non-digit character from raw.
func Digits(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Validate checks raw as a CPF or CNPJ depending on its digit count.
// Punctuation such as "529.982.247-25" is accepted.
func Validate(raw string) error {
	_, err := Detect(raw)
	return err
}

// Detect validates raw and reports which kind of document it is.
func Detect(raw string) (Kind, error) {
	d := Digits(raw)
	switch len(d) {
	case cpfLen:
		if !validCPF(d) {
			return KindCPF, ErrBadChecksum
		}
		return KindCPF, nil
	case cnpjLen:
		if !validCNPJ(d) {
			return KindCNPJ, ErrBadChecksum
		}
		return KindCNPJ, nil
	default:
		return "", ErrWrongLength
	}
}

// IsValidCPF reports whether raw is a valid CPF.
func IsValidCPF(raw string) bool {
	d := Digits(raw)
	return len(d) == cpfLen && validCPF(d)
}

// IsValidCNPJ reports whether raw is a valid CNPJ.
func IsValidCNPJ(raw string) bool {
	d := Digits(raw)
	return len(d) == cnpjLen && validCNPJ(d)
}

// Reason maps a validation error to a short machine-readable reason.
func Reason(err error) string {
	switch {
	case errors.Is(err, ErrWrongLength):
		return "wrong_length"
	case errors.Is(err, ErrBadChecksum):
		return "bad_checksum"
	default:
		return ""
	}
}

func validCPF(d string) bool {
	if repeated(d) {
		return false
	}
	first := cpfCheckDigit(d[:9], 10)
	second := cpfCheckDigit(d[:10], 11)
	return int(d[9]-'0') == first && int(d[10]-'0') == second
}

// cpfCheckDigit weighs digits from startWeight down to 2.
func cpfCheckDigit(d string, startWeight int) int {
	sum := 0
	for i := 0; i < len(d); i++ {
		sum += int(d[i]-'0') * (startWeight - i)
	}
	r := 11 - sum%11
	if r >= 10 {
		return 0
	}
	return r
}

func validCNPJ(d string) bool {
	if repeated(d) {
		return false
	}
	first := cnpjCheckDigit(d[:12], cnpjWeights1)
	if int(d[12]-'0') != first {
		return false
	}
	second := cnpjCheckDigit(d[:13], cnpjWeights2)
	return int(d[13]-'0') == second
}

func cnpjCheckDigit(d string, weights []int) int {
	sum := 0
	for i, w := range weights {
		sum += int(d[i]-'0') * w
	}
	m := sum % 11
	if m <= 1 {
		return 0
	}
	return 11 - m
}

func repeated(d string) bool {
	for i := 1; i < len(d); i++ {
		if d[i] != d[0] {
			return false
		}
	}
	return true
}
