package utils

import (
	"crypto/rand"
	"math/big"
)

// lookupAlphabet leaves out 0/O and 1/I/L so codes survive being read aloud.
const lookupAlphabet = "23456789ABCDEFGHJKMNPQRSTUVWXYZ"

// LookupCodeLength is the length of codes produced by GenerateLookupCode.
const LookupCodeLength = 8

// GenerateLookupCode returns a random customer lookup code.
func GenerateLookupCode() (string, error) {
	max := big.NewInt(int64(len(lookupAlphabet)))
	code := make([]byte, LookupCodeLength)
	for i := range code {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		code[i] = lookupAlphabet[n.Int64()]
	}
	return string(code), nil
}
