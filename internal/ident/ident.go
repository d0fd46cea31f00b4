// Package ident generates the human-legible display codes used for orders,
// tickets and reviews (e.g. "ORD-K4T9ZQ"). The codes are display identifiers,
// not secrets.
package ident

import (
	"crypto/rand"
	"fmt"
)

const codeAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

const codeLength = 6

// New returns a fresh display code with the given prefix.
func New(prefix string) string {
	buf := make([]byte, codeLength)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand never fails on supported platforms
		panic(fmt.Sprintf("ident: rand.Read: %v", err))
	}
	for i, b := range buf {
		buf[i] = codeAlphabet[int(b)%len(codeAlphabet)]
	}
	return prefix + "-" + string(buf)
}
