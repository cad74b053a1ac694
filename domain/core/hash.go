package core

import (
	"crypto/sha256"
	"encoding/hex"
	"hash"
	"strconv"
)

// Hash represents a cryptographic hash
type Hash string

// NewHash creates a new hash from data
func NewHash(data []byte) Hash {
	sum := sha256.Sum256(data)
	return Hash(hex.EncodeToString(sum[:]))
}

// String returns the string representation
func (h Hash) String() string {
	return string(h)
}

// IsEmpty checks if the hash is empty
func (h Hash) IsEmpty() bool {
	return h == ""
}

// Short returns the first 12 hex characters, for logs.
func (h Hash) Short() string {
	if len(h) <= 12 {
		return string(h)
	}
	return string(h[:12])
}

// Fingerprinter accumulates an order-sensitive digest of run inputs.
// Fields are length-prefixed so that ("ab","c") and ("a","bc") differ.
type Fingerprinter struct {
	h hash.Hash
}

func NewFingerprinter() *Fingerprinter {
	return &Fingerprinter{h: sha256.New()}
}

// String adds a string field.
func (f *Fingerprinter) String(s string) *Fingerprinter {
	f.h.Write([]byte(strconv.Itoa(len(s))))
	f.h.Write([]byte{':'})
	f.h.Write([]byte(s))
	return f
}

// Float adds a float field using its shortest exact representation.
func (f *Fingerprinter) Float(v float64) *Fingerprinter {
	return f.String(strconv.FormatFloat(v, 'g', -1, 64))
}

// Sum returns the digest of everything added so far.
func (f *Fingerprinter) Sum() Hash {
	return Hash(hex.EncodeToString(f.h.Sum(nil)))
}
