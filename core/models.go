package core

import (
	"encoding/binary"
	"strings"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// CustomerID identifies a customer record in the customer store.
// IDs are unique and define the canonical ordering of a pass.
type CustomerID int64

// Domain is a lookup key derived from a contact email address.
// Duplicate domains across customers are looked up independently.
type Domain string

// DomainFromEmail returns the part of email after the last '@'.
// Trailing whitespace is removed first; an address without '@' is returned whole.
func DomainFromEmail(email string) Domain {
	email = strings.TrimRightFunc(email, isSpace)
	if i := strings.LastIndexByte(email, '@'); i >= 0 {
		return Domain(email[i+1:])
	}
	return Domain(email)
}

func isSpace(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\r', '\v', '\f':
		return true
	}
	return false
}

// Customer is a row read from the customer store.
type Customer struct {
	ID    CustomerID
	Email string
}

// Domain returns the lookup key for the customer's contact address.
func (c Customer) Domain() Domain {
	return DomainFromEmail(c.Email)
}

// NoneToken is the textual form of an unknown attribute.
const NoneToken = "None"

// Attribute is the enrichment result for a single lookup key.
// It is either Known with a concrete value or Unknown. The zero value is Unknown.
type Attribute struct {
	value string
	known bool
}

// Known returns an attribute holding value.
func Known(value string) Attribute {
	return Attribute{value: value, known: true}
}

// Unknown returns the null-marker attribute.
func Unknown() Attribute {
	return Attribute{}
}

// Value returns the attribute value and whether it is known.
func (a Attribute) Value() (string, bool) {
	return a.value, a.known
}

// IsKnown reports whether the attribute carries a value.
func (a Attribute) IsKnown() bool {
	return a.known
}

// String renders the value, or NoneToken for unknown attributes.
func (a Attribute) String() string {
	if !a.known {
		return NoneToken
	}
	return a.value
}

// Ptr returns a pointer to the value, or nil when unknown.
// Used to bind the attribute to nullable columns.
func (a Attribute) Ptr() *string {
	if !a.known {
		return nil
	}
	v := a.value
	return &v
}

// EnrichedPair is a customer identifier paired with its industry.
type EnrichedPair struct {
	ID       CustomerID
	Industry Attribute
}

// Fingerprint identifies an ordered key set.
type Fingerprint uint64

// FingerprintOf hashes the ordered domains with BLAKE2b.
// Order matters: the same domains in a different order produce a different fingerprint.
func FingerprintOf(domains []Domain) Fingerprint {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	sep := []byte{0}
	for _, d := range domains {
		h.Write([]byte(d))
		h.Write(sep)
	}
	sum := h.Sum(nil)
	return Fingerprint(binary.LittleEndian.Uint64(sum))
}

// Capture is a result list persisted from a live enrichment pass.
type Capture struct {
	Fingerprint Fingerprint
	Attributes  []Attribute
	Complete    bool      // False when the pass ended early
	CapturedAt  time.Time // When the capture was written
}
