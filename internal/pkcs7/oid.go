package pkcs7

import (
	"bytes"
	encoding_asn1 "encoding/asn1"
	"fmt"

	"golang.org/x/crypto/cryptobyte"
	cbasn1 "golang.org/x/crypto/cryptobyte/asn1"
)

// OID holds the DER content octets of an OBJECT IDENTIFIER, without the
// tag and length. Two OIDs are equal iff their bytes are equal.
type OID []byte

// Equal reports whether o and other encode the same identifier.
func (o OID) Equal(other OID) bool {
	return bytes.Equal(o, other)
}

// String returns the dotted form, e.g. "1.2.840.113549.1.7.3".
func (o OID) String() string {
	var b cryptobyte.Builder
	b.AddASN1(cbasn1.OBJECT_IDENTIFIER, func(b *cryptobyte.Builder) {
		b.AddBytes(o)
	})
	raw, err := b.Bytes()
	if err != nil {
		return fmt.Sprintf("oid(%x)", []byte(o))
	}
	s := cryptobyte.String(raw)
	var id encoding_asn1.ObjectIdentifier
	if !s.ReadASN1ObjectIdentifier(&id) {
		return fmt.Sprintf("oid(%x)", []byte(o))
	}
	return id.String()
}

// Role names a position in the envelope whose identifier is fixed.
type Role int

const (
	// RoleEnvelopedData is the outer content type.
	RoleEnvelopedData Role = iota
	// RoleData is the content type of the encrypted payload.
	RoleData
	// RoleKeyEncryption is the algorithm wrapping the session key.
	RoleKeyEncryption
	// RoleContentEncryption is the algorithm encrypting the payload.
	RoleContentEncryption
)

func (r Role) String() string {
	switch r {
	case RoleEnvelopedData:
		return "envelope content type"
	case RoleData:
		return "encrypted content type"
	case RoleKeyEncryption:
		return "key encryption algorithm"
	case RoleContentEncryption:
		return "content encryption algorithm"
	default:
		return fmt.Sprintf("role(%d)", int(r))
	}
}

// Fixed identifiers, DER content octets.
var (
	// OIDEnvelopedData is pkcs7-envelopedData, 1.2.840.113549.1.7.3.
	OIDEnvelopedData = OID{0x2a, 0x86, 0x48, 0x86, 0xf7, 0x0d, 0x01, 0x07, 0x03}

	// OIDData is pkcs7-data, 1.2.840.113549.1.7.1.
	OIDData = OID{0x2a, 0x86, 0x48, 0x86, 0xf7, 0x0d, 0x01, 0x07, 0x01}

	// OIDRSAEncryption is rsaEncryption, 1.2.840.113549.1.1.1.
	OIDRSAEncryption = OID{0x2a, 0x86, 0x48, 0x86, 0xf7, 0x0d, 0x01, 0x01, 0x01}

	// OIDAES256CBC is aes256-CBC, 2.16.840.1.101.3.4.1.42.
	OIDAES256CBC = OID{0x60, 0x86, 0x48, 0x01, 0x65, 0x03, 0x04, 0x01, 0x2a}
)

var fixedOIDs = map[Role]OID{
	RoleEnvelopedData:     OIDEnvelopedData,
	RoleData:              OIDData,
	RoleKeyEncryption:     OIDRSAEncryption,
	RoleContentEncryption: OIDAES256CBC,
}

// OID returns the identifier fixed for r.
func (r Role) OID() OID {
	return fixedOIDs[r]
}

// Matches reports whether got is the identifier fixed for r.
func (r Role) Matches(got OID) bool {
	return r.OID().Equal(got)
}
