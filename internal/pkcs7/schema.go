package pkcs7

import "math/big"

// Envelope is the outer ContentInfo of an eyaml value:
//
//	SEQUENCE { contentType OID, content [0] EXPLICIT EnvelopeData }
type Envelope struct {
	ContentType OID
	Content     EnvelopeData
}

// EnvelopeData carries the recipients and the encrypted payload.
//
//	SEQUENCE { version INTEGER, recipients SET OF RecipientInfo, contentInfo EncryptedContentInfo }
type EnvelopeData struct {
	Version     int64
	Recipients  []RecipientInfo
	ContentInfo EncryptedContentInfo
}

// RecipientInfo carries the session key wrapped for one RSA recipient.
type RecipientInfo struct {
	Version                int64
	IssuerAndSerial        IssuerAndSerial
	KeyEncryptionAlgorithm KeyEncryptionAlgorithm
	EncryptedKey           []byte
}

// IssuerAndSerial is kept for wire compatibility only; nothing reads it.
type IssuerAndSerial struct {
	Issuer       Name
	SerialNumber *big.Int
}

// Name is the rdnSequence alternative of the X.501 Name CHOICE, the only
// alternative defined.
type Name []RDN

// RDN is a RelativeDistinguishedName, a SET OF attribute pairs.
type RDN []AttributeTypeAndValue

// AttributeTypeAndValue pairs an attribute type with its DER-encoded value.
// Value holds the complete TLV and is never interpreted.
type AttributeTypeAndValue struct {
	Type  OID
	Value []byte
}

// KeyEncryptionAlgorithm is an AlgorithmIdentifier whose parameters are NULL.
type KeyEncryptionAlgorithm struct {
	Algorithm OID
}

// ContentEncryptionAlgorithm is an AlgorithmIdentifier whose parameters are
// the CBC initialization vector as an OCTET STRING.
type ContentEncryptionAlgorithm struct {
	Algorithm OID
	IV        []byte
}

// EncryptedContentInfo carries the AES-CBC ciphertext.
// EncryptedContent is written under an IMPLICIT constructed [0] tag.
type EncryptedContentInfo struct {
	ContentType      OID
	Algorithm        ContentEncryptionAlgorithm
	EncryptedContent []byte
}
