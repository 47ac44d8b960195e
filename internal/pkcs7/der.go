package pkcs7

import (
	"bytes"
	"fmt"
	"math/big"

	kerrors "github.com/PolarWolf314/eyaml/internal/errors"

	"golang.org/x/crypto/cryptobyte"
	cbasn1 "golang.org/x/crypto/cryptobyte/asn1"
)

var (
	tagExplicitContent = cbasn1.Tag(0).ContextSpecific().Constructed()
	tagEncryptedConstr = cbasn1.Tag(0).ContextSpecific().Constructed()
	tagEncryptedPrim   = cbasn1.Tag(0).ContextSpecific()
)

// Marshal encodes env as DER.
func Marshal(env *Envelope) ([]byte, error) {
	if env == nil {
		return nil, kerrors.Format("nil envelope")
	}

	var b cryptobyte.Builder
	b.AddASN1(cbasn1.SEQUENCE, func(b *cryptobyte.Builder) {
		addOID(b, env.ContentType)
		b.AddASN1(tagExplicitContent, func(b *cryptobyte.Builder) {
			addEnvelopeData(b, &env.Content)
		})
	})

	der, err := b.Bytes()
	if err != nil {
		return nil, kerrors.WrapFormat("encoding envelope", err)
	}
	return der, nil
}

func addEnvelopeData(b *cryptobyte.Builder, ed *EnvelopeData) {
	b.AddASN1(cbasn1.SEQUENCE, func(b *cryptobyte.Builder) {
		b.AddASN1Int64(ed.Version)
		b.AddASN1(cbasn1.SET, func(b *cryptobyte.Builder) {
			for i := range ed.Recipients {
				addRecipientInfo(b, &ed.Recipients[i])
			}
		})
		addEncryptedContentInfo(b, &ed.ContentInfo)
	})
}

func addRecipientInfo(b *cryptobyte.Builder, ri *RecipientInfo) {
	b.AddASN1(cbasn1.SEQUENCE, func(b *cryptobyte.Builder) {
		b.AddASN1Int64(ri.Version)
		b.AddASN1(cbasn1.SEQUENCE, func(b *cryptobyte.Builder) {
			addName(b, ri.IssuerAndSerial.Issuer)
			serial := ri.IssuerAndSerial.SerialNumber
			if serial == nil {
				serial = new(big.Int)
			}
			b.AddASN1BigInt(serial)
		})
		b.AddASN1(cbasn1.SEQUENCE, func(b *cryptobyte.Builder) {
			addOID(b, ri.KeyEncryptionAlgorithm.Algorithm)
			b.AddASN1NULL()
		})
		b.AddASN1OctetString(ri.EncryptedKey)
	})
}

func addName(b *cryptobyte.Builder, name Name) {
	b.AddASN1(cbasn1.SEQUENCE, func(b *cryptobyte.Builder) {
		for _, rdn := range name {
			b.AddASN1(cbasn1.SET, func(b *cryptobyte.Builder) {
				for _, atv := range rdn {
					b.AddASN1(cbasn1.SEQUENCE, func(b *cryptobyte.Builder) {
						addOID(b, atv.Type)
						b.AddBytes(atv.Value)
					})
				}
			})
		}
	})
}

func addEncryptedContentInfo(b *cryptobyte.Builder, eci *EncryptedContentInfo) {
	b.AddASN1(cbasn1.SEQUENCE, func(b *cryptobyte.Builder) {
		addOID(b, eci.ContentType)
		b.AddASN1(cbasn1.SEQUENCE, func(b *cryptobyte.Builder) {
			addOID(b, eci.Algorithm.Algorithm)
			b.AddASN1OctetString(eci.Algorithm.IV)
		})
		b.AddASN1(tagEncryptedConstr, func(b *cryptobyte.Builder) {
			b.AddBytes(eci.EncryptedContent)
		})
	})
}

func addOID(b *cryptobyte.Builder, oid OID) {
	if len(oid) == 0 {
		b.SetError(fmt.Errorf("empty object identifier"))
		return
	}
	b.AddASN1(cbasn1.OBJECT_IDENTIFIER, func(b *cryptobyte.Builder) {
		b.AddBytes(oid)
	})
}

// Unmarshal decodes a DER envelope from data and returns it together with
// any bytes that follow it. When bytes follow, the returned error is a
// *errors.ResidualError holding them and the decoded envelope.
func Unmarshal(data []byte) (*Envelope, []byte, error) {
	input := cryptobyte.String(data)

	var outer cryptobyte.String
	if !input.ReadASN1(&outer, cbasn1.SEQUENCE) {
		return nil, nil, kerrors.Format("envelope is not a DER SEQUENCE")
	}

	env := &Envelope{}
	var err error
	if env.ContentType, err = readOID(&outer, "envelope content type"); err != nil {
		return nil, nil, err
	}

	var explicit cryptobyte.String
	if !outer.ReadASN1(&explicit, tagExplicitContent) {
		return nil, nil, kerrors.Format("missing [0] EXPLICIT envelope content")
	}
	if err := readEnvelopeData(&explicit, &env.Content); err != nil {
		return nil, nil, err
	}
	if !explicit.Empty() || !outer.Empty() {
		return nil, nil, kerrors.Format("unexpected data inside envelope")
	}

	if !input.Empty() {
		rest := bytes.Clone(input)
		return env, rest, &kerrors.ResidualError{Rest: rest, Partial: env}
	}
	return env, nil, nil
}

func readEnvelopeData(s *cryptobyte.String, ed *EnvelopeData) error {
	var seq cryptobyte.String
	if !s.ReadASN1(&seq, cbasn1.SEQUENCE) {
		return kerrors.Format("envelope data is not a SEQUENCE")
	}
	if !seq.ReadASN1Integer(&ed.Version) {
		return kerrors.Format("invalid envelope data version")
	}

	var set cryptobyte.String
	if !seq.ReadASN1(&set, cbasn1.SET) {
		return kerrors.Format("recipients are not a SET")
	}
	for !set.Empty() {
		var ri RecipientInfo
		if err := readRecipientInfo(&set, &ri); err != nil {
			return err
		}
		ed.Recipients = append(ed.Recipients, ri)
	}

	if err := readEncryptedContentInfo(&seq, &ed.ContentInfo); err != nil {
		return err
	}
	if !seq.Empty() {
		return kerrors.Format("unexpected data after encrypted content info")
	}
	return nil
}

func readRecipientInfo(s *cryptobyte.String, ri *RecipientInfo) error {
	var seq cryptobyte.String
	if !s.ReadASN1(&seq, cbasn1.SEQUENCE) {
		return kerrors.Format("recipient info is not a SEQUENCE")
	}
	if !seq.ReadASN1Integer(&ri.Version) {
		return kerrors.Format("invalid recipient info version")
	}

	var ias cryptobyte.String
	if !seq.ReadASN1(&ias, cbasn1.SEQUENCE) {
		return kerrors.Format("issuer and serial number is not a SEQUENCE")
	}
	issuer, err := readName(&ias)
	if err != nil {
		return err
	}
	serial := new(big.Int)
	if !ias.ReadASN1Integer(serial) || !ias.Empty() {
		return kerrors.Format("invalid recipient serial number")
	}
	ri.IssuerAndSerial = IssuerAndSerial{Issuer: issuer, SerialNumber: serial}

	var alg cryptobyte.String
	if !seq.ReadASN1(&alg, cbasn1.SEQUENCE) {
		return kerrors.Format("key encryption algorithm is not a SEQUENCE")
	}
	if ri.KeyEncryptionAlgorithm.Algorithm, err = readOID(&alg, "key encryption algorithm"); err != nil {
		return err
	}
	if !alg.Empty() {
		var null cryptobyte.String
		if !alg.ReadASN1(&null, cbasn1.NULL) || !null.Empty() || !alg.Empty() {
			return kerrors.Format("key encryption algorithm parameters are not NULL")
		}
	}

	var key cryptobyte.String
	if !seq.ReadASN1(&key, cbasn1.OCTET_STRING) {
		return kerrors.Format("encrypted key is not an OCTET STRING")
	}
	ri.EncryptedKey = bytes.Clone(key)

	if !seq.Empty() {
		return kerrors.Format("unexpected data after encrypted key")
	}
	return nil
}

func readName(s *cryptobyte.String) (Name, error) {
	if !s.PeekASN1Tag(cbasn1.SEQUENCE) {
		return nil, kerrors.Format("unsupported issuer name choice")
	}
	var rdns cryptobyte.String
	if !s.ReadASN1(&rdns, cbasn1.SEQUENCE) {
		return nil, kerrors.Format("invalid issuer name")
	}

	name := Name{}
	for !rdns.Empty() {
		var set cryptobyte.String
		if !rdns.ReadASN1(&set, cbasn1.SET) {
			return nil, kerrors.Format("issuer RDN is not a SET")
		}
		var rdn RDN
		for !set.Empty() {
			var atv cryptobyte.String
			if !set.ReadASN1(&atv, cbasn1.SEQUENCE) {
				return nil, kerrors.Format("issuer attribute is not a SEQUENCE")
			}
			typ, err := readOID(&atv, "issuer attribute type")
			if err != nil {
				return nil, err
			}
			var value cryptobyte.String
			if !atv.ReadAnyASN1Element(&value, nil) || !atv.Empty() {
				return nil, kerrors.Format("invalid issuer attribute value")
			}
			rdn = append(rdn, AttributeTypeAndValue{Type: typ, Value: bytes.Clone(value)})
		}
		name = append(name, rdn)
	}
	return name, nil
}

func readEncryptedContentInfo(s *cryptobyte.String, eci *EncryptedContentInfo) error {
	var seq cryptobyte.String
	if !s.ReadASN1(&seq, cbasn1.SEQUENCE) {
		return kerrors.Format("encrypted content info is not a SEQUENCE")
	}
	var err error
	if eci.ContentType, err = readOID(&seq, "encrypted content type"); err != nil {
		return err
	}

	var alg cryptobyte.String
	if !seq.ReadASN1(&alg, cbasn1.SEQUENCE) {
		return kerrors.Format("content encryption algorithm is not a SEQUENCE")
	}
	if eci.Algorithm.Algorithm, err = readOID(&alg, "content encryption algorithm"); err != nil {
		return err
	}
	var iv cryptobyte.String
	if !alg.ReadASN1(&iv, cbasn1.OCTET_STRING) || !alg.Empty() {
		return kerrors.Format("content encryption IV is not an OCTET STRING")
	}
	eci.Algorithm.IV = bytes.Clone(iv)

	// Writers built on OpenSSL emit a primitive [0]; this codec writes a
	// constructed [0] whose content is the raw ciphertext. Both carry the
	// same bytes.
	tag := tagEncryptedConstr
	if !seq.PeekASN1Tag(tag) {
		tag = tagEncryptedPrim
	}
	var content cryptobyte.String
	if !seq.ReadASN1(&content, tag) {
		return kerrors.Format("missing [0] IMPLICIT encrypted content")
	}
	eci.EncryptedContent = bytes.Clone(content)

	if !seq.Empty() {
		return kerrors.Format("unexpected data after encrypted content")
	}
	return nil
}

func readOID(s *cryptobyte.String, field string) (OID, error) {
	var oid cryptobyte.String
	if !s.ReadASN1(&oid, cbasn1.OBJECT_IDENTIFIER) || len(oid) == 0 {
		return nil, kerrors.Format("%s is not an OBJECT IDENTIFIER", field)
	}
	return OID(bytes.Clone(oid)), nil
}
