// Package pkcs7 encodes and decodes the fixed PKCS#7 EnvelopedData
// structure used by eyaml values.
//
// The schema is not generic. Each field has a typed Go counterpart and a
// dedicated read/write step built on golang.org/x/crypto/cryptobyte, so
// tag class, tag number and the constructed bit are reproduced exactly:
//
//	Envelope            SEQUENCE
//	  contentType         OID 1.2.840.113549.1.7.3
//	  content             [0] EXPLICIT
//	    EnvelopeData        SEQUENCE
//	      version             INTEGER 0
//	      recipients          SET OF
//	        RecipientInfo       SEQUENCE
//	          version             INTEGER 0
//	          issuerAndSerial     SEQUENCE { Name, INTEGER 1 }
//	          keyEncryption       SEQUENCE { OID 1.2.840.113549.1.1.1, NULL }
//	          encryptedKey        OCTET STRING
//	      contentInfo         SEQUENCE
//	        contentType         OID 1.2.840.113549.1.7.1
//	        algorithm           SEQUENCE { OID 2.16.840.1.101.3.4.1.42, OCTET STRING iv }
//	        encryptedContent    [0] IMPLICIT, constructed
//
// Unmarshal never drops trailing input. Bytes after the envelope are
// returned together with a *errors.ResidualError.
//
// BuildEnvelope and ParseEnvelope convert between the envelope and the
// three values that vary per encryption: the wrapped session key, the IV
// and the ciphertext.
package pkcs7
