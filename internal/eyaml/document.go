package eyaml

import (
	"crypto/rsa"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	kerrors "github.com/PolarWolf314/eyaml/internal/errors"
)

var (
	encryptedPattern = regexp.MustCompile(`ENC\[PKCS7,[A-Za-z0-9+/=\s]*\]`)
	markerPattern    = regexp.MustCompile(`(?s)DEC(?:\((\d+)\))?::PKCS7\[(.*?)\]!`)
)

const markerTerminator = "]!"

// Match is one encrypted value found in a document.
type Match struct {
	// Start and End are byte offsets of the token in the document.
	Start int
	End   int
	// Value is the token with any whitespace removed.
	Value string
}

// FindValues returns every ENC[PKCS7,...] token in doc in order of
// appearance. Tokens may span lines.
func FindValues(doc string) []Match {
	locs := encryptedPattern.FindAllStringIndex(doc, -1)
	matches := make([]Match, 0, len(locs))
	for _, loc := range locs {
		matches = append(matches, Match{
			Start: loc[0],
			End:   loc[1],
			Value: strings.Join(strings.Fields(doc[loc[0]:loc[1]]), ""),
		})
	}
	return matches
}

// DecryptDocument replaces every encrypted value in doc with its plaintext.
func DecryptDocument(doc string, priv *rsa.PrivateKey) (string, error) {
	return replaceValues(doc, func(_ int, m Match) (string, error) {
		return DecryptString(m.Value, priv)
	})
}

// MarkDocument replaces every encrypted value in doc with an indexed
// DEC(n)::PKCS7[plaintext]! marker. EncryptDocument turns the markers back
// into encrypted values once the document has been edited.
//
// A marker ends at the first "]!", so a plaintext containing it is refused
// with ErrMarkerTerminator rather than split.
func MarkDocument(doc string, priv *rsa.PrivateKey) (string, error) {
	return replaceValues(doc, func(i int, m Match) (string, error) {
		plaintext, err := DecryptString(m.Value, priv)
		if err != nil {
			return "", err
		}
		if strings.Contains(plaintext, markerTerminator) {
			return "", kerrors.ErrMarkerTerminator
		}
		return "DEC(" + strconv.Itoa(i+1) + ")::PKCS7[" + plaintext + "]!", nil
	})
}

// EncryptDocument replaces every DEC::PKCS7[...]! and DEC(n)::PKCS7[...]!
// marker in doc with an encrypted value. It returns the number of markers
// replaced.
func EncryptDocument(doc string, pub *rsa.PublicKey) (string, int, error) {
	locs := markerPattern.FindAllStringSubmatchIndex(doc, -1)
	if len(locs) == 0 {
		return doc, 0, nil
	}

	var b strings.Builder
	last := 0
	for _, loc := range locs {
		plaintext := doc[loc[4]:loc[5]]
		token, err := EncryptString(plaintext, pub)
		if err != nil {
			return "", 0, fmt.Errorf("marker at offset %d: %w", loc[0], err)
		}
		b.WriteString(doc[last:loc[0]])
		b.WriteString(token)
		last = loc[1]
	}
	b.WriteString(doc[last:])
	return b.String(), len(locs), nil
}

func replaceValues(doc string, replace func(int, Match) (string, error)) (string, error) {
	matches := FindValues(doc)
	if len(matches) == 0 {
		return doc, nil
	}

	var b strings.Builder
	last := 0
	for i, m := range matches {
		plain, err := replace(i, m)
		if err != nil {
			return "", fmt.Errorf("value at offset %d: %w", m.Start, err)
		}
		b.WriteString(doc[last:m.Start])
		b.WriteString(plain)
		last = m.End
	}
	b.WriteString(doc[last:])
	return b.String(), nil
}
