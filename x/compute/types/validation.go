package types

import (
	"net/url"
	"strings"
	"unicode"
)

const (
	// MaxDataRefLength bounds job data and result references.
	MaxDataRefLength = 512
	// MaxProofSize bounds submitted proofs before they reach the verifier.
	MaxProofSize = 64 * 1024
)

// AllowedRefSchemes are the URI schemes accepted for content references.
// References without a scheme are treated as bare content identifiers.
var AllowedRefSchemes = []string{"ipfs", "ar", "https"}

// ValidateContentRef validates an opaque content reference such as a CID
// or a content-addressed URI.
func ValidateContentRef(ref string) error {
	if ref == "" {
		return ErrInvalidDataRef.Wrap("reference cannot be empty")
	}
	if len(ref) > MaxDataRefLength {
		return ErrInvalidDataRef.Wrapf("reference length %d exceeds maximum %d", len(ref), MaxDataRefLength)
	}
	for _, r := range ref {
		if unicode.IsSpace(r) || !unicode.IsPrint(r) {
			return ErrInvalidDataRef.Wrapf("reference contains invalid character %q", r)
		}
	}

	if !strings.Contains(ref, "://") {
		return nil
	}
	u, err := url.Parse(ref)
	if err != nil {
		return ErrInvalidDataRef.Wrapf("malformed reference: %s", err)
	}
	for _, scheme := range AllowedRefSchemes {
		if strings.EqualFold(u.Scheme, scheme) {
			if u.Host == "" && u.Opaque == "" && u.Path == "" {
				return ErrInvalidDataRef.Wrap("reference has no content identifier")
			}
			return nil
		}
	}
	return ErrInvalidDataRef.Wrapf("scheme %q not allowed", u.Scheme)
}
