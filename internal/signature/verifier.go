package signature

import (
	"crypto/hmac"
	"crypto/sha1"
	"encoding/hex"
	"net/http"

	"commit-relay/internal/common/errors"
	"commit-relay/internal/common/logging"
)

// Header is the request header carrying the payload signature.
const Header = "X-Hub-Signature"

// Verifier handles webhook signature verification
type Verifier struct {
	secret []byte
	logger logging.Logger
}

// NewVerifier creates a new signature verifier
func NewVerifier(secret string, logger logging.Logger) *Verifier {
	if logger == nil {
		logger = logging.GetGlobalLogger()
	}

	return &Verifier{
		secret: []byte(secret),
		logger: logger,
	}
}

// Verify checks that the signature header on r matches body. The header
// value and the expected signature are compared in full, so an absent
// header fails the same way a forged one does. Neither value is logged.
func (v *Verifier) Verify(r *http.Request, body []byte) error {
	provided := r.Header.Get(Header)
	expected := Sign(v.secret, body)

	if !hmac.Equal([]byte(provided), []byte(expected)) {
		v.logger.Debug("Signature mismatch",
			logging.Field{Key: "header", Value: Header},
			logging.Field{Key: "present", Value: provided != ""},
		)
		return errors.AuthError("signature mismatch")
	}

	v.logger.Debug("Signature verified successfully",
		logging.Field{Key: "header", Value: Header},
	)
	return nil
}

// Sign computes the signature header value for body: the hex HMAC-SHA1
// digest under secret, prefixed with the scheme.
func Sign(secret, body []byte) string {
	mac := hmac.New(sha1.New, secret)
	mac.Write(body)
	return "sha1=" + hex.EncodeToString(mac.Sum(nil))
}
