// Package signature provides webhook payload authentication.
//
// Payloads are signed by the sender with HMAC-SHA1 over the raw request
// body using a shared secret, and the hex digest travels in the
// X-Hub-Signature header as "sha1=<digest>". The verifier recomputes the
// digest and compares it against the header in constant time. A missing
// or malformed header is treated exactly like a wrong one.
//
// # Usage
//
//	verifier := signature.NewVerifier(secret, logger)
//
//	body, _ := io.ReadAll(r.Body)
//	if err := verifier.Verify(r, body); err != nil {
//	    http.Error(w, "Invalid signature", http.StatusInternalServerError)
//	    return
//	}
//
// # Security Considerations
//
//   - Comparison is constant time (built-in)
//   - Secrets and signature values are never logged
//   - Use environment variables or config files for secrets, never hardcode
package signature
