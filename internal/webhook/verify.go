package webhook

import (
	"crypto/hmac"
	"crypto/sha1"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log"
	"os"
)

// VerifyResult is the outcome of signature verification.
type VerifyResult int

const (
	// Valid means the signature matched.
	Valid VerifyResult = iota
	// Invalid means the signature header was missing or did not match.
	Invalid
	// Skipped means no secret is configured and verification was bypassed.
	Skipped
)

// Verifier checks the Favro webhook signature header. The header carries a
// base64 HMAC-SHA1 digest of the payloadId concatenated with the webhook URL
// exactly as registered with Favro.
type Verifier struct {
	secret     string
	webhookURL string
	logger     *log.Logger
}

// NewVerifier constructs a Verifier. An empty secret disables verification.
func NewVerifier(secret, webhookURL string, logger *log.Logger) *Verifier {
	if logger == nil {
		logger = log.New(os.Stdout, "webhook ", log.LstdFlags)
	}
	return &Verifier{secret: secret, webhookURL: webhookURL, logger: logger}
}

// Verify checks headerSignature against the signature computed from the raw
// request body. A missing payloadId participates as an empty string rather
// than short-circuiting. An unparseable body is the only error case.
func (v *Verifier) Verify(rawBody []byte, headerSignature string) (VerifyResult, error) {
	if v.secret == "" {
		v.logger.Println("WARNING: FAVRO_WEBHOOK_SECRET is not set. Webhook signature verification is disabled.")
		return Skipped, nil
	}

	if headerSignature == "" {
		v.logger.Println("Webhook signature header is missing")
		return Invalid, nil
	}

	var payload struct {
		PayloadID string `json:"payloadId"`
	}
	if err := json.Unmarshal(rawBody, &payload); err != nil {
		return Invalid, fmt.Errorf("failed to parse webhook body: %w", err)
	}

	mac := hmac.New(sha1.New, []byte(v.secret))
	mac.Write([]byte(payload.PayloadID + v.webhookURL))
	expected := base64.StdEncoding.EncodeToString(mac.Sum(nil))

	if !hmac.Equal([]byte(headerSignature), []byte(expected)) {
		v.logger.Println("Invalid webhook signature")
		return Invalid, nil
	}

	return Valid, nil
}
