package webhook

import (
	"crypto/hmac"
	"crypto/sha1"
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signature(secret, payloadID, webhookURL string) string {
	mac := hmac.New(sha1.New, []byte(secret))
	mac.Write([]byte(payloadID + webhookURL))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

func TestVerify(t *testing.T) {
	const (
		secret = "s"
		url    = "http://h/webhook"
	)
	body := []byte(`{"payloadId":"p","action":"ping"}`)
	v := NewVerifier(secret, url, nil)

	t.Run("matching signature is valid", func(t *testing.T) {
		result, err := v.Verify(body, signature(secret, "p", url))
		require.NoError(t, err)
		assert.Equal(t, Valid, result)
	})

	t.Run("any other signature is invalid", func(t *testing.T) {
		result, err := v.Verify(body, "bogus")
		require.NoError(t, err)
		assert.Equal(t, Invalid, result)
	})

	t.Run("missing header is invalid", func(t *testing.T) {
		result, err := v.Verify(body, "")
		require.NoError(t, err)
		assert.Equal(t, Invalid, result)
	})

	t.Run("signature for another payloadId is invalid", func(t *testing.T) {
		result, err := v.Verify(body, signature(secret, "q", url))
		require.NoError(t, err)
		assert.Equal(t, Invalid, result)
	})
}

func TestVerifyEmptySecretSkips(t *testing.T) {
	v := NewVerifier("", "http://h/webhook", nil)

	result, err := v.Verify([]byte(`{"payloadId":"p"}`), "anything")
	require.NoError(t, err)
	assert.Equal(t, Skipped, result)

	result, err = v.Verify([]byte(`{"payloadId":"p"}`), "")
	require.NoError(t, err)
	assert.Equal(t, Skipped, result)
}

func TestVerifyMissingPayloadIDHashesEmptyString(t *testing.T) {
	const (
		secret = "s"
		url    = "http://h/webhook"
	)
	v := NewVerifier(secret, url, nil)

	// a body without payloadId still verifies against the empty-string hash
	result, err := v.Verify([]byte(`{"action":"ping"}`), signature(secret, "", url))
	require.NoError(t, err)
	assert.Equal(t, Valid, result)
}

func TestVerifyMalformedBody(t *testing.T) {
	v := NewVerifier("s", "http://h/webhook", nil)

	_, err := v.Verify([]byte(`not json`), "sig")
	require.Error(t, err)
}
