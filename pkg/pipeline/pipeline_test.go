package pipeline

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/veilbox/veilbox/pkg/blockCipher"
	"github.com/veilbox/veilbox/pkg/chaosCipher"
)

func testCarrierPNG(t *testing.T, width, height int) []byte {
	t.Helper()

	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.NRGBA{R: uint8(x * 9), G: uint8(y * 11), B: uint8(x + y), A: 255})
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode carrier: %v", err)
	}
	return buf.Bytes()
}

func TestParseAlgorithm(t *testing.T) {
	cases := map[string]Algorithm{
		"aes":      AES,
		"AES":      AES,
		" blowfish": Blowfish,
		"lsb":      LSB,
		"chaos":    Chaos,
		"hybrid":   Hybrid,
	}
	for name, want := range cases {
		got, err := ParseAlgorithm(name)
		assert.NoError(t, err, name)
		assert.Equal(t, want, got, name)
	}

	_, err := ParseAlgorithm("rot13")
	assert.ErrorIs(t, err, ErrUnsupportedAlgorithm)
	_, err = ParseAlgorithm("")
	assert.ErrorIs(t, err, ErrUnsupportedAlgorithm)
}

func TestPasswordModeRoundTrip(t *testing.T) {
	suite := NewSuite()
	payload := []byte("image bytes stand-in payload")

	enc, err := suite.Encrypt(AES, "correct horse battery staple", payload)
	assert.NoError(t, err)
	// salt(16) + IV(16) + at least one ciphertext block
	assert.GreaterOrEqual(t, len(enc.Blob), 48)

	dec, err := suite.Decrypt(AES, "correct horse battery staple", enc.Blob)
	assert.NoError(t, err)
	assert.Equal(t, payload, dec.Blob)
}

func TestPasswordModeWrongPassphrase(t *testing.T) {
	suite := NewSuite()
	payload := make([]byte, 16) // 16 zero bytes

	sawPaddingError := false
	for i := 0; i < 8; i++ {
		enc, err := suite.Encrypt(AES, "correct", payload)
		assert.NoError(t, err)

		dec, err := suite.Decrypt(AES, "wrong", enc.Blob)
		if err != nil {
			assert.ErrorIs(t, err, blockCipher.ErrPadding)
			sawPaddingError = true
			continue
		}
		assert.NotEqual(t, payload, dec.Blob, "wrong passphrase must never recover the plaintext")
	}
	assert.True(t, sawPaddingError, "expected at least one padding error across 8 attempts")
}

func TestPasswordModeRequiresPassphrase(t *testing.T) {
	suite := NewSuite()

	_, err := suite.Encrypt(AES, "", []byte("data"))
	assert.ErrorIs(t, err, ErrMissingSecret)

	_, err = suite.Decrypt(AES, "", make([]byte, 64))
	assert.ErrorIs(t, err, ErrMissingSecret)
}

func TestBlowfishModeRoundTrip(t *testing.T) {
	suite := NewSuite()
	payload := []byte("legacy mode payload")

	enc, err := suite.Encrypt(Blowfish, "legacy key", payload)
	assert.NoError(t, err)

	dec, err := suite.Decrypt(Blowfish, "legacy key", enc.Blob)
	assert.NoError(t, err)
	assert.Equal(t, payload, dec.Blob)
}

// The legacy parser accepts any key string, even empty; this is the
// documented weak-key policy.
func TestBlowfishModeEmptyKey(t *testing.T) {
	suite := NewSuite()
	payload := []byte("payload under the all-zero key")

	enc, err := suite.Encrypt(Blowfish, "", payload)
	assert.NoError(t, err)

	dec, err := suite.Decrypt(Blowfish, "", enc.Blob)
	assert.NoError(t, err)
	assert.Equal(t, payload, dec.Blob)
}

func TestChaosModeRoundTrip(t *testing.T) {
	suite := NewSuite()
	payload := []byte("chaotic payload")

	enc, err := suite.Encrypt(Chaos, "3.91", payload)
	assert.NoError(t, err)
	assert.NotEqual(t, payload, enc.Blob)

	dec, err := suite.Decrypt(Chaos, "3.91", enc.Blob)
	assert.NoError(t, err)
	assert.Equal(t, payload, dec.Blob)
}

func TestChaosModeDefaultKey(t *testing.T) {
	suite := NewSuite()
	payload := []byte("defaults on both sides")

	enc, err := suite.Encrypt(Chaos, "", payload)
	assert.NoError(t, err)

	dec, err := suite.Decrypt(Chaos, "", enc.Blob)
	assert.NoError(t, err)
	assert.Equal(t, payload, dec.Blob)
}

func TestChaosModeRejectsBadKeys(t *testing.T) {
	suite := NewSuite()

	for _, secret := range []string{"0", "-1", "4.5", "not a number"} {
		_, err := suite.Encrypt(Chaos, secret, []byte("x"))
		assert.ErrorIs(t, err, chaosCipher.ErrInvalidKeyRange, secret)

		_, err = suite.Decrypt(Chaos, secret, []byte("x"))
		assert.ErrorIs(t, err, chaosCipher.ErrInvalidKeyRange, secret)
	}
}

func TestHybridModeRoundTrip(t *testing.T) {
	suite := NewSuite()
	payload := []byte("hybrid mode payload")

	enc, err := suite.Encrypt(Hybrid, "hybrid key", payload)
	assert.NoError(t, err)

	dec, err := suite.Decrypt(Hybrid, "hybrid key", enc.Blob)
	assert.NoError(t, err)
	assert.Equal(t, payload, dec.Blob)
}

func TestLSBModeRoundTrip(t *testing.T) {
	suite := NewSuite()
	carrier := testCarrierPNG(t, 32, 32)

	enc, err := suite.Encrypt(LSB, "hidden message", carrier)
	assert.NoError(t, err)

	dec, err := suite.Decrypt(LSB, "", enc.Blob)
	assert.NoError(t, err)
	assert.True(t, dec.IsMessage)
	assert.Equal(t, "hidden message", dec.Message)
}

func TestLSBModeDefaultMessage(t *testing.T) {
	suite := NewSuite()
	carrier := testCarrierPNG(t, 32, 32)

	enc, err := suite.Encrypt(LSB, "", carrier)
	assert.NoError(t, err)

	dec, err := suite.Decrypt(LSB, "", enc.Blob)
	assert.NoError(t, err)
	assert.Equal(t, "Secret", dec.Message)
}

func TestDecryptAESTruncatedBlob(t *testing.T) {
	suite := NewSuite()

	_, err := suite.Decrypt(AES, "pass", make([]byte, 8))
	assert.ErrorIs(t, err, blockCipher.ErrMalformedBlob)
}
