// Package blockCipher implements the CBC block-cipher codec shared by the
// AES and Blowfish modes. Encryption output is IV ‖ ciphertext; the IV is
// sized to the cipher's block and generated fresh per call. There is no
// authentication tag: a PKCS#7 unpad failure on decryption is the only
// integrity signal, and callers rely on it to mean "wrong key or corrupted
// blob".
package blockCipher

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"errors"
	"fmt"

	"golang.org/x/crypto/blowfish"
)

var (
	// ErrPadding is returned when the PKCS#7 padding of a decrypted blob
	// does not validate. This is the wrong-secret signal and must never be
	// conflated with other failures.
	ErrPadding = errors.New("blockCipher: invalid padding")

	// ErrMalformedBlob is returned when a blob is too short to contain an
	// IV or its ciphertext is not block-aligned.
	ErrMalformedBlob = errors.New("blockCipher: malformed blob")
)

// EncryptAES encrypts plaintext with AES-CBC under key (16, 24 or 32 bytes)
// and returns IV(16) ‖ ciphertext.
func EncryptAES(plaintext, key []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("blockCipher: aes: %w", err)
	}
	return encryptCBC(block, plaintext)
}

// DecryptAES reverses EncryptAES. A wrong key surfaces as ErrPadding with
// overwhelming probability.
func DecryptAES(blob, key []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("blockCipher: aes: %w", err)
	}
	return decryptCBC(block, blob)
}

// EncryptBlowfish encrypts plaintext with Blowfish-CBC under key and returns
// IV(8) ‖ ciphertext. Blowfish uses an 8-byte block.
func EncryptBlowfish(plaintext, key []byte) ([]byte, error) {
	block, err := blowfish.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("blockCipher: blowfish: %w", err)
	}
	return encryptCBC(block, plaintext)
}

// DecryptBlowfish reverses EncryptBlowfish.
func DecryptBlowfish(blob, key []byte) ([]byte, error) {
	block, err := blowfish.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("blockCipher: blowfish: %w", err)
	}
	return decryptCBC(block, blob)
}

func encryptCBC(block cipher.Block, plaintext []byte) ([]byte, error) {
	blockSize := block.BlockSize()
	padded := pad(plaintext, blockSize)

	out := make([]byte, blockSize+len(padded))
	iv := out[:blockSize]
	if _, err := rand.Read(iv); err != nil {
		return nil, fmt.Errorf("blockCipher: generate IV: %w", err)
	}

	cipher.NewCBCEncrypter(block, iv).CryptBlocks(out[blockSize:], padded)
	return out, nil
}

func decryptCBC(block cipher.Block, blob []byte) ([]byte, error) {
	blockSize := block.BlockSize()
	if len(blob) < 2*blockSize {
		return nil, ErrMalformedBlob
	}

	iv := blob[:blockSize]
	ciphertext := blob[blockSize:]
	if len(ciphertext)%blockSize != 0 {
		return nil, ErrMalformedBlob
	}

	padded := make([]byte, len(ciphertext))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(padded, ciphertext)

	return unpad(padded, blockSize)
}
