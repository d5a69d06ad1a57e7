// Package hybridCipher layers the chaotic stream cipher over the AES-CBC
// codec. The stream stage is applied last on encrypt and undone first on
// decrypt; since it is a self-inverse XOR, the second application restores
// the intermediate block-cipher blob exactly.
package hybridCipher

import (
	"github.com/veilbox/veilbox/pkg/blockCipher"
	"github.com/veilbox/veilbox/pkg/chaosCipher"
)

// Encrypt returns chaosTransform(aesEncrypt(data, blockKey), chaosKey).
func Encrypt(data, blockKey []byte, chaosKey float64) ([]byte, error) {
	blob, err := blockCipher.EncryptAES(data, blockKey)
	if err != nil {
		return nil, err
	}
	return chaosCipher.Transform(blob, chaosKey)
}

// Decrypt undoes the stream stage first, then the block stage. Ordering must
// mirror Encrypt exactly.
func Decrypt(blob, blockKey []byte, chaosKey float64) ([]byte, error) {
	inner, err := chaosCipher.Transform(blob, chaosKey)
	if err != nil {
		return nil, err
	}
	return blockCipher.DecryptAES(inner, blockKey)
}
