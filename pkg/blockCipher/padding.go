package blockCipher

// pad appends PKCS#7 padding so the result is a whole number of blocks. An
// already aligned input gains a full extra block, so padding is always
// present and unpad never guesses.
func pad(data []byte, blockSize int) []byte {
	padLen := blockSize - len(data)%blockSize
	padded := make([]byte, len(data)+padLen)
	copy(padded, data)
	for i := len(data); i < len(padded); i++ {
		padded[i] = byte(padLen)
	}
	return padded
}

// unpad validates and strips PKCS#7 padding. The trailing byte claims the pad
// length; it must be in [1, blockSize] and every pad byte must equal it.
func unpad(data []byte, blockSize int) ([]byte, error) {
	if len(data) == 0 || len(data)%blockSize != 0 {
		return nil, ErrPadding
	}

	padLen := int(data[len(data)-1])
	if padLen < 1 || padLen > blockSize {
		return nil, ErrPadding
	}
	for _, b := range data[len(data)-padLen:] {
		if int(b) != padLen {
			return nil, ErrPadding
		}
	}

	return data[:len(data)-padLen], nil
}
