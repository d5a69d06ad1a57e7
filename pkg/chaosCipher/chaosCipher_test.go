package chaosCipher

import (
	"bytes"
	"crypto/rand"
	"errors"
	"testing"
)

func TestTransformRoundTrip(t *testing.T) {
	for _, key := range []float64{0.5, 1.0, 3.57, DefaultKey, 4.0} {
		data := make([]byte, 1024)
		rand.Read(data)

		encrypted, err := Transform(data, key)
		if err != nil {
			t.Fatalf("key %v: %v", key, err)
		}
		decrypted, err := Transform(encrypted, key)
		if err != nil {
			t.Fatalf("key %v: %v", key, err)
		}
		if !bytes.Equal(decrypted, data) {
			t.Fatalf("key %v: transform is not self-inverse", key)
		}
	}
}

func TestTransformDeterministic(t *testing.T) {
	data := make([]byte, 512)
	rand.Read(data)

	out1, err := Transform(data, DefaultKey)
	if err != nil {
		t.Fatal(err)
	}
	out2, err := Transform(data, DefaultKey)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(out1, out2) {
		t.Fatalf("keystream must be deterministic for a fixed key and length")
	}
}

func TestTransformScramblesInput(t *testing.T) {
	data := bytes.Repeat([]byte{0x42}, 256)
	out, err := Transform(data, DefaultKey)
	if err != nil {
		t.Fatal(err)
	}
	if bytes.Equal(out, data) {
		t.Fatalf("transform with the default key left the input unchanged")
	}
}

func TestTransformRejectsKeyOutOfRange(t *testing.T) {
	data := []byte("payload")
	for _, key := range []float64{0, -1, -3.99, 4.000001, 100} {
		if _, err := Transform(data, key); !errors.Is(err, ErrInvalidKeyRange) {
			t.Fatalf("key %v: expected ErrInvalidKeyRange, got %v", key, err)
		}
	}
}

func TestTransformEmptyInput(t *testing.T) {
	out, err := Transform(nil, DefaultKey)
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 0 {
		t.Fatalf("expected empty output, got %d bytes", len(out))
	}
}
