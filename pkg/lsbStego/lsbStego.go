// Package lsbStego hides a UTF-8 message in the least-significant bits of an
// image's RGB channel bytes.
//
// The embedded payload is a 32-bit big-endian byte-length header followed by
// the message bytes, written one bit per channel byte, MSB first within each
// byte. Traversal is row-major and channel-interleaved (R, G, B per pixel);
// embed and extract share this order as their implicit wire protocol, so it
// must never change. The stego image is re-encoded as PNG — a lossless
// format is a hard requirement, any quantizing encoder would destroy the
// embedded bits.
package lsbStego

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"unicode/utf8"

	_ "image/jpeg" // carrier decode only; output is always PNG
)

// channels is the number of carrier bytes per pixel. Only the color channels
// carry payload bits; alpha is preserved untouched.
const channels = 3

// headerBits is the size of the big-endian length header.
const headerBits = 32

var (
	// ErrInvalidImage is returned when the carrier bytes do not decode as
	// an image.
	ErrInvalidImage = errors.New("lsbStego: invalid image data")

	// ErrCapacity is returned when the message does not fit the carrier.
	// The check runs before any pixel is touched.
	ErrCapacity = errors.New("lsbStego: message too long to embed in this image")

	// ErrCorruptData is returned on extraction when the declared length is
	// implausible for the carrier or the payload is not valid UTF-8 —
	// almost certainly not a stego image produced by this codec.
	ErrCorruptData = errors.New("lsbStego: corrupted data or wrong format")
)

// Embed hides message in the channel-byte LSBs of the carrier image and
// returns the stego image encoded as PNG. The carrier may be any decodable
// raster format; its pixels are copied before mutation, so the input slice
// is never modified.
func Embed(carrier []byte, message string) ([]byte, error) {
	img, err := decodeCarrier(carrier)
	if err != nil {
		return nil, err
	}

	width := img.Rect.Dx()
	height := img.Rect.Dy()
	capacityBits := height * width * channels

	msg := []byte(message)
	payload := make([]byte, 4+len(msg))
	binary.BigEndian.PutUint32(payload, uint32(len(msg)))
	copy(payload[4:], msg)

	if len(payload)*8 > capacityBits {
		return nil, fmt.Errorf("%w: need %d bits, capacity %d", ErrCapacity, len(payload)*8, capacityBits)
	}

	bit := 0
	total := len(payload) * 8
	for y := 0; y < height && bit < total; y++ {
		row := img.Pix[y*img.Stride:]
		for x := 0; x < width && bit < total; x++ {
			for c := 0; c < channels && bit < total; c++ {
				b := payload[bit/8] >> (7 - uint(bit%8)) & 1
				row[x*4+c] = row[x*4+c]&0xFE | b
				bit++
			}
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("lsbStego: encode stego image: %w", err)
	}
	return buf.Bytes(), nil
}

// Extract recovers the embedded message from a stego image produced by Embed.
func Extract(encoded []byte) (string, error) {
	img, err := decodeCarrier(encoded)
	if err != nil {
		return "", err
	}

	width := img.Rect.Dx()
	height := img.Rect.Dy()
	capacityBits := height * width * channels

	if capacityBits < headerBits {
		return "", ErrCorruptData
	}

	r := bitReader{img: img, width: width, height: height}

	var header uint32
	for i := 0; i < headerBits; i++ {
		header = header<<1 | uint32(r.next())
	}

	msgLen := int(header)
	if headerBits+msgLen*8 > capacityBits {
		return "", fmt.Errorf("%w: declared length %d exceeds carrier capacity", ErrCorruptData, msgLen)
	}

	msg := make([]byte, msgLen)
	for i := range msg {
		var b byte
		for j := 0; j < 8; j++ {
			b = b<<1 | r.next()
		}
		msg[i] = b
	}

	if !utf8.Valid(msg) {
		return "", fmt.Errorf("%w: payload is not valid UTF-8", ErrCorruptData)
	}
	return string(msg), nil
}

// decodeCarrier decodes the image and copies it into an owned NRGBA buffer so
// embedding never aliases the decoder's pixel data.
func decodeCarrier(data []byte) (*image.NRGBA, error) {
	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}

	bounds := src.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(dst, dst.Bounds(), src, bounds.Min, draw.Src)
	return dst, nil
}

// bitReader walks the carrier in embed order, yielding one LSB per channel
// byte.
type bitReader struct {
	img           *image.NRGBA
	width, height int
	pos           int
}

func (r *bitReader) next() byte {
	pixel := r.pos / channels
	c := r.pos % channels
	x := pixel % r.width
	y := pixel / r.width
	r.pos++
	return r.img.Pix[y*r.img.Stride+x*4+c] & 1
}
