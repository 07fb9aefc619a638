// Package compress implements the block compression used by collection snapshots.
package compress

import (
	"encoding/binary"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Type defines the compression algorithm used for a block.
type Type uint8

const (
	// None stores blocks as-is.
	None Type = 0
	// LZ4 is fast block compression, the default for snapshots.
	LZ4 Type = 1
	// ZSTD trades speed for a better ratio.
	ZSTD Type = 2
)

// ErrCorruptBlock is returned when a block header or payload is inconsistent.
var ErrCorruptBlock = errors.New("compress: corrupt block")

func (t Type) String() string {
	switch t {
	case None:
		return "none"
	case LZ4:
		return "lz4"
	case ZSTD:
		return "zstd"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(t))
	}
}

// Parse returns the Type for a configuration name. The empty string maps to LZ4.
func Parse(s string) (Type, error) {
	switch strings.ToLower(s) {
	case "", "lz4":
		return LZ4, nil
	case "zstd":
		return ZSTD, nil
	case "none":
		return None, nil
	default:
		return None, fmt.Errorf("unknown compression %q", s)
	}
}

var (
	zstdEncoderPool sync.Pool
	zstdDecoderPool sync.Pool
)

func getZstdEncoder() *zstd.Encoder {
	if v := zstdEncoderPool.Get(); v != nil {
		return v.(*zstd.Encoder)
	}
	enc, _ := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	return enc
}

func getZstdDecoder() *zstd.Decoder {
	if v := zstdDecoderPool.Get(); v != nil {
		return v.(*zstd.Decoder)
	}
	dec, _ := zstd.NewReader(nil)
	return dec
}

// Block header: [UncompressedSize uint32][CompressedSize uint32].
// CompressedSize == 0 means the payload follows uncompressed.
const headerSize = 8

// Encode compresses data into a single framed block.
// Blocks that do not shrink below 90% of their size are stored raw.
func Encode(data []byte, t Type) ([]byte, error) {
	var compressed []byte

	switch t {
	case None:
	case LZ4:
		buf := make([]byte, lz4.CompressBlockBound(len(data)))
		n, err := lz4.CompressBlock(data, buf, nil)
		if err != nil {
			return nil, err
		}
		compressed = buf[:n]
	case ZSTD:
		enc := getZstdEncoder()
		compressed = enc.EncodeAll(data, nil)
		zstdEncoderPool.Put(enc)
	default:
		return nil, fmt.Errorf("compress: unsupported type %s", t)
	}

	if len(compressed) == 0 || float64(len(compressed)) > float64(len(data))*0.9 {
		out := make([]byte, headerSize+len(data))
		binary.LittleEndian.PutUint32(out[0:], uint32(len(data)))
		copy(out[headerSize:], data)
		return out, nil
	}

	out := make([]byte, headerSize+len(compressed))
	binary.LittleEndian.PutUint32(out[0:], uint32(len(data)))
	binary.LittleEndian.PutUint32(out[4:], uint32(len(compressed)))
	copy(out[headerSize:], compressed)
	return out, nil
}

// Decode reverses Encode. t must match the type used to encode.
func Decode(block []byte, t Type) ([]byte, error) {
	if len(block) < headerSize {
		return nil, fmt.Errorf("%w: block too small for header", ErrCorruptBlock)
	}

	rawSize := binary.LittleEndian.Uint32(block[0:])
	compSize := binary.LittleEndian.Uint32(block[4:])

	if compSize == 0 {
		if uint64(len(block)) < uint64(headerSize)+uint64(rawSize) {
			return nil, fmt.Errorf("%w: raw block truncated", ErrCorruptBlock)
		}
		return block[headerSize : headerSize+rawSize], nil
	}

	if uint64(len(block)) < uint64(headerSize)+uint64(compSize) {
		return nil, fmt.Errorf("%w: compressed block truncated", ErrCorruptBlock)
	}
	payload := block[headerSize : headerSize+compSize]

	switch t {
	case LZ4:
		out := make([]byte, rawSize)
		n, err := lz4.UncompressBlock(payload, out)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCorruptBlock, err)
		}
		if uint32(n) != rawSize {
			return nil, fmt.Errorf("%w: decompressed size mismatch", ErrCorruptBlock)
		}
		return out, nil
	case ZSTD:
		dec := getZstdDecoder()
		defer zstdDecoderPool.Put(dec)

		out, err := dec.DecodeAll(payload, make([]byte, 0, rawSize))
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCorruptBlock, err)
		}
		if uint32(len(out)) != rawSize {
			return nil, fmt.Errorf("%w: decompressed size mismatch", ErrCorruptBlock)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w: compressed block with type %s", ErrCorruptBlock, t)
	}
}
