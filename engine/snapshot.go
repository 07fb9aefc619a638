package engine

import (
	"encoding/binary"
	"fmt"
	"hash/crc32"

	"github.com/hupe1980/vecbridge/codec"
	"github.com/hupe1980/vecbridge/internal/compress"
)

var (
	snapshotMagic         = [4]byte{'V', 'B', 'S', '1'}
	snapshotFormatVersion = uint16(1)
)

// Header (16 bytes + codec name)
// [0:4]   magic
// [4:6]   version
// [6]     compression type
// [7]     reserved
// [8:10]  codec name len
// [10:12] reserved
// [12:16] CRC32 (IEEE) of the compressed block
const snapshotHeaderSize = 16

// collectionSnapshot is the persisted form of a collection.
type collectionSnapshot struct {
	Name   string           `json:"name"`
	Config CreateCollection `json:"config"`
	OpID   uint64           `json:"op_id"`
	Points []snapshotPoint  `json:"points"`
}

type snapshotPoint struct {
	ID      PointID `json:"id"`
	Version uint64  `json:"version"`
	Vectors Vectors `json:"vectors,omitempty"`
	Payload Payload `json:"payload,omitempty"`
}

// encodeSnapshot marshals v with c, compresses it and frames it.
func encodeSnapshot(v any, c codec.Codec, t compress.Type) ([]byte, error) {
	if c == nil {
		c = codec.Default
	}
	codecName := c.Name()
	if len(codecName) > 0xFFFF {
		return nil, fmt.Errorf("snapshot codec name too long: %d", len(codecName))
	}

	raw, err := c.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("snapshot: marshal: %w", err)
	}
	block, err := compress.Encode(raw, t)
	if err != nil {
		return nil, fmt.Errorf("snapshot: compress: %w", err)
	}

	out := make([]byte, snapshotHeaderSize+len(codecName)+len(block))
	copy(out[0:4], snapshotMagic[:])
	binary.LittleEndian.PutUint16(out[4:6], snapshotFormatVersion)
	out[6] = byte(t)
	binary.LittleEndian.PutUint16(out[8:10], uint16(len(codecName)))
	binary.LittleEndian.PutUint32(out[12:16], crc32.ChecksumIEEE(block))
	copy(out[snapshotHeaderSize:], codecName)
	copy(out[snapshotHeaderSize+len(codecName):], block)
	return out, nil
}

// decodeSnapshot reverses encodeSnapshot. The codec is selected by the name
// stored in the header. Every failure wraps ErrCorrupt.
func decodeSnapshot(data []byte, v any) error {
	if len(data) < snapshotHeaderSize {
		return fmt.Errorf("%w: snapshot too small", ErrCorrupt)
	}
	if [4]byte(data[0:4]) != snapshotMagic {
		return fmt.Errorf("%w: bad snapshot magic", ErrCorrupt)
	}
	if ver := binary.LittleEndian.Uint16(data[4:6]); ver != snapshotFormatVersion {
		return fmt.Errorf("%w: unsupported snapshot version %d", ErrCorrupt, ver)
	}
	t := compress.Type(data[6])
	nameLen := int(binary.LittleEndian.Uint16(data[8:10]))
	sum := binary.LittleEndian.Uint32(data[12:16])

	if len(data) < snapshotHeaderSize+nameLen {
		return fmt.Errorf("%w: truncated codec name", ErrCorrupt)
	}
	codecName := string(data[snapshotHeaderSize : snapshotHeaderSize+nameLen])
	c, ok := codec.ByName(codecName)
	if !ok {
		return fmt.Errorf("%w: unknown codec %q", ErrCorrupt, codecName)
	}

	block := data[snapshotHeaderSize+nameLen:]
	if crc32.ChecksumIEEE(block) != sum {
		return fmt.Errorf("%w: checksum mismatch", ErrCorrupt)
	}
	raw, err := compress.Decode(block, t)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	if err := c.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("%w: unmarshal: %v", ErrCorrupt, err)
	}
	return nil
}
