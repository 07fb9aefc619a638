package compress

import (
	"bytes"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecode(t *testing.T) {
	compressible := bytes.Repeat([]byte("collection-snapshot-"), 512)

	random := make([]byte, 4096)
	rand.New(rand.NewSource(7)).Read(random)

	for _, typ := range []Type{None, LZ4, ZSTD} {
		for name, data := range map[string][]byte{
			"compressible": compressible,
			"random":       random,
			"empty":        {},
		} {
			t.Run(typ.String()+"/"+name, func(t *testing.T) {
				block, err := Encode(data, typ)
				require.NoError(t, err)

				out, err := Decode(block, typ)
				require.NoError(t, err)
				assert.Equal(t, len(data), len(out))
				assert.True(t, bytes.Equal(data, out))
			})
		}
	}
}

func TestEncodeShrinks(t *testing.T) {
	data := bytes.Repeat([]byte{1, 2, 3, 4}, 4096)

	for _, typ := range []Type{LZ4, ZSTD} {
		block, err := Encode(data, typ)
		require.NoError(t, err)
		assert.Less(t, len(block), len(data)/2, typ.String())
	}
}

func TestDecodeCorrupt(t *testing.T) {
	_, err := Decode([]byte{1, 2, 3}, LZ4)
	require.ErrorIs(t, err, ErrCorruptBlock)

	block, err := Encode(bytes.Repeat([]byte("abc"), 1000), ZSTD)
	require.NoError(t, err)

	_, err = Decode(block[:len(block)-4], ZSTD)
	require.ErrorIs(t, err, ErrCorruptBlock)
}

func TestParse(t *testing.T) {
	for in, want := range map[string]Type{"": LZ4, "LZ4": LZ4, "zstd": ZSTD, "none": None} {
		got, err := Parse(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	_, err := Parse("brotli")
	require.Error(t, err)
}
