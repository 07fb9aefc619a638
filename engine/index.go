package engine

import (
	"math"
	"sort"
	"strconv"

	"github.com/RoaringBitmap/roaring/v2"
)

// payloadIndex maps every scalar payload value to the bitmap of point offsets
// holding it, per dotted field path.
type payloadIndex struct {
	fields map[string]map[string]*roaring.Bitmap
}

func newPayloadIndex() *payloadIndex {
	return &payloadIndex{fields: make(map[string]map[string]*roaring.Bitmap)}
}

// indexKey encodes a scalar so that values equal under compareEqual share a key.
func indexKey(v any) (string, bool) {
	if f, ok := asFloat64(v); ok {
		return "n:" + strconv.FormatUint(math.Float64bits(f+0), 16), true
	}
	switch t := v.(type) {
	case string:
		return "s:" + t, true
	case bool:
		if t {
			return "b:1", true
		}
		return "b:0", true
	default:
		return "", false
	}
}

func walkPayload(prefix string, v any, fn func(path string, v any)) {
	switch t := v.(type) {
	case map[string]any:
		for k, child := range t {
			p := k
			if prefix != "" {
				p = prefix + "." + k
			}
			walkPayload(p, child, fn)
		}
	case Payload:
		walkPayload(prefix, map[string]any(t), fn)
	case []any:
		for _, child := range t {
			walkPayload(prefix, child, fn)
		}
	default:
		if prefix != "" {
			fn(prefix, v)
		}
	}
}

func (ix *payloadIndex) add(offset uint32, payload Payload) {
	walkPayload("", payload, func(path string, v any) {
		key, ok := indexKey(v)
		if !ok {
			return
		}
		values, ok := ix.fields[path]
		if !ok {
			values = make(map[string]*roaring.Bitmap)
			ix.fields[path] = values
		}
		bm, ok := values[key]
		if !ok {
			bm = roaring.New()
			values[key] = bm
		}
		bm.Add(offset)
	})
}

func (ix *payloadIndex) remove(offset uint32, payload Payload) {
	walkPayload("", payload, func(path string, v any) {
		key, ok := indexKey(v)
		if !ok {
			return
		}
		values := ix.fields[path]
		if bm, ok := values[key]; ok {
			bm.Remove(offset)
			if bm.IsEmpty() {
				delete(values, key)
			}
		}
		if len(values) == 0 {
			delete(ix.fields, path)
		}
	})
}

// lookup returns the union of bitmaps for vals at path. ok is false when a
// value cannot be indexed; callers must then fall back to a scan.
func (ix *payloadIndex) lookup(path string, vals []any) (*roaring.Bitmap, bool) {
	out := roaring.New()
	values := ix.fields[path]
	for _, v := range vals {
		key, ok := indexKey(v)
		if !ok {
			return nil, false
		}
		if bm, ok := values[key]; ok {
			out.Or(bm)
		}
	}
	return out, true
}

func (ix *payloadIndex) fieldNames() []string {
	names := make([]string, 0, len(ix.fields))
	for name := range ix.fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
