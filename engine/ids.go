package engine

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// PointID identifies a point. It is either an unsigned integer or a UUID.
//
// The zero value is the numeric id 0. PointID is comparable and usable as a
// map key.
type PointID struct {
	num    uint64
	uuid   uuid.UUID
	isUUID bool
}

// NumID returns a numeric point id.
func NumID(n uint64) PointID {
	return PointID{num: n}
}

// UUIDID returns a UUID point id.
func UUIDID(u uuid.UUID) PointID {
	return PointID{uuid: u, isUUID: true}
}

// NewUUIDID returns a random (version 4) UUID point id.
func NewUUIDID() PointID {
	return UUIDID(uuid.New())
}

// ParsePointID parses a decimal integer or a UUID string.
func ParsePointID(s string) (PointID, error) {
	s = strings.TrimSpace(s)
	if n, err := strconv.ParseUint(s, 10, 64); err == nil {
		return NumID(n), nil
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return PointID{}, fmt.Errorf("%w: invalid point id %q", ErrBadInput, s)
	}
	return UUIDID(u), nil
}

// IsUUID reports whether the id is a UUID.
func (id PointID) IsUUID() bool { return id.isUUID }

// Num returns the numeric value. Only meaningful when !IsUUID().
func (id PointID) Num() uint64 { return id.num }

// UUID returns the UUID value. Only meaningful when IsUUID().
func (id PointID) UUID() uuid.UUID { return id.uuid }

func (id PointID) String() string {
	if id.isUUID {
		return id.uuid.String()
	}
	return strconv.FormatUint(id.num, 10)
}

// Compare orders numeric ids before UUIDs, numbers ascending and UUIDs
// bytewise.
func (id PointID) Compare(other PointID) int {
	switch {
	case id.isUUID != other.isUUID:
		if id.isUUID {
			return 1
		}
		return -1
	case id.isUUID:
		return bytes.Compare(id.uuid[:], other.uuid[:])
	case id.num < other.num:
		return -1
	case id.num > other.num:
		return 1
	default:
		return 0
	}
}

// MarshalJSON encodes numeric ids as JSON numbers and UUIDs as strings.
func (id PointID) MarshalJSON() ([]byte, error) {
	if id.isUUID {
		return json.Marshal(id.uuid.String())
	}
	return []byte(strconv.FormatUint(id.num, 10)), nil
}

// UnmarshalJSON accepts a JSON number or a UUID (or decimal) string.
func (id *PointID) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		parsed, err := ParsePointID(s)
		if err != nil {
			return err
		}
		*id = parsed
		return nil
	}

	n, err := strconv.ParseUint(string(data), 10, 64)
	if err != nil {
		return fmt.Errorf("%w: invalid point id %s", ErrBadInput, data)
	}
	*id = NumID(n)
	return nil
}
