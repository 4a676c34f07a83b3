package store

import (
	"encoding/base64"
	"encoding/json"
	"strconv"

	"github.com/cockroachdb/errors"
)

// ErrBadCursor is returned for a continuation cursor this store did not
// hand out, or one from a different kind of query.
var ErrBadCursor = errors.New("invalid pagination cursor")

// keyset is the opaque position used by index-ordered queries.
type keyset struct {
	Mode      string `json:"m"`
	CreatedAt int64  `json:"t,omitempty"`
	Seq       int64  `json:"s,omitempty"`
	Offset    int    `json:"o,omitempty"`
}

func (k keyset) encode() string {
	b, _ := json.Marshal(k)
	return base64.RawURLEncoding.EncodeToString(b)
}

// decodeKeyset returns nil for an empty cursor (first page).
func decodeKeyset(cursor, mode string) (*keyset, error) {
	if cursor == "" {
		return nil, nil
	}
	b, err := base64.RawURLEncoding.DecodeString(cursor)
	if err != nil {
		return nil, errors.Wrap(ErrBadCursor, "not base64")
	}
	var k keyset
	if err := json.Unmarshal(b, &k); err != nil {
		return nil, errors.Wrap(ErrBadCursor, "not a keyset")
	}
	if k.Mode != mode {
		return nil, errors.Wrapf(ErrBadCursor, "cursor for %q used with %q", k.Mode, mode)
	}
	return &k, nil
}

// decodeOffset reads the plain numeric cursor of company-set queries.
func decodeOffset(cursor string) (int, error) {
	if cursor == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(cursor)
	if err != nil || n < 0 {
		return 0, errors.Wrapf(ErrBadCursor, "offset %q", cursor)
	}
	return n, nil
}
