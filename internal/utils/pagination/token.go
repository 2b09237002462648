package pagination

import (
	"encoding/base64"
	"fmt"
	"strings"
	"time"
)

// Cursor tokens are opaque base64 strings handed to clients, encoding the
// sort-key values of the last row returned. A repository resumes a listing
// with a keyset predicate built from the decoded values, so pages stay stable
// while rows are inserted.

const timeFormat = time.RFC3339Nano

const fieldSeparator = "|"

// EncodeToken builds a cursor from a journal date and creation time, the sort
// key of journal listings.
func EncodeToken(journalDate time.Time, createdAt time.Time) string {
	tokenStr := journalDate.Format(timeFormat) + fieldSeparator + createdAt.Format(timeFormat)
	return base64.StdEncoding.EncodeToString([]byte(tokenStr))
}

// DecodeToken parses a journal-listing cursor back into its journal date and
// creation time.
func DecodeToken(token string) (time.Time, time.Time, error) {
	decodedBytes, err := base64.StdEncoding.DecodeString(token)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid pagination token format (base64 decode): %w", err)
	}
	parts := strings.SplitN(string(decodedBytes), fieldSeparator, 2)
	if len(parts) != 2 {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid pagination token format (split)")
	}

	journalDate, err := time.Parse(timeFormat, parts[0])
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid pagination token format (journal date parse): %w", err)
	}

	createdAt, err := time.Parse(timeFormat, parts[1])
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid pagination token format (created_at parse): %w", err)
	}

	return journalDate, createdAt, nil
}

// EncodeMultiFieldToken builds a cursor from arbitrary string fields, for
// listings whose sort key is not the journal date pair. Fields containing the
// separator will not round-trip; callers encode such values first.
func EncodeMultiFieldToken(fields ...string) string {
	return base64.StdEncoding.EncodeToString([]byte(strings.Join(fields, fieldSeparator)))
}

// DecodeMultiFieldToken splits a multi-field cursor back into its fields.
func DecodeMultiFieldToken(token string) ([]string, error) {
	decodedBytes, err := base64.StdEncoding.DecodeString(token)
	if err != nil {
		return nil, fmt.Errorf("invalid pagination token format (base64 decode): %w", err)
	}
	return strings.Split(string(decodedBytes), fieldSeparator), nil
}
