// Marketscope - Dental and Aesthetic Market Analytics
// Copyright 2026 T. Swanson (tswanson-dev)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tswanson-dev/marketscope

package database

import (
	"encoding/base64"
	"fmt"

	"github.com/goccy/go-json"
)

// Cursors are opaque base64-encoded JSON of the sort key plus the row id as
// tie-breaker. Keyset pagination keeps pages stable under concurrent inserts,
// unlike OFFSET.

// encodeCursor serializes a cursor struct to an opaque token.
func encodeCursor(cursor interface{}) (string, error) {
	data, err := json.Marshal(cursor)
	if err != nil {
		return "", fmt.Errorf("failed to encode cursor: %w", err)
	}
	return base64.StdEncoding.EncodeToString(data), nil
}

// decodeCursor deserializes an opaque token into the given cursor struct.
// Returns ErrInvalidCursor for tokens that are not valid base64 JSON.
func decodeCursor(token string, cursor interface{}) error {
	data, err := base64.StdEncoding.DecodeString(token)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidCursor, err)
	}
	if err := json.Unmarshal(data, cursor); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidCursor, err)
	}
	return nil
}
