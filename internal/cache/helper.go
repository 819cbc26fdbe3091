package cache

import (
	"encoding/json"
	"fmt"
	"strings"
)

// UnmarshalCacheValue attempts to convert a cache value to the specified type.
// It handles both objects stored as-is and values stored as JSON strings.
// Returns the typed value and true if successful, nil and false otherwise.
func UnmarshalCacheValue[T any](value interface{}) (*T, bool) {
	if value == nil {
		return nil, false
	}

	// Try direct type assertion first (for in-memory cache)
	if typed, ok := value.(*T); ok {
		return typed, true
	}

	// Try unmarshalling from JSON string
	if str, ok := value.(string); ok {
		var result T
		if err := json.Unmarshal([]byte(str), &result); err == nil {
			return &result, true
		}
	}

	return nil, false
}

// GenerateKey joins a prefix and parts into a cache key, e.g. termination_policy:org_1:prop_1
func GenerateKey(prefix string, parts ...interface{}) string {
	segments := make([]string, 0, len(parts)+1)
	segments = append(segments, prefix)
	for _, p := range parts {
		segments = append(segments, fmt.Sprintf("%v", p))
	}
	return strings.Join(segments, ":")
}
