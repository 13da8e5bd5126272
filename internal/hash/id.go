// Package hash computes stable 64-bit identifiers for resolved schema layouts.
package hash

import "github.com/cespare/xxhash/v2"

// ID computes the xxHash64 of the given string.
//
// Schema fingerprints are IDs of a canonical layout rendering, so two logs
// that declare the same flattened message layout produce the same value.
func ID(data string) uint64 {
	return xxhash.Sum64String(data)
}
