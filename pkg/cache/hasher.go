package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
)

// GeocodeKey builds the cache key for a place name lookup, normalizing
// case and surrounding whitespace so "Mumbai" and " mumbai " share an entry.
func GeocodeKey(place string) string {
	return "geo:" + strings.ToLower(strings.TrimSpace(place))
}

// CountryKey builds the cache key for a resolved country lookup.
func CountryKey(lat, lon float64) string {
	return fmt.Sprintf("country:%.4f:%.4f", lat, lon)
}

// RoadRouteKey builds the cache key for an OSRM road-routing result between
// two coordinate pairs.
func RoadRouteKey(srcLat, srcLon, dstLat, dstLon float64) string {
	return fmt.Sprintf("road:%.4f,%.4f->%.4f,%.4f", srcLat, srcLon, dstLat, dstLon)
}

// QuickHash returns the full hex-encoded SHA-256 digest of data.
func QuickHash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}

// ShortHash returns a truncated (8-byte) hex digest, useful for log lines
// and cache keys where full collision resistance is unnecessary.
func ShortHash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:8])
}
