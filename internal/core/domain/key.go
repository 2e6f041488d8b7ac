package domain

// CacheKey is the lowercase hex SHA-256 digest naming a cache entry.
// The key is never stored on its own: it is the name of the entry directory.
type CacheKey string

// KeyLength is the number of hex characters in a CacheKey.
const KeyLength = 64

// String returns the key as a string.
func (k CacheKey) String() string {
	return string(k)
}

// Short returns an abbreviated form of the key for log messages.
func (k CacheKey) Short() string {
	if len(k) <= 12 {
		return string(k)
	}
	return string(k[:12])
}

// IsValid reports whether k looks like a key produced by the key deriver.
func (k CacheKey) IsValid() bool {
	if len(k) != KeyLength {
		return false
	}
	for i := 0; i < len(k); i++ {
		c := k[i]
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return true
}
