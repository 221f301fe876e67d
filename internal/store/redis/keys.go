package redis

import "fmt"

// DefaultKeyPrefix namespaces every content cache key.
const DefaultKeyPrefix = "fellowship:content:"

// NamespacedKey returns the physical Redis key for a logical cache key.
func NamespacedKey(prefix, key string) string {
	return prefix + key
}

// ExtractKey strips the namespace from a physical Redis key.
func ExtractKey(prefix, key string) (string, error) {
	if len(key) <= len(prefix) || key[:len(prefix)] != prefix {
		return "", fmt.Errorf("key %q is outside namespace %q", key, prefix)
	}
	return key[len(prefix):], nil
}
