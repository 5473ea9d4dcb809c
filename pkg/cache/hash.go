package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// hashKey derives "<prefix>:<sha256 of parts as JSON>". Parts must be
// JSON-encodable; render options are structs of plain fields.
func hashKey(prefix string, parts ...any) string {
	data, err := json.Marshal(parts)
	if err != nil {
		data = []byte(err.Error())
	}
	return prefix + ":" + Hash(data)
}

// Hash is the hex SHA-256 of data. File cache entries are named by it.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
