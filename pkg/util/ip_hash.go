package util

import (
	"encoding/hex"
	"strings"

	"golang.org/x/crypto/blake2b"
)

// IPHasher maps client IPs to stable pseudonymous keys. Raw addresses are
// never stored or logged.
type IPHasher struct {
	key []byte
}

func NewIPHasher(key string) *IPHasher {
	k := []byte(key)
	// blake2b keys are limited to 64 bytes.
	if len(k) > blake2b.Size {
		sum := blake2b.Sum512(k)
		k = sum[:]
	}
	return &IPHasher{key: k}
}

// Hash returns 32 hex characters.
func (h *IPHasher) Hash(ip string) string {
	mac, err := blake2b.New(16, h.key)
	if err != nil {
		// Only reachable with an oversized key, which NewIPHasher prevents.
		panic(err)
	}
	mac.Write([]byte(strings.TrimSpace(ip)))
	return hex.EncodeToString(mac.Sum(nil))
}
