package utils

import (
	"hash/fnv"
)

// ShardIndex maps key onto one of n buckets with FNV-1a. The same key always lands in the same
// bucket for a given n.
func ShardIndex(key string, n int) int {
	if n <= 1 {
		return 0
	}

	h := fnv.New32a()
	h.Write([]byte(key))
	return int(h.Sum32() % uint32(n))
}
