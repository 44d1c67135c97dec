package table

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	rand "math/rand/v2"
)

const namePoolSize = 1000

// heroUID derives the stable hero identifier from the configured secret.
// The secret is supplied at construction time so runs are reproducible;
// wall-clock salting is deliberately not used.
func heroUID(secret string) string {
	sum := sha256.Sum256([]byte(secret + "_hero"))
	return "p_" + hex.EncodeToString(sum[:])
}

// newNamePool builds the shuffled pool of anonymized player identifiers used
// for churn. Entries are raw hex; the "p_" prefix is added at seat time.
func newNamePool(secret string, seed int64, rng *rand.Rand) []string {
	pool := make([]string, 0, namePoolSize)
	for i := 1; i <= namePoolSize; i++ {
		sum := sha256.Sum256(fmt.Appendf(nil, "bot_seed_%d_%s_%d", i, secret, seed))
		pool = append(pool, hex.EncodeToString(sum[:]))
	}
	rng.Shuffle(len(pool), func(i, j int) {
		pool[i], pool[j] = pool[j], pool[i]
	})
	return pool
}
