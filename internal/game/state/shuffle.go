package state

import (
	"crypto/rand"
	"math/big"
)

// ShuffleIDs permutes the id list in place with a Fisher-Yates shuffle
// driven by crypto/rand. Library order is visible to an adversarial
// co-player over enough games, so a seedable PRNG is not acceptable here.
func ShuffleIDs(ids []string) {
	for i := len(ids) - 1; i > 0; i-- {
		j := cryptoIntn(i + 1)
		ids[i], ids[j] = ids[j], ids[i]
	}
}

func cryptoIntn(n int) int {
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		// crypto/rand only fails when the platform entropy source is
		// broken, at which point the process cannot run a fair game.
		panic(err)
	}
	return int(v.Int64())
}
