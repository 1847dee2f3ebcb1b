package engine

import (
	"fmt"
	"math/rand"
	"regexp"
	"time"
)

// BatchCodePattern is the contractual batch code shape: BATCH-YYYY-MM-NNNN.
const BatchCodePattern = `^BATCH-\d{4}-\d{2}-\d{4}$`

var batchCodeRegexp = regexp.MustCompile(BatchCodePattern)

// maxGenerateAttempts bounds the collision-retry loop. On exhaustion the last
// candidate is returned anyway; the store's unique constraint is the real
// uniqueness guarantee, not this generator.
const maxGenerateAttempts = 50

// ValidBatchCode reports whether a code matches the contractual format.
func ValidBatchCode(code string) bool {
	return batchCodeRegexp.MatchString(code)
}

// GenerateBatchCode produces a BATCH-YYYY-MM-NNNN code for the asOf
// year-month that does not collide with the existing set, retrying the
// four-digit suffix up to maxGenerateAttempts times. Pass a seeded rng for
// deterministic output; nil falls back to the shared source.
func GenerateBatchCode(existing map[string]struct{}, asOf time.Time, rng *rand.Rand) string {
	intn := rand.Intn
	if rng != nil {
		intn = rng.Intn
	}

	var code string
	for attempt := 0; attempt < maxGenerateAttempts; attempt++ {
		suffix := 1000 + intn(9000)
		code = fmt.Sprintf("BATCH-%04d-%02d-%d", asOf.Year(), int(asOf.Month()), suffix)
		if _, taken := existing[code]; !taken {
			return code
		}
	}
	return code
}
