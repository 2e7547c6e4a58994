package loadtest

import (
	"fmt"

	"github.com/okian/betterrest/internal/domain/types"
)

// checkChange verifies the acknowledgement of a single PATCH.
func checkChange(ch Change, got types.FormState) error {
	if got.Recalculations == nil {
		return fmt.Errorf("%w: missing recalculation count", ErrVerification)
	}
	if ch.Replay != got.Duplicate {
		return fmt.Errorf("%w: replay=%t but duplicate=%t", ErrVerification, ch.Replay, got.Duplicate)
	}
	if got.Duplicate && *got.Recalculations != 0 {
		return fmt.Errorf("%w: duplicate change recalculated %d times", ErrVerification, *got.Recalculations)
	}
	return checkEstimate(got.Estimate)
}

// verifyFinal compares the server's final state with the replayed one.
func verifyFinal(final types.FormState, want types.Inputs, revision uint64) error {
	if final.Inputs != want {
		return fmt.Errorf("%w: inputs %+v, want %+v", ErrVerification, final.Inputs, want)
	}
	if final.Revision != revision {
		return fmt.Errorf("%w: revision %d, want %d", ErrVerification, final.Revision, revision)
	}
	return checkEstimate(final.Estimate)
}

// checkEstimate requires exactly one of bedtime or error.
func checkEstimate(e types.Estimate) error {
	if (e.Bedtime == "") == (e.Error == nil) {
		return fmt.Errorf("%w: estimate must carry a bedtime or an error: %+v", ErrVerification, e)
	}
	return nil
}
