package subscription

import (
	"cmp"
	"errors"
	"fmt"
	"maps"
	"slices"
)

// CheckMonotonic verifies that every feature granted by a tier is also granted
// by every higher-ranked tier. The policy never calls it; access decisions read
// the flat per-tier tables as they are.
func CheckMonotonic(tiers map[TierID]Tier) error {
	ids := slices.SortedFunc(maps.Keys(tiers), func(a, b TierID) int {
		return cmp.Compare(a.Rank(), b.Rank())
	})

	var errs []error
	for i, lower := range ids {
		for _, higher := range ids[i+1:] {
			for _, f := range tiers[lower].Features {
				if !tiers[higher].HasFeature(f) {
					errs = append(errs, fmt.Errorf("%q grants %q but %q does not", lower, f, higher))
				}
			}
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return errors.Join(append([]error{ErrNonMonotonicAccess}, errs...)...)
}

// MinimumTier returns the lowest-ranked tier granting f.
func (p *Policy) MinimumTier(f Feature) (TierID, bool) {
	for _, tier := range p.Catalog() {
		if p.access[tier.ID][f] {
			return tier.ID, true
		}
	}
	return "", false
}
