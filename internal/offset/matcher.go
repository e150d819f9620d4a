// Package offset pairs debit and credit entries of equal magnitude within
// the same account, to surface round-trip or equal-and-opposite adjustments.
package offset

import (
	"math"
	"time"

	"github.com/quarterclose/sift/internal/model"
)

// Match scans records in input order, pairing each debit against a pending
// credit of the same (account, amount) and vice versa. The scan is
// inherently sequential: outcomes depend on row order and must not be
// parallelized.
//
// The pending maps hold at most one row per (account, amount) key. When two
// same-side rows share a key while both pending, the later row overwrites
// the earlier, and the earlier can no longer match anything: it resolves to
// Unmatched. This mirrors the historical behavior and is pinned by tests;
// the known fix is a queue of pending rows per key, but switching to it
// changes observable outcomes and is deliberately not done here.
func Match(ds *model.Dataset) []model.OffsetMatch {
	type key struct {
		account string
		amount  float64
	}

	pendingDebits := make(map[key]int)
	pendingCredits := make(map[key]int)

	n := len(ds.Records)
	matched := make([]bool, n)
	var matches []model.OffsetMatch

	for i := range ds.Records {
		r := &ds.Records[i]

		switch {
		case r.Debit != nil && *r.Debit > 0:
			k := key{account: r.AccountID, amount: *r.Debit}
			if j, ok := pendingCredits[k]; ok {
				delete(pendingCredits, k)
				matched[i], matched[j] = true, true
				matches = append(matches, model.OffsetMatch{
					DebitRow:  r.Row,
					CreditRow: ds.Records[j].Row,
					AccountID: r.AccountID,
					Amount:    *r.Debit,
					DaysApart: daysBetween(r.Date, ds.Records[j].Date),
					Status:    model.StatusMatched,
				})
			} else {
				pendingDebits[k] = i
			}

		case r.Credit != nil && *r.Credit > 0:
			k := key{account: r.AccountID, amount: *r.Credit}
			if j, ok := pendingDebits[k]; ok {
				delete(pendingDebits, k)
				matched[i], matched[j] = true, true
				matches = append(matches, model.OffsetMatch{
					DebitRow:  ds.Records[j].Row,
					CreditRow: r.Row,
					AccountID: r.AccountID,
					Amount:    *r.Credit,
					DaysApart: daysBetween(ds.Records[j].Date, r.Date),
					Status:    model.StatusMatched,
				})
			} else {
				pendingCredits[k] = i
			}
		}
	}

	// Everything amount-bearing that never paired, including rows evicted
	// by a same-key overwrite, resolves to no offset.
	for i := range ds.Records {
		r := &ds.Records[i]
		if matched[i] {
			continue
		}

		switch {
		case r.Debit != nil && *r.Debit > 0:
			matches = append(matches, model.OffsetMatch{
				DebitRow:  r.Row,
				CreditRow: -1,
				AccountID: r.AccountID,
				Amount:    *r.Debit,
				Status:    model.StatusUnmatched,
			})
		case r.Credit != nil && *r.Credit > 0:
			matches = append(matches, model.OffsetMatch{
				DebitRow:  -1,
				CreditRow: r.Row,
				AccountID: r.AccountID,
				Amount:    *r.Credit,
				Status:    model.StatusUnmatched,
			})
		}
	}

	return matches
}

// daysBetween returns the whole-day distance between two dates, or nil when
// either is unknown.
func daysBetween(a, b *time.Time) *int {
	if a == nil || b == nil {
		return nil
	}
	days := int(math.Abs(a.Sub(*b).Hours()) / 24)
	return &days
}
