package rules

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/quarterclose/sift/internal/model"
)

// amountEpsilon absorbs float noise when comparing aggregated sums.
const amountEpsilon = 1e-6

func checkLargeTransaction(ds *model.Dataset, cfg Config) ([]int, error) {
	var rows []int
	for _, r := range ds.Records {
		if (r.Debit != nil && *r.Debit > cfg.LargeThreshold) ||
			(r.Credit != nil && *r.Credit > cfg.LargeThreshold) {
			rows = append(rows, r.Row)
		}
	}
	return rows, nil
}

func checkManualEntry(ds *model.Dataset, _ Config) ([]int, error) {
	if !ds.Has(model.FieldManualFlag) {
		return nil, skip("column %q not mapped", model.FieldManualFlag)
	}
	var rows []int
	for _, r := range ds.Records {
		if r.ManualEntry {
			rows = append(rows, r.Row)
		}
	}
	return rows, nil
}

func checkSuspenseAccount(ds *model.Dataset, _ Config) ([]int, error) {
	if !ds.Has(model.FieldSuspenseFlag) {
		return nil, skip("column %q not mapped", model.FieldSuspenseFlag)
	}
	var rows []int
	for _, r := range ds.Records {
		if r.SuspenseAccount {
			rows = append(rows, r.Row)
		}
	}
	return rows, nil
}

func checkWeekendHoliday(ds *model.Dataset, cfg Config) ([]int, error) {
	holidays := make(map[string]bool, len(cfg.Holidays))
	for _, h := range cfg.Holidays {
		holidays[h.Format("2006-01-02")] = true
	}

	var rows []int
	for _, r := range ds.Records {
		if r.Date == nil {
			continue
		}
		wd := r.Date.Weekday()
		if wd == time.Saturday || wd == time.Sunday || holidays[r.Date.Format("2006-01-02")] {
			rows = append(rows, r.Row)
		}
	}
	return rows, nil
}

// checkOffsettingGroup flags every entry of a (creator, period) group whose
// debits and credits cancel out. Null amounts count as zero here; the sums
// are over whatever the group actually posted.
func checkOffsettingGroup(ds *model.Dataset, _ Config) ([]int, error) {
	if !ds.Has(model.FieldCreatedBy) {
		return nil, skip("column %q not mapped", model.FieldCreatedBy)
	}
	if !ds.Has(model.FieldPeriod) {
		return nil, skip("column %q not mapped", model.FieldPeriod)
	}

	type group struct {
		rows    []int
		debits  float64
		credits float64
	}
	groups := make(map[string]*group)
	for _, r := range ds.Records {
		key := r.CreatedBy + "\x00" + r.Period
		g := groups[key]
		if g == nil {
			g = &group{}
			groups[key] = g
		}
		g.rows = append(g.rows, r.Row)
		if r.Debit != nil {
			g.debits += *r.Debit
		}
		if r.Credit != nil {
			g.credits += *r.Credit
		}
	}

	var rows []int
	for _, g := range groups {
		if math.Abs(g.debits-g.credits) < amountEpsilon {
			rows = append(rows, g.rows...)
		}
	}
	sort.Ints(rows)
	return rows, nil
}

func checkDuplicateComposite(ds *model.Dataset, _ Config) ([]int, error) {
	if !ds.Has(model.FieldAccountID) {
		return nil, skip("column %q not mapped", model.FieldAccountID)
	}

	keyOf := func(r model.LedgerRecord) string {
		date := ""
		if r.Date != nil {
			date = r.Date.Format("2006-01-02")
		}
		return fmt.Sprintf("%s|%s|%s|%s", date, fmtAmount(r.Debit), fmtAmount(r.Credit), r.AccountID)
	}

	seen := make(map[string][]int)
	for _, r := range ds.Records {
		k := keyOf(r)
		seen[k] = append(seen[k], r.Row)
	}

	var rows []int
	for _, dupes := range seen {
		if len(dupes) > 1 {
			rows = append(rows, dupes...)
		}
	}
	sort.Ints(rows)
	return rows, nil
}

func checkDuplicateTxnID(ds *model.Dataset, _ Config) ([]int, error) {
	seen := make(map[string][]int)
	for _, r := range ds.Records {
		if r.TransactionID == "" {
			continue
		}
		seen[r.TransactionID] = append(seen[r.TransactionID], r.Row)
	}

	var rows []int
	for _, dupes := range seen {
		if len(dupes) > 1 {
			rows = append(rows, dupes...)
		}
	}
	sort.Ints(rows)
	return rows, nil
}

func checkMissingDescription(ds *model.Dataset, _ Config) ([]int, error) {
	if !ds.Has(model.FieldDescription) {
		return nil, skip("column %q not mapped", model.FieldDescription)
	}
	var rows []int
	for _, r := range ds.Records {
		if strings.TrimSpace(r.Description) == "" {
			rows = append(rows, r.Row)
		}
	}
	return rows, nil
}

// checkRoundedNumber flags amounts that are exact multiples of the
// configured threshold. The secondary isclose branch (remainder equal to the
// threshold itself) is kept from the historical rule set even though it
// rarely fires on its own.
func checkRoundedNumber(ds *model.Dataset, cfg Config) ([]int, error) {
	if cfg.RoundedThreshold <= 0 {
		return nil, skip("rounded-number threshold not set")
	}

	rounded := func(a *float64) bool {
		if a == nil || *a == 0 {
			return false
		}
		m := math.Mod(math.Abs(*a), cfg.RoundedThreshold)
		return m < amountEpsilon || math.Abs(m-cfg.RoundedThreshold) < amountEpsilon
	}

	var rows []int
	for _, r := range ds.Records {
		if rounded(r.Debit) || rounded(r.Credit) {
			rows = append(rows, r.Row)
		}
	}
	return rows, nil
}

func checkSameCreatorApprover(ds *model.Dataset, _ Config) ([]int, error) {
	if !ds.Has(model.FieldCreatedBy) {
		return nil, skip("column %q not mapped", model.FieldCreatedBy)
	}
	if !ds.Has(model.FieldApprovedBy) {
		return nil, skip("column %q not mapped", model.FieldApprovedBy)
	}
	var rows []int
	for _, r := range ds.Records {
		if r.CreatedBy != "" && r.CreatedBy == r.ApprovedBy {
			rows = append(rows, r.Row)
		}
	}
	return rows, nil
}

func checkBackdatedPosting(ds *model.Dataset, cfg Config) ([]int, error) {
	if !ds.Has(model.FieldPostingDate) {
		return nil, skip("column %q not mapped", model.FieldPostingDate)
	}
	if cfg.ClosingDate == nil {
		return nil, skip("closing date not set")
	}
	var rows []int
	for _, r := range ds.Records {
		if r.PostingDate != nil && r.PostingDate.Before(*cfg.ClosingDate) {
			rows = append(rows, r.Row)
		}
	}
	return rows, nil
}

// checkNearThreshold flags amounts sitting inside [0.95*T, T]: structured to
// stay just under an approval limit.
func checkNearThreshold(ds *model.Dataset, cfg Config) ([]int, error) {
	if cfg.AuthThreshold <= 0 {
		return nil, skip("authorization threshold not set")
	}

	near := func(a *float64) bool {
		return a != nil && *a >= 0.95*cfg.AuthThreshold && *a <= cfg.AuthThreshold
	}

	var rows []int
	for _, r := range ds.Records {
		if near(r.Debit) || near(r.Credit) {
			rows = append(rows, r.Row)
		}
	}
	return rows, nil
}

func checkUnauthorizedUser(ds *model.Dataset, cfg Config) ([]int, error) {
	if !ds.Has(model.FieldCreatedBy) {
		return nil, skip("column %q not mapped", model.FieldCreatedBy)
	}
	if len(cfg.AuthorizedUsers) == 0 {
		return nil, skip("authorized-user list is empty")
	}

	authorized := make(map[string]bool, len(cfg.AuthorizedUsers))
	for _, u := range cfg.AuthorizedUsers {
		authorized[u] = true
	}

	var rows []int
	for _, r := range ds.Records {
		if !authorized[r.CreatedBy] {
			rows = append(rows, r.Row)
		}
	}
	return rows, nil
}

func checkPostClosing(ds *model.Dataset, cfg Config) ([]int, error) {
	if cfg.ClosingDate == nil {
		return nil, skip("closing date not set")
	}
	var rows []int
	for _, r := range ds.Records {
		if r.Date != nil && r.Date.After(*cfg.ClosingDate) {
			rows = append(rows, r.Row)
		}
	}
	return rows, nil
}

// checkPattern99999 flags amounts whose fractional part sits just below a
// whole unit, e.g. 999.995: a classic trick to slip under round-number
// review.
func checkPattern99999(ds *model.Dataset, _ Config) ([]int, error) {
	suspicious := func(a *float64) bool {
		if a == nil {
			return false
		}
		frac := math.Abs(*a) - math.Floor(math.Abs(*a))
		return frac >= 0.99 && frac < 1.0
	}

	var rows []int
	for _, r := range ds.Records {
		if suspicious(r.Debit) || suspicious(r.Credit) {
			rows = append(rows, r.Row)
		}
	}
	return rows, nil
}

func checkSuspiciousKeyword(ds *model.Dataset, cfg Config) ([]int, error) {
	if !ds.Has(model.FieldDescription) {
		return nil, skip("column %q not mapped", model.FieldDescription)
	}
	if len(cfg.Keywords) == 0 {
		return nil, skip("keyword list is empty")
	}

	keywords := make([]string, len(cfg.Keywords))
	for i, k := range cfg.Keywords {
		keywords[i] = strings.ToLower(k)
	}

	var rows []int
	for _, r := range ds.Records {
		desc := strings.ToLower(r.Description)
		if desc == "" {
			continue
		}
		for _, k := range keywords {
			if strings.Contains(desc, k) {
				rows = append(rows, r.Row)
				break
			}
		}
	}
	return rows, nil
}

func checkSeldomUsedAccount(ds *model.Dataset, cfg Config) ([]int, error) {
	if !ds.Has(model.FieldAccountID) {
		return nil, skip("column %q not mapped", model.FieldAccountID)
	}
	if cfg.SeldomUseMinCount <= 0 {
		return nil, skip("seldom-use minimum count not set")
	}

	counts := make(map[string]int)
	for _, r := range ds.Records {
		counts[r.AccountID]++
	}

	var rows []int
	for _, r := range ds.Records {
		if counts[r.AccountID] < cfg.SeldomUseMinCount {
			rows = append(rows, r.Row)
		}
	}
	return rows, nil
}

func fmtAmount(a *float64) string {
	if a == nil {
		return "null"
	}
	return fmt.Sprintf("%.6f", *a)
}
