package rules

import (
	"math"

	"github.com/quarterclose/sift/internal/model"
)

// benfordExpected is the expected first-significant-digit distribution, in
// percent, for digits 1 through 9.
var benfordExpected = [9]float64{30.1, 17.6, 12.5, 9.7, 7.9, 6.7, 5.8, 5.1, 4.6}

// benfordDeviationLimit is the total absolute deviation (in percentage
// points) above which the population is considered anomalous.
const benfordDeviationLimit = 15.0

// checkBenford is the catalogue's one dataset-level rule: it compares the
// observed first-digit frequencies of the debit column against Benford's
// expected distribution and, on violation, flags every row. It cannot point
// at the rows that caused the deviation; callers must present it as a
// population verdict, not a row verdict.
func checkBenford(ds *model.Dataset, _ Config) ([]int, error) {
	var counts [9]int
	total := 0
	for _, r := range ds.Records {
		a := r.Amount()
		if a == nil || *a == 0 {
			continue
		}
		if d := firstSignificantDigit(*a); d >= 1 {
			counts[d-1]++
			total++
		}
	}
	if total == 0 {
		return nil, skip("no numeric amounts to test")
	}

	deviation := 0.0
	for i, expected := range benfordExpected {
		observed := 100 * float64(counts[i]) / float64(total)
		deviation += math.Abs(observed - expected)
	}
	if deviation <= benfordDeviationLimit {
		return nil, nil
	}

	rows := make([]int, len(ds.Records))
	for i, r := range ds.Records {
		rows[i] = r.Row
	}
	return rows, nil
}

// firstSignificantDigit returns the leading nonzero digit of |v|, or 0 when
// there is none.
func firstSignificantDigit(v float64) int {
	v = math.Abs(v)
	if v == 0 || math.IsInf(v, 0) || math.IsNaN(v) {
		return 0
	}
	for v >= 10 {
		v /= 10
	}
	for v < 1 {
		v *= 10
	}
	return int(v)
}
