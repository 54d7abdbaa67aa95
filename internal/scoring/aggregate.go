package scoring

import "math"

// OverallScore condenses a result set into the single integer persisted on
// the lead. With at least one eligible result the mean covers eligible
// results only; with none it falls back to the mean of everything, so the
// headline still shows the best available signal.
func OverallScore(results []EligibilityResult) int {
	if len(results) == 0 {
		return 0
	}

	var eligibleSum, eligibleCount int
	for _, r := range results {
		if r.Eligible {
			eligibleSum += r.Score
			eligibleCount++
		}
	}
	if eligibleCount > 0 {
		return roundMean(eligibleSum, eligibleCount)
	}

	sum := 0
	for _, r := range results {
		sum += r.Score
	}
	return roundMean(sum, len(results))
}

// EligibleGrantNames returns the names of eligible grants in the results'
// existing order, which is already score-descending from the scorer.
func EligibleGrantNames(results []EligibilityResult) []string {
	names := []string{}
	for _, r := range results {
		if r.Eligible {
			names = append(names, r.GrantName)
		}
	}
	return names
}

func roundMean(sum, count int) int {
	return int(math.Round(float64(sum) / float64(count)))
}
