package engine

import "github.com/NordCoder/CloudCorrect/internal/domain/check"

// Verdict is PASS iff every result passed; no results is PASS.
func Verdict(results []check.Result) check.Status {
	for _, r := range results {
		if !r.Passed() {
			return check.StatusFail
		}
	}
	return check.StatusPass
}

// Changed ignores the first evaluation: PENDING carries no alerting meaning.
func Changed(old, cur check.Status) bool {
	return old != cur && old != check.StatusPending
}

func Failed(results []check.Result) []check.Result {
	var out []check.Result
	for _, r := range results {
		if !r.Passed() {
			out = append(out, r)
		}
	}
	return out
}
