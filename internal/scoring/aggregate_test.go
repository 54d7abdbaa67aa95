package scoring

import (
	"reflect"
	"testing"
)

func TestOverallScoreEmpty(t *testing.T) {
	if got := OverallScore(nil); got != 0 {
		t.Fatalf("expected 0, got %d", got)
	}
}

func TestOverallScoreEligibleOnly(t *testing.T) {
	results := []EligibilityResult{
		{GrantName: "A", Score: 90, Eligible: true},
		{GrantName: "B", Score: 70, Eligible: true},
		{GrantName: "C", Score: 10, Eligible: false},
	}
	// Ineligible scores must not drag the mean down.
	if got := OverallScore(results); got != 80 {
		t.Fatalf("expected 80, got %d", got)
	}
}

func TestOverallScoreNoEligibleFallsBackToAll(t *testing.T) {
	results := []EligibilityResult{
		{GrantName: "A", Score: 40, Eligible: false},
		{GrantName: "B", Score: 45, Eligible: false},
	}
	if got := OverallScore(results); got != 43 {
		t.Fatalf("expected 43 (rounded mean), got %d", got)
	}
}

func TestOverallScoreRoundsHalfUp(t *testing.T) {
	results := []EligibilityResult{
		{GrantName: "A", Score: 50, Eligible: true},
		{GrantName: "B", Score: 51, Eligible: true},
	}
	if got := OverallScore(results); got != 51 {
		t.Fatalf("expected 51, got %d", got)
	}
}

func TestEligibleGrantNamesPreservesOrder(t *testing.T) {
	results := []EligibilityResult{
		{GrantName: "ProAC ICMS", Score: 95, Eligible: true},
		{GrantName: "Lei Rouanet", Score: 80, Eligible: true},
		{GrantName: "PNAB", Score: 40, Eligible: false},
	}
	got := EligibleGrantNames(results)
	want := []string{"ProAC ICMS", "Lei Rouanet"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestEligibleGrantNamesNeverNil(t *testing.T) {
	got := EligibleGrantNames(nil)
	if got == nil {
		t.Fatal("expected empty slice, got nil")
	}
	if len(got) != 0 {
		t.Fatalf("expected empty, got %v", got)
	}
}
