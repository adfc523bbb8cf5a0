package models

import "testing"

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from    string
		to      string
		allowed bool
	}{
		{CollectionPending, CollectionScheduled, true},
		{CollectionPending, CollectionCancelled, true},
		{CollectionPending, CollectionInProgress, false},
		{CollectionPending, CollectionCompleted, false},
		{CollectionScheduled, CollectionInProgress, true},
		{CollectionScheduled, CollectionCancelled, true},
		{CollectionScheduled, CollectionCompleted, false},
		{CollectionInProgress, CollectionCompleted, true},
		{CollectionInProgress, CollectionCancelled, false},
		{CollectionCompleted, CollectionScheduled, false},
		{CollectionCompleted, CollectionCancelled, false},
		{CollectionCancelled, CollectionScheduled, false},
		{"bogus", CollectionScheduled, false},
	}

	for _, tt := range tests {
		if got := CanTransition(tt.from, tt.to); got != tt.allowed {
			t.Errorf("CanTransition(%q, %q) = %v, want %v", tt.from, tt.to, got, tt.allowed)
		}
	}
}

func TestValidCollectionStatus(t *testing.T) {
	for _, s := range []string{CollectionPending, CollectionScheduled, CollectionInProgress, CollectionCompleted, CollectionCancelled} {
		if !ValidCollectionStatus(s) {
			t.Errorf("expected %q to be a valid status", s)
		}
	}
	for _, s := range []string{"", "done", "Pending"} {
		if ValidCollectionStatus(s) {
			t.Errorf("expected %q to be invalid", s)
		}
	}
}

func TestTotalWeightKg(t *testing.T) {
	c := WasteCollection{Items: []CollectionItem{
		{WeightKg: 1.5},
		{WeightKg: 2.25},
		{WeightKg: 0.25},
	}}
	if got := c.TotalWeightKg(); got != 4.0 {
		t.Errorf("TotalWeightKg() = %v, want 4.0", got)
	}

	empty := WasteCollection{}
	if got := empty.TotalWeightKg(); got != 0 {
		t.Errorf("TotalWeightKg() on empty collection = %v, want 0", got)
	}
}
