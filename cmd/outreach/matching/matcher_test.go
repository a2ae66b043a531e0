package matching

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestBestMatch_ExactShortCircuit(t *testing.T) {
	member := Normalize("Budi Santoso")
	pool := []string{
		Normalize("Budi Santosa"), // near miss
		Normalize("Budi Santoso"), // exact
		Normalize("Budi Santoso"), // second exact, must not be reached
	}

	m, ok := BestMatch(member, pool)
	if !ok {
		t.Fatal("expected a match")
	}
	if !m.Exact {
		t.Error("expected exact match")
	}
	if m.Index != 1 {
		t.Errorf("expected first exact match at index 1, got %d", m.Index)
	}
	if !m.Certain() {
		t.Error("exact match must be certain")
	}
	if m.Similarity() != 100 {
		t.Errorf("exact match similarity=%d, want 100", m.Similarity())
	}
}

func TestBestMatch_NearMissIsCertain(t *testing.T) {
	member := Normalize("Budi Santoso")
	pool := []string{Normalize("Budi Santosa")}

	m, ok := BestMatch(member, pool)
	if !ok {
		t.Fatal("expected a match")
	}
	if m.Exact {
		t.Error("did not expect exact match")
	}
	// One character differs at the end; bigram overlap is high enough
	// for the certain tier
	if !m.Certain() {
		t.Errorf("expected certain tier at score %v", m.Score)
	}
}

func TestBestMatch_AbbreviationFloor(t *testing.T) {
	member := Normalize("M. Arief")
	pool := []string{Normalize("Muhammad Arief")}

	m, ok := BestMatch(member, pool)
	if !ok {
		t.Fatal("expected a match via abbreviation compatibility")
	}
	if m.Similarity() < 75 {
		t.Errorf("similarity=%d, want >= 75 (abbreviation floor)", m.Similarity())
	}
	if m.Certain() {
		t.Errorf("abbreviation-floored score %v should be uncertain", m.Score)
	}
}

func TestBestMatch_PoolScan(t *testing.T) {
	member := Normalize("Dr. Siti Rahayu")
	pool := []string{
		Normalize("Budi Santoso"),
		Normalize("Siti Rahaya"),
		Normalize("Agus Priyono"),
	}

	got, ok := BestMatch(member, pool)
	if !ok {
		t.Fatal("expected a match")
	}

	want := Match{Index: 1, Score: 0.9}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("best match mismatch (-want +got):\n%s", diff)
	}
}

func TestBestMatch_NoCandidate(t *testing.T) {
	member := Normalize("Xaverius Quandt")
	pool := []string{
		Normalize("Budi Santoso"),
		Normalize("Siti Rahayu"),
	}

	if _, ok := BestMatch(member, pool); ok {
		t.Error("expected no candidate for a name with no overlap")
	}
}

func TestBestMatch_EmptyPool(t *testing.T) {
	if _, ok := BestMatch("budi santoso", nil); ok {
		t.Error("expected no candidate from an empty pool")
	}
}

func TestBetter_Policy(t *testing.T) {
	cases := []struct {
		name      string
		best      *Match
		ch        challenger
		wantIndex int
		wantScore float64
		wantNil   bool
	}{
		{
			name:    "below_threshold_ignored",
			best:    nil,
			ch:      challenger{index: 0, dice: 0.4},
			wantNil: true,
		},
		{
			name:      "clears_threshold",
			best:      nil,
			ch:        challenger{index: 0, dice: 0.6},
			wantIndex: 0,
			wantScore: 0.6,
		},
		{
			name:      "higher_dice_takes_lead",
			best:      &Match{Index: 0, Score: 0.6},
			ch:        challenger{index: 1, dice: 0.7},
			wantIndex: 1,
			wantScore: 0.7,
		},
		{
			name:      "lower_dice_does_not",
			best:      &Match{Index: 0, Score: 0.7},
			ch:        challenger{index: 1, dice: 0.6},
			wantIndex: 0,
			wantScore: 0.7,
		},
		{
			name:      "abbreviation_floors_weak_dice",
			best:      nil,
			ch:        challenger{index: 2, dice: 0.3, abbrev: true},
			wantIndex: 2,
			wantScore: 0.75,
		},
		{
			name:      "abbreviation_promotes_over_mid_best",
			best:      &Match{Index: 0, Score: 0.6},
			ch:        challenger{index: 2, dice: 0.3, abbrev: true},
			wantIndex: 2,
			wantScore: 0.75,
		},
		{
			name:      "abbreviation_keeps_own_stronger_dice",
			best:      &Match{Index: 0, Score: 0.6},
			ch:        challenger{index: 2, dice: 0.78, abbrev: true},
			wantIndex: 2,
			wantScore: 0.78,
		},
		{
			name:      "strong_best_blocks_promotion",
			best:      &Match{Index: 0, Score: 0.9},
			ch:        challenger{index: 2, dice: 0.3, abbrev: true},
			wantIndex: 0,
			wantScore: 0.9,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := better(tc.best, tc.ch)
			if tc.wantNil {
				if got != nil {
					t.Fatalf("expected nil best, got %+v", got)
				}
				return
			}
			if got == nil {
				t.Fatal("expected a best, got nil")
			}
			if got.Index != tc.wantIndex || got.Score != tc.wantScore {
				t.Fatalf("got index=%d score=%v, want index=%d score=%v",
					got.Index, got.Score, tc.wantIndex, tc.wantScore)
			}
		})
	}
}

func TestMatch_Classification(t *testing.T) {
	cases := []struct {
		name        string
		m           Match
		wantCertain bool
		wantSim     int
	}{
		{name: "exact", m: Match{Score: 1.0, Exact: true}, wantCertain: true, wantSim: 100},
		{name: "above_threshold", m: Match{Score: 0.86}, wantCertain: true, wantSim: 86},
		{name: "at_threshold", m: Match{Score: 0.85}, wantCertain: true, wantSim: 85},
		{name: "below_threshold", m: Match{Score: 0.84}, wantCertain: false, wantSim: 84},
		{name: "abbreviation_floor", m: Match{Score: 0.75}, wantCertain: false, wantSim: 75},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.m.Certain(); got != tc.wantCertain {
				t.Errorf("Certain()=%v, want %v", got, tc.wantCertain)
			}
			if got := tc.m.Similarity(); got != tc.wantSim {
				t.Errorf("Similarity()=%d, want %d", got, tc.wantSim)
			}
		})
	}
}
