package domain

import "testing"

func strp(s string) *string { return &s }

func TestProductModerationState(t *testing.T) {
	tests := []struct {
		name        string
		p           Product
		want        ModerationState
		conflicting bool
	}{
		{"pending", Product{}, ModerationPending, false},
		{"pending with empty reason", Product{RejectedReason: strp("")}, ModerationPending, false},
		{"approved", Product{IsApproved: true}, ModerationApproved, false},
		{"rejected", Product{RejectedReason: strp("blurry photos")}, ModerationRejected, false},
		{"both", Product{IsApproved: true, RejectedReason: strp("spam")}, ModerationApproved, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.p.ModerationState(); got != tt.want {
				t.Errorf("ModerationState() = %s, want %s", got, tt.want)
			}
			if got := tt.p.Conflicting(); got != tt.conflicting {
				t.Errorf("Conflicting() = %v, want %v", got, tt.conflicting)
			}
		})
	}
}

func TestProductMatches(t *testing.T) {
	pending := Product{ID: 1}
	approved := Product{ID: 2, IsApproved: true}
	rejected := Product{ID: 3, RejectedReason: strp("fake")}

	if !pending.Matches(ModerationPending) || pending.Matches(ModerationApproved) || pending.Matches(ModerationRejected) {
		t.Error("pending product filtered incorrectly")
	}
	if !approved.Matches(ModerationApproved) || approved.Matches(ModerationPending) {
		t.Error("approved product filtered incorrectly")
	}
	if !rejected.Matches(ModerationRejected) || rejected.Matches(ModerationPending) {
		t.Error("rejected product filtered incorrectly")
	}
	for _, p := range []Product{pending, approved, rejected} {
		if !p.Matches(ModerationAll) {
			t.Errorf("product %d should match all", p.ID)
		}
	}
}

func TestParseModerationState(t *testing.T) {
	if ParseModerationState("pending") != ModerationPending {
		t.Error("pending not parsed")
	}
	if ParseModerationState("bogus") != ModerationAll {
		t.Error("unknown filter should fall back to all")
	}
}
