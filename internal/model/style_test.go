package model

import "testing"

func TestStagePipeline(t *testing.T) {
	if len(StageLabels) != 14 {
		t.Fatalf("pipeline has %d stages, want 14", len(StageLabels))
	}
	if StageLabels[0] != "Pre-fit" {
		t.Errorf("first stage = %q, want Pre-fit", StageLabels[0])
	}
	if StageLabels[StageDispatch] != "Dispatch" {
		t.Errorf("terminal stage = %q, want Dispatch", StageLabels[StageDispatch])
	}
}

func TestValidStage(t *testing.T) {
	for i := range StageLabels {
		if !ValidStage(i) {
			t.Errorf("ValidStage(%d) = false", i)
		}
	}
	for _, s := range []int{-1, len(StageLabels), 100} {
		if ValidStage(s) {
			t.Errorf("ValidStage(%d) = true", s)
		}
	}
}

func TestStageName(t *testing.T) {
	if got := StageName(5); got != "GPT" {
		t.Errorf("StageName(5) = %q, want GPT", got)
	}
	if got := StageName(-1); got != "" {
		t.Errorf("StageName(-1) = %q, want empty", got)
	}
	if got := StageName(14); got != "" {
		t.Errorf("StageName(14) = %q, want empty", got)
	}
}

func TestStageIndex(t *testing.T) {
	for i, label := range StageLabels {
		if got := StageIndex(label); got != i {
			t.Errorf("StageIndex(%q) = %d, want %d", label, got, i)
		}
	}
	// Matching is exact, no case folding.
	if got := StageIndex("gpt"); got != -1 {
		t.Errorf("StageIndex(gpt) = %d, want -1", got)
	}
	if got := StageIndex("Shipping"); got != -1 {
		t.Errorf("StageIndex(Shipping) = %d, want -1", got)
	}
}

func TestIsAdmin(t *testing.T) {
	if !IsAdmin(RoleAdmin) {
		t.Error("IsAdmin(admin) = false")
	}
	if IsAdmin(RoleMerchant) {
		t.Error("IsAdmin(merchant) = true")
	}
	if IsAdmin("") {
		t.Error("IsAdmin(empty) = true")
	}
}
