package contracts

import "testing"

func TestStage_ShortName(t *testing.T) {
	tests := []struct {
		stage Stage
		want  string
	}{
		{StageLoad, "S0"},
		{StagePrepare, "S1"},
		{StageReturns, "S2"},
		{StageAggregate, "S3"},
		{StageReport, "S4"},
		{Stage("S9_UNKNOWN"), "UNKNOWN"},
	}

	for _, tt := range tests {
		t.Run(tt.stage.String(), func(t *testing.T) {
			if got := tt.stage.ShortName(); got != tt.want {
				t.Errorf("ShortName() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsValidStage(t *testing.T) {
	for _, s := range AllStages() {
		if !IsValidStage(string(s)) {
			t.Errorf("IsValidStage(%q) = false, want true", s)
		}
		if s.Description() == "알 수 없음" {
			t.Errorf("stage %s has no description", s)
		}
	}

	if IsValidStage("S5_PORTFOLIO") {
		t.Error("IsValidStage(S5_PORTFOLIO) = true, want false")
	}
}
