package geodash

import (
	"fmt"
	"reflect"
	"testing"
)

func poi(id string, points int) POI {
	return POI{ID: id, Name: id, Points: points, Challenge: ChallengeSimple, TerritoryID: StarterTerritory}
}

func TestNewUserDataDefaults(t *testing.T) {
	u := NewUserData()

	if u.TotalPoints != 0 {
		t.Errorf("TotalPoints = %d, want 0", u.TotalPoints)
	}
	if u.Level != 1 {
		t.Errorf("Level = %d, want 1", u.Level)
	}
	if u.Username != "Explorer" {
		t.Errorf("Username = %q, want %q", u.Username, "Explorer")
	}
	if !reflect.DeepEqual(u.UnlockedTerritories, []string{"starter"}) {
		t.Errorf("UnlockedTerritories = %v, want [starter]", u.UnlockedTerritories)
	}
	if len(u.CapturedPOIs) != 0 {
		t.Errorf("CapturedPOIs = %v, want empty", u.CapturedPOIs)
	}
}

func TestCaptureIdempotent(t *testing.T) {
	once := NewUserData()
	once.Capture(poi("a", 30))

	twice := NewUserData()
	if !twice.Capture(poi("a", 30)) {
		t.Fatal("first capture should award points")
	}
	if twice.Capture(poi("a", 30)) {
		t.Fatal("second capture should be a no-op")
	}

	if once.TotalPoints != twice.TotalPoints {
		t.Errorf("TotalPoints = %d, want %d", twice.TotalPoints, once.TotalPoints)
	}
	if len(once.CapturedPOIs) != len(twice.CapturedPOIs) {
		t.Errorf("captured = %d, want %d", len(twice.CapturedPOIs), len(once.CapturedPOIs))
	}
}

func TestLevelMonotonic(t *testing.T) {
	u := NewUserData()
	points := []int{10, 50, 40, 1, 99, 100, 250, 5}

	prev := u.Level
	for i, p := range points {
		u.Capture(poi(fmt.Sprintf("p%d", i), p))
		if u.Level < prev {
			t.Fatalf("capture %d: level dropped from %d to %d", i, prev, u.Level)
		}
		if want := u.TotalPoints/100 + 1; u.Level != want {
			t.Fatalf("capture %d: level = %d, want %d (points %d)", i, u.Level, want, u.TotalPoints)
		}
		prev = u.Level
	}
}

func TestLevelFor(t *testing.T) {
	tests := []struct {
		points int
		want   int
	}{
		{0, 1},
		{99, 1},
		{100, 2},
		{199, 2},
		{1050, 11},
		{-5, 1},
	}
	for _, tt := range tests {
		if got := LevelFor(tt.points); got != tt.want {
			t.Errorf("LevelFor(%d) = %d, want %d", tt.points, got, tt.want)
		}
	}
}

func TestCheckTerritoriesThresholds(t *testing.T) {
	u := NewUserData()
	steps := []struct {
		captured int
		want     []string
	}{
		{4, []string{"starter"}},
		{5, []string{"starter", "bronze"}},
		{10, []string{"starter", "bronze", "silver"}},
		{20, []string{"starter", "bronze", "silver", "gold"}},
	}

	n := 0
	for _, step := range steps {
		for n < step.captured {
			u.Capture(poi(fmt.Sprintf("poi-%d", n), 10))
			u.CheckTerritories()
			n++
		}
		if !reflect.DeepEqual(u.UnlockedTerritories, step.want) {
			t.Errorf("after %d captures: territories = %v, want %v", step.captured, u.UnlockedTerritories, step.want)
		}
	}
}

func TestCheckTerritoriesCrossesSeveralThresholds(t *testing.T) {
	u := NewUserData()
	for i := 0; i < 12; i++ {
		u.Capture(poi(fmt.Sprintf("poi-%d", i), 10))
	}

	got := u.CheckTerritories()
	var ids []string
	for _, tr := range got {
		ids = append(ids, tr.ID)
	}
	if !reflect.DeepEqual(ids, []string{"bronze", "silver"}) {
		t.Errorf("newly unlocked = %v, want [bronze silver]", ids)
	}
	if again := u.CheckTerritories(); len(again) != 0 {
		t.Errorf("second check unlocked %v, want none", again)
	}
}

func TestNormalize(t *testing.T) {
	u := UserData{TotalPoints: 350, Level: 1, UnlockedTerritories: []string{"bronze"}}
	u.Normalize()

	if u.Level != 4 {
		t.Errorf("Level = %d, want 4", u.Level)
	}
	if !u.HasTerritory("starter") || !u.HasTerritory("bronze") {
		t.Errorf("UnlockedTerritories = %v, want starter and bronze", u.UnlockedTerritories)
	}
	if u.Username != "Explorer" {
		t.Errorf("Username = %q, want default", u.Username)
	}
	if u.CapturedPOIs == nil || u.Achievements == nil {
		t.Error("lists should be non-nil after Normalize")
	}
}

func TestCloneIsIndependent(t *testing.T) {
	u := NewUserData()
	c := u.Clone()
	c.Capture(poi("x", 10))
	c.UnlockTerritory("gold")

	if len(u.CapturedPOIs) != 0 || u.HasTerritory("gold") {
		t.Errorf("original mutated through clone: %+v", u)
	}
}
