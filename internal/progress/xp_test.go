package progress

import "testing"

func TestXPWithStreak_BelowThreshold(t *testing.T) {
	for _, streak := range []int{0, 1, 2} {
		if got := XPWithStreak(100, streak); got != 100 {
			t.Errorf("streak %d: expected 100, got %d", streak, got)
		}
	}
}

func TestXPWithStreak_Bonus(t *testing.T) {
	cases := []struct {
		base, streak, want int
	}{
		{100, 3, 110},
		{100, 4, 120},
		{100, 5, 130},
		{200, 3, 220},
		{300, 5, 390},
	}
	for _, tc := range cases {
		if got := XPWithStreak(tc.base, tc.streak); got != tc.want {
			t.Errorf("XPWithStreak(%d, %d) = %d, want %d", tc.base, tc.streak, got, tc.want)
		}
	}
}

func TestXPWithStreak_CapAt50Percent(t *testing.T) {
	if got := XPWithStreak(100, 10); got != 150 {
		t.Errorf("streak 10: expected 150, got %d", got)
	}
	if got := XPWithStreak(100, 20); got != 150 {
		t.Errorf("streak 20: expected 150, got %d", got)
	}
}

func TestLevelForXP(t *testing.T) {
	cases := []struct{ xp, want int }{
		{0, 1},
		{250, 1},
		{499, 1},
		{500, 2},
		{999, 2},
		{5000, 11},
		{10000, 21},
	}
	for _, tc := range cases {
		if got := LevelForXP(tc.xp); got != tc.want {
			t.Errorf("LevelForXP(%d) = %d, want %d", tc.xp, got, tc.want)
		}
	}
}

func TestBaseXPForTask(t *testing.T) {
	if got := BaseXPForTask("action", ""); got != 100 {
		t.Errorf("action: expected 100, got %d", got)
	}
	if got := BaseXPForTask("audacity", "fail"); got != 200 {
		t.Errorf("audacity fail: expected 200, got %d", got)
	}
	if got := BaseXPForTask("audacity", "success"); got != 300 {
		t.Errorf("audacity success: expected 300, got %d", got)
	}
}
