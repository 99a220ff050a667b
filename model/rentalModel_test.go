package model

import (
	"testing"
	"time"
)

func TestPlanLabels(t *testing.T) {
	cases := map[Plan]string{
		Plan1H:     "1時間",
		Plan3H:     "3時間",
		Plan6H:     "6時間",
		PlanAllDay: "終日",
	}
	for plan, want := range cases {
		if got := plan.Label(); got != want {
			t.Fatalf("Label(%s) = %q; want %q", plan, got, want)
		}
	}
}

func TestRentalRecord_Open(t *testing.T) {
	rec := RentalRecord{RentalNo: 1, StartTime: time.Now()}
	if !rec.Open() {
		t.Fatal("record without end time should be open")
	}

	end := rec.StartTime.Add(time.Hour)
	rec.EndTime = &end
	if rec.Open() {
		t.Fatal("record with end time should be closed")
	}
}
