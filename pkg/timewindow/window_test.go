package timewindow

import (
	"testing"
	"time"
)

func TestResolveFallsBackToUTC(t *testing.T) {
	if loc := Resolve(""); loc != time.UTC {
		t.Fatalf("expected UTC for empty name, got %v", loc)
	}
	if loc := Resolve("Not/AZone"); loc != time.UTC {
		t.Fatalf("expected UTC for unknown name, got %v", loc)
	}
	if loc := Resolve("Asia/Karachi"); loc.String() != "Asia/Karachi" {
		t.Fatalf("expected Asia/Karachi, got %v", loc)
	}
}

func TestDayBounds(t *testing.T) {
	loc := Resolve("Asia/Karachi")
	day, err := ParseDate("2025-06-15", loc)
	if err != nil {
		t.Fatalf("parse date: %v", err)
	}

	from, to := Day(day)
	if from.Hour() != 0 || from.Minute() != 0 || from.Second() != 0 {
		t.Fatalf("expected start of day, got %v", from)
	}
	if to.Hour() != 23 || to.Minute() != 59 || to.Second() != 59 {
		t.Fatalf("expected end of day, got %v", to)
	}
	if to.Day() != 15 {
		t.Fatalf("end of day must stay on the same date, got %v", to)
	}
}

func TestMonthBoundsCoverWholeMonth(t *testing.T) {
	month, err := ParseMonth("2025-02", time.UTC)
	if err != nil {
		t.Fatalf("parse month: %v", err)
	}

	from, to := Month(month)
	if from.Day() != 1 {
		t.Fatalf("expected first day of month, got %v", from)
	}
	if to.Day() != 28 {
		t.Fatalf("expected Feb 2025 to end on the 28th, got %v", to)
	}
	if to.Hour() != 23 || to.Second() != 59 {
		t.Fatalf("expected end-of-day upper bound, got %v", to)
	}
}

func TestParseRejectsBadInput(t *testing.T) {
	if _, err := ParseDate("15-06-2025", time.UTC); err == nil {
		t.Fatal("expected error for bad date layout")
	}
	if _, err := ParseMonth("2025/06", time.UTC); err == nil {
		t.Fatal("expected error for bad month layout")
	}
}
