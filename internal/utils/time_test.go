package utils

import (
	"testing"
	"time"
)

func TestLoadLocation(t *testing.T) {
	tests := []struct {
		name     string
		timezone string
		wantErr  bool
	}{
		{name: "empty string returns local", timezone: ""},
		{name: "Local returns local", timezone: "Local"},
		{name: "valid timezone UTC", timezone: "UTC"},
		{name: "valid timezone America/New_York", timezone: "America/New_York"},
		{name: "valid timezone Asia/Tokyo", timezone: "Asia/Tokyo"},
		{name: "invalid timezone", timezone: "Invalid/Timezone", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loc, err := LoadLocation(tt.timezone)
			if (err != nil) != tt.wantErr {
				t.Errorf("LoadLocation() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !tt.wantErr && loc == nil {
				t.Errorf("LoadLocation() returned nil location without error")
			}
			if ValidateTimezone(tt.timezone) == tt.wantErr {
				t.Errorf("ValidateTimezone(%q) disagrees with LoadLocation", tt.timezone)
			}
		})
	}
}

func TestDateString(t *testing.T) {
	tokyo, _ := time.LoadLocation("Asia/Tokyo")
	ny, _ := time.LoadLocation("America/New_York")
	instant := time.Date(2024, 3, 10, 20, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		loc  *time.Location
		want string
	}{
		{"UTC", time.UTC, "2024-03-10"},
		{"ahead of UTC crosses midnight", tokyo, "2024-03-11"},
		{"behind UTC", ny, "2024-03-10"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DateString(instant, tt.loc); got != tt.want {
				t.Errorf("DateString() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseDateInLocation(t *testing.T) {
	ny, _ := time.LoadLocation("America/New_York")
	got, err := ParseDateInLocation("2024-03-10", ny)
	if err != nil {
		t.Fatalf("ParseDateInLocation() error = %v", err)
	}
	want := time.Date(2024, 3, 10, 0, 0, 0, 0, ny)
	if !got.Equal(want) {
		t.Errorf("ParseDateInLocation() = %v, want %v", got, want)
	}

	if _, err := ParseDateInLocation("03/10/2024", ny); err == nil {
		t.Error("expected error for malformed date")
	}
}

func TestAddDays(t *testing.T) {
	tests := []struct {
		date string
		n    int
		want string
	}{
		{"2024-03-10", -1, "2024-03-09"},
		{"2024-03-01", -1, "2024-02-29"},
		{"2023-12-31", 1, "2024-01-01"},
		{"2024-03-10", 0, "2024-03-10"},
	}
	for _, tt := range tests {
		got, err := AddDays(tt.date, tt.n)
		if err != nil {
			t.Fatalf("AddDays(%q, %d) error = %v", tt.date, tt.n, err)
		}
		if got != tt.want {
			t.Errorf("AddDays(%q, %d) = %q, want %q", tt.date, tt.n, got, tt.want)
		}
	}

	if _, err := AddDays("nope", 1); err == nil {
		t.Error("expected error for invalid date")
	}
}

func TestValidateDate(t *testing.T) {
	tests := map[string]bool{
		"2024-03-10": true,
		"2024-02-30": false,
		"2024-3-10":  false,
		"":           false,
	}
	for in, want := range tests {
		if got := ValidateDate(in); got != want {
			t.Errorf("ValidateDate(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestFormatClock(t *testing.T) {
	ms := time.Date(2024, 3, 10, 13, 5, 0, 0, time.UTC).UnixMilli()
	if got := FormatClock(ms, time.UTC); got != "13:05" {
		t.Errorf("FormatClock() = %q, want %q", got, "13:05")
	}
}
