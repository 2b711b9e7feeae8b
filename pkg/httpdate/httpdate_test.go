package httpdate

import (
	"testing"
	"time"
)

func TestParseImfFixdate(t *testing.T) {
	date, err := Parse("Sun, 06 Nov 1994 08:49:37 GMT")
	if err != nil {
		t.Fatalf("Error parsing date: %+v", err)
	}
	if date.Year() != 1994 || date.Second() != 37 {
		t.Fatalf("Parsed date is %s", date)
	}
}

func TestParseRFC850(t *testing.T) {
	date, err := Parse("Sunday, 06-Nov-94 08:49:37 GMT")
	if err != nil {
		t.Fatalf("Error parsing date: %+v", err)
	}
	if date.Month() != time.November {
		t.Fatalf("Parsed date is %s", date)
	}
}

func TestParseAsctime(t *testing.T) {
	date, err := Parse("Sun Nov  6 08:49:37 1994")
	if err != nil {
		t.Fatalf("Error parsing date: %+v", err)
	}
	if date.Day() != 6 {
		t.Fatalf("Parsed date is %s", date)
	}
}

func TestParseGarbage(t *testing.T) {
	if _, err := Parse("yesterday"); err == nil {
		t.Fatal("Expected error for invalid date")
	}
}

func TestFormatTruncatesSubsecond(t *testing.T) {
	stamp := time.Date(1990, time.January, 1, 0, 0, 0, 500e6, time.UTC)
	if s := Format(stamp); s != "Mon, 01 Jan 1990 00:00:00 GMT" {
		t.Fatalf("Formatted date is %s", s)
	}
}

func TestFormatRoundTrip(t *testing.T) {
	stamp := time.Date(1980, time.June, 2, 12, 30, 45, 0, time.UTC)
	parsed, err := Parse(Format(stamp))
	if err != nil {
		t.Fatalf("Error parsing formatted date: %+v", err)
	}
	if !parsed.Equal(stamp) {
		t.Fatalf("Round trip gave %s, expected %s", parsed, stamp)
	}
}
