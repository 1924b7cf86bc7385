package timeutil

import (
	"testing"
	"time"
)

func TestParseHHMM(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{in: "09:00", want: 540},
		{in: "00:00", want: 0},
		{in: "23:59", want: 1439},
		{in: "09:00:00.000000", want: 540},
		{in: "9:00", wantErr: true},
		{in: "", wantErr: true},
		{in: "2500", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseHHMM(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseHHMM(%q) expected error, got %d", tt.in, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseHHMM(%q) error = %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ParseHHMM(%q) = %d, want %d", tt.in, got, tt.want)
			}
		})
	}
}

func TestIntervalOverlaps(t *testing.T) {
	base := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	mk := func(startMin, endMin int) Interval {
		return Interval{
			Start: base.Add(time.Duration(startMin) * time.Minute),
			End:   base.Add(time.Duration(endMin) * time.Minute),
		}
	}
	tests := []struct {
		name string
		a, b Interval
		want bool
	}{
		{name: "identical", a: mk(0, 30), b: mk(0, 30), want: true},
		{name: "partial overlap", a: mk(0, 30), b: mk(15, 45), want: true},
		{name: "contained", a: mk(0, 60), b: mk(15, 30), want: true},
		{name: "touching end to start", a: mk(0, 30), b: mk(30, 60), want: false},
		{name: "disjoint", a: mk(0, 30), b: mk(40, 60), want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Overlaps(tt.b); got != tt.want {
				t.Errorf("Overlaps = %v, want %v", got, tt.want)
			}
			if got := tt.b.Overlaps(tt.a); got != tt.want {
				t.Errorf("Overlaps (reversed) = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIntervalPad(t *testing.T) {
	iv := Interval{
		Start: time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC),
		End:   time.Date(2026, 3, 2, 9, 30, 0, 0, time.UTC),
	}
	padded := iv.Pad(10 * time.Minute)
	if want := time.Date(2026, 3, 2, 8, 50, 0, 0, time.UTC); !padded.Start.Equal(want) {
		t.Errorf("padded start = %v, want %v", padded.Start, want)
	}
	if want := time.Date(2026, 3, 2, 9, 40, 0, 0, time.UTC); !padded.End.Equal(want) {
		t.Errorf("padded end = %v, want %v", padded.End, want)
	}

	// A padded interval must now collide with a neighbor inside the buffer.
	neighbor := Interval{
		Start: time.Date(2026, 3, 2, 9, 35, 0, 0, time.UTC),
		End:   time.Date(2026, 3, 2, 10, 5, 0, 0, time.UTC),
	}
	if !padded.Overlaps(neighbor) {
		t.Error("padded interval should overlap a booking inside the buffer")
	}
}

func TestAtMinuteDST(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}

	// 2026-03-08 is the US spring-forward date: local 09:00 is UTC 13:00,
	// where the previous day it was UTC 14:00.
	before := Date{Year: 2026, Month: time.March, Day: 7}
	after := Date{Year: 2026, Month: time.March, Day: 8}

	if got, want := before.AtMinute(540, ny), time.Date(2026, 3, 7, 14, 0, 0, 0, time.UTC); !got.Equal(want) {
		t.Errorf("pre-DST 09:00 = %v, want %v", got, want)
	}
	if got, want := after.AtMinute(540, ny), time.Date(2026, 3, 8, 13, 0, 0, 0, time.UTC); !got.Equal(want) {
		t.Errorf("post-DST 09:00 = %v, want %v", got, want)
	}
}

func TestDateHelpers(t *testing.T) {
	d, err := ParseDate("2026-03-02")
	if err != nil {
		t.Fatalf("ParseDate error = %v", err)
	}
	if d.Weekday() != time.Monday {
		t.Errorf("weekday = %v, want Monday", d.Weekday())
	}
	if got := d.Next().String(); got != "2026-03-03" {
		t.Errorf("Next = %s, want 2026-03-03", got)
	}
	if !d.Next().After(d) || d.After(d) {
		t.Error("After ordering is wrong")
	}

	// Month rollover.
	eom := Date{Year: 2026, Month: time.February, Day: 28}
	if got := eom.Next().String(); got != "2026-03-01" {
		t.Errorf("Next over month boundary = %s, want 2026-03-01", got)
	}
}

func TestMergeWindows(t *testing.T) {
	tests := []struct {
		name string
		in   []Window
		want []Window
	}{
		{
			name: "disjoint stay separate",
			in:   []Window{{540, 720}, {780, 1020}},
			want: []Window{{540, 720}, {780, 1020}},
		},
		{
			name: "overlapping merge",
			in:   []Window{{540, 720}, {660, 780}},
			want: []Window{{540, 780}},
		},
		{
			name: "adjacent merge",
			in:   []Window{{540, 720}, {720, 780}},
			want: []Window{{540, 780}},
		},
		{
			name: "unsorted input",
			in:   []Window{{780, 1020}, {540, 720}},
			want: []Window{{540, 720}, {780, 1020}},
		},
		{
			name: "inverted and empty dropped",
			in:   []Window{{720, 540}, {600, 600}, {540, 720}},
			want: []Window{{540, 720}},
		},
		{
			name: "contained window absorbed",
			in:   []Window{{540, 1020}, {600, 660}},
			want: []Window{{540, 1020}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MergeWindows(tt.in)
			if len(got) != len(tt.want) {
				t.Fatalf("MergeWindows = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("window %d = %v, want %v", i, got[i], tt.want[i])
				}
			}
		})
	}
}
