package checkin

import (
	"testing"
)

func TestDisplayNamePrecedence(t *testing.T) {
	cases := []struct {
		name string
		det  Detection
		want string
	}{
		{"confirmed wins", Detection{ConfirmedName: "Sol Ring", RecognizedName: "Soul Ring", RawText: "5ol Ring"}, "Sol Ring"},
		{"recognized next", Detection{RecognizedName: "Soul Ring", RawText: "5ol Ring"}, "Soul Ring"},
		{"raw text next", Detection{RawText: "ol Ring"}, "ol Ring"},
		{"placeholder last", Detection{}, "Unknown card"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.det.DisplayName(); got != tc.want {
				t.Errorf("DisplayName() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestConfirmSetsNameAndStatus(t *testing.T) {
	det := Detection{RecognizedName: "Lighming Bolt", Status: StatusDetected}

	got, err := Confirm(det, "  Lightning Bolt ")
	if err != nil {
		t.Fatal(err)
	}
	if got.ConfirmedName != "Lightning Bolt" {
		t.Errorf("confirmed name %q, want trimmed Lightning Bolt", got.ConfirmedName)
	}
	if got.Status != StatusConfirmed {
		t.Errorf("status %q, want %q", got.Status, StatusConfirmed)
	}
	// The recognized name and raw text are evidence; confirmation keeps them.
	if got.RecognizedName != det.RecognizedName {
		t.Errorf("recognized name changed to %q", got.RecognizedName)
	}
	// The input record is untouched.
	if det.ConfirmedName != "" || det.Status != StatusDetected {
		t.Error("Confirm mutated its input")
	}
}

func TestConfirmIsIdempotent(t *testing.T) {
	once, err := Confirm(Detection{}, "Counterspell")
	if err != nil {
		t.Fatal(err)
	}
	twice, err := Confirm(once, "Counterspell")
	if err != nil {
		t.Fatal(err)
	}
	if twice != once {
		t.Errorf("second confirmation changed the record: %+v vs %+v", twice, once)
	}
}

func TestConfirmRejectsEmptyName(t *testing.T) {
	for _, name := range []string{"", "   ", "\t\n"} {
		if _, err := Confirm(Detection{}, name); err != ErrEmptyConfirmedName {
			t.Errorf("Confirm(%q) error = %v, want ErrEmptyConfirmedName", name, err)
		}
	}
}

func TestSortDetectionsReadingOrder(t *testing.T) {
	at := func(x, y int) Detection {
		return Detection{BBox: BoundingBox{X: x, Y: y, Width: 100, Height: 140}}
	}

	// Two rows; within the top row the cards are deliberately out of x order,
	// and y=10 vs y=70 land in the same 80px row bucket.
	dets := []Detection{at(500, 85), at(300, 10), at(20, 70), at(40, 95)}
	SortDetections(dets)

	wantOrder := []BoundingBox{
		{X: 20, Y: 70, Width: 100, Height: 140},
		{X: 300, Y: 10, Width: 100, Height: 140},
		{X: 40, Y: 95, Width: 100, Height: 140},
		{X: 500, Y: 85, Width: 100, Height: 140},
	}
	for i, want := range wantOrder {
		if dets[i].BBox != want {
			t.Errorf("dets[%d].BBox = %+v, want %+v", i, dets[i].BBox, want)
		}
	}

	// Sorting a sorted list changes nothing.
	again := make([]Detection, len(dets))
	copy(again, dets)
	SortDetections(again)
	for i := range dets {
		if again[i].BBox != dets[i].BBox {
			t.Fatalf("sort not idempotent at index %d", i)
		}
	}
}
