package faces

import (
	"math"
	"testing"
)

func TestBoxFromCorners(t *testing.T) {
	tests := []struct {
		name     string
		bbox     []float64
		expected BoundingBox
		ok       bool
	}{
		{
			name:     "simple box",
			bbox:     []float64{100, 200, 300, 400},
			expected: BoundingBox{Left: 100, Top: 200, Right: 300, Bottom: 400},
			ok:       true,
		},
		{
			name: "too short",
			bbox: []float64{100, 200},
			ok:   false,
		},
		{
			name: "empty",
			bbox: []float64{},
			ok:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, ok := BoxFromCorners(tt.bbox)
			if ok != tt.ok {
				t.Fatalf("BoxFromCorners(%v) ok = %v, want %v", tt.bbox, ok, tt.ok)
			}
			if ok && result != tt.expected {
				t.Errorf("BoxFromCorners(%v) = %+v, want %+v", tt.bbox, result, tt.expected)
			}
		})
	}
}

func TestBoxFromRelative(t *testing.T) {
	box := BoxFromRelative(0.1, 0.25, 0.2, 0.25, 1000, 800)
	expected := BoundingBox{Left: 100, Top: 200, Right: 300, Bottom: 400}
	got := []float64{box.Left, box.Top, box.Right, box.Bottom}
	want := []float64{expected.Left, expected.Top, expected.Right, expected.Bottom}
	for i := range got {
		if math.Abs(got[i]-want[i]) > 0.0001 {
			t.Errorf("BoxFromRelative() = %+v, want %+v", box, expected)
			break
		}
	}
}

func TestBoundingBox_ExactCenter(t *testing.T) {
	tests := []struct {
		name    string
		box     BoundingBox
		centerX float64
		centerY float64
		width   float64
	}{
		{"even box", BoundingBox{0, 0, 10, 20}, 5, 10, 10},
		{"odd box keeps fraction", BoundingBox{1, 1, 4, 6}, 2.5, 3.5, 3},
		{"offset box", BoundingBox{100, 200, 300, 260}, 200, 230, 200},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x, y := tt.box.ExactCenter()
			if x != tt.centerX || y != tt.centerY {
				t.Errorf("ExactCenter() = (%v, %v), want (%v, %v)", x, y, tt.centerX, tt.centerY)
			}
			if tt.box.Width() != tt.width {
				t.Errorf("Width() = %v, want %v", tt.box.Width(), tt.width)
			}
		})
	}
}
