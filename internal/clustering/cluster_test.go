package clustering

import (
	"math"
	"reflect"
	"strconv"
	"testing"

	"github.com/kozaktomas/lifeline/internal/faces"
)

func face(id string, x, y, size float64) faces.FaceRecord {
	return faces.FaceRecord{ID: id, CenterX: x, CenterY: y, Size: size}
}

func TestDistance(t *testing.T) {
	tests := []struct {
		name     string
		a, b     [3]float64
		expected float64
	}{
		{"identical", [3]float64{1, 2, 3}, [3]float64{1, 2, 3}, 0},
		{"3-4-0", [3]float64{0, 0, 10}, [3]float64{3, 4, 10}, 5},
		{"size only", [3]float64{0, 0, 10}, [3]float64{0, 0, 60}, 50},
		{"diagonal", [3]float64{0, 0, 10}, [3]float64{10, 10, 10}, math.Sqrt(200)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Distance(tt.a, tt.b)
			if math.Abs(result-tt.expected) > 1e-9 {
				t.Errorf("Distance(%v, %v) = %v, want %v", tt.a, tt.b, result, tt.expected)
			}
		})
	}
}

func TestCluster_Empty(t *testing.T) {
	result := Cluster(nil, DefaultThreshold)
	if result == nil || len(result) != 0 {
		t.Errorf("expected empty non-nil slice, got %#v", result)
	}
}

func TestCluster_SingleFace(t *testing.T) {
	result := Cluster([]faces.FaceRecord{face("a", 0, 0, 10)}, DefaultThreshold)

	expected := []PersonCluster{{PersonID: "person_1", FaceIDs: []string{"a"}, RepresentativeFaceID: "a"}}
	if !reflect.DeepEqual(result, expected) {
		t.Errorf("Cluster() = %+v, want %+v", result, expected)
	}
}

func TestCluster_TwoFacesWithinRange(t *testing.T) {
	result := Cluster([]faces.FaceRecord{
		face("a", 0, 0, 10),
		face("b", 10, 10, 10),
	}, DefaultThreshold)

	expected := []PersonCluster{{PersonID: "person_1", FaceIDs: []string{"a", "b"}, RepresentativeFaceID: "a"}}
	if !reflect.DeepEqual(result, expected) {
		t.Errorf("Cluster() = %+v, want %+v", result, expected)
	}
}

func TestCluster_TwoFacesOutOfRange(t *testing.T) {
	result := Cluster([]faces.FaceRecord{
		face("a", 0, 0, 10),
		face("b", 1000, 1000, 10),
	}, DefaultThreshold)

	expected := []PersonCluster{
		{PersonID: "person_1", FaceIDs: []string{"a"}, RepresentativeFaceID: "a"},
		{PersonID: "person_2", FaceIDs: []string{"b"}, RepresentativeFaceID: "b"},
	}
	if !reflect.DeepEqual(result, expected) {
		t.Errorf("Cluster() = %+v, want %+v", result, expected)
	}
}

func TestCluster_ThresholdIsStrict(t *testing.T) {
	// b is exactly 50 away from a (3-4-5 triangle scaled by 10).
	result := Cluster([]faces.FaceRecord{
		face("a", 0, 0, 10),
		face("b", 30, 40, 10),
	}, 50)

	if len(result) != 2 {
		t.Fatalf("expected face at exactly the threshold to start a new cluster, got %+v", result)
	}

	// Just inside the threshold joins.
	result = Cluster([]faces.FaceRecord{
		face("a", 0, 0, 10),
		face("b", 30, 39.99, 10),
	}, 50)
	if len(result) != 1 {
		t.Errorf("expected face just inside the threshold to join, got %+v", result)
	}
}

func TestCluster_FirstFitNotNearest(t *testing.T) {
	// c is closer to b's cluster representative than to a, but a's cluster was
	// created first and is still within threshold.
	result := Cluster([]faces.FaceRecord{
		face("a", 0, 0, 10),
		face("b", 60, 0, 10),
		face("c", 40, 0, 10),
	}, 50)

	if len(result) != 2 {
		t.Fatalf("expected 2 clusters, got %+v", result)
	}
	if !reflect.DeepEqual(result[0].FaceIDs, []string{"a", "c"}) {
		t.Errorf("expected c to join the first cluster, got %+v", result)
	}
}

func TestCluster_RepresentativeIsFixed(t *testing.T) {
	// b joins a; c is within range of b but not of a, so it starts its own
	// cluster because the comparison anchor stays a.
	result := Cluster([]faces.FaceRecord{
		face("a", 0, 0, 10),
		face("b", 40, 0, 10),
		face("c", 80, 0, 10),
	}, 50)

	expected := []PersonCluster{
		{PersonID: "person_1", FaceIDs: []string{"a", "b"}, RepresentativeFaceID: "a"},
		{PersonID: "person_2", FaceIDs: []string{"c"}, RepresentativeFaceID: "c"},
	}
	if !reflect.DeepEqual(result, expected) {
		t.Errorf("Cluster() = %+v, want %+v", result, expected)
	}
}

func TestCluster_OrderSensitive(t *testing.T) {
	a := face("a", 0, 0, 10)
	b := face("b", 40, 0, 10)
	c := face("c", 80, 0, 10)

	forward := Cluster([]faces.FaceRecord{a, b, c}, 50)
	// Starting from the middle face makes it the anchor for both neighbours.
	middleFirst := Cluster([]faces.FaceRecord{b, a, c}, 50)

	if len(forward) != 2 {
		t.Fatalf("expected 2 clusters in forward order, got %+v", forward)
	}
	if len(middleFirst) != 1 {
		t.Fatalf("expected 1 cluster when the middle face comes first, got %+v", middleFirst)
	}
	if middleFirst[0].RepresentativeFaceID != "b" {
		t.Errorf("expected b as representative, got %s", middleFirst[0].RepresentativeFaceID)
	}
}

// syntheticFaces builds a deterministic spread of faces across a few hotspots.
func syntheticFaces(n int) []faces.FaceRecord {
	records := make([]faces.FaceRecord, n)
	for i := range records {
		hotspot := float64(i%4) * 120
		jitter := float64((i*37)%53) - 26
		records[i] = face(strconv.Itoa(i), hotspot+jitter, hotspot-jitter/2, 40+float64(i%7)*3)
	}
	return records
}

func TestCluster_Partition(t *testing.T) {
	records := syntheticFaces(200)
	result := Cluster(records, DefaultThreshold)

	seen := make(map[string]int)
	for _, c := range result {
		if len(c.FaceIDs) == 0 {
			t.Errorf("cluster %s is empty", c.PersonID)
		}
		for _, id := range c.FaceIDs {
			seen[id]++
		}
	}

	if len(seen) != len(records) {
		t.Errorf("expected %d distinct faces across clusters, got %d", len(records), len(seen))
	}
	for id, count := range seen {
		if count != 1 {
			t.Errorf("face %s appears in %d clusters", id, count)
		}
	}
}

func TestCluster_Deterministic(t *testing.T) {
	records := syntheticFaces(150)
	first := Cluster(records, 35)
	for k := 0; k < 5; k++ {
		if again := Cluster(records, 35); !reflect.DeepEqual(first, again) {
			t.Fatal("expected identical output for identical input")
		}
	}
}

func TestCluster_FirstFitProperty(t *testing.T) {
	records := syntheticFaces(200)
	const threshold = 45.0
	result := Cluster(records, threshold)

	byID := make(map[string]faces.FaceRecord, len(records))
	for _, r := range records {
		byID[r.ID] = r
	}

	for ci, c := range result {
		if c.RepresentativeFaceID != c.FaceIDs[0] {
			t.Errorf("%s: representative %s is not the first member %s", c.PersonID, c.RepresentativeFaceID, c.FaceIDs[0])
		}
		if c.PersonID != PersonID(ci+1) {
			t.Errorf("expected person id %s, got %s", PersonID(ci+1), c.PersonID)
		}
		rep := byID[c.RepresentativeFaceID].Features()
		for _, id := range c.FaceIDs[1:] {
			f := byID[id].Features()
			if d := Distance(f, rep); d >= threshold {
				t.Errorf("face %s is %v from its representative", id, d)
			}
			for _, earlier := range result[:ci] {
				if d := Distance(f, byID[earlier.RepresentativeFaceID].Features()); d < threshold {
					t.Errorf("face %s fits earlier cluster %s at distance %v", id, earlier.PersonID, d)
				}
			}
		}
	}
}
