package timeline

import (
	"reflect"
	"testing"

	"github.com/kozaktomas/lifeline/internal/clustering"
	"github.com/kozaktomas/lifeline/internal/faces"
)

func TestGroupByPerson(t *testing.T) {
	records := []faces.FaceRecord{
		{ID: "1_0", Locator: "file:///1.jpg", CenterX: 0, CenterY: 0, Size: 10},
		{ID: "2_0", Locator: "file:///2.jpg", CenterX: 1000, CenterY: 1000, Size: 10},
		{ID: "1_1", Locator: "file:///1.jpg", CenterX: 5, CenterY: 5, Size: 10},
	}
	clusters := clustering.Cluster(records, clustering.DefaultThreshold)

	groups, err := GroupByPerson(clusters, records)
	if err != nil {
		t.Fatalf("GroupByPerson failed: %v", err)
	}

	expected := []PersonGroup{
		{PersonID: "person_1", FaceIDs: []string{"1_0", "1_1"}, Locators: []string{"file:///1.jpg", "file:///1.jpg"}},
		{PersonID: "person_2", FaceIDs: []string{"2_0"}, Locators: []string{"file:///2.jpg"}},
	}
	if !reflect.DeepEqual(groups, expected) {
		t.Errorf("GroupByPerson() = %+v, want %+v", groups, expected)
	}
}

func TestGroupByPerson_UnknownFace(t *testing.T) {
	clusters := []clustering.PersonCluster{
		{PersonID: "person_1", FaceIDs: []string{"missing"}, RepresentativeFaceID: "missing"},
	}

	if _, err := GroupByPerson(clusters, nil); err == nil {
		t.Error("expected error for unknown face id")
	}
}

func TestGroupByPerson_Empty(t *testing.T) {
	groups, err := GroupByPerson(nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(groups) != 0 {
		t.Errorf("expected no groups, got %d", len(groups))
	}
}
