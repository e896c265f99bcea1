package postgres

import (
	"reflect"
	"testing"

	"github.com/pgvector/pgvector-go"

	"github.com/kozaktomas/lifeline/internal/clustering"
	"github.com/kozaktomas/lifeline/internal/faces"
)

// boundaryFaces returns two faces whose distance is just under the default
// threshold; rounding to float32 pushes it to the threshold.
func boundaryFaces() []faces.FaceRecord {
	return []faces.FaceRecord{
		faces.NewRecord("p1", "file:///p1.jpg", 0, faces.BoundingBox{Left: 1000, Top: 1000, Right: 1100, Bottom: 1100}),
		faces.NewRecord("p2", "file:///p2.jpg", 0, faces.BoundingBox{Left: 1030, Top: 1039.9999999, Right: 1130, Bottom: 1139.9999999}),
	}
}

func TestFeatureEncoding_KeepsClustering(t *testing.T) {
	fresh := boundaryFaces()

	decoded := make([]faces.FaceRecord, len(fresh))
	for i, f := range fresh {
		vec, exact := encodeFeatures(f)
		decoded[i] = faces.FaceRecord{ID: f.ID, PhotoID: f.PhotoID, Locator: f.Locator}
		decodeFeatures(&decoded[i], vec, exact)
	}

	if !reflect.DeepEqual(decoded, fresh) {
		t.Errorf("decoded faces = %+v, want %+v", decoded, fresh)
	}

	want := clustering.Cluster(fresh, clustering.DefaultThreshold)
	if len(want) != 1 {
		t.Fatalf("expected one cluster, got %d", len(want))
	}
	if got := clustering.Cluster(decoded, clustering.DefaultThreshold); !reflect.DeepEqual(got, want) {
		t.Errorf("clustering after encoding = %+v, want %+v", got, want)
	}
}

func TestDecodeFeatures_FallsBackToVector(t *testing.T) {
	var f faces.FaceRecord
	decodeFeatures(&f, pgvector.NewVector([]float32{1.5, 2.5, 3}), nil)
	if f.CenterX != 1.5 || f.CenterY != 2.5 || f.Size != 3 {
		t.Errorf("unexpected features %v", f.Features())
	}
}
