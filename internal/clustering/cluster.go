// Package clustering groups face records into approximate persons.
//
// The algorithm is a greedy first-fit scan: each face joins the first existing
// cluster (in creation order) whose representative lies strictly closer than
// the threshold, otherwise it starts a new cluster and becomes its permanent
// representative. The representative is always the first member; it is never
// recomputed. Output depends on input order.
//
// Distance is plain Euclidean over (centerX, centerY, size) in raw pixels, so
// absolute face position dominates the metric.
package clustering

import (
	"math"
	"strconv"

	"github.com/kozaktomas/lifeline/internal/faces"
)

// DefaultThreshold is the default maximum feature distance for joining a cluster.
const DefaultThreshold = 50.0

// PersonCluster is one group of faces presumed to show the same person.
type PersonCluster struct {
	PersonID             string   `json:"person_id"`
	FaceIDs              []string `json:"face_ids"`
	RepresentativeFaceID string   `json:"representative_face_id"`
}

// PersonID returns the id of the n-th cluster, counting from 1.
func PersonID(n int) string {
	return "person_" + strconv.Itoa(n)
}

// Distance is the Euclidean distance between two feature vectors.
func Distance(a, b [3]float64) float64 {
	dx := a[0] - b[0]
	dy := a[1] - b[1]
	ds := a[2] - b[2]
	return math.Sqrt(dx*dx + dy*dy + ds*ds)
}

// Cluster partitions faces into persons. It never fails and returns an empty
// slice for empty input.
func Cluster(records []faces.FaceRecord, threshold float64) []PersonCluster {
	features := make([][3]float64, len(records))
	for i := range records {
		features[i] = records[i].Features()
	}

	// Each cluster is a list of indices into records; index 0 is the representative.
	var clusters [][]int
	for i := range features {
		assigned := false
		for c := range clusters {
			rep := clusters[c][0]
			if Distance(features[i], features[rep]) < threshold {
				clusters[c] = append(clusters[c], i)
				assigned = true
				break
			}
		}
		if !assigned {
			clusters = append(clusters, []int{i})
		}
	}

	result := make([]PersonCluster, len(clusters))
	for c, members := range clusters {
		ids := make([]string, len(members))
		for j, idx := range members {
			ids[j] = records[idx].ID
		}
		result[c] = PersonCluster{
			PersonID:             PersonID(c + 1),
			FaceIDs:              ids,
			RepresentativeFaceID: ids[0],
		}
	}
	return result
}
