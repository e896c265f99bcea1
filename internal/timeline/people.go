package timeline

import (
	"fmt"

	"github.com/kozaktomas/lifeline/internal/clustering"
	"github.com/kozaktomas/lifeline/internal/faces"
)

// PersonGroup is the display unit for one cluster: the photos its faces came from.
type PersonGroup struct {
	PersonID string   `json:"person_id"`
	FaceIDs  []string `json:"face_ids"`
	Locators []string `json:"locators"`
}

// GroupByPerson maps clusters to display groups in cluster order. Each member
// face contributes its photo locator in member order, so a photo showing the
// same person twice appears twice. A face id missing from records is an error.
func GroupByPerson(clusters []clustering.PersonCluster, records []faces.FaceRecord) ([]PersonGroup, error) {
	byID := make(map[string]faces.FaceRecord, len(records))
	for _, r := range records {
		byID[r.ID] = r
	}

	groups := make([]PersonGroup, 0, len(clusters))
	for _, c := range clusters {
		locators := make([]string, 0, len(c.FaceIDs))
		for _, id := range c.FaceIDs {
			r, ok := byID[id]
			if !ok {
				return nil, fmt.Errorf("cluster %s references unknown face %s", c.PersonID, id)
			}
			locators = append(locators, r.Locator)
		}
		groups = append(groups, PersonGroup{
			PersonID: c.PersonID,
			FaceIDs:  c.FaceIDs,
			Locators: locators,
		})
	}
	return groups, nil
}
