package photoprism

import "time"

// Photo represents a PhotoPrism photo search result
type Photo struct {
	UID          string `json:"UID"`
	Type         string `json:"Type"`
	Title        string `json:"Title"`
	TakenAt      string `json:"TakenAt"`
	TakenAtLocal string `json:"TakenAtLocal"`
	TakenSrc     string `json:"TakenSrc"`
	CreatedAt    string `json:"CreatedAt"`
	UpdatedAt    string `json:"UpdatedAt"`
	Hash         string `json:"Hash"`     // primary file hash
	FileName     string `json:"FileName"` // Current filename
	Width        int    `json:"Width"`
	Height       int    `json:"Height"`
}

// TakenAtMillis returns the capture time in epoch milliseconds, or 0 when the
// capture time is missing or only estimated by PhotoPrism.
func (p Photo) TakenAtMillis() int64 {
	if p.TakenSrc == "estimate" {
		return 0
	}
	return parseMillis(p.TakenAt)
}

// UpdatedAtSeconds returns the last modification time in epoch seconds, or 0.
func (p Photo) UpdatedAtSeconds() int64 {
	return parseMillis(p.UpdatedAt) / 1000
}

// CreatedAtSeconds returns the import time in epoch seconds, or 0.
func (p Photo) CreatedAtSeconds() int64 {
	return parseMillis(p.CreatedAt) / 1000
}

func parseMillis(s string) int64 {
	if s == "" {
		return 0
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil || t.IsZero() {
		return 0
	}
	return t.UnixMilli()
}
