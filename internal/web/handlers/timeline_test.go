package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/kozaktomas/lifeline/internal/photo"
	"github.com/kozaktomas/lifeline/internal/timeline"
)

func TestTimelineHandler_Get(t *testing.T) {
	lib := &testLibrary{photos: []photo.Photo{
		{ID: "c", Timestamp: dayMillis(3)},
		{ID: "b", Timestamp: dayMillis(2) + 1000},
		{ID: "a", Timestamp: dayMillis(2)},
		{ID: "z", Timestamp: dayMillis(1)},
	}}
	h := NewTimelineHandler(lib, time.UTC, zerolog.Nop())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/timeline?from=2024-06-02&to=2024-06-03", nil)
	recorder := httptest.NewRecorder()
	h.Get(recorder, req)

	if recorder.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", recorder.Code, recorder.Body.String())
	}

	var groups []timeline.DateGroup
	if err := json.Unmarshal(recorder.Body.Bytes(), &groups); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if len(groups) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(groups))
	}
	if groups[0].Label != "2nd June, 2024" || groups[1].Label != "3rd June, 2024" {
		t.Errorf("unexpected labels: %s, %s", groups[0].Label, groups[1].Label)
	}
	if groups[0].Photos[0].ID != "a" || groups[0].Photos[1].ID != "b" {
		t.Errorf("expected ascending photos within a day, got %+v", groups[0].Photos)
	}
}

func TestTimelineHandler_Empty(t *testing.T) {
	h := NewTimelineHandler(&testLibrary{}, time.UTC, zerolog.Nop())

	recorder := httptest.NewRecorder()
	h.Get(recorder, httptest.NewRequest(http.MethodGet, "/api/v1/timeline", nil))

	if recorder.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", recorder.Code)
	}
	if body := recorder.Body.String(); body != "[]\n" {
		t.Errorf("expected empty JSON array, got %q", body)
	}
}

func TestTimelineHandler_Errors(t *testing.T) {
	tests := []struct {
		name       string
		lib        *testLibrary
		url        string
		wantStatus int
	}{
		{"bad date", &testLibrary{}, "/api/v1/timeline?from=yesterday", http.StatusBadRequest},
		{"source failure", &testLibrary{listErr: errors.New("offline")}, "/api/v1/timeline", http.StatusBadGateway},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			h := NewTimelineHandler(tc.lib, time.UTC, zerolog.Nop())
			recorder := httptest.NewRecorder()
			h.Get(recorder, httptest.NewRequest(http.MethodGet, tc.url, nil))
			if recorder.Code != tc.wantStatus {
				t.Errorf("expected status %d, got %d", tc.wantStatus, recorder.Code)
			}
		})
	}
}
