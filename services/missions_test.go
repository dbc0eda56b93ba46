package services

import (
	"testing"

	"github.com/google/uuid"
)

func TestNewMissionTemplate(t *testing.T) {
	tmpl := newMissionTemplate("Call 5 Expired Listings", "prospecting", 3)

	if _, err := uuid.Parse(tmpl.ID); err != nil {
		t.Fatalf("template ID %q is not a UUID: %v", tmpl.ID, err)
	}
	if tmpl.Code != "call-5-expired-listings" {
		t.Errorf("Code=%q, want slugified title", tmpl.Code)
	}
	if tmpl.Points != 3 || tmpl.Category != "prospecting" || !tmpl.Active {
		t.Errorf("unexpected template fields: %+v", tmpl)
	}
}

func TestNewMissionTemplateClampsPoints(t *testing.T) {
	if got := newMissionTemplate("Host an Open House", "", 0).Points; got != 1 {
		t.Errorf("Points=%d, want clamp to 1", got)
	}
	if got := newMissionTemplate("Host an Open House", "", -5).Points; got != 1 {
		t.Errorf("Points=%d, want clamp to 1", got)
	}
}

func TestNewMissionTemplateUniqueIDs(t *testing.T) {
	a := newMissionTemplate("Send CMA Follow-ups", "", 2)
	b := newMissionTemplate("Send CMA Follow-ups", "", 2)
	if a.ID == b.ID {
		t.Fatal("two templates received the same ID")
	}
}
