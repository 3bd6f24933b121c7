package service

import (
	"testing"

	"hearthside/internal/models"
)

type fakeConnected struct {
	connected bool
}

func (f fakeConnected) AreConnected(ownerID, viewerID int64) (bool, error) {
	if ownerID == viewerID {
		return true, nil
	}
	return f.connected, nil
}

func TestVisibleTo(t *testing.T) {
	tests := []struct {
		name       string
		visibility string
		ownerID    int64
		viewerID   int64
		connected  bool
		want       bool
	}{
		{"public to stranger", models.VisibilityPublic, 1, 2, false, true},
		{"private to owner", models.VisibilityPrivate, 1, 1, false, true},
		{"private to family", models.VisibilityPrivate, 1, 2, true, false},
		{"family to family", models.VisibilityFamily, 1, 2, true, true},
		{"family to stranger", models.VisibilityFamily, 1, 2, false, false},
		{"family to owner", models.VisibilityFamily, 1, 1, false, true},
		{"unknown visibility treated as private", "secret", 1, 2, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := visibleTo(fakeConnected{connected: tt.connected}, tt.visibility, tt.ownerID, tt.viewerID)
			if err != nil {
				t.Fatalf("visibleTo() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("visibleTo(%q, owner=%d, viewer=%d) = %v, want %v",
					tt.visibility, tt.ownerID, tt.viewerID, got, tt.want)
			}
		})
	}
}
