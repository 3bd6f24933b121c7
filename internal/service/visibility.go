package service

import (
	"errors"

	"hearthside/internal/models"
)

// ErrNotOwner means a mutation was attempted by someone other than the
// content's owner
var ErrNotOwner = errors.New("not the owner of this content")

// connectedChecker is the one-hop family check content visibility needs
type connectedChecker interface {
	AreConnected(ownerID, viewerID int64) (bool, error)
}

// visibleTo decides whether a viewer may see content with the given
// owner and visibility. "family" is answered by the relationship graph:
// the owner's family line must list the viewer
func visibleTo(graph connectedChecker, visibility string, ownerID, viewerID int64) (bool, error) {
	if ownerID == viewerID {
		return true, nil
	}

	switch visibility {
	case models.VisibilityPublic:
		return true, nil
	case models.VisibilityFamily:
		return graph.AreConnected(ownerID, viewerID)
	default:
		return false, nil
	}
}
