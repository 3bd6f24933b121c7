package service

import (
	"errors"
	"fmt"
	"log"

	"golang.org/x/sync/errgroup"

	"hearthside/internal/familydoc"
	"hearthside/internal/models"
	"hearthside/internal/relationship"
	"hearthside/internal/repository"
	"hearthside/internal/validation"
)

// ErrSelfConnection means a person tried to add themselves to their own
// family line
var ErrSelfConnection = errors.New("cannot add yourself as a family connection")

// LineStore is the keyed document store the engine reads and writes
// family lines through. Writes carry the version seen at read time
type LineStore interface {
	GetByPersonID(personID int64) (*models.FamilyLine, error)
	UpdateDocument(personID int64, document string, expectVersion int64) error
	All() ([]models.FamilyLine, error)
}

// Lookup resolves people between the directory and the family-line store
type Lookup interface {
	ResolveEmail(email string) (*Party, error)
	ResolveID(personID int64) (*Party, error)
}

// RemovedEdge is the result of a successful RemoveEdge
type RemovedEdge struct {
	PersonID  int64
	Remaining int
}

// OneSidedEdge is an edge present in the owner's family line but missing
// from the target's, found by the reconciliation sweep
type OneSidedEdge struct {
	OwnerID      int64
	TargetID     int64
	Relation     string
	NetworkLevel int
}

// GraphService keeps pairs of family-line documents in agreement. Every
// edge lives in two documents, one per endpoint, and the store offers no
// transaction across them: each operation reads fresh, mutates in memory,
// and writes back under a version check. A two-document operation that
// lands on one side only is reported as a PartialApplyError, never as
// success, so the sweep or the caller can finish it. Nothing here retries
// internally
type GraphService struct {
	lines   LineStore
	lookup  Lookup
	catalog *relationship.Catalog
}

// NewGraphService creates a new graph service
func NewGraphService(lines LineStore, lookup Lookup, catalog *relationship.Catalog) *GraphService {
	return &GraphService{
		lines:   lines,
		lookup:  lookup,
		catalog: catalog,
	}
}

// AddEdge adds a family connection from the owner to the target and
// mirrors it onto the target's own family line. reciprocalRelation is the
// label the mirrored entry gets; empty means reuse relation. If the
// mirror write fails after the owner's write landed, the edge is left
// one-sided and a PartialApplyError is returned
func (s *GraphService) AddEdge(ownerEmail string, targetPersonID int64, relation, reciprocalRelation, networkType string) (*familydoc.Member, error) {
	if err := validation.ValidateRelationLabel(relation); err != nil {
		return nil, err
	}
	if reciprocalRelation != "" {
		if err := validation.ValidateRelationLabel(reciprocalRelation); err != nil {
			return nil, err
		}
	}

	level, err := s.catalog.Level(networkType)
	if err != nil {
		return nil, err
	}

	owner, err := s.lookup.ResolveEmail(ownerEmail)
	if err != nil {
		return nil, err
	}
	if owner.PersonID == targetPersonID {
		return nil, ErrSelfConnection
	}

	target, err := s.lookup.ResolveID(targetPersonID)
	if err != nil {
		return nil, err
	}

	ownerLine, err := s.getLine(owner.PersonID)
	if err != nil {
		return nil, err
	}
	targetLine, err := s.getLine(target.PersonID)
	if err != nil {
		return nil, err
	}

	ownerDoc := familydoc.Decode(ownerLine.Document)
	if ownerDoc.HasEmail(target.Email) {
		return nil, fmt.Errorf("%s already connected to %s: %w", ownerEmail, target.Email, ErrEdgeExists)
	}

	member := familydoc.Member{
		PersonID:     target.PersonID,
		Name:         target.Name,
		Email:        target.Email,
		Relation:     relation,
		NetworkLevel: level,
		FamilyLineID: targetLine.ID,
	}
	ownerDoc.Members = append(ownerDoc.Members, member)

	if err := s.writeLine(owner.PersonID, ownerDoc, ownerLine.Version); err != nil {
		// Nothing has been written yet, so this is a plain failure
		return nil, err
	}

	mirrorLabel := reciprocalRelation
	if mirrorLabel == "" {
		mirrorLabel = relation
	}

	targetDoc := familydoc.Decode(targetLine.Document)
	if targetDoc.FindByPersonID(owner.PersonID) == -1 {
		targetDoc.Members = append(targetDoc.Members, familydoc.Member{
			PersonID:     owner.PersonID,
			Name:         owner.Name,
			Email:        owner.Email,
			Relation:     mirrorLabel,
			NetworkLevel: level,
			FamilyLineID: ownerLine.ID,
		})

		if err := s.writeLine(target.PersonID, targetDoc, targetLine.Version); err != nil {
			return nil, &PartialApplyError{
				Op:           "add",
				OwnerID:      owner.PersonID,
				TargetID:     target.PersonID,
				OwnerWritten: true,
				Cause:        err,
			}
		}
	}

	return &member, nil
}

// RemoveEdge removes the connection between the owner and the target from
// both family lines. The two write-backs run concurrently; if exactly one
// fails the result is a PartialApplyError naming the side that landed
func (s *GraphService) RemoveEdge(ownerEmail string, targetPersonID int64) (*RemovedEdge, error) {
	owner, err := s.lookup.ResolveEmail(ownerEmail)
	if err != nil {
		return nil, err
	}

	ownerLine, err := s.getLine(owner.PersonID)
	if err != nil {
		return nil, err
	}
	targetLine, err := s.getLine(targetPersonID)
	if err != nil {
		return nil, err
	}

	ownerDoc := familydoc.Decode(ownerLine.Document)
	if !ownerDoc.RemoveByPersonID(targetPersonID) {
		return nil, fmt.Errorf("no connection from %d to %d: %w", owner.PersonID, targetPersonID, ErrNotFound)
	}

	targetDoc := familydoc.Decode(targetLine.Document)
	mirrorPresent := targetDoc.RemoveByPersonID(owner.PersonID)

	var ownerErr, targetErr error
	var g errgroup.Group
	g.Go(func() error {
		ownerErr = s.writeLine(owner.PersonID, ownerDoc, ownerLine.Version)
		return ownerErr
	})
	if mirrorPresent {
		g.Go(func() error {
			targetErr = s.writeLine(targetPersonID, targetDoc, targetLine.Version)
			return targetErr
		})
	}
	// Per-side outcomes are examined individually below
	_ = g.Wait()

	switch {
	case ownerErr != nil && targetErr != nil:
		// Neither write landed; the edge is intact on both sides
		return nil, fmt.Errorf("remove edge %d<->%d: %w", owner.PersonID, targetPersonID, ownerErr)
	case ownerErr != nil || targetErr != nil:
		cause := ownerErr
		if cause == nil {
			cause = targetErr
		}
		return nil, &PartialApplyError{
			Op:            "remove",
			OwnerID:       owner.PersonID,
			TargetID:      targetPersonID,
			OwnerWritten:  ownerErr == nil,
			TargetWritten: targetErr == nil,
			Cause:         cause,
		}
	}

	return &RemovedEdge{
		PersonID:  targetPersonID,
		Remaining: len(ownerDoc.Members),
	}, nil
}

// UpdateEdge replaces the owner's label and network level for an existing
// connection. Deliberately one-sided: what the owner calls the
// relationship is their own annotation, and the target's mirrored entry
// keeps its own label and level
func (s *GraphService) UpdateEdge(ownerEmail string, targetPersonID int64, relation, networkType string) (*familydoc.Member, error) {
	if err := validation.ValidateRelationLabel(relation); err != nil {
		return nil, err
	}

	level, err := s.catalog.Level(networkType)
	if err != nil {
		return nil, err
	}

	owner, err := s.lookup.ResolveEmail(ownerEmail)
	if err != nil {
		return nil, err
	}

	ownerLine, err := s.getLine(owner.PersonID)
	if err != nil {
		return nil, err
	}

	ownerDoc := familydoc.Decode(ownerLine.Document)
	idx := ownerDoc.FindByPersonID(targetPersonID)
	if idx == -1 {
		return nil, fmt.Errorf("no connection from %d to %d: %w", owner.PersonID, targetPersonID, ErrNotFound)
	}

	ownerDoc.Members[idx].Relation = relation
	ownerDoc.Members[idx].NetworkLevel = level

	if err := s.writeLine(owner.PersonID, ownerDoc, ownerLine.Version); err != nil {
		return nil, err
	}

	member := ownerDoc.Members[idx]
	return &member, nil
}

// Members returns a person's family membership list. A person without a
// family line has an empty one
func (s *GraphService) Members(personID int64) ([]familydoc.Member, error) {
	line, err := s.lines.GetByPersonID(personID)
	if err != nil {
		return nil, fmt.Errorf("failed to read family line: %w", err)
	}
	if line == nil {
		return []familydoc.Member{}, nil
	}
	return familydoc.Decode(line.Document).Members, nil
}

// AreConnected reports whether the owner's family line lists the viewer.
// This is the one-hop check the family visibility rules use
func (s *GraphService) AreConnected(ownerID, viewerID int64) (bool, error) {
	if ownerID == viewerID {
		return true, nil
	}
	line, err := s.lines.GetByPersonID(ownerID)
	if err != nil {
		return false, fmt.Errorf("failed to read family line: %w", err)
	}
	if line == nil {
		return false, nil
	}
	return familydoc.Decode(line.Document).FindByPersonID(viewerID) != -1, nil
}

// FindOneSidedEdges scans every family line for entries whose mirror is
// missing on the other side. Targets without any family line are skipped;
// there is nothing to mirror into
func (s *GraphService) FindOneSidedEdges() ([]OneSidedEdge, error) {
	lines, err := s.lines.All()
	if err != nil {
		return nil, fmt.Errorf("failed to scan family lines: %w", err)
	}

	docs := make(map[int64]*familydoc.Document, len(lines))
	for _, line := range lines {
		docs[line.PersonID] = familydoc.Decode(line.Document)
	}

	var oneSided []OneSidedEdge
	for _, line := range lines {
		for _, m := range docs[line.PersonID].Members {
			targetDoc, ok := docs[m.PersonID]
			if !ok {
				continue
			}
			if targetDoc.FindByPersonID(line.PersonID) == -1 {
				oneSided = append(oneSided, OneSidedEdge{
					OwnerID:      line.PersonID,
					TargetID:     m.PersonID,
					Relation:     m.Relation,
					NetworkLevel: m.NetworkLevel,
				})
			}
		}
	}

	return oneSided, nil
}

// ReconcileOneSidedEdges completes the missing mirror of every one-sided
// edge, reusing the surviving side's label and level. Returns how many
// mirrors were written. A version conflict on any single line skips that
// line; the next sweep picks it up
func (s *GraphService) ReconcileOneSidedEdges() (int, error) {
	oneSided, err := s.FindOneSidedEdges()
	if err != nil {
		return 0, err
	}

	completed := 0
	for _, edge := range oneSided {
		owner, err := s.lookup.ResolveID(edge.OwnerID)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				continue
			}
			return completed, err
		}

		// Fresh read; the scan's snapshot may be stale by now
		targetLine, err := s.lines.GetByPersonID(edge.TargetID)
		if err != nil {
			return completed, fmt.Errorf("failed to read family line: %w", err)
		}
		if targetLine == nil {
			continue
		}

		targetDoc := familydoc.Decode(targetLine.Document)
		if targetDoc.FindByPersonID(edge.OwnerID) != -1 {
			continue
		}

		targetDoc.Members = append(targetDoc.Members, familydoc.Member{
			PersonID:     owner.PersonID,
			Name:         owner.Name,
			Email:        owner.Email,
			Relation:     edge.Relation,
			NetworkLevel: edge.NetworkLevel,
			FamilyLineID: owner.FamilyLineID,
		})

		if err := s.writeLine(edge.TargetID, targetDoc, targetLine.Version); err != nil {
			if errors.Is(err, ErrVersionConflict) {
				log.Printf("Reconcile: version moved for person %d, leaving for next sweep", edge.TargetID)
				continue
			}
			return completed, err
		}
		completed++
	}

	return completed, nil
}

// getLine reads a family line that must exist
func (s *GraphService) getLine(personID int64) (*models.FamilyLine, error) {
	line, err := s.lines.GetByPersonID(personID)
	if err != nil {
		return nil, fmt.Errorf("failed to read family line: %w", err)
	}
	if line == nil {
		return nil, fmt.Errorf("person %d has no family line: %w", personID, ErrNotFound)
	}
	return line, nil
}

// writeLine encodes and writes a document back under its version check
func (s *GraphService) writeLine(personID int64, doc *familydoc.Document, version int64) error {
	encoded, err := familydoc.Encode(doc)
	if err != nil {
		return fmt.Errorf("failed to encode family line: %w", err)
	}
	if err := s.lines.UpdateDocument(personID, encoded, version); err != nil {
		if errors.Is(err, repository.ErrVersionConflict) {
			return fmt.Errorf("person %d: %w", personID, ErrVersionConflict)
		}
		return fmt.Errorf("failed to write family line: %w", err)
	}
	return nil
}
