package service

import (
	"errors"
	"fmt"
	"testing"

	"hearthside/internal/familydoc"
	"hearthside/internal/models"
	"hearthside/internal/relationship"
	"hearthside/internal/repository"
)

// fakeLineStore is an in-memory LineStore with per-person write failure
// injection, used to exercise the partial-apply paths
type fakeLineStore struct {
	lines   map[int64]*models.FamilyLine
	failFor map[int64]error
	nextID  int64
}

func newFakeLineStore() *fakeLineStore {
	return &fakeLineStore{
		lines:   make(map[int64]*models.FamilyLine),
		failFor: make(map[int64]error),
	}
}

func (s *fakeLineStore) addLine(personID int64) *models.FamilyLine {
	s.nextID++
	line := &models.FamilyLine{
		ID:       s.nextID,
		PersonID: personID,
		Document: `{"members":[]}`,
		Version:  1,
	}
	s.lines[personID] = line
	return line
}

func (s *fakeLineStore) GetByPersonID(personID int64) (*models.FamilyLine, error) {
	line, ok := s.lines[personID]
	if !ok {
		return nil, nil
	}
	copied := *line
	return &copied, nil
}

func (s *fakeLineStore) UpdateDocument(personID int64, document string, expectVersion int64) error {
	if err := s.failFor[personID]; err != nil {
		return err
	}
	line, ok := s.lines[personID]
	if !ok || line.Version != expectVersion {
		return fmt.Errorf("person %d: %w", personID, repository.ErrVersionConflict)
	}
	line.Document = document
	line.Version++
	return nil
}

func (s *fakeLineStore) All() ([]models.FamilyLine, error) {
	var all []models.FamilyLine
	for _, line := range s.lines {
		all = append(all, *line)
	}
	return all, nil
}

// fakeLookup is an in-memory directory
type fakeLookup struct {
	byEmail map[string]*Party
	byID    map[int64]*Party
}

func newFakeLookup() *fakeLookup {
	return &fakeLookup{
		byEmail: make(map[string]*Party),
		byID:    make(map[int64]*Party),
	}
}

func (l *fakeLookup) addPerson(p *Party) {
	l.byEmail[p.Email] = p
	l.byID[p.PersonID] = p
}

func (l *fakeLookup) ResolveEmail(email string) (*Party, error) {
	p, ok := l.byEmail[email]
	if !ok {
		return nil, fmt.Errorf("person %s: %w", email, ErrNotFound)
	}
	return p, nil
}

func (l *fakeLookup) ResolveID(personID int64) (*Party, error) {
	p, ok := l.byID[personID]
	if !ok {
		return nil, fmt.Errorf("person %d: %w", personID, ErrNotFound)
	}
	return p, nil
}

// newTestGraph wires a graph service over two provisioned people:
// Alice (1, alice@example.com) and Bob (2, bob@example.com)
func newTestGraph(t *testing.T) (*GraphService, *fakeLineStore, *fakeLookup) {
	t.Helper()
	store := newFakeLineStore()
	lookup := newFakeLookup()

	aliceLine := store.addLine(1)
	bobLine := store.addLine(2)

	lookup.addPerson(&Party{PersonID: 1, FamilyLineID: aliceLine.ID, Name: "Alice", Email: "alice@example.com"})
	lookup.addPerson(&Party{PersonID: 2, FamilyLineID: bobLine.ID, Name: "Bob", Email: "bob@example.com"})

	return NewGraphService(store, lookup, relationship.NewCatalog()), store, lookup
}

func membersOf(t *testing.T, store *fakeLineStore, personID int64) []familydoc.Member {
	t.Helper()
	line, _ := store.GetByPersonID(personID)
	if line == nil {
		t.Fatalf("person %d has no line", personID)
	}
	return familydoc.Decode(line.Document).Members
}

func TestAddEdgeSymmetry(t *testing.T) {
	graph, store, _ := newTestGraph(t)

	member, err := graph.AddEdge("alice@example.com", 2, "Brother", "", "immediate")
	if err != nil {
		t.Fatalf("AddEdge failed: %v", err)
	}

	if member.PersonID != 2 || member.Relation != "Brother" || member.NetworkLevel != 1 {
		t.Errorf("unexpected member returned: %+v", member)
	}

	aliceMembers := membersOf(t, store, 1)
	if len(aliceMembers) != 1 || aliceMembers[0].PersonID != 2 {
		t.Fatalf("Alice's line should list Bob: %+v", aliceMembers)
	}

	bobMembers := membersOf(t, store, 2)
	if len(bobMembers) != 1 || bobMembers[0].PersonID != 1 {
		t.Fatalf("Bob's line should list Alice: %+v", bobMembers)
	}
	if bobMembers[0].Relation != "Brother" {
		t.Errorf("mirror should default to the owner's label, got %q", bobMembers[0].Relation)
	}
	if bobMembers[0].Name != "Alice" || bobMembers[0].Email != "alice@example.com" {
		t.Errorf("mirror carries wrong identity: %+v", bobMembers[0])
	}
}

func TestAddEdgeReciprocalLabel(t *testing.T) {
	graph, store, _ := newTestGraph(t)

	_, err := graph.AddEdge("alice@example.com", 2, "Brother", "Sister", "immediate")
	if err != nil {
		t.Fatalf("AddEdge failed: %v", err)
	}

	if got := membersOf(t, store, 1)[0].Relation; got != "Brother" {
		t.Errorf("owner label = %q, want Brother", got)
	}
	if got := membersOf(t, store, 2)[0].Relation; got != "Sister" {
		t.Errorf("mirror label = %q, want Sister", got)
	}
}

func TestAddEdgeConflict(t *testing.T) {
	graph, store, _ := newTestGraph(t)

	if _, err := graph.AddEdge("alice@example.com", 2, "Brother", "", "immediate"); err != nil {
		t.Fatalf("first AddEdge failed: %v", err)
	}

	_, err := graph.AddEdge("alice@example.com", 2, "Brother", "", "immediate")
	if !errors.Is(err, ErrEdgeExists) {
		t.Fatalf("second AddEdge = %v, want ErrEdgeExists", err)
	}

	if got := len(membersOf(t, store, 1)); got != 1 {
		t.Errorf("duplicate entry appended: %d members", got)
	}
}

func TestAddEdgeUnknownNetworkType(t *testing.T) {
	graph, store, _ := newTestGraph(t)

	_, err := graph.AddEdge("alice@example.com", 2, "Brother", "", "bestie")
	if !errors.Is(err, relationship.ErrUnknownNetworkType) {
		t.Fatalf("AddEdge = %v, want ErrUnknownNetworkType", err)
	}
	if got := len(membersOf(t, store, 1)); got != 0 {
		t.Errorf("line written despite validation failure: %d members", got)
	}
}

func TestAddEdgeNotFound(t *testing.T) {
	graph, _, _ := newTestGraph(t)

	if _, err := graph.AddEdge("nobody@example.com", 2, "Brother", "", "immediate"); !errors.Is(err, ErrNotFound) {
		t.Errorf("unknown owner: got %v, want ErrNotFound", err)
	}
	if _, err := graph.AddEdge("alice@example.com", 99, "Brother", "", "immediate"); !errors.Is(err, ErrNotFound) {
		t.Errorf("unknown target: got %v, want ErrNotFound", err)
	}
}

func TestAddEdgeSelf(t *testing.T) {
	graph, _, _ := newTestGraph(t)

	if _, err := graph.AddEdge("alice@example.com", 1, "Me", "", "immediate"); !errors.Is(err, ErrSelfConnection) {
		t.Errorf("self edge: got %v, want ErrSelfConnection", err)
	}
}

func TestAddEdgePartialApply(t *testing.T) {
	graph, store, _ := newTestGraph(t)
	store.failFor[2] = errors.New("connection reset")

	_, err := graph.AddEdge("alice@example.com", 2, "Brother", "", "immediate")

	var partial *PartialApplyError
	if !errors.As(err, &partial) {
		t.Fatalf("AddEdge = %v, want PartialApplyError", err)
	}
	if !partial.OwnerWritten || partial.TargetWritten {
		t.Errorf("expected owner-side-only write, got %+v", partial)
	}
	if partial.Op != "add" || partial.OwnerID != 1 || partial.TargetID != 2 {
		t.Errorf("partial error misidentifies the edge: %+v", partial)
	}

	// The degraded state is real: Alice lists Bob, Bob lists no one
	if got := len(membersOf(t, store, 1)); got != 1 {
		t.Errorf("owner side should be written, got %d members", got)
	}
	if got := len(membersOf(t, store, 2)); got != 0 {
		t.Errorf("target side should be untouched, got %d members", got)
	}
}

func TestRemoveEdgeSymmetric(t *testing.T) {
	graph, store, _ := newTestGraph(t)

	if _, err := graph.AddEdge("alice@example.com", 2, "Brother", "", "immediate"); err != nil {
		t.Fatalf("AddEdge failed: %v", err)
	}

	removed, err := graph.RemoveEdge("alice@example.com", 2)
	if err != nil {
		t.Fatalf("RemoveEdge failed: %v", err)
	}
	if removed.PersonID != 2 || removed.Remaining != 0 {
		t.Errorf("unexpected result: %+v", removed)
	}

	if got := len(membersOf(t, store, 1)); got != 0 {
		t.Errorf("Alice still lists %d members", got)
	}
	if got := len(membersOf(t, store, 2)); got != 0 {
		t.Errorf("Bob still lists %d members", got)
	}
}

func TestRemoveEdgeIdempotent(t *testing.T) {
	graph, store, _ := newTestGraph(t)

	if _, err := graph.AddEdge("alice@example.com", 2, "Brother", "", "immediate"); err != nil {
		t.Fatalf("AddEdge failed: %v", err)
	}
	if _, err := graph.RemoveEdge("alice@example.com", 2); err != nil {
		t.Fatalf("first RemoveEdge failed: %v", err)
	}

	aliceBefore, _ := store.GetByPersonID(1)
	bobBefore, _ := store.GetByPersonID(2)

	_, err := graph.RemoveEdge("alice@example.com", 2)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("second RemoveEdge = %v, want ErrNotFound", err)
	}

	aliceAfter, _ := store.GetByPersonID(1)
	bobAfter, _ := store.GetByPersonID(2)
	if aliceBefore.Document != aliceAfter.Document || aliceBefore.Version != aliceAfter.Version {
		t.Error("Alice's line changed by a failed remove")
	}
	if bobBefore.Document != bobAfter.Document || bobBefore.Version != bobAfter.Version {
		t.Error("Bob's line changed by a failed remove")
	}
}

func TestRemoveEdgePartialApply(t *testing.T) {
	graph, store, _ := newTestGraph(t)

	if _, err := graph.AddEdge("alice@example.com", 2, "Brother", "", "immediate"); err != nil {
		t.Fatalf("AddEdge failed: %v", err)
	}
	store.failFor[2] = errors.New("connection reset")

	_, err := graph.RemoveEdge("alice@example.com", 2)

	var partial *PartialApplyError
	if !errors.As(err, &partial) {
		t.Fatalf("RemoveEdge = %v, want PartialApplyError", err)
	}
	if !partial.OwnerWritten || partial.TargetWritten {
		t.Errorf("expected owner write to land and target write to fail: %+v", partial)
	}
	if partial.Op != "remove" {
		t.Errorf("Op = %q, want remove", partial.Op)
	}

	// Owner's entry gone, target's mirror still there
	if got := len(membersOf(t, store, 1)); got != 0 {
		t.Errorf("owner side not removed: %d members", got)
	}
	if got := len(membersOf(t, store, 2)); got != 1 {
		t.Errorf("target side should be untouched: %d members", got)
	}
}

func TestRemoveEdgeBothWritesFail(t *testing.T) {
	graph, store, _ := newTestGraph(t)

	if _, err := graph.AddEdge("alice@example.com", 2, "Brother", "", "immediate"); err != nil {
		t.Fatalf("AddEdge failed: %v", err)
	}
	store.failFor[1] = errors.New("connection reset")
	store.failFor[2] = errors.New("connection reset")

	_, err := graph.RemoveEdge("alice@example.com", 2)
	if err == nil {
		t.Fatal("expected an error")
	}
	var partial *PartialApplyError
	if errors.As(err, &partial) {
		t.Errorf("both sides failing is a plain failure, not partial: %v", err)
	}
}

func TestUpdateEdgeOneSided(t *testing.T) {
	graph, store, _ := newTestGraph(t)

	if _, err := graph.AddEdge("alice@example.com", 2, "Brother", "", "immediate"); err != nil {
		t.Fatalf("AddEdge failed: %v", err)
	}

	// Bob relabels his side; Alice's annotation must not move
	member, err := graph.UpdateEdge("bob@example.com", 1, "Sister", "extended")
	if err != nil {
		t.Fatalf("UpdateEdge failed: %v", err)
	}
	if member.Relation != "Sister" || member.NetworkLevel != 2 {
		t.Errorf("unexpected updated member: %+v", member)
	}

	bobMembers := membersOf(t, store, 2)
	if bobMembers[0].Relation != "Sister" || bobMembers[0].NetworkLevel != 2 {
		t.Errorf("Bob's entry not updated: %+v", bobMembers[0])
	}

	aliceMembers := membersOf(t, store, 1)
	if aliceMembers[0].Relation != "Brother" || aliceMembers[0].NetworkLevel != 1 {
		t.Errorf("Alice's entry should be untouched: %+v", aliceMembers[0])
	}
}

func TestUpdateEdgeNotFound(t *testing.T) {
	graph, _, _ := newTestGraph(t)

	_, err := graph.UpdateEdge("alice@example.com", 2, "Sister", "extended")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("UpdateEdge = %v, want ErrNotFound", err)
	}
}

func TestVersionConflictSurfaces(t *testing.T) {
	graph, store, _ := newTestGraph(t)
	store.failFor[1] = fmt.Errorf("person 1: %w", repository.ErrVersionConflict)

	_, err := graph.AddEdge("alice@example.com", 2, "Brother", "", "immediate")
	if !errors.Is(err, ErrVersionConflict) {
		t.Fatalf("AddEdge = %v, want ErrVersionConflict", err)
	}
}

func TestAreConnected(t *testing.T) {
	graph, _, _ := newTestGraph(t)

	connected, err := graph.AreConnected(1, 2)
	if err != nil {
		t.Fatalf("AreConnected failed: %v", err)
	}
	if connected {
		t.Error("Alice and Bob should not be connected yet")
	}

	if _, err := graph.AddEdge("alice@example.com", 2, "Brother", "", "immediate"); err != nil {
		t.Fatalf("AddEdge failed: %v", err)
	}

	for _, pair := range [][2]int64{{1, 2}, {2, 1}, {1, 1}} {
		connected, err := graph.AreConnected(pair[0], pair[1])
		if err != nil {
			t.Fatalf("AreConnected(%d,%d) failed: %v", pair[0], pair[1], err)
		}
		if !connected {
			t.Errorf("AreConnected(%d,%d) = false, want true", pair[0], pair[1])
		}
	}
}

func TestReconcileCompletesOneSidedEdges(t *testing.T) {
	graph, store, _ := newTestGraph(t)

	// Produce the degraded state: owner written, mirror missing
	store.failFor[2] = errors.New("connection reset")
	_, err := graph.AddEdge("alice@example.com", 2, "Brother", "", "immediate")
	var partial *PartialApplyError
	if !errors.As(err, &partial) {
		t.Fatalf("expected PartialApplyError, got %v", err)
	}
	delete(store.failFor, 2)

	oneSided, err := graph.FindOneSidedEdges()
	if err != nil {
		t.Fatalf("FindOneSidedEdges failed: %v", err)
	}
	if len(oneSided) != 1 {
		t.Fatalf("expected 1 one-sided edge, got %d", len(oneSided))
	}
	if oneSided[0].OwnerID != 1 || oneSided[0].TargetID != 2 {
		t.Errorf("unexpected edge: %+v", oneSided[0])
	}

	completed, err := graph.ReconcileOneSidedEdges()
	if err != nil {
		t.Fatalf("ReconcileOneSidedEdges failed: %v", err)
	}
	if completed != 1 {
		t.Errorf("completed = %d, want 1", completed)
	}

	bobMembers := membersOf(t, store, 2)
	if len(bobMembers) != 1 || bobMembers[0].PersonID != 1 || bobMembers[0].Relation != "Brother" {
		t.Errorf("mirror not completed: %+v", bobMembers)
	}

	// Sweep is idempotent once the graph is symmetric
	oneSided, err = graph.FindOneSidedEdges()
	if err != nil {
		t.Fatalf("FindOneSidedEdges failed: %v", err)
	}
	if len(oneSided) != 0 {
		t.Errorf("expected no one-sided edges after reconcile, got %d", len(oneSided))
	}
}

// TestExampleScenario walks the documented Alice/Bob life cycle end to end
func TestExampleScenario(t *testing.T) {
	graph, store, _ := newTestGraph(t)

	if _, err := graph.AddEdge("alice@example.com", 2, "Brother", "", "immediate"); err != nil {
		t.Fatalf("AddEdge failed: %v", err)
	}

	alice := membersOf(t, store, 1)
	if alice[0].PersonID != 2 || alice[0].Relation != "Brother" || alice[0].NetworkLevel != 1 {
		t.Errorf("Alice's entry wrong: %+v", alice[0])
	}
	bob := membersOf(t, store, 2)
	if bob[0].PersonID != 1 || bob[0].Relation != "Brother" || bob[0].NetworkLevel != 1 {
		t.Errorf("Bob's entry wrong: %+v", bob[0])
	}

	if _, err := graph.UpdateEdge("bob@example.com", 1, "Sister", "extended"); err != nil {
		t.Fatalf("UpdateEdge failed: %v", err)
	}
	bob = membersOf(t, store, 2)
	if bob[0].Relation != "Sister" || bob[0].NetworkLevel != 2 {
		t.Errorf("Bob's entry after update: %+v", bob[0])
	}
	alice = membersOf(t, store, 1)
	if alice[0].Relation != "Brother" || alice[0].NetworkLevel != 1 {
		t.Errorf("Alice's entry should be unchanged: %+v", alice[0])
	}

	if _, err := graph.RemoveEdge("alice@example.com", 2); err != nil {
		t.Fatalf("RemoveEdge failed: %v", err)
	}
	if len(membersOf(t, store, 1)) != 0 || len(membersOf(t, store, 2)) != 0 {
		t.Error("both lists should be empty after removal")
	}

	if _, err := graph.RemoveEdge("alice@example.com", 2); !errors.Is(err, ErrNotFound) {
		t.Errorf("second remove = %v, want ErrNotFound", err)
	}
}
