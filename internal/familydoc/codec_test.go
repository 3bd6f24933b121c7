package familydoc

import (
	"encoding/json"
	"testing"
)

func TestDecodeSingleEncoded(t *testing.T) {
	raw := `{"members":[{"person_id":2,"name":"Bob","email":"bob@example.com","relation":"Brother","network_level":1,"family_line_id":7}]}`

	doc := Decode(raw)

	if len(doc.Members) != 1 {
		t.Fatalf("expected 1 member, got %d", len(doc.Members))
	}
	m := doc.Members[0]
	if m.PersonID != 2 || m.Relation != "Brother" || m.NetworkLevel != 1 {
		t.Errorf("unexpected member: %+v", m)
	}
}

func TestDecodeDoubleEncoded(t *testing.T) {
	inner := `{"members":[{"person_id":3,"name":"Carol","email":"carol@example.com","relation":"Aunt","network_level":2,"family_line_id":9}]}`
	outer, err := json.Marshal(inner)
	if err != nil {
		t.Fatalf("failed to build double-encoded payload: %v", err)
	}

	doc := Decode(string(outer))

	if len(doc.Members) != 1 {
		t.Fatalf("expected 1 member from double-encoded payload, got %d", len(doc.Members))
	}
	if doc.Members[0].Name != "Carol" {
		t.Errorf("expected Carol, got %q", doc.Members[0].Name)
	}
}

func TestDecodeMalformed(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{name: "empty string", raw: ""},
		{name: "json null", raw: "null"},
		{name: "garbage", raw: "not json at all"},
		{name: "truncated object", raw: `{"members":[{"person_id":`},
		{name: "wrong shape", raw: `[1,2,3]`},
		{name: "no members field", raw: `{"something":"else"}`},
		{name: "triple encoded string", raw: `"\"{\\\"members\\\":[]}\""`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := Decode(tt.raw)
			if doc == nil {
				t.Fatal("Decode returned nil")
			}
			if doc.Members == nil {
				t.Fatal("Decode returned nil members")
			}
			if tt.name != "triple encoded string" && len(doc.Members) != 0 {
				t.Errorf("expected empty membership, got %d entries", len(doc.Members))
			}
		})
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	original := &Document{Members: []Member{
		{PersonID: 1, Name: "Alice", Email: "alice@example.com", Relation: "Sister", NetworkLevel: 1, FamilyLineID: 4},
		{PersonID: 2, Name: "Bob", Email: "bob@example.com", Relation: "Cousin", NetworkLevel: 2, FamilyLineID: 5},
	}}

	encoded, err := Encode(original)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	decoded := Decode(encoded)
	if len(decoded.Members) != 2 {
		t.Fatalf("expected 2 members after round trip, got %d", len(decoded.Members))
	}
	for i, m := range decoded.Members {
		if m != original.Members[i] {
			t.Errorf("member %d changed across round trip: got %+v, want %+v", i, m, original.Members[i])
		}
	}

	// Encoding again must be byte-stable
	reencoded, err := Encode(decoded)
	if err != nil {
		t.Fatalf("second Encode failed: %v", err)
	}
	if reencoded != encoded {
		t.Errorf("encoding is not stable: %q vs %q", reencoded, encoded)
	}
}

func TestEncodeStableForDoubleEncodedInput(t *testing.T) {
	inner := `{"members":[{"person_id":8,"name":"Dan","email":"dan@example.com","relation":"Uncle","network_level":3,"family_line_id":2}]}`
	outer, _ := json.Marshal(inner)

	first, err := Encode(Decode(string(outer)))
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	second, err := Encode(Decode(first))
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	if first != second {
		t.Errorf("re-encoding a normalized document changed it: %q vs %q", first, second)
	}

	// The normalized form must be single-encoded
	if first[0] != '{' {
		t.Errorf("expected single-encoded document, got %q", first)
	}
}

func TestEncodeNilMembers(t *testing.T) {
	encoded, err := Encode(&Document{})
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	if encoded != `{"members":[]}` {
		t.Errorf("expected empty members array, got %q", encoded)
	}
}

func TestFindByPersonID(t *testing.T) {
	doc := &Document{Members: []Member{
		{PersonID: 10}, {PersonID: 20}, {PersonID: 30},
	}}

	if idx := doc.FindByPersonID(20); idx != 1 {
		t.Errorf("FindByPersonID(20) = %d, want 1", idx)
	}
	if idx := doc.FindByPersonID(99); idx != -1 {
		t.Errorf("FindByPersonID(99) = %d, want -1", idx)
	}
}

func TestRemoveByPersonID(t *testing.T) {
	doc := &Document{Members: []Member{
		{PersonID: 1, Name: "Alice"},
		{PersonID: 2, Name: "Bob"},
		{PersonID: 3, Name: "Carol"},
	}}

	if !doc.RemoveByPersonID(2) {
		t.Fatal("expected removal of person 2")
	}
	if len(doc.Members) != 2 {
		t.Fatalf("expected 2 members left, got %d", len(doc.Members))
	}
	if doc.Members[0].PersonID != 1 || doc.Members[1].PersonID != 3 {
		t.Errorf("unexpected order after removal: %+v", doc.Members)
	}

	if doc.RemoveByPersonID(2) {
		t.Error("second removal of person 2 should report nothing removed")
	}
	if len(doc.Members) != 2 {
		t.Errorf("membership changed by a no-op removal: %+v", doc.Members)
	}
}
