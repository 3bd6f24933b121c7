// Package familydoc encodes and decodes the per-person family-line
// document. Stored payloads come in three shapes: a plain JSON document,
// a JSON string containing a JSON document (older writers encoded the
// document twice), or nothing at all. Decode absorbs all three; Encode
// only ever produces the plain form.
package familydoc

import "encoding/json"

// Member is one entry in a family line: an edge to another person,
// annotated from the owning person's point of view
type Member struct {
	PersonID     int64  `json:"person_id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	Relation     string `json:"relation"`
	NetworkLevel int    `json:"network_level"`
	FamilyLineID int64  `json:"family_line_id"`
}

// Document is the decoded family-line document
type Document struct {
	Members []Member `json:"members"`
}

// Decode parses a raw stored payload into a Document. It tries one JSON
// decode; if the payload turns out to be a JSON-encoded string it decodes
// exactly once more and no further. Anything unparseable, or a document
// without a members field, comes back as an empty membership list.
// Decode never fails
func Decode(raw string) *Document {
	if raw == "" || raw == "null" {
		return &Document{Members: []Member{}}
	}

	payload := []byte(raw)

	// Legacy double-encoding: the whole document stored as a JSON string.
	// Unwrap one layer only, so a genuinely malformed payload is not
	// silently absorbed as valid
	var inner string
	if err := json.Unmarshal(payload, &inner); err == nil {
		payload = []byte(inner)
	}

	var doc Document
	if err := json.Unmarshal(payload, &doc); err != nil {
		return &Document{Members: []Member{}}
	}
	if doc.Members == nil {
		doc.Members = []Member{}
	}
	return &doc
}

// Encode serializes a Document as single-level JSON. New writers must not
// reintroduce the double-encoding Decode tolerates
func Encode(doc *Document) (string, error) {
	if doc.Members == nil {
		doc.Members = []Member{}
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// FindByPersonID returns the index of the member entry for the given
// person, or -1 if absent
func (d *Document) FindByPersonID(personID int64) int {
	for i, m := range d.Members {
		if m.PersonID == personID {
			return i
		}
	}
	return -1
}

// HasEmail reports whether any member entry carries the given email
func (d *Document) HasEmail(email string) bool {
	for _, m := range d.Members {
		if m.Email == email {
			return true
		}
	}
	return false
}

// RemoveByPersonID filters out the member entry for the given person and
// reports whether anything was removed
func (d *Document) RemoveByPersonID(personID int64) bool {
	kept := d.Members[:0]
	removed := false
	for _, m := range d.Members {
		if m.PersonID == personID {
			removed = true
			continue
		}
		kept = append(kept, m)
	}
	d.Members = kept
	return removed
}
