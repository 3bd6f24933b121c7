package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"hearthside/internal/database"
	"hearthside/internal/models"
)

// ErrVersionConflict is returned when a document write loses the
// optimistic concurrency check: the stored version moved between the
// read and the write. Callers re-read and retry
var ErrVersionConflict = errors.New("family line version conflict")

// emptyDocument is what a freshly provisioned family line holds
const emptyDocument = `{"members":[]}`

// FamilyLineRepository is the keyed document store for family lines:
// one row per owning person, read and written whole. It offers no
// transaction spanning two people's rows
type FamilyLineRepository struct {
	db *database.DB
}

// NewFamilyLineRepository creates a new family line repository
func NewFamilyLineRepository(db *database.DB) *FamilyLineRepository {
	return &FamilyLineRepository{db: db}
}

// EnsureLine provisions an empty family line for a person if they do not
// have one yet, and returns the line's row id either way
func (r *FamilyLineRepository) EnsureLine(personID int64) (int64, error) {
	existing, err := r.GetByPersonID(personID)
	if err != nil {
		return 0, err
	}
	if existing != nil {
		return existing.ID, nil
	}

	query := "INSERT INTO family_lines (person_id, document, version) VALUES (?, ?, 1)"
	id, err := r.db.ExecReturningID(query, personID, emptyDocument)
	if err != nil {
		return 0, fmt.Errorf("failed to create family line: %w", err)
	}
	return id, nil
}

// GetByPersonID retrieves the family line owned by a person.
// Returns nil when the person has no line
func (r *FamilyLineRepository) GetByPersonID(personID int64) (*models.FamilyLine, error) {
	query := "SELECT id, person_id, document, version, updated_at FROM family_lines WHERE person_id = ?"
	line := &models.FamilyLine{}
	err := r.db.QueryRow(query, personID).Scan(
		&line.ID,
		&line.PersonID,
		&line.Document,
		&line.Version,
		&line.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get family line: %w", err)
	}

	return line, nil
}

// UpdateDocument writes a family line document back, guarded by the
// version read alongside it. A zero-row update means the stored version
// moved and the caller's copy is stale
func (r *FamilyLineRepository) UpdateDocument(personID int64, document string, expectVersion int64) error {
	query := `
		UPDATE family_lines
		SET document = ?, version = version + 1, updated_at = CURRENT_TIMESTAMP
		WHERE person_id = ? AND version = ?
	`
	result, err := r.db.Exec(query, document, personID, expectVersion)
	if err != nil {
		return fmt.Errorf("failed to update family line: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check family line update: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("person %d: %w", personID, ErrVersionConflict)
	}

	return nil
}

// All retrieves every family line, for the reconciliation sweep and backups
func (r *FamilyLineRepository) All() ([]models.FamilyLine, error) {
	query := "SELECT id, person_id, document, version, updated_at FROM family_lines ORDER BY person_id ASC"
	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query family lines: %w", err)
	}
	defer rows.Close()

	var lines []models.FamilyLine
	for rows.Next() {
		var line models.FamilyLine
		if err := rows.Scan(&line.ID, &line.PersonID, &line.Document, &line.Version, &line.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan family line: %w", err)
		}
		lines = append(lines, line)
	}

	return lines, rows.Err()
}
