package service

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"hearthside/internal/database"
)

// BackupData represents the complete database backup structure
type BackupData struct {
	Version     string             `json:"version"`
	ExportedAt  time.Time          `json:"exported_at"`
	Users       []UserBackup       `json:"users"`
	FamilyLines []FamilyLineBackup `json:"family_lines"`
	Notes       []NoteBackup       `json:"notes"`
	Recipes     []RecipeBackup     `json:"recipes"`
	Stories     []StoryBackup      `json:"stories"`
	Invitations []InvitationBackup `json:"invitations"`
}

// UserBackup represents a user record for backup
type UserBackup struct {
	ID            int64     `json:"id"`
	Email         string    `json:"email"`
	PasswordHash  string    `json:"password_hash"`
	Name          string    `json:"name"`
	OAuthProvider string    `json:"oauth_provider"`
	OAuthSubject  string    `json:"oauth_subject"`
	IsAdmin       bool      `json:"is_admin"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// FamilyLineBackup represents a family line record for backup
type FamilyLineBackup struct {
	ID        int64     `json:"id"`
	PersonID  int64     `json:"person_id"`
	Document  string    `json:"document"`
	Version   int64     `json:"version"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NoteBackup represents a note record for backup
type NoteBackup struct {
	ID         int64     `json:"id"`
	OwnerID    int64     `json:"owner_id"`
	Title      string    `json:"title"`
	Body       string    `json:"body"`
	Visibility string    `json:"visibility"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// RecipeBackup represents a recipe record for backup
type RecipeBackup struct {
	ID           int64     `json:"id"`
	OwnerID      int64     `json:"owner_id"`
	Title        string    `json:"title"`
	Ingredients  string    `json:"ingredients"`
	Instructions string    `json:"instructions"`
	Visibility   string    `json:"visibility"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// StoryBackup represents a story record for backup
type StoryBackup struct {
	ID         int64     `json:"id"`
	OwnerID    int64     `json:"owner_id"`
	Title      string    `json:"title"`
	Body       string    `json:"body"`
	Dice       string    `json:"dice"`
	Visibility string    `json:"visibility"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// InvitationBackup represents an invitation record for backup
type InvitationBackup struct {
	ID             int64      `json:"id"`
	InviterID      int64      `json:"inviter_id"`
	RecipientEmail string     `json:"recipient_email"`
	Relation       string     `json:"relation"`
	NetworkType    string     `json:"network_type"`
	CreatedAt      time.Time  `json:"created_at"`
	AcceptedAt     *time.Time `json:"accepted_at"`
}

// BackupService handles database backup and restore operations
type BackupService struct {
	db *database.DB
}

// NewBackupService creates a new backup service
func NewBackupService(db *database.DB) *BackupService {
	return &BackupService{db: db}
}

// Export creates a complete backup of the database to a file
func (s *BackupService) Export(outputPath string) error {
	log.Println("Starting database export...")

	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer file.Close()

	if err := s.ExportToWriter(file); err != nil {
		return err
	}

	log.Printf("Database exported successfully to %s", outputPath)
	return nil
}

// ExportToWriter exports the database to an io.Writer (useful for HTTP responses)
func (s *BackupService) ExportToWriter(w io.Writer) error {
	backup := &BackupData{
		Version:    "1.0",
		ExportedAt: time.Now(),
	}

	if err := s.exportUsers(backup); err != nil {
		return fmt.Errorf("failed to export users: %w", err)
	}
	if err := s.exportFamilyLines(backup); err != nil {
		return fmt.Errorf("failed to export family lines: %w", err)
	}
	if err := s.exportNotes(backup); err != nil {
		return fmt.Errorf("failed to export notes: %w", err)
	}
	if err := s.exportRecipes(backup); err != nil {
		return fmt.Errorf("failed to export recipes: %w", err)
	}
	if err := s.exportStories(backup); err != nil {
		return fmt.Errorf("failed to export stories: %w", err)
	}
	if err := s.exportInvitations(backup); err != nil {
		return fmt.Errorf("failed to export invitations: %w", err)
	}

	log.Printf("Exported: %d users, %d family lines, %d notes, %d recipes, %d stories, %d invitations",
		len(backup.Users), len(backup.FamilyLines), len(backup.Notes),
		len(backup.Recipes), len(backup.Stories), len(backup.Invitations))

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(backup)
}

// Import restores a database from a backup file
func (s *BackupService) Import(inputPath string) error {
	log.Printf("Starting database import from %s...", inputPath)

	file, err := os.Open(inputPath)
	if err != nil {
		return fmt.Errorf("failed to open input file: %w", err)
	}
	defer file.Close()

	return s.ImportFromReader(file)
}

// ImportFromReader restores a database from a backup reader (for file uploads)
func (s *BackupService) ImportFromReader(reader io.Reader) error {
	var backup BackupData
	decoder := json.NewDecoder(reader)
	if err := decoder.Decode(&backup); err != nil {
		return fmt.Errorf("failed to decode backup: %w", err)
	}

	log.Printf("Backup version: %s, exported at: %s", backup.Version, backup.ExportedAt)

	// Import in order of dependencies
	if err := s.importUsers(backup.Users); err != nil {
		return fmt.Errorf("failed to import users: %w", err)
	}
	if err := s.importFamilyLines(backup.FamilyLines); err != nil {
		return fmt.Errorf("failed to import family lines: %w", err)
	}
	if err := s.importNotes(backup.Notes); err != nil {
		return fmt.Errorf("failed to import notes: %w", err)
	}
	if err := s.importRecipes(backup.Recipes); err != nil {
		return fmt.Errorf("failed to import recipes: %w", err)
	}
	if err := s.importStories(backup.Stories); err != nil {
		return fmt.Errorf("failed to import stories: %w", err)
	}
	if err := s.importInvitations(backup.Invitations); err != nil {
		return fmt.Errorf("failed to import invitations: %w", err)
	}

	log.Println("Database import completed successfully")
	return nil
}

func (s *BackupService) exportUsers(backup *BackupData) error {
	query := "SELECT id, email, password_hash, name, COALESCE(oauth_provider, ''), COALESCE(oauth_subject, ''), is_admin, created_at, updated_at FROM users ORDER BY id"
	rows, err := s.db.Query(query)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var u UserBackup
		if err := rows.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Name, &u.OAuthProvider, &u.OAuthSubject, &u.IsAdmin, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return err
		}
		backup.Users = append(backup.Users, u)
	}
	return rows.Err()
}

func (s *BackupService) exportFamilyLines(backup *BackupData) error {
	query := "SELECT id, person_id, document, version, updated_at FROM family_lines ORDER BY id"
	rows, err := s.db.Query(query)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var l FamilyLineBackup
		if err := rows.Scan(&l.ID, &l.PersonID, &l.Document, &l.Version, &l.UpdatedAt); err != nil {
			return err
		}
		backup.FamilyLines = append(backup.FamilyLines, l)
	}
	return rows.Err()
}

func (s *BackupService) exportNotes(backup *BackupData) error {
	query := "SELECT id, owner_id, title, body, visibility, created_at, updated_at FROM notes ORDER BY id"
	rows, err := s.db.Query(query)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var n NoteBackup
		if err := rows.Scan(&n.ID, &n.OwnerID, &n.Title, &n.Body, &n.Visibility, &n.CreatedAt, &n.UpdatedAt); err != nil {
			return err
		}
		backup.Notes = append(backup.Notes, n)
	}
	return rows.Err()
}

func (s *BackupService) exportRecipes(backup *BackupData) error {
	query := "SELECT id, owner_id, title, ingredients, instructions, visibility, created_at, updated_at FROM recipes ORDER BY id"
	rows, err := s.db.Query(query)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var r RecipeBackup
		if err := rows.Scan(&r.ID, &r.OwnerID, &r.Title, &r.Ingredients, &r.Instructions, &r.Visibility, &r.CreatedAt, &r.UpdatedAt); err != nil {
			return err
		}
		backup.Recipes = append(backup.Recipes, r)
	}
	return rows.Err()
}

func (s *BackupService) exportStories(backup *BackupData) error {
	query := "SELECT id, owner_id, title, body, dice, visibility, created_at, updated_at FROM stories ORDER BY id"
	rows, err := s.db.Query(query)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var st StoryBackup
		if err := rows.Scan(&st.ID, &st.OwnerID, &st.Title, &st.Body, &st.Dice, &st.Visibility, &st.CreatedAt, &st.UpdatedAt); err != nil {
			return err
		}
		backup.Stories = append(backup.Stories, st)
	}
	return rows.Err()
}

func (s *BackupService) exportInvitations(backup *BackupData) error {
	query := "SELECT id, inviter_id, recipient_email, relation, network_type, created_at, accepted_at FROM invitations ORDER BY id"
	rows, err := s.db.Query(query)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var inv InvitationBackup
		var acceptedAt sql.NullTime
		if err := rows.Scan(&inv.ID, &inv.InviterID, &inv.RecipientEmail, &inv.Relation, &inv.NetworkType, &inv.CreatedAt, &acceptedAt); err != nil {
			return err
		}
		if acceptedAt.Valid {
			inv.AcceptedAt = &acceptedAt.Time
		}
		backup.Invitations = append(backup.Invitations, inv)
	}
	return rows.Err()
}

func (s *BackupService) importUsers(users []UserBackup) error {
	log.Printf("Importing %d users...", len(users))
	for _, u := range users {
		query := "INSERT INTO users (id, email, password_hash, name, oauth_provider, oauth_subject, is_admin, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)"
		_, err := s.db.Exec(query, u.ID, u.Email, u.PasswordHash, u.Name, nullIfEmpty(u.OAuthProvider), nullIfEmpty(u.OAuthSubject), u.IsAdmin, u.CreatedAt, u.UpdatedAt)
		if err != nil {
			return fmt.Errorf("failed to import user %d: %w", u.ID, err)
		}
	}
	return nil
}

func (s *BackupService) importFamilyLines(lines []FamilyLineBackup) error {
	log.Printf("Importing %d family lines...", len(lines))
	for _, l := range lines {
		query := "INSERT INTO family_lines (id, person_id, document, version, updated_at) VALUES (?, ?, ?, ?, ?)"
		_, err := s.db.Exec(query, l.ID, l.PersonID, l.Document, l.Version, l.UpdatedAt)
		if err != nil {
			return fmt.Errorf("failed to import family line %d: %w", l.ID, err)
		}
	}
	return nil
}

func (s *BackupService) importNotes(notes []NoteBackup) error {
	log.Printf("Importing %d notes...", len(notes))
	for _, n := range notes {
		query := "INSERT INTO notes (id, owner_id, title, body, visibility, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?)"
		_, err := s.db.Exec(query, n.ID, n.OwnerID, n.Title, n.Body, n.Visibility, n.CreatedAt, n.UpdatedAt)
		if err != nil {
			return fmt.Errorf("failed to import note %d: %w", n.ID, err)
		}
	}
	return nil
}

func (s *BackupService) importRecipes(recipes []RecipeBackup) error {
	log.Printf("Importing %d recipes...", len(recipes))
	for _, r := range recipes {
		query := "INSERT INTO recipes (id, owner_id, title, ingredients, instructions, visibility, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?)"
		_, err := s.db.Exec(query, r.ID, r.OwnerID, r.Title, r.Ingredients, r.Instructions, r.Visibility, r.CreatedAt, r.UpdatedAt)
		if err != nil {
			return fmt.Errorf("failed to import recipe %d: %w", r.ID, err)
		}
	}
	return nil
}

func (s *BackupService) importStories(stories []StoryBackup) error {
	log.Printf("Importing %d stories...", len(stories))
	for _, st := range stories {
		query := "INSERT INTO stories (id, owner_id, title, body, dice, visibility, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?)"
		_, err := s.db.Exec(query, st.ID, st.OwnerID, st.Title, st.Body, st.Dice, st.Visibility, st.CreatedAt, st.UpdatedAt)
		if err != nil {
			return fmt.Errorf("failed to import story %d: %w", st.ID, err)
		}
	}
	return nil
}

func (s *BackupService) importInvitations(invitations []InvitationBackup) error {
	log.Printf("Importing %d invitations...", len(invitations))
	for _, inv := range invitations {
		var acceptedAt interface{} = nil
		if inv.AcceptedAt != nil {
			acceptedAt = *inv.AcceptedAt
		}
		query := "INSERT INTO invitations (id, inviter_id, recipient_email, relation, network_type, created_at, accepted_at) VALUES (?, ?, ?, ?, ?, ?, ?)"
		_, err := s.db.Exec(query, inv.ID, inv.InviterID, inv.RecipientEmail, inv.Relation, inv.NetworkType, inv.CreatedAt, acceptedAt)
		if err != nil {
			return fmt.Errorf("failed to import invitation %d: %w", inv.ID, err)
		}
	}
	return nil
}

func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
