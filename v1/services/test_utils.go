package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/WatermalonExp/student-ai-portal/v1/models"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SetupSQLiteTestDB creates an in-memory SQLite database for testing
func SetupSQLiteTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
		Logger:                                   logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("Failed to connect to SQLite test database: %v", err)
	}

	// Auto-migrate all models
	err = db.AutoMigrate(
		&models.User{},
		&models.Application{},
		&models.Document{},
		&models.Decision{},
	)
	if err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	CleanupTestData(t, db)

	return db
}

// CleanupTestData removes all test data from the database.
// Exported for use in handler tests.
func CleanupTestData(t *testing.T, db *gorm.DB) {
	// Delete in reverse order of dependencies
	if err := db.Exec("DELETE FROM application_decisions").Error; err != nil {
		t.Logf("Warning: failed to cleanup application_decisions: %v", err)
	}
	if err := db.Exec("DELETE FROM documents").Error; err != nil {
		t.Logf("Warning: failed to cleanup documents: %v", err)
	}
	if err := db.Exec("DELETE FROM applications").Error; err != nil {
		t.Logf("Warning: failed to cleanup applications: %v", err)
	}
	if err := db.Exec("DELETE FROM users").Error; err != nil {
		t.Logf("Warning: failed to cleanup users: %v", err)
	}
}

// SetupMockDB creates a GORM connection backed by sqlmock for failure-path tests
func SetupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock, func()) {
	var sqlDB *sql.DB
	var mock sqlmock.Sqlmock
	var err error

	sqlDB, mock, err = sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}

	dialector := postgres.New(postgres.Config{
		Conn:       sqlDB,
		DriverName: "postgres",
	})

	db, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open gorm db: %v", err)
	}

	cleanup := func() {
		sqlDB.Close()
	}

	return db, mock, cleanup
}

// memoryFileStore is an in-memory FileStore for tests. Saved content is keyed
// by storage reference; failSave forces the next Save to error.
type memoryFileStore struct {
	saved    map[string][]byte
	deleted  []string
	failSave bool
	seq      int
}

func newMemoryFileStore() *memoryFileStore {
	return &memoryFileStore{saved: make(map[string][]byte)}
}

func (m *memoryFileStore) Save(src io.Reader, destinationHint string) (string, error) {
	if m.failSave {
		return "", errors.New("storage backend unavailable")
	}
	data, err := io.ReadAll(src)
	if err != nil {
		return "", err
	}
	m.seq++
	ref := fmt.Sprintf("mem://%d/%s", m.seq, destinationHint)
	m.saved[ref] = data
	return ref, nil
}

func (m *memoryFileStore) Delete(storageRef string) bool {
	m.deleted = append(m.deleted, storageRef)
	if _, ok := m.saved[storageRef]; ok {
		delete(m.saved, storageRef)
		return true
	}
	return false
}

// fakeAssistant returns a canned reply and records the prompts it saw
type fakeAssistant struct {
	reply   string
	prompts []string
}

func (f *fakeAssistant) Answer(_ context.Context, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	return f.reply, nil
}

// staticGate is an AuthorizationGate with a fixed reviewer set
type staticGate map[uint]bool

func (g staticGate) IsReviewer(userID uint) bool { return g[userID] }
