package tests

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"circl/backend/internal/config"
	"circl/backend/internal/db"
	"circl/backend/internal/dedupe"
	"circl/backend/internal/repository"
	"circl/backend/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// getMigrationsPath returns the absolute path to the migrations directory
func getMigrationsPath() string {
	// If MIGRATIONS_PATH is set as absolute path, use it
	if path := os.Getenv("MIGRATIONS_PATH"); path != "" && filepath.IsAbs(path) {
		return path
	}

	// Otherwise, compute path relative to this test file
	_, filename, _, _ := runtime.Caller(0)
	testDir := filepath.Dir(filename)
	return filepath.Join(testDir, "..", "migrations")
}

func setupDatabase(t *testing.T) *db.Database {
	t.Helper()

	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		t.Skip("DATABASE_URL not set, skipping integration test")
	}

	require.NoError(t, db.RunMigrations(databaseURL, getMigrationsPath()))

	cfg := config.TestConfig()
	cfg.Database.URL = databaseURL

	database, err := db.NewDatabase(context.Background(), cfg.Database)
	require.NoError(t, err)
	t.Cleanup(database.Close)

	return database
}

func createContact(t *testing.T, repo *repository.ContactRepository, userID uuid.UUID, name, email string) *repository.Contact {
	t.Helper()

	req := repository.CreateContactRequest{
		UserID:   userID,
		FullName: name,
		Circle:   repository.CircleMiddle,
	}
	if email != "" {
		req.Email = &email
	}

	contact, err := repo.CreateContact(context.Background(), req)
	require.NoError(t, err)
	return contact
}

func logInteraction(t *testing.T, repo *repository.InteractionRepository, userID, contactID uuid.UUID, daysAgo int) {
	t.Helper()

	_, err := repo.CreateInteraction(context.Background(), repository.CreateInteractionRequest{
		UserID:     userID,
		ContactID:  contactID,
		Kind:       "call",
		OccurredAt: time.Now().Add(-time.Duration(daysAgo) * 24 * time.Hour),
	})
	require.NoError(t, err)
}

func TestRunMigrations_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		t.Skip("DATABASE_URL not set, skipping integration test")
	}

	t.Run("RunMigrations_NoChange", func(t *testing.T) {
		// Running migrations on an already-migrated database should succeed
		// and return nil (ErrNoChange is handled internally)
		err := db.RunMigrations(databaseURL, getMigrationsPath())
		assert.NoError(t, err)
	})

	t.Run("RunMigrations_InvalidPath", func(t *testing.T) {
		err := db.RunMigrations(databaseURL, "/nonexistent/path")
		assert.Error(t, err)
	})
}

func TestMergeContacts_Integration(t *testing.T) {
	database := setupDatabase(t)
	ctx := context.Background()

	contactRepo := repository.NewContactRepository(database.Pool)
	interactionRepo := repository.NewInteractionRepository(database.Pool)
	duplicateService := service.NewDuplicateService(database, contactRepo, dedupe.DefaultConfig)

	t.Run("MergeReassignsDependentsAndDeletesSecondary", func(t *testing.T) {
		userID := uuid.New()
		primary := createContact(t, contactRepo, userID, "Jon Smith", "jon@x.com")
		secondary := createContact(t, contactRepo, userID, "Jonathan Smith", "jon@x.com")

		for i := 0; i < 3; i++ {
			logInteraction(t, interactionRepo, userID, primary.ID, i+1)
		}
		for i := 0; i < 2; i++ {
			logInteraction(t, interactionRepo, userID, secondary.ID, i+1)
		}

		merged, err := duplicateService.MergeContacts(ctx, primary.ID, secondary.ID, userID)
		require.NoError(t, err)
		assert.Equal(t, primary.ID, merged.ID)

		// All former secondary interactions now reference the primary.
		primaryCount, err := interactionRepo.CountInteractionsByContact(ctx, primary.ID, userID)
		require.NoError(t, err)
		assert.Equal(t, int64(5), primaryCount)

		secondaryCount, err := interactionRepo.CountInteractionsByContact(ctx, secondary.ID, userID)
		require.NoError(t, err)
		assert.Equal(t, int64(0), secondaryCount)

		// The secondary id no longer exists.
		_, err = contactRepo.GetContact(ctx, secondary.ID, userID)
		assert.ErrorIs(t, err, db.ErrNotFound)
	})

	t.Run("MergeDeletedSecondaryReturnsNotFound", func(t *testing.T) {
		userID := uuid.New()
		primary := createContact(t, contactRepo, userID, "Jon Smith", "jon@x.com")
		secondary := createContact(t, contactRepo, userID, "Jonathan Smith", "jon@x.com")

		_, err := duplicateService.MergeContacts(ctx, primary.ID, secondary.ID, userID)
		require.NoError(t, err)

		// Re-merging the already-deleted secondary must fail loudly, never
		// silently succeed.
		_, err = duplicateService.MergeContacts(ctx, primary.ID, secondary.ID, userID)
		assert.ErrorIs(t, err, db.ErrNotFound)
	})

	t.Run("CrossOwnerMergeRefused", func(t *testing.T) {
		userA := uuid.New()
		userB := uuid.New()
		mine := createContact(t, contactRepo, userA, "Jon Smith", "jon@x.com")
		theirs := createContact(t, contactRepo, userB, "Jonathan Smith", "jon@x.com")

		_, err := duplicateService.MergeContacts(ctx, mine.ID, theirs.ID, userA)
		assert.ErrorIs(t, err, service.ErrCrossOwner)

		// Neither side was touched.
		_, err = contactRepo.GetContact(ctx, theirs.ID, userB)
		assert.NoError(t, err)
	})

	t.Run("MergeOfAnotherUsersContactsReadsAsNotFound", func(t *testing.T) {
		owner := uuid.New()
		caller := uuid.New()
		first := createContact(t, contactRepo, owner, "Jon Smith", "jon@x.com")
		second := createContact(t, contactRepo, owner, "Jonathan Smith", "jon@x.com")

		_, err := duplicateService.MergeContacts(ctx, first.ID, second.ID, caller)
		assert.ErrorIs(t, err, db.ErrNotFound)

		// Both rows still belong to their owner.
		_, err = contactRepo.GetContact(ctx, first.ID, owner)
		assert.NoError(t, err)
		_, err = contactRepo.GetContact(ctx, second.ID, owner)
		assert.NoError(t, err)
	})

	t.Run("ScanFindsMergeablePair", func(t *testing.T) {
		userID := uuid.New()
		a := createContact(t, contactRepo, userID, "Jon Smith", "jon@x.com")
		b := createContact(t, contactRepo, userID, "Jonathan Smith", "jon@x.com")

		pairs, err := duplicateService.ScanDuplicates(ctx, userID)
		require.NoError(t, err)
		require.Len(t, pairs, 1)
		assert.Equal(t, a.ID, pairs[0].Primary.ID)
		assert.Equal(t, b.ID, pairs[0].Secondary.ID)

		_, err = duplicateService.MergeContacts(ctx, pairs[0].Primary.ID, pairs[0].Secondary.ID, userID)
		require.NoError(t, err)

		pairs, err = duplicateService.ScanDuplicates(ctx, userID)
		require.NoError(t, err)
		assert.Empty(t, pairs)
	})
}
