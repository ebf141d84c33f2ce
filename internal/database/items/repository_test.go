package items

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/JordiMolto/MyMediaVerse/internal/entities"
)

func setupTestDB(t *testing.T) (*gorm.DB, *Repository, func()) {
	dbPath := "./test_items_" + t.Name() + ".db"

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(&entities.Item{})
	require.NoError(t, err)

	repo := NewRepository(db)

	cleanup := func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
		os.Remove(dbPath)
	}

	return db, repo, cleanup
}

func createTestItem(t *testing.T, repo *Repository, title string, mediaType entities.MediaType, status entities.ItemStatus) *entities.Item {
	item := &entities.Item{
		ID:        uuid.NewString(),
		Type:      string(mediaType),
		Title:     title,
		Status:    status,
		CreatedAt: time.Now(),
	}
	require.NoError(t, repo.Insert(context.Background(), item))
	return item
}

func TestInsertAndGetByID(t *testing.T) {
	_, repo, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	rating := 4
	item := &entities.Item{
		ID:        uuid.NewString(),
		Type:      string(entities.MediaTypeMovie),
		Title:     "Matrix",
		Status:    entities.StatusCompleted,
		Rating:    &rating,
		Genres:    []string{"Sci-Fi", "Action"},
		Cast:      []string{"Keanu Reeves"},
		CreatedAt: time.Now(),
	}
	require.NoError(t, repo.Insert(ctx, item))

	got, err := repo.GetByID(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, "Matrix", got.Title)
	assert.Equal(t, entities.StatusCompleted, got.Status)
	require.NotNil(t, got.Rating)
	assert.Equal(t, 4, *got.Rating)
	assert.Equal(t, []string{"Sci-Fi", "Action"}, got.Genres)
}

func TestGetByIDNotFound(t *testing.T) {
	_, repo, cleanup := setupTestDB(t)
	defer cleanup()

	_, err := repo.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestListByTypeAndStatus(t *testing.T) {
	_, repo, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	createTestItem(t, repo, "Matrix", entities.MediaTypeMovie, entities.StatusCompleted)
	createTestItem(t, repo, "Dune", entities.MediaTypeBook, entities.StatusPending)
	createTestItem(t, repo, "Dark", entities.MediaTypeSeries, entities.StatusCompleted)

	movies, err := repo.ListByType(ctx, string(entities.MediaTypeMovie))
	require.NoError(t, err)
	assert.Len(t, movies, 1)
	assert.Equal(t, "Matrix", movies[0].Title)

	completed, err := repo.ListByStatus(ctx, entities.StatusCompleted)
	require.NoError(t, err)
	assert.Len(t, completed, 2)
}

func TestSaveOverwrites(t *testing.T) {
	_, repo, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	item := createTestItem(t, repo, "Matrix", entities.MediaTypeMovie, entities.StatusPending)

	item.Status = entities.StatusInProgress
	item.Description = "A hacker discovers reality is a simulation."
	require.NoError(t, repo.Save(ctx, item))

	got, err := repo.GetByID(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, entities.StatusInProgress, got.Status)
	assert.NotEmpty(t, got.Description)
}

func TestDelete(t *testing.T) {
	_, repo, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	item := createTestItem(t, repo, "Matrix", entities.MediaTypeMovie, entities.StatusPending)

	require.NoError(t, repo.Delete(ctx, item.ID))
	_, err := repo.GetByID(ctx, item.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestListMissingMetadata(t *testing.T) {
	_, repo, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	bare := createTestItem(t, repo, "Matrix", entities.MediaTypeMovie, entities.StatusPending)

	full := createTestItem(t, repo, "Dune", entities.MediaTypeMovie, entities.StatusPending)
	full.Description = "Desert planet."
	full.Image = "https://image.example/dune.jpg"
	require.NoError(t, repo.Save(ctx, full))

	missing, err := repo.ListMissingMetadata(ctx)
	require.NoError(t, err)
	require.Len(t, missing, 1)
	assert.Equal(t, bare.ID, missing[0].ID)
}
