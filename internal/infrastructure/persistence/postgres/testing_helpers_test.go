package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/rafabene/sample-app/internal/domain/entities"
	"github.com/rafabene/sample-app/internal/domain/valueobjects"
)

// setupTestDB prepara um SQLite em memória com o schema da aplicação
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err, "failed to initialize test database")

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// cada conexão de ":memory:" é um banco separado
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, Migrate(db), "failed to migrate tables")
	return db
}

func seedUser(t *testing.T, repo *UserRepository, name, email string) *entities.User {
	t.Helper()

	addr, err := valueobjects.NewEmail(email)
	require.NoError(t, err)

	user := &entities.User{Name: name, Email: addr, PasswordDigest: "digest"}
	require.NoError(t, repo.Create(context.Background(), user), "failed to seed user")
	return user
}

func seedMicropost(t *testing.T, repo *MicropostRepository, userID, content string, at time.Time) *entities.Micropost {
	t.Helper()

	post := &entities.Micropost{UserID: userID, Content: content, CreatedAt: at}
	require.NoError(t, repo.Create(context.Background(), post), "failed to seed micropost")
	return post
}
