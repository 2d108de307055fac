package testutil

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/legal-sheba/legal-sheba-api/config"
	"github.com/legal-sheba/legal-sheba-api/models"
	"github.com/legal-sheba/legal-sheba-api/services"
)

// TestDatabaseURL is an in-memory sqlite store; every connection gets its own database
const TestDatabaseURL = "sqlite://:memory:"

// ExternalDatabaseEnv names a database to run the suites against instead of sqlite.
// Its tables are dropped and recreated for every test, so run packages with -p 1.
const ExternalDatabaseEnv = "TEST_DATABASE_URL"

// NewTestDB opens a migrated, empty database that is closed when the test ends
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	databaseURL := TestDatabaseURL
	if external := os.Getenv(ExternalDatabaseEnv); external != "" {
		RequireTestEnvironment(t)
		databaseURL = external
	}

	db, err := config.ConnectDatabase(databaseURL)
	require.NoError(t, err, "Failed to connect to test database")

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	if databaseURL != TestDatabaseURL {
		dropTables(t, db)
	}
	require.NoError(t, config.Migrate(db), "Failed to migrate test database")
	return db
}

// dropTables removes every model table, dependents first
func dropTables(t *testing.T, db *gorm.DB) {
	t.Helper()

	all := models.All()
	for i := len(all) - 1; i >= 0; i-- {
		require.NoError(t, db.Migrator().DropTable(all[i]), "Failed to reset test database")
	}
}

// NewTestConfig returns a configuration suitable for in-process tests
func NewTestConfig(t *testing.T) *config.Config {
	t.Helper()

	return &config.Config{
		DatabaseURL:        TestDatabaseURL,
		Port:               "0",
		GoEnv:              "test",
		JWTSecret:          TestSecret,
		JWTIssuer:          TestIssuer,
		JWTAudience:        TestAudience,
		TokenTTL:           TestTokenTTL,
		BcryptCost:         bcrypt.MinCost,
		UploadDir:          t.TempDir(),
		StorageBackend:     config.StorageLocal,
		CORSAllowedOrigins: []string{"*"},
		AuthRateLimitRPS:   1000,
		AuthRateLimitBurst: 1000,
		LogLevel:           "error",
	}
}

// CreateUser inserts an account with the given password
func CreateUser(t *testing.T, db *gorm.DB, name, email, password string, role models.Role) models.User {
	t.Helper()

	hash, err := services.NewPasswordHasher(bcrypt.MinCost).Hash(password)
	require.NoError(t, err)

	user := models.User{
		DisplayName:  name,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
	}
	require.NoError(t, db.Create(&user).Error)
	return user
}

// CreateProfile inserts a lawyer profile with specialties
func CreateProfile(t *testing.T, db *gorm.DB, userID uint, location string, specialties ...string) models.LawyerProfile {
	t.Helper()

	profile := models.LawyerProfile{UserID: userID}
	if location != "" {
		profile.Location = &location
	}
	require.NoError(t, db.Create(&profile).Error)

	for _, name := range specialties {
		require.NoError(t, db.Create(&models.Specialty{LawyerID: profile.ID, Name: name}).Error)
	}
	return profile
}

// RequireTestEnvironment ensures that tests touching an external database run
// with GO_ENV=test, so they never hit a development or production store.
func RequireTestEnvironment(t *testing.T) {
	t.Helper()

	env := os.Getenv("GO_ENV")
	if env != "test" {
		t.Fatalf("SAFETY CHECK FAILED: Tests must run with GO_ENV=test to prevent data loss. Current GO_ENV=%q. Set GO_ENV=test before running tests.", env)
	}
}
