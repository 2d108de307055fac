package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/legal-sheba/legal-sheba-api/config"
	"github.com/legal-sheba/legal-sheba-api/models"
)

const (
	testSecret   = "test-secret"
	testIssuer   = "test-issuer"
	testAudience = "test-audience"
)

// newTestDB opens a fresh in-memory sqlite store with the full schema
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := config.ConnectDatabase("sqlite://:memory:")
	require.NoError(t, err)
	require.NoError(t, config.Migrate(db))

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func newTestCodec(t *testing.T, ttl time.Duration) *TokenCodec {
	t.Helper()

	codec, err := NewTokenCodec(TokenConfig{
		Secret:   testSecret,
		Issuer:   testIssuer,
		Audience: testAudience,
		TTL:      ttl,
	})
	require.NoError(t, err)
	return codec
}

func createTestUser(t *testing.T, db *gorm.DB, email string, role models.Role) models.User {
	t.Helper()

	user := models.User{
		DisplayName:  "User " + email,
		Email:        email,
		PasswordHash: "not-a-real-hash",
		Role:         role,
	}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func createTestProfile(t *testing.T, db *gorm.DB, userID uint, location string, specialties ...string) models.LawyerProfile {
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

// bookedAppointment seeds a client, a lawyer with a profile and a pending appointment between them
type bookedAppointment struct {
	client      models.User
	lawyer      models.User
	profile     models.LawyerProfile
	appointment models.Appointment
}

func createBookedAppointment(t *testing.T, db *gorm.DB) bookedAppointment {
	t.Helper()

	client := createTestUser(t, db, "client@example.com", models.RoleClient)
	lawyer := createTestUser(t, db, "lawyer@example.com", models.RoleLawyer)
	// profile ids are kept apart from user ids so mixing them up is caught
	profile := models.LawyerProfile{ID: 100, UserID: lawyer.ID, Location: strPtr("Dhaka")}
	require.NoError(t, db.Create(&profile).Error)

	appt := models.Appointment{
		ClientID:        client.ID,
		LawyerID:        profile.ID,
		AppointmentDate: "2024-06-01 10:00",
		Status:          models.StatusPending,
	}
	require.NoError(t, db.Create(&appt).Error)

	return bookedAppointment{client: client, lawyer: lawyer, profile: profile, appointment: appt}
}

func strPtr(s string) *string {
	return &s
}

func intPtr(i int) *int {
	return &i
}

func newTestHasher() *PasswordHasher {
	return NewPasswordHasher(bcrypt.MinCost)
}

// insertBeforeCreate runs insert inside the transaction of the next create
// against table, after any pre-checks have passed. It fires once.
func insertBeforeCreate(t *testing.T, db *gorm.DB, table, insert string, args ...interface{}) {
	t.Helper()

	fired := false
	err := db.Callback().Create().Before("gorm:create").Register("test:insert_before_create", func(tx *gorm.DB) {
		if fired || tx.Statement.Schema == nil || tx.Statement.Schema.Table != table {
			return
		}
		fired = true
		if _, err := tx.Statement.ConnPool.ExecContext(tx.Statement.Context, insert, args...); err != nil {
			_ = tx.AddError(err)
		}
	})
	require.NoError(t, err)
}
