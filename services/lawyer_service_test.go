package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/legal-sheba/legal-sheba-api/models"
)

func TestNormalizeSpecialties(t *testing.T) {
	tests := []struct {
		name  string
		input []string
		want  []string
	}{
		{"nil", nil, []string{}},
		{"trims and drops empty", []string{" Tax ", "", "  "}, []string{"Tax"}},
		{"exact duplicates only", []string{"Tax", "tax", "Tax ", ""}, []string{"Tax", "tax"}},
		{"keeps first occurrence order", []string{"Family", "Tax", "Family"}, []string{"Family", "Tax"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeSpecialties(tt.input))
		})
	}
}

func TestCreateProfile(t *testing.T) {
	db := newTestDB(t)
	svc := NewLawyerService(db)
	ctx := context.Background()

	lawyer := createTestUser(t, db, "l@example.com", models.RoleLawyer)
	p := lawyer.Principal()

	profile, err := svc.CreateProfile(ctx, p, ProfileInput{
		Experience:  intPtr(5),
		Location:    strPtr("Dhaka"),
		HourlyRate:  strPtr("2000 BDT"),
		Specialties: []string{"Family", "Tax", "Family", " "},
	})
	require.NoError(t, err)
	assert.NotZero(t, profile.ID)

	view, err := svc.GetProfile(ctx, profile.ID)
	require.NoError(t, err)
	assert.Equal(t, lawyer.ID, view.UserID)
	assert.Equal(t, 5, *view.Experience)
	assert.Equal(t, "Dhaka", *view.Location)
	assert.Nil(t, view.CourtOfPractice)
	assert.Equal(t, []string{"Family", "Tax"}, view.Specialties)
	require.NotNil(t, view.DisplayName)
	assert.Equal(t, lawyer.DisplayName, *view.DisplayName)

	t.Run("second profile is rejected", func(t *testing.T) {
		_, err := svc.CreateProfile(ctx, p, ProfileInput{})
		assert.ErrorIs(t, err, ErrProfileAlreadyExists)
	})

	t.Run("clients cannot create profiles", func(t *testing.T) {
		client := createTestUser(t, db, "c@example.com", models.RoleClient)
		_, err := svc.CreateProfile(ctx, client.Principal(), ProfileInput{})
		assert.ErrorIs(t, err, ErrInsufficientRole)
	})
}

func TestCreateProfile_UserIndex(t *testing.T) {
	ctx := context.Background()

	t.Run("index rejects a second profile for the same user", func(t *testing.T) {
		db := newTestDB(t)
		lawyer := createTestUser(t, db, "l@example.com", models.RoleLawyer)
		createTestProfile(t, db, lawyer.ID, "Dhaka")

		err := db.Create(&models.LawyerProfile{UserID: lawyer.ID}).Error
		require.Error(t, err)
		assert.True(t, isUniqueViolation(err))
	})

	t.Run("concurrent create after the existence check maps to conflict", func(t *testing.T) {
		db := newTestDB(t)
		svc := NewLawyerService(db)
		lawyer := createTestUser(t, db, "l@example.com", models.RoleLawyer)

		now := time.Now()
		insertBeforeCreate(t, db, "lawyer_profiles",
			"INSERT INTO lawyer_profiles (user_id, created_at, updated_at) VALUES (?, ?, ?)",
			lawyer.ID, now, now)

		_, err := svc.CreateProfile(ctx, lawyer.Principal(), ProfileInput{Specialties: []string{"Tax"}})
		assert.ErrorIs(t, err, ErrProfileAlreadyExists)
		assert.Equal(t, KindConflict, KindOf(err))

		var profiles, specialties int64
		require.NoError(t, db.Model(&models.LawyerProfile{}).Count(&profiles).Error)
		require.NoError(t, db.Model(&models.Specialty{}).Count(&specialties).Error)
		assert.Zero(t, profiles)
		assert.Zero(t, specialties)
	})
}

func TestUpdateProfile(t *testing.T) {
	db := newTestDB(t)
	svc := NewLawyerService(db)
	ctx := context.Background()

	lawyer := createTestUser(t, db, "l@example.com", models.RoleLawyer)
	other := createTestUser(t, db, "o@example.com", models.RoleLawyer)

	created, err := svc.CreateProfile(ctx, lawyer.Principal(), ProfileInput{
		Location:        strPtr("Dhaka"),
		CourtOfPractice: strPtr("High Court"),
		Specialties:     []string{"Tax"},
	})
	require.NoError(t, err)

	t.Run("absent fields are untouched", func(t *testing.T) {
		err := svc.UpdateProfile(ctx, lawyer.Principal(), created.ID, ProfileUpdate{
			Location: Some("Chittagong"),
		})
		require.NoError(t, err)

		view, err := svc.GetProfile(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, "Chittagong", *view.Location)
		assert.Equal(t, "High Court", *view.CourtOfPractice)
		assert.Equal(t, []string{"Tax"}, view.Specialties)
	})

	t.Run("null clears a field", func(t *testing.T) {
		err := svc.UpdateProfile(ctx, lawyer.Principal(), created.ID, ProfileUpdate{
			CourtOfPractice: Null[string](),
		})
		require.NoError(t, err)

		view, err := svc.GetProfile(ctx, created.ID)
		require.NoError(t, err)
		assert.Nil(t, view.CourtOfPractice)
	})

	t.Run("specialties are replaced", func(t *testing.T) {
		err := svc.UpdateProfile(ctx, lawyer.Principal(), created.ID, ProfileUpdate{
			Specialties: Some([]string{"Criminal", "Property"}),
		})
		require.NoError(t, err)

		view, err := svc.GetProfile(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, []string{"Criminal", "Property"}, view.Specialties)
	})

	t.Run("empty specialties clear the set", func(t *testing.T) {
		err := svc.UpdateProfile(ctx, lawyer.Principal(), created.ID, ProfileUpdate{
			Specialties: Some([]string{}),
		})
		require.NoError(t, err)

		view, err := svc.GetProfile(ctx, created.ID)
		require.NoError(t, err)
		assert.Empty(t, view.Specialties)
		assert.NotNil(t, view.Specialties)
	})

	t.Run("other lawyer is forbidden", func(t *testing.T) {
		err := svc.UpdateProfile(ctx, other.Principal(), created.ID, ProfileUpdate{
			Location: Some("Sylhet"),
		})
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("missing profile", func(t *testing.T) {
		err := svc.UpdateProfile(ctx, lawyer.Principal(), 9999, ProfileUpdate{})
		assert.ErrorIs(t, err, ErrProfileNotFound)
	})
}

func TestSearch(t *testing.T) {
	db := newTestDB(t)
	svc := NewLawyerService(db)
	ctx := context.Background()

	l1 := createTestUser(t, db, "l1@example.com", models.RoleLawyer)
	l2 := createTestUser(t, db, "l2@example.com", models.RoleLawyer)
	l3 := createTestUser(t, db, "l3@example.com", models.RoleLawyer)

	p1 := createTestProfile(t, db, l1.ID, "Dhaka", "Tax Law", "Corporate Tax")
	p2 := createTestProfile(t, db, l2.ID, "Chittagong", "Family")
	p3 := createTestProfile(t, db, l3.ID, "North Dhaka", "Family", "Tax")

	ids := func(views []LawyerView) []uint {
		out := make([]uint, 0, len(views))
		for _, v := range views {
			out = append(out, v.ID)
		}
		return out
	}

	tests := []struct {
		name   string
		filter SearchFilter
		want   []uint
	}{
		{"no filter", SearchFilter{}, []uint{p1.ID, p2.ID, p3.ID}},
		{"location substring, case-insensitive", SearchFilter{Location: "dhaka"}, []uint{p1.ID, p3.ID}},
		{"specialty matches once per profile", SearchFilter{Specialty: "TAX"}, []uint{p1.ID, p3.ID}},
		{"both filters", SearchFilter{Specialty: "family", Location: "dhaka"}, []uint{p3.ID}},
		{"no match", SearchFilter{Specialty: "maritime"}, []uint{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			views, err := svc.Search(ctx, tt.filter)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ids(views))
		})
	}

	t.Run("results carry owner and every specialty", func(t *testing.T) {
		views, err := svc.Search(ctx, SearchFilter{Specialty: "corporate"})
		require.NoError(t, err)
		require.Len(t, views, 1)
		assert.Equal(t, []string{"Tax Law", "Corporate Tax"}, views[0].Specialties)
		require.NotNil(t, views[0].Email)
		assert.Equal(t, "l1@example.com", *views[0].Email)
	})
}

func TestSearch_WildcardsMatchLiterally(t *testing.T) {
	db := newTestDB(t)
	svc := NewLawyerService(db)
	ctx := context.Background()

	l1 := createTestUser(t, db, "l1@example.com", models.RoleLawyer)
	l2 := createTestUser(t, db, "l2@example.com", models.RoleLawyer)
	p1 := createTestProfile(t, db, l1.ID, "Dhaka", "Tax")
	p2 := createTestProfile(t, db, l2.ID, `Block_C\Sylhet`, "100% Pro Bono")

	tests := []struct {
		name   string
		filter SearchFilter
		want   []uint
	}{
		{"percent alone", SearchFilter{Specialty: "%"}, []uint{p2.ID}},
		{"underscore alone", SearchFilter{Specialty: "_"}, []uint{}},
		{"percent inside term", SearchFilter{Specialty: "100%"}, []uint{p2.ID}},
		{"underscore in location", SearchFilter{Location: "block_c"}, []uint{p2.ID}},
		{"underscore is not a wildcard", SearchFilter{Location: "dh_ka"}, []uint{}},
		{"backslash in location", SearchFilter{Location: `c\syl`}, []uint{p2.ID}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			views, err := svc.Search(ctx, tt.filter)
			require.NoError(t, err)
			got := make([]uint, 0, len(views))
			for _, v := range views {
				got = append(got, v.ID)
			}
			assert.Equal(t, tt.want, got)
		})
	}

	views, err := svc.Search(ctx, SearchFilter{Specialty: "tax"})
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, p1.ID, views[0].ID)
}

func TestProfileLookupsByUser(t *testing.T) {
	db := newTestDB(t)
	svc := NewLawyerService(db)
	ctx := context.Background()

	lawyer := createTestUser(t, db, "l@example.com", models.RoleLawyer)
	bare := createTestUser(t, db, "b@example.com", models.RoleLawyer)
	profile := createTestProfile(t, db, lawyer.ID, "Dhaka")

	id, ok, err := svc.ProfileExists(ctx, lawyer.ID)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, profile.ID, id)

	id, ok, err = svc.ProfileExists(ctx, bare.ID)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Zero(t, id)

	view, err := svc.GetProfileByUser(ctx, lawyer.ID)
	require.NoError(t, err)
	assert.Equal(t, profile.ID, view.ID)

	_, err = svc.GetProfileByUser(ctx, bare.ID)
	assert.ErrorIs(t, err, ErrProfileNotFound)

	_, err = svc.GetProfile(ctx, 9999)
	assert.ErrorIs(t, err, ErrProfileNotFound)
}
