package controllers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/legal-sheba/legal-sheba-api/middleware"
	"github.com/legal-sheba/legal-sheba-api/models"
	"github.com/legal-sheba/legal-sheba-api/services"
	"github.com/legal-sheba/legal-sheba-api/tests/testutil"
)

type testEnv struct {
	db     *gorm.DB
	codec  *services.TokenCodec
	store  services.FileStore
	router *gin.Engine
}

// setupTestRouter mounts every controller behind the real authorization gate
func setupTestRouter(t *testing.T) *testEnv {
	return setupTestRouterWithStore(t, services.NewMockFileStore())
}

func setupTestRouterWithStore(t *testing.T, store services.FileStore) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)
	RegisterValidators()

	db := testutil.NewTestDB(t)
	codec := testutil.NewTestCodec(t)

	authC := NewAuthController(services.NewAccountService(db, codec, services.NewPasswordHasher(bcrypt.MinCost)))
	lawyerC := NewLawyerController(services.NewLawyerService(db))
	apptC := NewAppointmentController(services.NewAppointmentService(db))
	msgC := NewMessageController(services.NewMessageService(db), services.NewAttachmentService(store))
	infoC := NewInfoHubController(services.NewInfoHubService(db))

	anyRole := middleware.Authorize(codec, models.RoleClient, models.RoleLawyer)
	clientOnly := middleware.Authorize(codec, models.RoleClient)
	lawyerOnly := middleware.Authorize(codec, models.RoleLawyer)

	router := gin.New()

	router.POST("/auth/signup", authC.Signup)
	router.POST("/auth/login", authC.Login)
	router.GET("/auth/user/:id", authC.GetUser)

	router.GET("/lawyers", lawyerC.Search)
	router.POST("/lawyers/profile", lawyerOnly, lawyerC.CreateProfile)
	router.PUT("/lawyers/profile/:id", lawyerOnly, lawyerC.UpdateProfile)
	router.GET("/lawyers/profile/exists/:user_id", lawyerC.ProfileExists)
	router.GET("/lawyers/by_user/:user_id", lawyerC.GetProfileByUser)
	router.GET("/lawyers/:id", lawyerC.GetProfile)

	router.POST("/appointments/new", clientOnly, apptC.Create)
	router.GET("/appointments", clientOnly, apptC.ListMine)
	router.GET("/appointments/lawyer", lawyerOnly, apptC.ListForLawyer)
	router.GET("/appointments/:id", clientOnly, apptC.Get)
	router.PUT("/appointments/:id", lawyerOnly, apptC.Update)
	router.POST("/appointments/:id/cancel", clientOnly, apptC.Cancel)

	router.POST("/messages/send", anyRole, msgC.Send)
	router.POST("/messages/upload", anyRole, msgC.Upload)
	router.GET("/messages/appointment/:id", anyRole, msgC.ListForAppointment)
	router.POST("/messages/:id/read", anyRole, msgC.MarkRead)
	router.GET("/messages/file/:filename", msgC.Download)

	router.GET("/infohub", infoC.ListAll)
	router.POST("/infohub", lawyerOnly, infoC.Create)
	router.GET("/infohub/titles", infoC.ListTitles)
	router.GET("/infohub/titles/:category", infoC.ListTitlesByCategory)
	router.GET("/infohub/contents/:id", infoC.GetContent)

	return &testEnv{db: db, codec: codec, store: store, router: router}
}

func (e *testEnv) token(t *testing.T, user models.User) string {
	return testutil.BearerToken(t, e.codec, user)
}

// request sends body (JSON-encoded unless it is already a string) and returns the recorder
func (e *testEnv) request(t *testing.T, method, path string, body interface{}, auth string) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewBuffer(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decodeObject(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response), w.Body.String())
	return response
}

func decodeList(t *testing.T, w *httptest.ResponseRecorder) []map[string]interface{} {
	t.Helper()
	var response []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response), w.Body.String())
	return response
}

// seeded holds a client, a lawyer with a profile and a booking between them
type seeded struct {
	client      models.User
	lawyer      models.User
	profile     models.LawyerProfile
	appointment models.Appointment
}

func seedBooking(t *testing.T, db *gorm.DB) seeded {
	t.Helper()

	client := testutil.CreateUser(t, db, "Client", "client@example.com", "pw", models.RoleClient)
	lawyer := testutil.CreateUser(t, db, "Lawyer", "lawyer@example.com", "pw", models.RoleLawyer)

	// profile ids are kept apart from user ids
	location := "Dhaka"
	profile := models.LawyerProfile{ID: 50, UserID: lawyer.ID, Location: &location}
	require.NoError(t, db.Create(&profile).Error)

	appt := models.Appointment{
		ClientID:        client.ID,
		LawyerID:        profile.ID,
		AppointmentDate: "2024-06-01 10:00",
		Status:          models.StatusPending,
	}
	require.NoError(t, db.Create(&appt).Error)

	return seeded{client: client, lawyer: lawyer, profile: profile, appointment: appt}
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
