package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pranavarya5/Virtual-Event-Management-Platform/internal/auth"
	"github.com/pranavarya5/Virtual-Event-Management-Platform/internal/domain"
	"github.com/pranavarya5/Virtual-Event-Management-Platform/internal/notify"
	"github.com/pranavarya5/Virtual-Event-Management-Platform/internal/repository/memory"
	"github.com/pranavarya5/Virtual-Event-Management-Platform/internal/service"
)

type dropNotifier struct{}

func (dropNotifier) Dispatch(notify.Message) {}

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()

	gin.SetMode(gin.TestMode)

	locks := service.NewEventLocks()
	eventRepo := memory.NewEventRepository()
	users := service.NewUserService(memory.NewUserRepository())
	events := service.NewEventService(eventRepo, locks)
	registrations := service.NewRegistrationService(eventRepo, locks, dropNotifier{})
	tokens := auth.NewManager("test-secret", time.Hour, "virtual-events")

	router := gin.New()
	NewHandler(users, events, registrations, tokens).RegisterRoutes(router)
	return router
}

func doJSON(t *testing.T, router *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func signupAndLogin(t *testing.T, router *gin.Engine, name, email string, role domain.Role) string {
	t.Helper()

	rec := doJSON(t, router, http.MethodPost, "/api/auth/signup", "", gin.H{
		"name":     name,
		"email":    email,
		"password": "correct-horse",
		"role":     string(role),
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = doJSON(t, router, http.MethodPost, "/api/auth/login", "", gin.H{
		"email":    email,
		"password": "correct-horse",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func createEvent(t *testing.T, router *gin.Engine, token string, capacity *int) EventResponse {
	t.Helper()

	body := gin.H{
		"title":       "GopherCon",
		"description": "A conference about Go",
		"location":    "Berlin",
		"date":        "2026-10-01",
		"time":        "09:00",
	}
	if capacity != nil {
		body["capacity"] = *capacity
	}
	rec := doJSON(t, router, http.MethodPost, "/api/events", token, body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var event EventResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &event))
	return event
}

type usersStub struct {
	service.UserService
	getByID func(ctx context.Context, id string) (*domain.User, error)
}

func (s usersStub) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return s.getByID(ctx, id)
}

func TestAuthenticateDistinguishesStoreFaults(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tokens := auth.NewManager("test-secret", time.Hour, "virtual-events")
	token, err := tokens.Generate(&domain.User{
		ID:    "user-1",
		Name:  "Ada",
		Email: "ada@example.com",
		Role:  domain.RoleAttendee,
	})
	require.NoError(t, err)

	newRouter := func(getByID func(context.Context, string) (*domain.User, error)) *gin.Engine {
		locks := service.NewEventLocks()
		eventRepo := memory.NewEventRepository()
		events := service.NewEventService(eventRepo, locks)
		registrations := service.NewRegistrationService(eventRepo, locks, dropNotifier{})
		router := gin.New()
		NewHandler(usersStub{getByID: getByID}, events, registrations, tokens).RegisterRoutes(router)
		return router
	}

	// A vanished token subject is a stale credential.
	router := newRouter(func(ctx context.Context, id string) (*domain.User, error) {
		return nil, service.ErrNotFound
	})
	rec := doJSON(t, router, http.MethodGet, "/api/events", token, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// A store failure is not the caller's fault and must not read as one.
	router = newRouter(func(ctx context.Context, id string) (*domain.User, error) {
		return nil, errors.New("store down")
	})
	rec = doJSON(t, router, http.MethodGet, "/api/events", token, nil)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestHealth(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodGet, "/api/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestSignupValidation(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/auth/signup", "", gin.H{
		"name":     "Ada",
		"email":    "not-an-email",
		"password": "correct-horse",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/api/auth/signup", "", gin.H{
		"name":     "Ada",
		"email":    "ada@example.com",
		"password": "short",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/api/auth/signup", "", gin.H{
		"name":     "Ada",
		"email":    "ada@example.com",
		"password": "correct-horse",
		"role":     "superuser",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSignupDuplicateEmail(t *testing.T) {
	router := newTestRouter(t)

	payload := gin.H{
		"name":     "Ada",
		"email":    "ada@example.com",
		"password": "correct-horse",
	}
	rec := doJSON(t, router, http.MethodPost, "/api/auth/signup", "", payload)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/api/auth/signup", "", payload)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestLoginWrongPassword(t *testing.T) {
	router := newTestRouter(t)
	signupAndLogin(t, router, "Ada", "ada@example.com", domain.RoleAttendee)

	rec := doJSON(t, router, http.MethodPost, "/api/auth/login", "", gin.H{
		"email":    "ada@example.com",
		"password": "wrong-password",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestEventsRequireAuthentication(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodGet, "/api/events", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/api/events", "garbage-token", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCreateEventRequiresOrganizerRole(t *testing.T) {
	router := newTestRouter(t)
	attendeeToken := signupAndLogin(t, router, "Ada", "ada@example.com", domain.RoleAttendee)

	rec := doJSON(t, router, http.MethodPost, "/api/events", attendeeToken, gin.H{
		"title":       "GopherCon",
		"description": "A conference about Go",
		"location":    "Berlin",
		"date":        "2026-10-01",
		"time":        "09:00",
	})
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestEventLifecycle(t *testing.T) {
	router := newTestRouter(t)
	organizerToken := signupAndLogin(t, router, "Olive", "olive@example.com", domain.RoleOrganizer)

	capacity := 100
	event := createEvent(t, router, organizerToken, &capacity)
	require.NotNil(t, event.Capacity)
	assert.Equal(t, 100, *event.Capacity)

	rec := doJSON(t, router, http.MethodGet, "/api/events/"+event.ID, organizerToken, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/api/events/missing", organizerToken, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// Partial update: only the title changes.
	rec = doJSON(t, router, http.MethodPut, "/api/events/"+event.ID, organizerToken, gin.H{
		"title": "GopherCon EU",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var updated EventResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
	assert.Equal(t, "GopherCon EU", updated.Title)
	assert.Equal(t, event.Location, updated.Location)
	assert.Equal(t, event.Date, updated.Date)

	rec = doJSON(t, router, http.MethodDelete, "/api/events/"+event.ID, organizerToken, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/api/events/"+event.ID, organizerToken, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUpdateByNonOwnerForbidden(t *testing.T) {
	router := newTestRouter(t)
	ownerToken := signupAndLogin(t, router, "Olive", "olive@example.com", domain.RoleOrganizer)
	otherToken := signupAndLogin(t, router, "Oscar", "oscar@example.com", domain.RoleOrganizer)

	event := createEvent(t, router, ownerToken, nil)

	rec := doJSON(t, router, http.MethodPut, "/api/events/"+event.ID, otherToken, gin.H{
		"title": "Hijacked",
	})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = doJSON(t, router, http.MethodDelete, "/api/events/"+event.ID, otherToken, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRegistrationFlow(t *testing.T) {
	router := newTestRouter(t)
	organizerToken := signupAndLogin(t, router, "Olive", "olive@example.com", domain.RoleOrganizer)

	capacity := 1
	event := createEvent(t, router, organizerToken, &capacity)

	a1 := signupAndLogin(t, router, "Ada", "ada@example.com", domain.RoleAttendee)
	a2 := signupAndLogin(t, router, "Bob", "bob@example.com", domain.RoleAttendee)

	rec := doJSON(t, router, http.MethodPost, "/api/events/"+event.ID+"/register", a1, nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var confirmation RegistrationResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &confirmation))
	assert.Equal(t, event.ID, confirmation.EventID)
	assert.Equal(t, "GopherCon", confirmation.Title)

	// Second registration by the same user conflicts.
	rec = doJSON(t, router, http.MethodPost, "/api/events/"+event.ID+"/register", a1, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	// Event is full for anyone else.
	rec = doJSON(t, router, http.MethodPost, "/api/events/"+event.ID+"/register", a2, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/api/events/"+event.ID+"/participants", a2, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var participants []ParticipantResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &participants))
	require.Len(t, participants, 1)
	assert.Equal(t, "ada@example.com", participants[0].Email)

	rec = doJSON(t, router, http.MethodPost, "/api/events/missing/register", a2, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRegisterForEventUnlimitedCapacity(t *testing.T) {
	router := newTestRouter(t)
	organizerToken := signupAndLogin(t, router, "Olive", "olive@example.com", domain.RoleOrganizer)

	event := createEvent(t, router, organizerToken, nil)

	for i := 0; i < 5; i++ {
		token := signupAndLogin(t, router,
			fmt.Sprintf("Attendee %d", i),
			fmt.Sprintf("attendee%d@example.com", i),
			domain.RoleAttendee,
		)
		rec := doJSON(t, router, http.MethodPost, "/api/events/"+event.ID+"/register", token, nil)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	}

	rec := doJSON(t, router, http.MethodGet, "/api/events/"+event.ID, organizerToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var got EventResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Nil(t, got.Capacity)
	assert.Equal(t, 5, got.ParticipantCount)
}
