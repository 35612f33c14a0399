package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pranavarya5/Virtual-Event-Management-Platform/internal/auth"
	"github.com/pranavarya5/Virtual-Event-Management-Platform/internal/domain"
	"github.com/pranavarya5/Virtual-Event-Management-Platform/internal/service"
)

// Handler wires HTTP routes to domain services.
type Handler struct {
	users         service.UserService
	events        service.EventService
	registrations service.RegistrationService
	tokens        *auth.Manager
}

func NewHandler(users service.UserService, events service.EventService, registrations service.RegistrationService, tokens *auth.Manager) *Handler {
	return &Handler{
		users:         users,
		events:        events,
		registrations: registrations,
		tokens:        tokens,
	}
}

func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.Use(corsMiddleware())

	api := router.Group("/api")
	{
		api.GET("/health", func(ctx *gin.Context) {
			ctx.JSON(http.StatusOK, gin.H{"ok": "ok"})
		})

		api.POST("/auth/signup", h.signup)
		api.POST("/auth/login", h.login)

		authed := api.Group("", h.authenticate())
		{
			authed.GET("/events", h.listEvents)
			authed.GET("/events/:id", h.getEvent)
			authed.GET("/events/:id/participants", h.listParticipants)
			authed.POST("/events/:id/register", h.registerForEvent)

			organizer := authed.Group("", h.requireRole(domain.RoleOrganizer))
			{
				organizer.POST("/events", h.createEvent)
				organizer.PUT("/events/:id", h.updateEvent)
				organizer.DELETE("/events/:id", h.deleteEvent)
			}
		}
	}
}

type signupRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Role     string `json:"role" binding:"omitempty,oneof=organizer attendee"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type createEventRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description" binding:"required"`
	Location    string `json:"location" binding:"required"`
	Date        string `json:"date" binding:"required"`
	Time        string `json:"time" binding:"required"`
	Capacity    *int   `json:"capacity" binding:"omitempty,min=0"`
}

type updateEventRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Location    *string `json:"location"`
	Date        *string `json:"date"`
	Time        *string `json:"time"`
	Capacity    *int    `json:"capacity" binding:"omitempty,min=0"`
}

func (h *Handler) signup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.users.Register(c.Request.Context(), req.Name, req.Email, req.Password, domain.Role(req.Role))
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, userToResponse(user))
}

func (h *Handler) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.users.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.writeError(c, err)
		return
	}

	token, err := h.tokens.Generate(user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "issue token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user":  userToResponse(user),
	})
}

func (h *Handler) createEvent(c *gin.Context) {
	var req createEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	identity, ok := identityFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	input := service.CreateEventInput{
		Title:       req.Title,
		Description: req.Description,
		Location:    req.Location,
		Date:        req.Date,
		Time:        req.Time,
	}
	if req.Capacity != nil {
		input.Capacity = *req.Capacity
	}

	event, err := h.events.Create(c.Request.Context(), identity, input)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, eventToResponse(event))
}

func (h *Handler) listEvents(c *gin.Context) {
	events, err := h.events.List(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}

	resp := make([]EventResponse, len(events))
	for i := range events {
		resp[i] = eventToResponse(&events[i])
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) getEvent(c *gin.Context) {
	event, err := h.events.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, eventToResponse(event))
}

func (h *Handler) updateEvent(c *gin.Context) {
	var req updateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	identity, ok := identityFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	patch := domain.EventPatch{
		Title:       req.Title,
		Description: req.Description,
		Location:    req.Location,
		Date:        req.Date,
		Time:        req.Time,
		Capacity:    req.Capacity,
	}

	event, err := h.events.Update(c.Request.Context(), c.Param("id"), identity, patch)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, eventToResponse(event))
}

func (h *Handler) deleteEvent(c *gin.Context) {
	identity, ok := identityFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	if err := h.events.Delete(c.Request.Context(), c.Param("id"), identity); err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": c.Param("id")})
}

func (h *Handler) listParticipants(c *gin.Context) {
	participants, err := h.events.Participants(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}

	resp := make([]ParticipantResponse, len(participants))
	for i := range participants {
		resp[i] = participantToResponse(participants[i])
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) registerForEvent(c *gin.Context) {
	identity, ok := identityFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	confirmation, err := h.registrations.Register(c.Request.Context(), c.Param("id"), identity)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, RegistrationResponse{
		EventID: confirmation.EventID,
		Title:   confirmation.Title,
		Date:    confirmation.Date,
		Time:    confirmation.Time,
	})
}

// writeError maps service errors to stable status codes.
func (h *Handler) writeError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, service.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, service.ErrInvalidCredentials):
		status = http.StatusUnauthorized
	case errors.Is(err, service.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, service.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, service.ErrEmailTaken),
		errors.Is(err, service.ErrAlreadyRegistered),
		errors.Is(err, service.ErrEventFull):
		status = http.StatusConflict
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

type UserResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	CreatedAt string `json:"created_at"`
}

type EventResponse struct {
	ID               string                `json:"id"`
	Title            string                `json:"title"`
	Description      string                `json:"description"`
	Location         string                `json:"location"`
	Date             string                `json:"date"`
	Time             string                `json:"time"`
	Capacity         *int                  `json:"capacity,omitempty"`
	OrganizerID      string                `json:"organizer_id"`
	ParticipantCount int                   `json:"participant_count"`
	Participants     []ParticipantResponse `json:"participants"`
	CreatedAt        string                `json:"created_at"`
	UpdatedAt        string                `json:"updated_at"`
}

type ParticipantResponse struct {
	UserID       string `json:"user_id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	RegisteredAt string `json:"registered_at"`
}

type RegistrationResponse struct {
	EventID string `json:"event_id"`
	Title   string `json:"title"`
	Date    string `json:"date"`
	Time    string `json:"time"`
}

func userToResponse(user *domain.User) UserResponse {
	return UserResponse{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		Role:      string(user.Role),
		CreatedAt: user.CreatedAt.Format(time.RFC3339),
	}
}

func eventToResponse(event *domain.Event) EventResponse {
	resp := EventResponse{
		ID:               event.ID,
		Title:            event.Title,
		Description:      event.Description,
		Location:         event.Location,
		Date:             event.Date,
		Time:             event.Time,
		OrganizerID:      event.OrganizerID,
		ParticipantCount: len(event.Participants),
		Participants:     make([]ParticipantResponse, len(event.Participants)),
		CreatedAt:        event.CreatedAt.Format(time.RFC3339),
		UpdatedAt:        event.UpdatedAt.Format(time.RFC3339),
	}
	if event.HasCapacityLimit() {
		capacity := event.Capacity
		resp.Capacity = &capacity
	}
	for i := range event.Participants {
		resp.Participants[i] = participantToResponse(event.Participants[i])
	}
	return resp
}

func participantToResponse(p domain.Participant) ParticipantResponse {
	return ParticipantResponse{
		UserID:       p.UserID,
		Name:         p.Name,
		Email:        p.Email,
		RegisteredAt: p.RegisteredAt.Format(time.RFC3339),
	}
}
