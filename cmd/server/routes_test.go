package main

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"smilecare.backend/internal/domain/entities"
	"smilecare.backend/internal/interfaces/http/handlers"
	"smilecare.backend/internal/interfaces/http/middleware"
)

const testRoleHeader = "X-Test-Role"

// fakeAuth authenticates every request as a user whose role comes from X-Test-Role
func fakeAuth(c *gin.Context) {
	role := entities.UserRole(c.GetHeader(testRoleHeader))
	if role == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header is required"})
		return
	}
	user := &entities.User{ID: uuid.New(), UserType: role, IsActive: true}
	c.Set(middleware.UserKey, user)
	c.Set(middleware.UserIDKey, user.ID)
	c.Set(middleware.UserRoleKey, role)
	c.Next()
}

func stubRouteDeps() routeDeps {
	return routeDeps{
		authHandler:          &handlers.AuthHandler{},
		userHandler:          &handlers.UserHandler{},
		providerHandler:      &handlers.ProviderHandler{},
		patientHandler:       &handlers.PatientHandler{},
		appointmentHandler:   &handlers.AppointmentHandler{},
		paymentHandler:       &handlers.PaymentHandler{},
		documentHandler:      &handlers.DocumentHandler{},
		catalogHandler:       &handlers.CatalogHandler{},
		treatmentPlanHandler: &handlers.TreatmentPlanHandler{},
		ticketHandler:        &handlers.SupportTicketHandler{},
		chatHandler:          &handlers.ChatHandler{},
		chatSocket:           func(c *gin.Context) { c.Status(http.StatusSwitchingProtocols) },
		authMiddleware:       fakeAuth,
		socketAuthMiddleware: fakeAuth,
	}
}

func TestRegisterAPIV1Routes_RegistersKeyRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	registerAPIV1Routes(r, stubRouteDeps())

	expects := []struct {
		method string
		path   string
	}{
		{http.MethodPost, "/api/v1/auth/register"},
		{http.MethodPost, "/api/v1/auth/login"},
		{http.MethodPost, "/api/v1/auth/send-otp"},
		{http.MethodPost, "/api/v1/auth/verify-otp"},
		{http.MethodPost, "/api/v1/auth/google"},
		{http.MethodPost, "/api/v1/auth/facebook"},
		{http.MethodPost, "/api/v1/auth/apple"},
		{http.MethodPost, "/api/v1/auth/refresh-token"},
		{http.MethodPost, "/api/v1/auth/reset-password"},
		{http.MethodPost, "/api/v1/auth/logout"},
		{http.MethodPost, "/api/v1/auth/logout-all"},
		{http.MethodGet, "/api/v1/auth/me"},
		{http.MethodPut, "/api/v1/auth/change-password"},
		{http.MethodGet, "/api/v1/chat/ws"},
		{http.MethodPut, "/api/v1/users/me/profile"},
		{http.MethodGet, "/api/v1/users"},
		{http.MethodPatch, "/api/v1/users/:id/status"},
		{http.MethodDelete, "/api/v1/users/:id"},
		{http.MethodGet, "/api/v1/providers"},
		{http.MethodPost, "/api/v1/providers/:id/clinic-photos"},
		{http.MethodPost, "/api/v1/providers/:id/fees/bulk"},
		{http.MethodDelete, "/api/v1/providers/:id/fees/:feeId"},
		{http.MethodGet, "/api/v1/patients/:id"},
		{http.MethodPost, "/api/v1/appointments"},
		{http.MethodPost, "/api/v1/payments"},
		{http.MethodPut, "/api/v1/documents/:id"},
		{http.MethodGet, "/api/v1/plans"},
		{http.MethodDelete, "/api/v1/procedures/:id"},
		{http.MethodPost, "/api/v1/treatment-plans"},
		{http.MethodPost, "/api/v1/support-tickets/:id/replies"},
		{http.MethodGet, "/api/v1/chat/conversations/:id/messages"},
		{http.MethodPut, "/api/v1/chat/conversations/:id/read"},
	}

	routes := r.Routes()
	for _, exp := range expects {
		found := false
		for _, route := range routes {
			if route.Method == exp.method && route.Path == exp.path {
				found = true
				break
			}
		}
		assert.True(t, found, "route %s %s not registered", exp.method, exp.path)
	}
}

func TestRegisterAPIV1Routes_RoleGates(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	registerAPIV1Routes(r, stubRouteDeps())

	tests := []struct {
		name   string
		method string
		path   string
		role   entities.UserRole
		want   int
	}{
		{"anonymous me", http.MethodGet, "/api/v1/auth/me", "", http.StatusUnauthorized},
		{"patient lists users", http.MethodGet, "/api/v1/users", entities.UserRolePatient, http.StatusForbidden},
		{"provider deletes user", http.MethodDelete, "/api/v1/users/" + uuid.NewString(), entities.UserRoleProvider, http.StatusForbidden},
		{"patient creates provider", http.MethodPost, "/api/v1/providers", entities.UserRolePatient, http.StatusForbidden},
		{"patient uploads clinic photos", http.MethodPost, "/api/v1/providers/" + uuid.NewString() + "/clinic-photos", entities.UserRolePatient, http.StatusForbidden},
		{"patient lists patients", http.MethodGet, "/api/v1/patients", entities.UserRolePatient, http.StatusForbidden},
		{"provider edits patient", http.MethodPut, "/api/v1/patients/" + uuid.NewString(), entities.UserRoleProvider, http.StatusForbidden},
		{"patient records payment", http.MethodPost, "/api/v1/payments", entities.UserRolePatient, http.StatusForbidden},
		{"provider edits plan", http.MethodPut, "/api/v1/plans/" + uuid.NewString(), entities.UserRoleProvider, http.StatusForbidden},
		{"patient creates treatment plan", http.MethodPost, "/api/v1/treatment-plans", entities.UserRolePatient, http.StatusForbidden},
		{"admin uses chat", http.MethodGet, "/api/v1/chat/conversations", entities.UserRoleAdmin, http.StatusForbidden},
		{"admin opens chat socket", http.MethodGet, "/api/v1/chat/ws", entities.UserRoleAdmin, http.StatusForbidden},
		{"patient opens chat socket", http.MethodGet, "/api/v1/chat/ws", entities.UserRolePatient, http.StatusSwitchingProtocols},
		{"admin bad user id", http.MethodGet, "/api/v1/users/not-a-uuid", entities.UserRoleAdmin, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			if tt.role != "" {
				req.Header.Set(testRoleHeader, string(tt.role))
			}
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}
