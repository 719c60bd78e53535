package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emre/termplan/internal/app/models/dto"
	"github.com/emre/termplan/internal/pkg/auth"
)

const testSecret = "test-secret"
const testIssuer = "termplan"

func signActorToken(t *testing.T, facultyID uuid.UUID, role string, expiresIn time.Duration) string {
	t.Helper()
	claims := auth.Claims{
		FacultyID: facultyID.String(),
		Role:      role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    testIssuer,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiresIn)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(testSecret))
	require.NoError(t, err)
	return signed
}

// protectedRouter mounts ActorAuth in front of a handler that echoes the
// actor it received.
func protectedRouter(seen *auth.Actor) *gin.Engine {
	gin.SetMode(gin.TestMode)
	middleware := NewAuthMiddleware(auth.NewTokenVerifier(testSecret, testIssuer))
	router := gin.New()
	router.GET("/protected", middleware.ActorAuth(), func(c *gin.Context) {
		actor, ok := GetActor(c)
		if ok && seen != nil {
			*seen = actor
		}
		c.Status(http.StatusOK)
	})
	return router
}

func doRequest(t *testing.T, router *gin.Engine, authHeader string) (*httptest.ResponseRecorder, *dto.ErrorResponse) {
	t.Helper()
	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		request.Header.Set("Authorization", authHeader)
	}
	router.ServeHTTP(recorder, request)

	if recorder.Code == http.StatusOK {
		return recorder, nil
	}
	var body dto.ErrorResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	return recorder, &body
}

func TestActorAuth_ValidToken(t *testing.T) {
	facultyID := uuid.New()
	var seen auth.Actor
	router := protectedRouter(&seen)

	recorder, _ := doRequest(t, router, "Bearer "+signActorToken(t, facultyID, "FACULTY", time.Hour))
	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, facultyID, seen.FacultyID)
	assert.Equal(t, auth.RoleFaculty, seen.Role)
}

func TestActorAuth_MissingHeader(t *testing.T) {
	router := protectedRouter(nil)

	recorder, body := doRequest(t, router, "")
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	require.NotNil(t, body.Error)
	assert.Equal(t, dto.ErrorCodeUnauthorized, body.Error.Code)
}

// TestActorAuth_ExpiredToken verifies an expired token is answered through
// the shared error mapping with the expired-token code.
func TestActorAuth_ExpiredToken(t *testing.T) {
	router := protectedRouter(nil)

	recorder, body := doRequest(t, router, "Bearer "+signActorToken(t, uuid.New(), "FACULTY", -time.Minute))
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	require.NotNil(t, body.Error)
	assert.Equal(t, dto.ErrorCodeExpiredToken, body.Error.Code)
}

func TestActorAuth_MalformedToken(t *testing.T) {
	router := protectedRouter(nil)

	recorder, body := doRequest(t, router, "Bearer not-a-token")
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	require.NotNil(t, body.Error)
	assert.Equal(t, dto.ErrorCodeInvalidToken, body.Error.Code)
}

func TestAdminRequired_RejectsFaculty(t *testing.T) {
	gin.SetMode(gin.TestMode)
	middleware := NewAuthMiddleware(auth.NewTokenVerifier(testSecret, testIssuer))
	router := gin.New()
	router.GET("/protected", middleware.ActorAuth(), middleware.AdminRequired(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	recorder, body := doRequest(t, router, "Bearer "+signActorToken(t, uuid.New(), "FACULTY", time.Hour))
	assert.Equal(t, http.StatusForbidden, recorder.Code)
	require.NotNil(t, body.Error)
	assert.Equal(t, dto.ErrorCodeForbidden, body.Error.Code)
}

func TestAdminRequired_AllowsAdmin(t *testing.T) {
	gin.SetMode(gin.TestMode)
	middleware := NewAuthMiddleware(auth.NewTokenVerifier(testSecret, testIssuer))
	router := gin.New()
	router.GET("/protected", middleware.ActorAuth(), middleware.AdminRequired(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	recorder, _ := doRequest(t, router, "Bearer "+signActorToken(t, uuid.New(), "ADMIN", time.Hour))
	assert.Equal(t, http.StatusOK, recorder.Code)
}
