package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"drutaseva/models"
	"drutaseva/utils"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubUserRepo struct {
	user *models.User
}

func (s *stubUserRepo) Create(*models.User) error { return nil }
func (s *stubUserRepo) Update(*models.User) error { return nil }
func (s *stubUserRepo) GetByID(id string) (*models.User, error) {
	if s.user != nil && s.user.ID == id {
		return s.user, nil
	}
	return nil, nil
}
func (s *stubUserRepo) GetByEmail(string) (*models.User, error) { return nil, nil }
func (s *stubUserRepo) GetByPhone(string) (*models.User, error) { return nil, nil }
func (s *stubUserRepo) GetByTokenHash(hash string) (*models.User, error) {
	if s.user != nil && s.user.TokenHash == hash {
		return s.user, nil
	}
	return nil, nil
}
func (s *stubUserRepo) UpdateTokenHash(string, string) error { return nil }

func newAuthTestRouter(t *testing.T, repo *stubUserRepo) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	mr := miniredis.RunT(t)
	utils.AuthCacheClient = redis.NewClient(&redis.Options{Addr: mr.Addr()})

	r := gin.New()
	r.GET("/protected", JWTAuthUserMiddleware(repo), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"userID": c.GetString("userID")})
	})
	return r
}

func TestAuthGateRejectsMissingToken(t *testing.T) {
	r := newAuthTestRouter(t, &stubUserRepo{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	// Even a rejected caller gets the fallback phone number.
	assert.Contains(t, w.Body.String(), "emergencyContact")
}

func TestAuthGateRejectsGarbageToken(t *testing.T) {
	r := newAuthTestRouter(t, &stubUserRepo{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthGateAcceptsValidToken(t *testing.T) {
	token, err := utils.GenerateToken("user-7", "rider@example.com", time.Hour)
	require.NoError(t, err)

	repo := &stubUserRepo{user: &models.User{
		ID:        "user-7",
		TokenHash: utils.HashToken(token),
	}}
	r := newAuthTestRouter(t, repo)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "user-7")
}

func TestAuthGateRejectsRevokedToken(t *testing.T) {
	token, err := utils.GenerateToken("user-7", "rider@example.com", time.Hour)
	require.NoError(t, err)

	// The stored hash no longer matches: the token was revoked.
	repo := &stubUserRepo{user: &models.User{
		ID:        "user-7",
		TokenHash: "",
	}}
	r := newAuthTestRouter(t, repo)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
