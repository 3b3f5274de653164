package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"game_store/internal/db"
	"game_store/internal/domain"
	"game_store/internal/utils"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const secret = "test-secret"

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(r *gin.Engine, method, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func whoami(c *gin.Context) {
	id, _ := UserID(c)
	c.String(http.StatusOK, id.String())
}

func TestJWTAuthMiddleware(t *testing.T) {
	revoker := newRedisRevoker(t)
	r := gin.New()
	r.GET("/me", JWTAuthMiddleware(secret, revoker), whoami)

	userID := uuid.New()
	token, claims, err := utils.GenerateJWT(userID, secret, time.Hour)
	require.NoError(t, err)

	w := serve(r, http.MethodGet, "/me", token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, userID.String(), w.Body.String())

	w = serve(r, http.MethodGet, "/me", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), `"success":false`)

	w = serve(r, http.MethodGet, "/me", "garbage")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	require.NoError(t, revoker.Revoke(context.Background(), claims.ID, claims.ExpiresAt.Time))
	w = serve(r, http.MethodGet, "/me", token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func newRedisRevoker(t *testing.T) *utils.TokenRevoker {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return utils.NewTokenRevoker(rdb)
}

func TestAdminOnlyMiddleware(t *testing.T) {
	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Discard})
	require.NoError(t, err)
	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, db.Migrate(gdb))

	user := domain.Account{Username: "user", Email: "user@example.com", PasswordHash: "x"}
	admin := domain.Account{Username: "admin", Email: "admin@example.com", PasswordHash: "x", Role: domain.RoleAdmin}
	require.NoError(t, gdb.Create(&user).Error)
	require.NoError(t, gdb.Create(&admin).Error)

	r := gin.New()
	r.GET("/admin", JWTAuthMiddleware(secret, nil), AdminOnlyMiddleware(gdb), whoami)

	userToken, _, err := utils.GenerateJWT(user.ID, secret, time.Hour)
	require.NoError(t, err)
	adminToken, _, err := utils.GenerateJWT(admin.ID, secret, time.Hour)
	require.NoError(t, err)
	ghostToken, _, err := utils.GenerateJWT(uuid.New(), secret, time.Hour)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/admin", adminToken).Code)
	assert.Equal(t, http.StatusForbidden, serve(r, http.MethodGet, "/admin", userToken).Code)
	assert.Equal(t, http.StatusForbidden, serve(r, http.MethodGet, "/admin", ghostToken).Code)
	assert.Equal(t, http.StatusUnauthorized, serve(r, http.MethodGet, "/admin", "").Code)
}

func TestRateLimitRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	r := gin.New()
	r.POST("/login", RateLimit(NewLimiter(rdb, PolicyLogin, 2), PolicyLogin), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	assert.Equal(t, http.StatusOK, serve(r, http.MethodPost, "/login", "").Code)
	key := "ratelimit:login:192.0.2.1"
	assert.Equal(t, time.Minute, mr.TTL(key))
	assert.Equal(t, http.StatusOK, serve(r, http.MethodPost, "/login", "").Code)
	count, err := mr.Get(key)
	require.NoError(t, err)
	assert.Equal(t, "2", count)
	assert.Equal(t, time.Minute, mr.TTL(key))
	w := serve(r, http.MethodPost, "/login", "")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "2", w.Header().Get("X-RateLimit-Limit"))

	mr.FastForward(time.Minute + time.Second)
	assert.Equal(t, http.StatusOK, serve(r, http.MethodPost, "/login", "").Code)
}

func TestRateLimitFailsOpen(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	t.Cleanup(func() { _ = rdb.Close() })
	mr.Close()

	r := gin.New()
	r.GET("/", RateLimit(NewLimiter(rdb, PolicyAPI, 1), PolicyAPI), func(c *gin.Context) { c.Status(http.StatusOK) })
	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/", "").Code)
	}
}

func TestRateLimitLocalPerUser(t *testing.T) {
	limiter := NewLimiter(nil, PolicyAPI, 1)
	r := gin.New()
	r.GET("/", JWTAuthMiddleware(secret, nil), RateLimit(limiter, PolicyAPI), whoami)

	a, _, err := utils.GenerateJWT(uuid.New(), secret, time.Hour)
	require.NoError(t, err)
	b, _, err := utils.GenerateJWT(uuid.New(), secret, time.Hour)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/", a).Code)
	assert.Equal(t, http.StatusTooManyRequests, serve(r, http.MethodGet, "/", a).Code)
	assert.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/", b).Code)
}

func TestRequestLoggerAndMetricsPassThrough(t *testing.T) {
	r := gin.New()
	r.Use(RequestLogger(), Metrics())
	r.GET("/ok", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	assert.Equal(t, http.StatusNoContent, serve(r, http.MethodGet, "/ok", "").Code)
	assert.Equal(t, http.StatusNotFound, serve(r, http.MethodGet, "/missing", "").Code)
}

func TestLocalLimiterKeepsActiveBucketsWhenFull(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	l := NewLocalLimiter(1, time.Minute)
	l.now = func() time.Time { return now }

	allowed, _ := l.Allow(ctx, "victim")
	assert.True(t, allowed)
	allowed, _ = l.Allow(ctx, "victim")
	assert.False(t, allowed)

	for i := 0; i < maxBuckets-1; i++ {
		_, _ = l.Allow(ctx, "10.0.0."+strconv.Itoa(i))
	}
	require.Len(t, l.buckets, maxBuckets)

	// New keys share one bucket instead of pushing anyone out
	allowed, _ = l.Allow(ctx, "late-1")
	assert.True(t, allowed)
	allowed, _ = l.Allow(ctx, "late-2")
	assert.False(t, allowed)
	allowed, _ = l.Allow(ctx, "victim")
	assert.False(t, allowed)
	assert.Len(t, l.buckets, maxBuckets)

	now = now.Add(time.Minute + time.Second)
	allowed, _ = l.Allow(ctx, "late-2")
	assert.True(t, allowed)
	assert.Len(t, l.buckets, 1)
}
