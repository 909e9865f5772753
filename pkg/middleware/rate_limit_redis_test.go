package middleware

import (
	"net/http"
	"testing"
	"time"

	mr "github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func TestRedisRateLimitMiddleware_Basic(t *testing.T) {
	m, err := mr.Run()
	require.NoError(t, err)
	defer m.Close()

	client := redis.NewClient(&redis.Options{Addr: m.Addr()})

	r := gin.New()
	// long window so the test never straddles a bucket boundary
	r.Use(RedisRateLimitMiddleware(client, 0, 1, time.Hour))
	r.POST("/signup", func(c *gin.Context) { c.JSON(http.StatusCreated, gin.H{"ok": true}) })

	require.Equal(t, http.StatusCreated, doRequest(r, "/signup", "").Code)

	w := doRequest(r, "/signup", "")
	require.Equal(t, http.StatusTooManyRequests, w.Code)
	require.Equal(t, "3600", w.Header().Get("Retry-After"))

	// bucket key expires after the window
	m.FastForward(2 * time.Hour)
	require.Equal(t, http.StatusCreated, doRequest(r, "/signup", "").Code)
}

func TestRedisRateLimitMiddleware_RedisDown(t *testing.T) {
	m, err := mr.Run()
	require.NoError(t, err)
	client := redis.NewClient(&redis.Options{Addr: m.Addr(), MaxRetries: -1})
	m.Close()

	r := gin.New()
	r.Use(RedisRateLimitMiddleware(client, 1, 1, time.Second))
	r.POST("/signup", func(c *gin.Context) { c.JSON(http.StatusCreated, gin.H{"ok": true}) })

	require.Equal(t, http.StatusInternalServerError, doRequest(r, "/signup", "").Code)
}

func TestRedisRateLimitMiddleware_NilClientFallsBack(t *testing.T) {
	r := gin.New()
	r.Use(RedisRateLimitMiddleware(nil, 0.01, 1, time.Second))
	r.POST("/signup", func(c *gin.Context) { c.JSON(http.StatusCreated, gin.H{"ok": true}) })

	require.Equal(t, http.StatusCreated, doRequest(r, "/signup", "").Code)
	require.Equal(t, http.StatusTooManyRequests, doRequest(r, "/signup", "").Code)
}
