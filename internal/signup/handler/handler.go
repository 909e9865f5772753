package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/signupsvc/signup-service/internal/signup/service"
	"github.com/signupsvc/signup-service/pkg/logger"
	"github.com/signupsvc/signup-service/pkg/metrics"
)

const (
	MsgCreated  = "Registration successful"
	MsgInternal = "Internal server error"
)

// Options tune how failures are reported to callers.
type Options struct {
	// ExposeErrors puts the underlying error text into 500 responses.
	ExposeErrors bool
}

type signupHandler struct {
	svc  *service.Service
	opts Options
}

// RegisterSignupRoutes mounts POST /signup on r.
func RegisterSignupRoutes(r gin.IRoutes, svc *service.Service, opts Options) {
	h := &signupHandler{svc: svc, opts: opts}
	r.POST("/signup", h.signup)
}

// ErrUnsupportedMediaType rejects bodies not declared as JSON.
var ErrUnsupportedMediaType = errors.New("unsupported media type: expected application/json")

// isJSON accepts application/json and application/*+json.
func isJSON(mime string) bool {
	mime = strings.ToLower(mime)
	return mime == "application/json" ||
		(strings.HasPrefix(mime, "application/") && strings.HasSuffix(mime, "+json"))
}

func (h *signupHandler) signup(c *gin.Context) {
	if !isJSON(c.ContentType()) {
		h.fail(c, &service.Error{Kind: service.KindMalformed, Err: ErrUnsupportedMediaType})
		return
	}

	body, err := c.GetRawData()
	if err != nil {
		h.fail(c, &service.Error{Kind: service.KindMalformed, Err: err})
		return
	}

	res, err := h.svc.Register(c.Request.Context(), body)
	if err != nil {
		h.fail(c, err)
		return
	}

	metrics.SignupRequests.WithLabelValues("created").Inc()
	logger.With("id", res.ID).Debugf("signup stored")
	c.JSON(http.StatusCreated, gin.H{"message": MsgCreated})
}

func (h *signupHandler) fail(c *gin.Context, err error) {
	kind := service.KindOf(err)
	if kind == service.KindValidation {
		metrics.SignupRequests.WithLabelValues("invalid").Inc()
		c.JSON(http.StatusBadRequest, gin.H{"error": service.MsgRequired})
		return
	}

	metrics.SignupRequests.WithLabelValues("error").Inc()
	logger.With("kind", kind, "error", err).Errorf("signup failed")
	msg := MsgInternal
	if h.opts.ExposeErrors {
		msg = err.Error()
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": msg})
}
