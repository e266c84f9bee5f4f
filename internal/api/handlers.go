package api

import (
	"context"
	"errors"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"proptrackrr/web/config"
	"proptrackrr/web/internal/apiclient"
	"proptrackrr/web/internal/contact"
	"proptrackrr/web/internal/dashboard"
	"proptrackrr/web/internal/marketplace"
	"proptrackrr/web/internal/models"
	"proptrackrr/web/internal/session"
	"proptrackrr/web/internal/validation"
	"proptrackrr/web/internal/web"
)

// AuthAPI is the part of the API client used by the login and register pages
type AuthAPI interface {
	Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error)
	Register(ctx context.Context, req models.RegisterRequest) (*models.AuthResponse, error)
	ForgotPassword(ctx context.Context, phone string) error
}

type Handler struct {
	logger      *logrus.Logger
	sessions    *session.Manager
	auth        AuthAPI
	dashboard   *dashboard.Service
	marketplace *marketplace.Service
	relay       *contact.Relay
}

// Deps are the services a Handler works with
type Deps struct {
	Logger      *logrus.Logger
	Sessions    *session.Manager
	Auth        AuthAPI
	Dashboard   *dashboard.Service
	Marketplace *marketplace.Service
	Relay       *contact.Relay
}

func NewHandler(deps Deps) *Handler {
	logger := deps.Logger
	if logger == nil {
		logger = logrus.New()
		logger.SetFormatter(&logrus.JSONFormatter{})
		logger.SetOutput(os.Stdout)
	}

	return &Handler{
		logger:      logger,
		sessions:    deps.Sessions,
		auth:        deps.Auth,
		dashboard:   deps.Dashboard,
		marketplace: deps.Marketplace,
		relay:       deps.Relay,
	}
}

// layout builds the header/footer data and consumes the pending flash message
func (h *Handler) layout(c *gin.Context, title string) web.Layout {
	s := session.FromContext(c)
	l := web.NewLayout(c.Request.URL.Path, title, s, config.GetSiteContent())
	if s != nil {
		l = l.WithFlash(h.sessions.PopFlash(s))
	}
	return l
}

// render executes the named page template. Fields is always present so templates can
// index it.
func (h *Handler) render(c *gin.Context, status int, name, title string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	data["Layout"] = h.layout(c, title)
	if _, ok := data["Fields"]; !ok {
		data["Fields"] = map[string]string{}
	}
	c.HTML(status, name, data)
}

func (h *Handler) flash(c *gin.Context, kind, message string) {
	s := session.FromContext(c)
	if s == nil || message == "" {
		return
	}
	if err := h.sessions.Flash(s, kind, message); err != nil {
		h.logger.WithError(err).Warn("Failed to store flash message")
	}
}

// statusFor maps an error to the HTTP status of a JSON answer
func statusFor(err error) int {
	if validation.IsValidationError(err) {
		return http.StatusBadRequest
	}
	if errors.Is(err, marketplace.ErrUnknownPack) || errors.Is(err, marketplace.ErrInvalidProperty) {
		return http.StatusBadRequest
	}
	if errors.Is(err, contact.ErrBusy) {
		return http.StatusServiceUnavailable
	}
	if apiErr, ok := apiclient.AsAPIError(err); ok && apiErr.Status >= 400 && apiErr.Status < 500 {
		return apiErr.Status
	}
	return http.StatusBadGateway
}

func (h *Handler) NotFound(c *gin.Context) {
	h.render(c, http.StatusNotFound, "error", "Not found", gin.H{
		"Status":  http.StatusNotFound,
		"Message": "The page you are looking for does not exist.",
	})
}

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
