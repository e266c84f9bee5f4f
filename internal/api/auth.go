package api

import (
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"

	"proptrackrr/web/internal/apiclient"
	"proptrackrr/web/internal/models"
	"proptrackrr/web/internal/session"
	"proptrackrr/web/internal/validation"
)

const (
	loginFailedMessage      = "Invalid phone number or password. Try again."
	registerFailedMessage   = "Registration failed. Try again."
	forgotPhoneMessage      = "Please enter your registered phone number first."
	forgotPasswordSentNote  = "A WhatsApp message has been sent to reset your password."
	forgotPasswordFailed    = "Failed to send the reset message. Try again."
	loginRequiredFieldsNote = "Please enter your phone number and password."
)

func (h *Handler) LoginPage(c *gin.Context) {
	if session.FromContext(c).LoggedIn() {
		c.Redirect(http.StatusSeeOther, "/dashboard")
		return
	}
	h.render(c, http.StatusOK, "login", "Login", gin.H{"Phone": c.Query("phone")})
}

func (h *Handler) Login(c *gin.Context) {
	s := session.FromContext(c)

	var req models.LoginRequest
	_ = c.ShouldBind(&req)
	req.Phone = strings.TrimSpace(req.Phone)

	if err := h.sessions.TryBeginLogin(s); err != nil {
		h.render(c, http.StatusConflict, "login", "Login", gin.H{"Phone": req.Phone, "Error": session.LoginBusyMessage})
		return
	}
	defer h.sessions.EndLogin(s)

	if err := h.sessions.ClearToken(s); err != nil {
		h.logger.WithError(err).Warn("Failed to clear stale token")
	}

	if err := validation.Struct(req); err != nil {
		h.render(c, http.StatusBadRequest, "login", "Login", gin.H{"Phone": req.Phone, "Error": loginRequiredFieldsNote})
		return
	}

	auth, err := h.auth.Login(c.Request.Context(), req)
	if err != nil {
		if apiErr, ok := apiclient.AsAPIError(err); ok && apiErr.NeedsSetup {
			if err := h.sessions.SeedBroker(s, apiErr.BrokerID); err != nil {
				h.logger.WithError(err).Error("Failed to store broker id")
			}
			c.Redirect(http.StatusSeeOther, "/register?phone="+url.QueryEscape(req.Phone))
			return
		}
		h.logger.WithError(err).WithField("phone_suffix", phoneSuffix(req.Phone)).Warn("Login failed")
		h.render(c, statusFor(err), "login", "Login", gin.H{
			"Phone": req.Phone,
			"Error": apiclient.UserMessage(err, loginFailedMessage),
		})
		return
	}

	h.completeLogin(c, s, auth)
}

func (h *Handler) RegisterPage(c *gin.Context) {
	if session.FromContext(c).LoggedIn() {
		c.Redirect(http.StatusSeeOther, "/dashboard")
		return
	}
	h.render(c, http.StatusOK, "register", "Register", gin.H{
		"Form":         models.RegisterRequest{Phone: c.Query("phone")},
		"SetupPending": setupPending(session.FromContext(c)),
	})
}

func (h *Handler) Register(c *gin.Context) {
	s := session.FromContext(c)

	var req models.RegisterRequest
	_ = c.ShouldBind(&req)
	req.Name = strings.TrimSpace(req.Name)
	req.Phone = strings.TrimSpace(req.Phone)
	req.Email = strings.TrimSpace(req.Email)

	form := req
	form.Password = ""

	if err := validation.Struct(req); err != nil {
		var verr *validation.Error
		fields := map[string]string{}
		if errors.As(err, &verr) {
			fields = verr.Fields
		}
		h.render(c, http.StatusBadRequest, "register", "Register", gin.H{
			"Form":         form,
			"Fields":       fields,
			"SetupPending": setupPending(s),
		})
		return
	}

	auth, err := h.auth.Register(c.Request.Context(), req)
	if err != nil {
		h.logger.WithError(err).WithField("phone_suffix", phoneSuffix(req.Phone)).Warn("Registration failed")
		h.render(c, statusFor(err), "register", "Register", gin.H{
			"Form":         form,
			"Error":        apiclient.UserMessage(err, registerFailedMessage),
			"SetupPending": setupPending(s),
		})
		return
	}

	h.completeLogin(c, s, auth)
}

func (h *Handler) ForgotPassword(c *gin.Context) {
	phone := strings.TrimSpace(c.PostForm("phone"))
	if phone == "" {
		h.render(c, http.StatusBadRequest, "login", "Login", gin.H{"Error": forgotPhoneMessage})
		return
	}

	if err := h.auth.ForgotPassword(c.Request.Context(), phone); err != nil {
		h.logger.WithError(err).WithField("phone_suffix", phoneSuffix(phone)).Warn("Forgot password request failed")
		h.render(c, statusFor(err), "login", "Login", gin.H{
			"Phone": phone,
			"Error": apiclient.UserMessage(err, forgotPasswordFailed),
		})
		return
	}

	h.render(c, http.StatusOK, "login", "Login", gin.H{"Phone": phone, "Notice": forgotPasswordSentNote})
}

func (h *Handler) Logout(c *gin.Context) {
	s := session.FromContext(c)
	if err := h.sessions.Logout(s); err != nil {
		h.logger.WithError(err).Error("Failed to clear session on logout")
	}
	h.dashboard.Boards().Drop(s.ID)
	c.Redirect(http.StatusSeeOther, "/")
}

func (h *Handler) completeLogin(c *gin.Context, s *models.Session, auth *models.AuthResponse) {
	if err := h.sessions.Login(s, auth); err != nil {
		h.logger.WithError(err).Error("Failed to store login")
		h.render(c, http.StatusInternalServerError, "login", "Login", gin.H{"Error": apiclient.GenericFailure})
		return
	}
	h.dashboard.Boards().Drop(s.ID)

	h.logger.WithField("broker_id", s.BrokerID).Info("Broker logged in")
	if s.BrokerName != "" {
		h.flash(c, "success", "Welcome, "+s.BrokerName+"!")
	}
	c.Redirect(http.StatusSeeOther, "/dashboard")
}

// setupPending reports whether a login found an account that still needs a password
func setupPending(s *models.Session) bool {
	return s != nil && !s.LoggedIn() && s.BrokerID != ""
}

// phoneSuffix keeps logs useful without writing full phone numbers
func phoneSuffix(phone string) string {
	if len(phone) <= 4 {
		return phone
	}
	return phone[len(phone)-4:]
}
