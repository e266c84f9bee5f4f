package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"proptrackrr/web/internal/contact"
	"proptrackrr/web/internal/models"
	"proptrackrr/web/internal/validation"
)

// staticPage renders a page that needs nothing but the layout
func (h *Handler) staticPage(name, title string) gin.HandlerFunc {
	return func(c *gin.Context) {
		h.render(c, http.StatusOK, name, title, nil)
	}
}

func (h *Handler) ContactPage(c *gin.Context) {
	h.render(c, http.StatusOK, "contact", "Contact", gin.H{"Form": models.ContactMessage{}})
}

func (h *Handler) SubmitContact(c *gin.Context) {
	var msg models.ContactMessage
	if err := c.ShouldBind(&msg); err != nil {
		h.logger.WithError(err).Error("Failed to parse contact form")
	}

	if err := h.relay.Submit(msg); err != nil {
		var verr *validation.Error
		if errors.As(err, &verr) {
			h.render(c, http.StatusBadRequest, "contact", "Contact", gin.H{"Form": msg, "Fields": verr.Fields})
			return
		}
		h.logger.WithError(err).Error("Failed to queue contact message")
		message := contact.BusyMessage
		if !errors.Is(err, contact.ErrBusy) {
			message = "Something went wrong. Please try again."
		}
		h.render(c, statusFor(err), "contact", "Contact", gin.H{"Form": msg, "Error": message})
		return
	}

	h.render(c, http.StatusOK, "contact", "Contact", gin.H{
		"Form": models.ContactMessage{},
		"Sent": contact.SentMessage,
	})
}
