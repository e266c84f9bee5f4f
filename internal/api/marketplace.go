package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"proptrackrr/web/internal/marketplace"
	"proptrackrr/web/internal/models"
	"proptrackrr/web/internal/session"
	"proptrackrr/web/internal/validation"
)

const marketplaceLoadFailed = "Failed to load marketplace properties."

type phoneRequest struct {
	Phone string `json:"phone" form:"phone"`
}

type unlockRequest struct {
	Phone      string `json:"phone"`
	PropertyID int64  `json:"property_id"`
}

type orderRequest struct {
	Phone  string `json:"phone"`
	Amount int    `json:"amount"`
}

func (h *Handler) Marketplace(c *gin.Context) {
	var filter marketplace.Filter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.logger.WithError(err).Error("Failed to parse marketplace filter")
	}

	listing, err := h.marketplace.Listings(c.Request.Context(), filter)
	data := gin.H{
		"Listing": listing,
		"Packs":   h.marketplace.Packs(),
	}
	if err != nil {
		h.logger.WithError(err).Error("Failed to get marketplace properties")
		data["Error"] = marketplaceLoadFailed
	}

	phone := session.FromContext(c).MarketplacePhone
	data["Phone"] = phone
	if phone != "" {
		wallet, err := h.marketplace.Balance(c.Request.Context(), phone)
		if err != nil {
			h.logger.WithError(err).Warn("Failed to get wallet")
		} else {
			data["Wallet"] = wallet
		}
	}

	h.render(c, http.StatusOK, "marketplace", "Marketplace", data)
}

func (h *Handler) MarketplaceProperties(c *gin.Context) {
	var filter marketplace.Filter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.logger.WithError(err).Error("Failed to parse marketplace filter")
	}

	listing, err := h.marketplace.Listings(c.Request.Context(), filter)
	if err != nil {
		h.logger.WithError(err).Error("Failed to get marketplace properties")
		c.JSON(statusFor(err), gin.H{"error": marketplaceLoadFailed})
		return
	}
	c.JSON(http.StatusOK, listing)
}

// SetPhone remembers the buyer phone and answers with its wallet
func (h *Handler) SetPhone(c *gin.Context) {
	var req phoneRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validation.PhoneMessage})
		return
	}
	phone := strings.TrimSpace(req.Phone)
	if err := validation.Phone(phone); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	h.rememberPhone(c, phone)

	wallet, err := h.marketplace.Balance(c.Request.Context(), phone)
	if err != nil {
		h.logger.WithError(err).Warn("Failed to get wallet")
		c.JSON(http.StatusOK, gin.H{"phone": phone})
		return
	}
	c.JSON(http.StatusOK, wallet)
}

func (h *Handler) Unlock(c *gin.Context) {
	var req unlockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	phone := h.buyerPhone(c, req.Phone)

	outcome, err := h.marketplace.Unlock(c.Request.Context(), phone, req.PropertyID)
	if err != nil {
		h.logger.WithError(err).WithField("property_id", req.PropertyID).Warn("Unlock failed")
		c.JSON(statusFor(err), gin.H{"error": marketplace.ErrorMessage(err)})
		return
	}
	h.rememberPhone(c, phone)
	c.JSON(http.StatusOK, outcome)
}

func (h *Handler) Wallet(c *gin.Context) {
	phone := h.buyerPhone(c, c.Query("phone"))
	wallet, err := h.marketplace.Balance(c.Request.Context(), phone)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": marketplace.ErrorMessage(err)})
		return
	}
	c.JSON(http.StatusOK, wallet)
}

func (h *Handler) CreateOrder(c *gin.Context) {
	var req orderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	phone := h.buyerPhone(c, req.Phone)

	order, pack, err := h.marketplace.CreateOrder(c.Request.Context(), phone, req.Amount)
	if err != nil {
		h.logger.WithError(err).WithField("amount", req.Amount).Error("Failed to create order")
		c.JSON(statusFor(err), gin.H{"error": marketplace.ErrorMessage(err)})
		return
	}
	h.rememberPhone(c, phone)
	c.JSON(http.StatusOK, gin.H{
		"order_id":     order.OrderID,
		"amount_paise": order.AmountPaise,
		"key":          order.Key,
		"credits":      pack.Credits,
	})
}

func (h *Handler) VerifyPayment(c *gin.Context) {
	var req models.PaymentVerification
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": marketplace.VerificationFailedMessage})
		return
	}

	result, err := h.marketplace.Verify(c.Request.Context(), req)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": marketplace.ErrorMessage(err)})
		return
	}
	c.JSON(http.StatusOK, result)
}

// buyerPhone falls back to the phone remembered in the session
func (h *Handler) buyerPhone(c *gin.Context, phone string) string {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		phone = session.FromContext(c).MarketplacePhone
	}
	return phone
}

func (h *Handler) rememberPhone(c *gin.Context, phone string) {
	s := session.FromContext(c)
	if s.MarketplacePhone == phone {
		return
	}
	if err := h.sessions.SetPhone(s, phone); err != nil {
		h.logger.WithError(err).Warn("Failed to remember marketplace phone")
	}
}
