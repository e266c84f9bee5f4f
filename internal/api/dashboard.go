package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"proptrackrr/web/internal/apiclient"
	"proptrackrr/web/internal/dashboard"
	"proptrackrr/web/internal/session"
)

const dashboardLoadFailed = "Failed to load properties."

func owner(c *gin.Context) dashboard.Owner {
	s := session.FromContext(c)
	return dashboard.Owner{SessionID: s.ID, Token: s.Token, BrokerID: s.BrokerID}
}

// wantsRefresh reports whether the list has to be fetched again. Plain visits and
// ?refresh=1 fetch; requests carrying a filter reuse the last fetched list.
func wantsRefresh(c *gin.Context) bool {
	if c.Query("refresh") != "" {
		return true
	}
	for _, key := range []string{"search", "status", "city"} {
		if _, ok := c.GetQuery(key); ok {
			return false
		}
	}
	return true
}

// dashboardURL points back at the dashboard with the filter of the current request
func dashboardURL(c *gin.Context) string {
	var filter dashboard.Filter
	_ = c.ShouldBindQuery(&filter)
	return "/dashboard?" + filter.Query()
}

func (h *Handler) Dashboard(c *gin.Context) {
	var filter dashboard.Filter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.logger.WithError(err).Error("Failed to parse dashboard filter")
	}

	view, err := h.dashboard.View(c.Request.Context(), owner(c), filter, wantsRefresh(c))
	data := gin.H{"View": view}
	if err != nil {
		h.logger.WithError(err).WithField("broker_id", owner(c).BrokerID).Error("Failed to get properties")
		data["Error"] = apiclient.UserMessage(err, dashboardLoadFailed)
	}
	h.render(c, http.StatusOK, "dashboard", "Dashboard", data)
}

func (h *Handler) DashboardProperties(c *gin.Context) {
	var filter dashboard.Filter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.logger.WithError(err).Error("Failed to parse dashboard filter")
	}

	view, err := h.dashboard.View(c.Request.Context(), owner(c), filter, wantsRefresh(c))
	if err != nil {
		h.logger.WithError(err).Error("Failed to get properties")
		c.JSON(statusFor(err), gin.H{"error": apiclient.UserMessage(err, dashboardLoadFailed)})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"filter":     view.Filter,
		"properties": view.Properties,
		"cities":     view.Cities,
		"stats":      view.Stats,
	})
}

func (h *Handler) ToggleProperty(c *gin.Context) {
	id, ok := h.propertyID(c, "Failed to update status.")
	if !ok {
		return
	}
	notice, err := h.dashboard.ToggleStatus(c.Request.Context(), owner(c), id)
	h.finishAction(c, notice, err)
}

func (h *Handler) DeleteProperty(c *gin.Context) {
	id, ok := h.propertyID(c, "Failed to delete property.")
	if !ok {
		return
	}
	notice, err := h.dashboard.Delete(c.Request.Context(), owner(c), id)
	h.finishAction(c, notice, err)
}

func (h *Handler) EditProperty(c *gin.Context) {
	id, ok := h.propertyID(c, "Failed to update property.")
	if !ok {
		return
	}
	var in dashboard.EditInput
	if err := c.ShouldBind(&in); err != nil {
		h.logger.WithError(err).Error("Failed to parse edit form")
		h.finishAction(c, dashboard.Notice{Kind: dashboard.NoticeError, Message: "Failed to update property."}, err)
		return
	}
	notice, err := h.dashboard.Edit(c.Request.Context(), owner(c), id, in)
	h.finishAction(c, notice, err)
}

func (h *Handler) propertyID(c *gin.Context, failure string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		h.flash(c, dashboard.NoticeError, failure)
		c.Redirect(http.StatusSeeOther, dashboardURL(c))
		return 0, false
	}
	return id, true
}

// finishAction stores the outcome as a flash message and sends the broker back to the list
// with the filter they had selected
func (h *Handler) finishAction(c *gin.Context, notice dashboard.Notice, err error) {
	if err != nil {
		h.logger.WithError(err).WithField("broker_id", owner(c).BrokerID).Error("Property action failed")
	}
	h.flash(c, notice.Kind, notice.Message)
	c.Redirect(http.StatusSeeOther, dashboardURL(c))
}
