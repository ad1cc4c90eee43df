// Package handler provides HTTP handlers for the dirscope REST API.
package handler

import (
	"errors"
	"io/fs"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/CageChen/dirscope/internal/browse"
	"github.com/CageChen/dirscope/internal/report"
)

// SessionCookie carries the client's session id.
const SessionCookie = "dirscope_session"

// BrowseHandler handles navigation and census API requests
type BrowseHandler struct {
	store    *browse.Store
	ws       *WSHandler
	renderer *report.Renderer
}

// NewBrowseHandler creates a new browse handler. Session events are
// streamed through ws.
func NewBrowseHandler(store *browse.Store, ws *WSHandler) *BrowseHandler {
	return &BrowseHandler{
		store:    store,
		ws:       ws,
		renderer: report.NewRenderer(),
	}
}

// session returns the caller's session, creating one and setting the cookie
// when the request carries no known session.
func (h *BrowseHandler) session(c *gin.Context) *browse.Session {
	id, _ := c.Cookie(SessionCookie)
	s := h.store.GetOrCreate(id)
	if s.ID() != id {
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(SessionCookie, s.ID(), 0, "/", "", false, true)
	}
	return s
}

// GetCensusView runs a census of the current directory (unless above root)
// and returns the directory view with its counts
func (h *BrowseHandler) GetCensusView(c *gin.Context) {
	s := h.session(c)

	view, err := s.CensusView(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

// Navigate moves the cursor by selector: -1 resets, -2 goes to the parent,
// n >= 0 enters the n-th listed child. No census is run.
func (h *BrowseHandler) Navigate(c *gin.Context) {
	sel, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "selector must be an integer",
			"kind":  "InvalidSelector",
		})
		return
	}

	target, err := browse.ParseSelector(sel)
	if err != nil {
		writeError(c, err)
		return
	}

	s := h.session(c)
	if err := s.Navigate(target); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, s.View())
}

// GetReport returns the last census of the current directory as Markdown
// (format=md, the default) or HTML (format=html)
func (h *BrowseHandler) GetReport(c *gin.Context) {
	s := h.session(c)
	source := report.Markdown(s.View())

	switch c.DefaultQuery("format", "md") {
	case "md", "markdown":
		c.Data(http.StatusOK, "text/markdown; charset=utf-8", source)
	case "html":
		out, err := h.renderer.HTML(source)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "failed to render report: " + err.Error(),
			})
			return
		}
		c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(out))
	default:
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "format must be md or html",
		})
	}
}

// HandleWS streams the events of the caller's session over a WebSocket.
// The session must already exist.
func (h *BrowseHandler) HandleWS(c *gin.Context) {
	id, err := c.Cookie(SessionCookie)
	if err != nil || id == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "no session",
		})
		return
	}
	if _, ok := h.store.Get(id); !ok {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "unknown session",
			"kind":  "NotFound",
		})
		return
	}

	h.ws.Serve(c, id)
}

// writeError maps navigation and enumeration errors to HTTP responses.
func writeError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	kind := "Internal"

	switch {
	case errors.Is(err, browse.ErrIndexOutOfRange):
		status, kind = http.StatusBadRequest, "NavigationIndexOutOfRange"
	case errors.Is(err, browse.ErrInvalidSelector):
		status, kind = http.StatusBadRequest, "InvalidSelector"
	case errors.Is(err, browse.ErrVolumeNotReady):
		status, kind = http.StatusConflict, "VolumeNotReady"
	case errors.Is(err, fs.ErrNotExist):
		status, kind = http.StatusNotFound, "NotFound"
	case errors.Is(err, fs.ErrPermission):
		status, kind = http.StatusForbidden, "AccessDenied"
	}

	c.JSON(status, gin.H{
		"error": err.Error(),
		"kind":  kind,
	})
}
