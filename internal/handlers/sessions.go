package handlers

import (
	"errors"
	"net/http"

	"fermentation_dashboard/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	statusCreated  = "created"
	statusRejected = "rejected"

	errInvalidBodyPref = "invalid body: "
	errCreateSession   = "failed to create session"
)

// CreateSessionRequest is the payload of POST /api/v1/sessions.
type CreateSessionRequest struct {
	// Session name; must not be blank
	Name string `json:"name" form:"name" example:"Rye sourdough"`
	// Free-form notes
	Notes string `json:"notes" form:"notes" example:"80% hydration"`
}

// CreateSessionResponse tells the page what to do with the dialog.
type CreateSessionResponse struct {
	Status       string `json:"status" example:"created"`
	Alert        string `json:"alert,omitempty"`
	ResetForm    bool   `json:"reset_form"`
	CloseModal   bool   `json:"close_modal"`
	SessionsHTML string `json:"sessions_html,omitempty"`
}

// requestForm is the dialog state of one request. Reset and Dismiss only
// record what the page has to do.
type requestForm struct {
	name, notes string
	reset       bool
	dismissed   bool
}

func (f *requestForm) Name() string  { return f.name }
func (f *requestForm) Notes() string { return f.notes }
func (f *requestForm) Reset()        { f.reset = true }
func (f *requestForm) Dismiss()      { f.dismissed = true }

type alertCollector struct{ msgs []string }

func (a *alertCollector) Alert(msg string) { a.msgs = append(a.msgs, msg) }

func (a *alertCollector) first() string {
	if len(a.msgs) == 0 {
		return ""
	}
	return a.msgs[0]
}

// @Summary      Session list
// @Description  HTML fragment for the sessions-list container.
// @Tags         sessions
// @Produce      html
// @Success      200  {string}  string
// @Router       /api/v1/sessions [get]
func (h *Handler) listSessions(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(h.services.Dashboard.SessionsHTML()))
}

// @Summary      Create session
// @Description  Blank names are rejected without contacting the backend. On success the session list is refreshed once.
// @Tags         sessions
// @Accept       json
// @Produce      json
// @Param        body  body      CreateSessionRequest  true  "New session"
// @Success      201   {object}  CreateSessionResponse
// @Failure      400   {object}  CreateSessionResponse
// @Failure      502   {object}  CreateSessionResponse
// @Failure      500   {object}  map[string]string
// @Router       /api/v1/sessions [post]
func (h *Handler) createSession(c *gin.Context) {
	var req CreateSessionRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidBodyPref + err.Error()})
		return
	}

	form := &requestForm{name: req.Name, notes: req.Notes}
	alerts := &alertCollector{}
	err := h.services.Sessions.Create(c.Request.Context(), form, alerts)

	resp := CreateSessionResponse{
		Alert:      alerts.first(),
		ResetForm:  form.reset,
		CloseModal: form.dismissed,
	}
	switch {
	case err == nil:
		resp.Status = statusCreated
		resp.SessionsHTML = string(h.services.Dashboard.SessionsHTML())
		c.JSON(http.StatusCreated, resp)
	case errors.Is(err, service.ErrBlankName):
		resp.Status = statusRejected
		c.JSON(http.StatusBadRequest, resp)
	case errors.Is(err, service.ErrNotCreated):
		resp.Status = statusRejected
		if h.log != nil {
			h.log.Warnw("session_create_rejected", "err", err)
		}
		c.JSON(http.StatusBadGateway, resp)
	default:
		h.logAndJSONError(c, http.StatusInternalServerError, errCreateSession, "session_create_failed", err)
	}
}
