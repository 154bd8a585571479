package http

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"booking-flow/internal/flow"
	"booking-flow/internal/models"
	"booking-flow/internal/service"
)

type openFlowRequest struct {
	Kind    string            `json:"kind" binding:"required"`
	Email   string            `json:"email,omitempty"`
	Handoff map[string]string `json:"handoff,omitempty"`
}

type flowResponse struct {
	ID   string    `json:"id"`
	View flow.View `json:"view"`
}

type submitResponse struct {
	Confirmation models.Confirmation `json:"confirmation"`
	View         flow.View           `json:"view"`
}

type handoffResponse struct {
	Handoff models.Handoff    `json:"handoff"`
	Params  map[string]string `json:"params"`
}

// OpenFlow
// @Summary OpenFlow
// @Description Starts a booking flow of the given kind. An email prefills the draft from that account; handoff params seed a checkout cart.
// @ID open-flow
// @Accept json
// @Produce json
// @Param input body openFlowRequest true "flow kind and optional prefill"
// @Success 201 {object} flowResponse
// @Failure 400 {object} errorResponse
// @Failure 500 {object} errorResponse
// @Router /api/flows [post]
func (h *Handler) OpenFlow(c *gin.Context) {
	var req openFlowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		newErrorResponse(c, http.StatusBadRequest, "invalid input body")
		return
	}
	kind, ok := models.ParseKind(req.Kind)
	if !ok {
		writeError(c, service.ErrUnknownKind, nil)
		return
	}

	var handoff *models.Handoff
	if len(req.Handoff) > 0 {
		ho, err := models.ParseHandoff(req.Handoff)
		if err != nil {
			newErrorResponse(c, http.StatusBadRequest, err.Error())
			return
		}
		handoff = &ho
	}

	id, view, err := h.svc.OpenSession(kind, strings.TrimSpace(req.Email), handoff)
	if err != nil {
		writeError(c, err, nil)
		return
	}
	c.JSON(http.StatusCreated, flowResponse{ID: id, View: view})
}

// GetFlow
// @Summary GetFlow
// @Description Returns the current step, progress, quote and draft of a flow
// @ID get-flow
// @Produce json
// @Param id path string true "flow id"
// @Success 200 {object} flowResponse
// @Failure 404 {object} errorResponse
// @Router /api/flows/{id} [get]
func (h *Handler) GetFlow(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, flowResponse{ID: c.Param("id"), View: sess.View()})
}

// PatchFlow
// @Summary PatchFlow
// @Description Merges the posted fields into the draft. A type mismatch leaves the draft unchanged.
// @ID patch-flow
// @Accept json
// @Produce json
// @Param id path string true "flow id"
// @Param input body object true "draft fields"
// @Success 200 {object} flowResponse
// @Failure 400,404,409 {object} errorResponse
// @Router /api/flows/{id} [patch]
func (h *Handler) PatchFlow(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	raw, err := io.ReadAll(c.Request.Body)
	if err != nil || len(raw) == 0 {
		newErrorResponse(c, http.StatusBadRequest, "invalid input body")
		return
	}
	view, err := sess.Patch(raw)
	reply(c, view, err)
}

// NextStep
// @Summary NextStep
// @Description Validates the current step and moves forward
// @ID next-step
// @Produce json
// @Param id path string true "flow id"
// @Success 200 {object} flowResponse
// @Failure 404,409 {object} errorResponse
// @Failure 422 {object} errorResponse
// @Router /api/flows/{id}/next [post]
func (h *Handler) NextStep(c *gin.Context) {
	if sess, ok := h.session(c); ok {
		view, err := sess.Next()
		reply(c, view, err)
	}
}

// PrevStep
// @Summary PrevStep
// @Description Moves back one step without validating or clearing fields
// @ID prev-step
// @Produce json
// @Param id path string true "flow id"
// @Success 200 {object} flowResponse
// @Failure 404,409 {object} errorResponse
// @Router /api/flows/{id}/back [post]
func (h *Handler) PrevStep(c *gin.Context) {
	if sess, ok := h.session(c); ok {
		view, err := sess.Back()
		reply(c, view, err)
	}
}

// ResetFlow
// @Summary ResetFlow
// @Description Discards the draft and returns to the first step
// @ID reset-flow
// @Produce json
// @Param id path string true "flow id"
// @Success 200 {object} flowResponse
// @Failure 404,409 {object} errorResponse
// @Router /api/flows/{id}/reset [post]
func (h *Handler) ResetFlow(c *gin.Context) {
	if sess, ok := h.session(c); ok {
		view, err := sess.Reset()
		reply(c, view, err)
	}
}

// DismissError
// @Summary DismissError
// @Description Clears the submission error banner
// @ID dismiss-error
// @Produce json
// @Param id path string true "flow id"
// @Success 200 {object} flowResponse
// @Failure 404 {object} errorResponse
// @Router /api/flows/{id}/dismiss [post]
func (h *Handler) DismissError(c *gin.Context) {
	if sess, ok := h.session(c); ok {
		c.JSON(http.StatusOK, flowResponse{ID: c.Param("id"), View: sess.DismissError()})
	}
}

// SubmitFlow
// @Summary SubmitFlow
// @Description Validates the whole draft and records it. Repeated submits while one is pending are refused.
// @ID submit-flow
// @Produce json
// @Param id path string true "flow id"
// @Success 200 {object} submitResponse
// @Failure 404,409 {object} errorResponse
// @Failure 422 {object} errorResponse
// @Failure 502 {object} errorResponse
// @Failure 500 {object} errorResponse
// @Router /api/flows/{id}/submit [post]
func (h *Handler) SubmitFlow(c *gin.Context) {
	conf, view, err := h.svc.SubmitSession(c.Request.Context(), c.Param("id"))
	if errors.Is(err, service.ErrNotFound) {
		writeError(c, err, nil)
		return
	}
	if err != nil {
		writeError(c, err, &view)
		return
	}
	c.JSON(http.StatusOK, submitResponse{Confirmation: conf, View: view})
}

// GetHandoff
// @Summary GetHandoff
// @Description Returns the navigation snapshot of the selected category and price
// @ID get-handoff
// @Produce json
// @Param id path string true "flow id"
// @Success 200 {object} handoffResponse
// @Failure 404 {object} errorResponse
// @Router /api/flows/{id}/handoff [get]
func (h *Handler) GetHandoff(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	ho := sess.Handoff()
	c.JSON(http.StatusOK, handoffResponse{Handoff: ho, Params: ho.Params()})
}

// CloseFlow
// @Summary CloseFlow
// @Description Drops the flow. A pending submit no longer updates it.
// @ID close-flow
// @Param id path string true "flow id"
// @Success 204
// @Failure 404 {object} errorResponse
// @Router /api/flows/{id} [delete]
func (h *Handler) CloseFlow(c *gin.Context) {
	if err := h.svc.CloseSession(c.Param("id")); err != nil {
		writeError(c, err, nil)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) session(c *gin.Context) (flow.Session, bool) {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		newErrorResponse(c, http.StatusBadRequest, "missing flow id")
		return nil, false
	}
	sess, err := h.svc.GetSession(id)
	if err != nil {
		writeError(c, err, nil)
		return nil, false
	}
	return sess, true
}

func reply(c *gin.Context, view flow.View, err error) {
	if err != nil {
		writeError(c, err, &view)
		return
	}
	c.JSON(http.StatusOK, flowResponse{ID: c.Param("id"), View: view})
}
