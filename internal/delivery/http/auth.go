package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"booking-flow/internal/models"
)

// SignUp
// @Summary SignUp
// @Description Creates an account. All invalid fields are reported at once.
// @ID sign-up
// @Accept json
// @Produce json
// @Param input body models.SignUpForm true "account info"
// @Success 201 {object} models.Account
// @Failure 400,409 {object} errorResponse
// @Failure 422 {object} errorResponse
// @Failure 500 {object} errorResponse
// @Router /api/auth/signup [post]
func (h *Handler) SignUp(c *gin.Context) {
	var form models.SignUpForm
	if err := c.ShouldBindJSON(&form); err != nil {
		newErrorResponse(c, http.StatusBadRequest, "invalid input body")
		return
	}
	acc, err := h.auth.SignUp(c.Request.Context(), form)
	if err != nil {
		writeError(c, err, nil)
		return
	}
	c.JSON(http.StatusCreated, acc)
}

// SignIn
// @Summary SignIn
// @Description Checks credentials. Repeated failures for one email are rate limited.
// @ID sign-in
// @Accept json
// @Produce json
// @Param input body models.SignInForm true "credentials"
// @Success 200 {object} models.Account
// @Failure 400,401 {object} errorResponse
// @Failure 422 {object} errorResponse
// @Failure 429 {object} errorResponse
// @Failure 500 {object} errorResponse
// @Router /api/auth/signin [post]
func (h *Handler) SignIn(c *gin.Context) {
	var form models.SignInForm
	if err := c.ShouldBindJSON(&form); err != nil {
		newErrorResponse(c, http.StatusBadRequest, "invalid input body")
		return
	}
	acc, err := h.auth.SignIn(c.Request.Context(), form)
	if err != nil {
		writeError(c, err, nil)
		return
	}
	c.JSON(http.StatusOK, acc)
}
