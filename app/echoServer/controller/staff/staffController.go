package staff

import (
	"crypto/subtle"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	jwtutil "github.com/FuseKota/omen-manage/util/jwt"
)

type Controller struct {
	JWTSecret string
	Passcode  string
	V         *validator.Validate
	Log       *slog.Logger
}

type LoginReq struct {
	Name     string `json:"name" validate:"required"`
	Passcode string `json:"passcode" validate:"required"`
}

// POST /v1/staff/login
//
// One shared passcode for the stall crew; the token carries the staff
// name so ledger rows say who wrote them.
func (h *Controller) Login(c echo.Context) error {
	var req LoginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid JSON"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"message": "validation error",
			"errors":  err.Error(),
		})
	}

	if subtle.ConstantTimeCompare([]byte(req.Passcode), []byte(h.Passcode)) != 1 {
		h.Log.Warn("staff login rejected", "name", req.Name)
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "invalid passcode"})
	}

	token, err := jwtutil.Issue(h.JWTSecret, req.Name, 24*time.Hour)
	if err != nil {
		h.Log.Error("staff token issue", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"token": token, "staff": req.Name})
}
