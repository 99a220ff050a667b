package checkout

import (
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/FuseKota/omen-manage/model"
	ss "github.com/FuseKota/omen-manage/service/sale"
)

type Controller struct {
	Svc ss.Service
	V   *validator.Validate
	Log *slog.Logger
}

type CheckoutReq struct {
	Lines []LineReq `json:"lines" validate:"required,min=1,dive"`
	Note  string    `json:"note"`
}

type LineReq struct {
	ProductID string `json:"product_id" validate:"required"`
	Quantity  int    `json:"quantity" validate:"required,gt=0"`
}

// POST /v1/checkout
func (h *Controller) Checkout(c echo.Context) error {
	var req CheckoutReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid JSON"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"message": "validation error",
			"errors":  err.Error(),
		})
	}

	lines := make([]model.SaleLine, 0, len(req.Lines))
	for _, l := range req.Lines {
		lines = append(lines, model.SaleLine{ProductID: l.ProductID, Quantity: l.Quantity})
	}
	staff, _ := c.Get("staff").(string)

	receipt, err := h.Svc.Checkout(c.Request().Context(), lines, staff, req.Note)
	if err != nil {
		h.Log.Error("checkout", "err", err)
		switch ss.Code(err) {
		case ss.ErrValidation:
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid cart"})
		case ss.ErrProductNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"message": "product not found"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
		}
	}
	return c.JSON(http.StatusCreated, receipt)
}
