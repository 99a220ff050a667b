package catalog

import (
	"net/http"

	"github.com/labstack/echo/v4"

	catalogrepo "github.com/FuseKota/omen-manage/repository/catalog"
)

type Controller struct {
	Cat catalogrepo.Repo
}

// GET /v1/products
func (h *Controller) List(c echo.Context) error {
	products := h.Cat.List()
	return c.JSON(http.StatusOK, echo.Map{"data": products, "count": len(products)})
}
