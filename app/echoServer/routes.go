package echoServer

import (
	"net/http"

	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"

	"github.com/FuseKota/omen-manage/app/echoServer/controller/catalog"
	"github.com/FuseKota/omen-manage/app/echoServer/controller/checkout"
	"github.com/FuseKota/omen-manage/app/echoServer/controller/rental"
	"github.com/FuseKota/omen-manage/app/echoServer/controller/staff"
)

type C struct {
	Staff     *staff.Controller
	Catalog   *catalog.Controller
	Checkout  *checkout.Controller
	Rental    *rental.Controller
	JWTSecret string
}

func Register(e *echo.Echo, c C) {
	// Public
	pub := e.Group("/v1")
	pub.POST("/staff/login", c.Staff.Login)

	// Kiosk operations need a staff token. The default token lookup
	// ("header:Authorization:Bearer ") strips the Bearer prefix before
	// the token reaches the parser.
	kiosk := e.Group("/v1")
	kiosk.Use(echojwt.WithConfig(echojwt.Config{
		SigningKey:    []byte(c.JWTSecret),
		NewClaimsFunc: func(c echo.Context) jwt.Claims { return jwt.MapClaims{} },
	}))
	// staff name extraction: ledger rows record who wrote them
	kiosk.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			tok, ok := ctx.Get("user").(*jwt.Token)
			if !ok {
				return ctx.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
			}
			claims, ok := tok.Claims.(jwt.MapClaims)
			if !ok {
				return ctx.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
			}
			name, ok := claims["sub"].(string)
			if !ok || name == "" {
				return ctx.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
			}
			ctx.Set("staff", name)
			return next(ctx)
		}
	})

	kiosk.GET("/products", c.Catalog.List)

	kiosk.POST("/checkout", c.Checkout.Checkout)

	kiosk.POST("/rentals", c.Rental.Open)
	kiosk.GET("/rentals/search", c.Rental.Search)
	kiosk.POST("/rentals/:no/return", c.Rental.Return)
}
