// Package main omen-manage kiosk API.
//
// @title           omen-manage kiosk API
// @version         1.0
// @description     festival mask sale/rental kiosk (catalog, checkout, rental returns).
// @BasePath        /
// @schemes         http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description  Use:  Bearer <JWT>
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/FuseKota/omen-manage/app/echoServer"
	catalogctrl "github.com/FuseKota/omen-manage/app/echoServer/controller/catalog"
	checkoutctrl "github.com/FuseKota/omen-manage/app/echoServer/controller/checkout"
	rentalctrl "github.com/FuseKota/omen-manage/app/echoServer/controller/rental"
	staffctrl "github.com/FuseKota/omen-manage/app/echoServer/controller/staff"
	"github.com/FuseKota/omen-manage/app/echoServer/validation"
	"github.com/FuseKota/omen-manage/config"
	catalogrepo "github.com/FuseKota/omen-manage/repository/catalog"
	ledgerrepo "github.com/FuseKota/omen-manage/repository/ledger"
	rentalsvc "github.com/FuseKota/omen-manage/service/rental"
	salesvc "github.com/FuseKota/omen-manage/service/sale"
	"github.com/FuseKota/omen-manage/util/clock"
	"github.com/FuseKota/omen-manage/util/database"
)

func main() {

	cfg := config.Load()
	ctx := context.Background()

	// logger
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	// catalog
	cat, err := catalogrepo.LoadFile(cfg.CatalogPath)
	if err != nil {
		log.Error("catalog load failed", "err", err, "path", cfg.CatalogPath)
		os.Exit(1)
	}

	// ledger: Postgres when configured, in-memory otherwise (dev mode)
	var lr ledgerrepo.Repo
	if cfg.DatabaseURL != "" {
		db, err := database.New(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Error("db connect failed", "err", err)
			os.Exit(1)
		}
		defer db.Close()
		lr = ledgerrepo.NewPostgres(db)
		log.Info("ledger", "mode", "postgres")
	} else {
		lr = ledgerrepo.NewMemory()
		log.Warn("ledger", "mode", "memory", "note", "rows are lost on restart")
	}

	clk := clock.System(clock.JST)

	// services
	rsvc := rentalsvc.New(lr, clk)
	ssvc := salesvc.New(cat, lr, clk)

	// controllers
	v := validator.New()
	staffC := &staffctrl.Controller{JWTSecret: cfg.JWTSecret, Passcode: cfg.StaffPasscode, V: v, Log: log}
	catalogC := &catalogctrl.Controller{Cat: cat}
	checkoutC := &checkoutctrl.Controller{Svc: ssvc, V: v, Log: log}
	rentalC := &rentalctrl.Controller{Svc: rsvc, Cat: cat, Clk: clk, V: v, Log: log}

	// echo
	e := echo.New()
	echoServer.RegisterMiddlewares(e)
	e.Validator = validation.New()

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]any{
			"status":  "ok",
			"message": "Service is healthy and connected",
		})
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	echoServer.Register(e, echoServer.C{
		Staff:    staffC,
		Catalog:  catalogC,
		Checkout: checkoutC,
		Rental:   rentalC,

		JWTSecret: cfg.JWTSecret,
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.Port
	}

	slog.Info("starting server", "port", port, "env", cfg.Env)

	e.Logger.Fatal(e.Start(":" + port))
}
