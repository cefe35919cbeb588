package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/babralau/timesheet-web-go/internal/config"
	appHTTP "github.com/babralau/timesheet-web-go/internal/handler/http"
	"github.com/babralau/timesheet-web-go/internal/pkg/jwt"
	"github.com/babralau/timesheet-web-go/internal/pkg/oauth"
	"github.com/babralau/timesheet-web-go/internal/pkg/upstream"
	exportService "github.com/babralau/timesheet-web-go/internal/service/export"
	timesheetService "github.com/babralau/timesheet-web-go/internal/service/timesheet"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	level := slog.LevelInfo
	if cfg.App.LogLevel == "debug" {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))

	upstreamClient := upstream.NewClient(cfg.Upstream.BaseURL, cfg.Upstream.Timeout, logger)

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)
	var GoogleService oauth.GoogleService
	if cfg.GoogleEnabled() {
		GoogleService = oauth.NewGoogleService(cfg.OAuth2Google.ClientID, cfg.OAuth2Google.ClientSecret, cfg.OAuth2Google.RedirectURL, cfg.OAuth2Google.Scopes)
	}

	timesheetSvc := timesheetService.NewService(upstreamClient, logger)
	exportSvc := exportService.NewService(logger)

	authHandler := appHTTP.NewAuthHandler(upstreamClient, JWTService, GoogleService, logger)
	timesheetHandler := appHTTP.NewTimesheetHandler(timesheetSvc, logger)
	exportHandler := appHTTP.NewExportHandler(upstreamClient, exportSvc, logger)

	router := appHTTP.NewRouter(
		cfg,
		JWTService,
		authHandler,
		timesheetHandler,
		exportHandler,
	)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	fmt.Printf("Server running at http://localhost%s\n", port)
	if err := http.ListenAndServe(port, router); err != nil {
		fmt.Println("Server error:", err)
	}
}
