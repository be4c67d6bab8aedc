package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/greenloophq/greenloop/config"
	"github.com/greenloophq/greenloop/db"
	"github.com/greenloophq/greenloop/mailingservices"
	"github.com/greenloophq/greenloop/services"
)

type Server struct {
	Config              *config.Config
	Mail                mailingservices.Mailer
	AuthRepository      db.AuthRepository
	AuthService         services.AuthService
	ReportService       services.ReportService
	CollectionService   services.CollectionService
	RewardService       services.RewardService
	NotificationService services.NotificationService
	MediaService        services.MediaService
	DB                  db.GormDB
}

// Start runs the HTTP server until an interrupt, then drains in-flight
// requests.
func (s *Server) Start() {
	port := s.Config.Port
	if port == 0 {
		port = 8080
	}

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: s.setupRouter(),
	}

	go func() {
		log.Printf("listening on :%d", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}
	log.Println("server exited")
}
