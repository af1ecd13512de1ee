package app

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/univent/univent/internal/auth"
	"github.com/univent/univent/internal/config"
	"github.com/univent/univent/pkg/attachment"
	"github.com/univent/univent/pkg/club"
	"github.com/univent/univent/pkg/event"
	"github.com/univent/univent/pkg/faculty"
	"github.com/univent/univent/pkg/user"
)

// Dependencies holds all services and handlers for the application.
type Dependencies struct {
	Issuer *auth.Issuer

	FacultyService faculty.Service
	FacultyHandler *faculty.Handler

	UserService user.Service
	UserHandler *user.Handler

	ClubService club.Service
	ClubHandler *club.Handler

	AttachmentStore attachment.Store

	EventService event.Service
	EventHandler *event.Handler
}

// BuildDependencies initializes and wires all application services and handlers.
func BuildDependencies(db *sql.DB, cfg config.Application) (*Dependencies, error) {
	deps := &Dependencies{}

	ttl, err := time.ParseDuration(cfg.Auth.TokenTTL)
	if err != nil {
		return nil, fmt.Errorf("invalid auth.tokenttl: %w", err)
	}
	deps.Issuer = auth.NewIssuer(cfg.Auth.Secret, ttl)

	deps.FacultyService = faculty.NewFacultyService(faculty.NewFacultyRepo(db))
	deps.FacultyHandler = faculty.NewHandler(deps.FacultyService)

	deps.UserService = user.NewUserService(user.NewUserRepo(db), deps.FacultyService)
	deps.UserHandler = user.NewHandler(deps.UserService, deps.Issuer)

	deps.ClubService = club.NewClubService(club.NewClubRepo(db))
	deps.ClubHandler = club.NewHandler(deps.ClubService)

	deps.AttachmentStore, err = attachment.NewGCSStore(context.Background(), cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize attachment store: %w", err)
	}

	deps.EventService = event.NewEventService(event.NewEventRepo(db), deps.AttachmentStore, deps.UserService, deps.ClubService)
	deps.EventHandler = event.NewHandler(deps.EventService)

	return deps, nil
}
