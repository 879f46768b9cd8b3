package routes

import (
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/sportleague/league-system/handlers"
	"github.com/sportleague/league-system/middleware"
	"github.com/sportleague/league-system/models"
)

// SetupRoutes собирает дерево маршрутов. Грубая ролевая фильтрация живёт
// здесь, проверки владения (тренер своей команды, организатор своего
// события) — в сервисах.
func SetupRoutes(
	router *chi.Mux,
	auth *middleware.Authenticator,
	authHandler *handlers.AuthHandler,
	memberHandler *handlers.MemberHandler,
	teamHandler *handlers.TeamHandler,
	eventHandler *handlers.EventHandler,
	matchHandler *handlers.MatchHandler,
	venueHandler *handlers.VenueHandler,
	equipmentHandler *handlers.EquipmentHandler,
	webSocketHandler *handlers.WebSocketHandler,
) {
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	borrowerRoles := []models.Role{
		models.RoleAdmin, models.RoleEqManager, models.RoleCoach,
		models.RolePlayer, models.RoleOrganizer,
	}

	router.Post("/auth/login", authHandler.Login)

	router.Route("/members", func(r chi.Router) {
		r.Use(auth.Authenticate)

		r.Get("/{memberID}", memberHandler.GetMemberByID)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Authorize(models.RoleAdmin))
			r.Post("/", memberHandler.CreateMember)
			r.Delete("/{memberID}", memberHandler.DeleteMember)
		})
	})

	router.Group(func(r chi.Router) {
		r.Use(auth.Authenticate)
		r.Get("/profile", memberHandler.GetProfile)
	})

	router.Route("/teams", func(r chi.Router) {
		r.Get("/", teamHandler.ListTeams)
		r.Get("/{teamID}", teamHandler.GetTeamByID)

		r.Group(func(r chi.Router) {
			r.Use(auth.Authenticate)
			r.Use(middleware.Authorize(models.RoleAdmin, models.RoleCoach))

			r.Post("/", teamHandler.CreateTeam)
			r.Put("/{teamID}", teamHandler.UpdateTeam)
			r.Delete("/{teamID}", teamHandler.DeleteTeam)
			r.Post("/{teamID}/logo", teamHandler.UploadLogo)

			r.Post("/{teamID}/events/{eventID}/players", teamHandler.AddPlayer)
			r.Delete("/{teamID}/events/{eventID}/players/{memberID}", teamHandler.RemovePlayer)
		})

		r.Group(func(r chi.Router) {
			r.Use(auth.Authenticate)
			r.Get("/{teamID}/events/{eventID}/players", teamHandler.ListPlayers)
		})
	})

	router.Route("/events", func(r chi.Router) {
		r.Get("/", eventHandler.ListEvents)
		r.Get("/{eventID}", eventHandler.GetEventByID)
		r.Get("/{eventID}/registrations", eventHandler.ListRegistrations)

		r.Group(func(r chi.Router) {
			r.Use(auth.Authenticate)
			r.Use(middleware.Authorize(models.RoleAdmin, models.RoleOrganizer))

			r.Post("/", eventHandler.CreateEvent)
			r.Put("/{eventID}", eventHandler.UpdateEvent)
			r.Delete("/{eventID}", eventHandler.DeleteEvent)
		})

		r.Group(func(r chi.Router) {
			r.Use(auth.Authenticate)
			r.Use(middleware.Authorize(models.RoleAdmin, models.RoleCoach))

			r.Post("/{eventID}/registrations", eventHandler.RegisterTeam)
			r.Delete("/{eventID}/registrations/{teamID}", eventHandler.UnregisterTeam)
		})
	})

	router.Route("/matches", func(r chi.Router) {
		r.Get("/", matchHandler.ListMatches)
		r.Get("/{matchID}", matchHandler.GetMatchByID)

		r.Group(func(r chi.Router) {
			r.Use(auth.Authenticate)
			r.Use(middleware.Authorize(models.RoleAdmin, models.RoleOrganizer))

			r.Post("/", matchHandler.ScheduleMatch)
			r.Post("/check", matchHandler.CheckConflicts)
			r.Delete("/{matchID}", matchHandler.DeleteMatch)
		})

		r.Group(func(r chi.Router) {
			r.Use(auth.Authenticate)
			r.Use(middleware.Authorize(models.RoleAdmin, models.RoleReferee))

			r.Put("/{matchID}/score", matchHandler.UpdateScore)
		})
	})

	router.Route("/venues", func(r chi.Router) {
		r.Get("/", venueHandler.ListVenues)
		r.Get("/{venueID}", venueHandler.GetVenueByID)

		r.Group(func(r chi.Router) {
			r.Use(auth.Authenticate)
			r.Use(middleware.Authorize(models.RoleAdmin, models.RoleOrganizer))

			r.Post("/", venueHandler.CreateVenue)
			r.Put("/{venueID}", venueHandler.UpdateVenue)
			r.Delete("/{venueID}", venueHandler.DeleteVenue)
		})
	})

	router.Route("/equipment", func(r chi.Router) {
		r.Use(auth.Authenticate)

		r.Get("/", equipmentHandler.ListEquipment)
		r.Get("/{equipmentID}", equipmentHandler.GetEquipmentByID)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Authorize(models.RoleAdmin, models.RoleEqManager))

			r.Post("/", equipmentHandler.CreateEquipment)
			r.Put("/{equipmentID}", equipmentHandler.UpdateEquipment)
			r.Delete("/{equipmentID}", equipmentHandler.DeleteEquipment)
			r.Get("/logs", equipmentHandler.ListLogs)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.Authorize(borrowerRoles...))

			r.Post("/{equipmentID}/borrow", equipmentHandler.BorrowEquipment)
			r.Put("/logs/{logID}/return", equipmentHandler.ReturnEquipment)
		})
	})

	router.Get("/ws/events/{eventID}", webSocketHandler.ServeEventWs)
}
