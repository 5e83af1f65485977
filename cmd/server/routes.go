package main

import (
	"github.com/goliatone/go-timeline/rest"
)

// RegisterAPIRoutes mounts the timeline read endpoints under /api
func RegisterAPIRoutes(app *App) {
	api := app.srv.Router().Group("/api")

	queries := app.timeline.Queries()
	handlers := rest.NewHandlers(
		queries.EventPage,
		queries.Timeline,
		&loggerAdapter{app.GetLogger("api")},
	)

	api.Get("/events", handlers.Events())
	api.Get("/timeline", handlers.Timeline())
}
