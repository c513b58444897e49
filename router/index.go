package router

import (
	"cinema_booking/handler"
	"cinema_booking/middleware"
	"cinema_booking/validate"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
)

func SetupRoutes(app *fiber.App) {
	api := app.Group("/api", logger.New())

	auth := api.Group("/auth")
	auth.Post("/register", validate.Register(), handler.Register)
	auth.Post("/login", validate.Login(), handler.Login)
	auth.Post("/refresh", validate.Refresh(), handler.RefreshToken)
	auth.Get("/me", middleware.Protected(), handler.Me)

	movie := api.Group("/movies")
	movie.Get("/", handler.GetMovies)
	movie.Get("/genres", handler.GetGenres)
	movie.Get("/slug/:slug", handler.GetMovieBySlug)
	movie.Get("/:movieId", validate.GetById("movieId"), handler.GetMovieById)
	movie.Post("/", middleware.Protected(), middleware.AdminOnly(), validate.CreateMovie(), handler.CreateMovie)
	movie.Put("/:movieId", middleware.Protected(), middleware.AdminOnly(), validate.EditMovie("movieId"), handler.EditMovie)
	movie.Patch("/:movieId", middleware.Protected(), middleware.AdminOnly(), validate.EditMovie("movieId"), handler.EditMovie)
	movie.Delete("/:movieId", middleware.Protected(), middleware.AdminOnly(), validate.GetById("movieId"), handler.DeleteMovie)
	movie.Post("/:movieId/poster", middleware.Protected(), middleware.AdminOnly(), validate.GetById("movieId"), handler.UploadMoviePoster)

	auditorium := api.Group("/auditoriums")
	auditorium.Get("/", handler.GetAuditoriums)
	auditorium.Get("/:auditoriumId", validate.GetById("auditoriumId"), handler.GetAuditoriumById)
	auditorium.Post("/", middleware.Protected(), middleware.AdminOnly(), validate.CreateAuditorium(), handler.CreateAuditorium)
	auditorium.Delete("/:auditoriumId", middleware.Protected(), middleware.AdminOnly(), validate.GetById("auditoriumId"), handler.DeleteAuditorium)

	api.Get("/projection-types", handler.GetProjectionTypes)
	api.Get("/ticket-types", handler.GetTicketTypes)

	screening := api.Group("/screenings")
	screening.Get("/", middleware.OptionalJWT(), handler.GetScreenings)
	screening.Get("/:screeningId", middleware.OptionalJWT(), validate.GetById("screeningId"), handler.GetScreeningById)
	screening.Get("/:screeningId/seats", validate.GetById("screeningId"), handler.GetScreeningSeats)
	// live seat map; clients reconnect on drop and always get a full snapshot
	screening.Get("/:screeningId/seats/live", websocket.New(handler.SeatWebsocket))
	screening.Post("/", middleware.Protected(), middleware.AdminOnly(), validate.CreateScreening(), handler.CreateScreening)
	screening.Put("/:screeningId", middleware.Protected(), middleware.AdminOnly(), validate.EditScreening("screeningId"), handler.EditScreening)
	screening.Patch("/:screeningId", middleware.Protected(), middleware.AdminOnly(), validate.EditScreening("screeningId"), handler.EditScreening)
	screening.Delete("/:screeningId", middleware.Protected(), middleware.AdminOnly(), validate.DeleteScreening("screeningId"), handler.DeleteScreening)

	// checkout endpoints live at the root, outside /api
	app.Post("/tickets/purchase", middleware.OptionalJWT(), validate.Purchase(), handler.PurchaseTickets)
	app.Post("/reservations", middleware.OptionalJWT(), validate.CreateReservation(), handler.CreateReservation)
	app.Post("/reservations/:reservationId/purchase", middleware.OptionalJWT(), validate.FinalizeReservation("reservationId"), handler.FinalizeReservation)
	app.Post("/check-promotion", validate.CheckPromotion(), handler.CheckPromotion)

	ticket := api.Group("/tickets")
	ticket.Get("/", middleware.Protected(), middleware.AdminOnly(), handler.GetTickets)
	ticket.Get("/mine", middleware.Protected(), handler.GetMyTickets)
	ticket.Get("/order/:orderNumber", middleware.Protected(), handler.GetOrder)
	ticket.Patch("/:ticketId/refund", middleware.Protected(), middleware.AdminOnly(), validate.GetById("ticketId"), handler.RefundTicket)

	promotion := api.Group("/promotions")
	promotion.Get("/", handler.GetPromotions)
	promotion.Post("/", middleware.Protected(), middleware.AdminOnly(), validate.CreatePromotion(), handler.CreatePromotion)
	promotion.Delete("/:promotionId", middleware.Protected(), middleware.AdminOnly(), validate.GetById("promotionId"), handler.DeletePromotion)
}
