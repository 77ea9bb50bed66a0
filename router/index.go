package router

import (
	"queue_manager/handler"
	"queue_manager/middleware"
	"queue_manager/validate"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
)

func SetupRoutes(app *fiber.App) {
	api := app.Group("/api", logger.New())
	v1 := api.Group("/v1", logger.New())

	v1.Get("/health", handler.Health)

	auth := v1.Group("/auth")
	auth.Post("/login", handler.Login)
	auth.Post("/refresh-token", handler.RefreshToken)
	auth.Get("/me", middleware.Protected(), handler.Me)

	// public: participant tự lấy vé bằng event code, không cần đăng nhập
	public := v1.Group("/public", logger.New())
	public.Post("/ticket", validate.CreateTicket(), handler.CreateTicket)
	public.Get("/ticket/:ticketId", validate.GetById("ticketId"), handler.GetTicketById)
	public.Get("/ticket/:ticketId/position", validate.GetById("ticketId"), handler.GetTicketPosition)
	public.Get("/ticket/:ticketId/qr", validate.GetById("ticketId"), handler.TicketQR)
	public.Put("/ticket/:ticketId", validate.UpdateTicketPublic("ticketId"), handler.UpdateTicketPublic)
	public.Post("/ticket/:ticketId/cancel", validate.CancelTicketPublic("ticketId"), handler.CancelTicketPublic)
	public.Get("/session/:sessionId/tickets", handler.GetTicketsBySession)
	public.Get("/session/:sessionId/notifications", handler.GetUnsentNotifications)
	public.Post("/notification/:notificationId/sent", validate.GetById("notificationId"), handler.MarkNotificationSent)

	event := v1.Group("/event", logger.New())
	event.Get("/", middleware.Protected(), handler.GetEvents)
	event.Get("/:eventId", middleware.Protected(), validate.GetById("eventId"), handler.GetEventById)
	event.Post("/", middleware.Protected(), validate.CreateEvent(), handler.CreateEvent)
	event.Put("/:eventId", middleware.Protected(), validate.UpdateEvent("eventId"), handler.UpdateEvent)
	event.Delete("/:eventId", middleware.Protected(), validate.GetById("eventId"), handler.DeleteEvent)
	event.Get("/:eventId/queues", middleware.Protected(), validate.GetById("eventId"), handler.GetQueuesByEvent)

	queue := v1.Group("/queue", logger.New())
	queue.Get("/:queueId", middleware.Protected(), validate.GetById("queueId"), handler.GetQueueById)
	queue.Post("/", middleware.Protected(), validate.CreateQueue(), handler.CreateQueue)
	queue.Put("/:queueId", middleware.Protected(), validate.UpdateQueue("queueId"), handler.UpdateQueue)
	queue.Delete("/:queueId", middleware.Protected(), validate.DeleteQueue("queueId"), handler.DeleteQueue)
	queue.Get("/:queueId/status", middleware.Protected(), validate.GetById("queueId"), handler.GetQueueStatus)
	queue.Get("/:queueId/tickets", middleware.Protected(), validate.GetById("queueId"), handler.GetTicketsByQueue)
	queue.Post("/:queueId/call-next", middleware.Protected(), validate.GetById("queueId"), handler.CallNext)
	queue.Post("/:queueId/reset", middleware.Protected(), validate.GetById("queueId"), handler.ResetQueue)

	ticket := v1.Group("/ticket", logger.New())
	ticket.Get("/:ticketId", middleware.Protected(), validate.GetById("ticketId"), handler.GetTicketById)
	ticket.Put("/:ticketId", middleware.Protected(), validate.UpdateTicket("ticketId"), handler.UpdateTicket)
	ticket.Delete("/:ticketId", middleware.Protected(), validate.DeleteTicket("ticketId"), handler.DeleteTicket)
	ticket.Post("/:ticketId/call", middleware.Protected(), validate.TicketAction("ticketId"), handler.CallTicket)
	ticket.Post("/:ticketId/complete", middleware.Protected(), validate.TicketAction("ticketId"), handler.CompleteTicket)
	ticket.Post("/:ticketId/cancel", middleware.Protected(), validate.TicketAction("ticketId"), handler.CancelTicket)
	ticket.Post("/:ticketId/move", middleware.Protected(), validate.MoveTicket("ticketId"), handler.MoveTicket)

	analytics := v1.Group("/analytics", logger.New())
	analytics.Get("/event/:eventId", middleware.Protected(), validate.GetById("eventId"), handler.GetEventAnalytics)
	analytics.Get("/event/:eventId/volume", middleware.Protected(), validate.GetById("eventId"), handler.GetTicketVolume)
	analytics.Get("/queue/:queueId", middleware.Protected(), validate.GetById("queueId"), handler.GetQueueAnalytics)

	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws/ticket/:ticketId", websocket.New(handler.TicketWS))
	app.Get("/ws/notifications/:sessionId", websocket.New(handler.NotificationWS))
}
