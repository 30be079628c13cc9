// Package httpapi exposes the CampusLink services as a JSON HTTP API built
// on fiber.
package httpapi

import (
	"context"
	"time"

	"github.com/dmitrijs2005/campuslink/internal/logging"
	"github.com/dmitrijs2005/campuslink/internal/server/models"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

const (
	healthTimeout = 2 * time.Second
	// requestTimeout bounds every request's user context, and with it the
	// database work the request starts.
	requestTimeout = 30 * time.Second
)

type Server struct {
	address   string
	app       *fiber.App
	logger    logging.Logger
	gate      *Gate
	validator *Validator
	svc       Services
	db        Pinger
}

func NewServer(address string, l logging.Logger, gate *Gate, svc Services, db Pinger) *Server {
	s := &Server{
		address:   address,
		logger:    l.With("module", "http_server"),
		gate:      gate,
		validator: MustValidator(),
		svc:       svc,
		db:        db,
	}

	s.app = fiber.New(fiber.Config{
		AppName:               "CampusLink",
		DisableStartupMessage: true,
		UnescapePath:          true,
		ErrorHandler:          s.errorHandler,
	})
	s.app.Use(recover.New())
	s.app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))
	s.app.Use(cors.New())
	s.app.Use(requestContext(requestTimeout))

	s.routes()
	return s
}

// App returns the underlying fiber application.
func (s *Server) App() *fiber.App {
	return s.app
}

func (s *Server) routes() {
	authn := s.gate.Authenticate(TrustClaims)
	reload := s.gate.Authenticate(ReloadIdentity)
	staffOrAdmin := s.gate.RequireRole(models.RoleStaff, models.RoleAdmin)
	adminOnly := s.gate.RequireRole(models.RoleAdmin)

	s.app.Get("/", s.root)
	s.app.Get("/health", s.health)

	api := s.app.Group("/api")

	a := api.Group("/auth")
	a.Post("/register", s.register)
	a.Post("/login", s.login)
	a.Post("/logout", authn, s.logout)
	a.Get("/me", reload, s.me)

	api.Get("/secure/secure-data", authn, s.secureData)

	an := api.Group("/announcements")
	an.Get("/", s.listAnnouncements)
	an.Post("/", reload, staffOrAdmin, s.createAnnouncement)
	an.Put("/:id", reload, adminOnly, s.updateAnnouncement)
	an.Delete("/:id", reload, adminOnly, s.deleteAnnouncement)

	cm := api.Group("/complaints")
	cm.Get("/", authn, s.listComplaints)
	cm.Get("/stats", reload, adminOnly, s.complaintStats)
	cm.Post("/", authn, s.createComplaint)
	cm.Put("/:id/status", reload, staffOrAdmin, s.updateComplaintStatus)
	cm.Put("/:id/priority", reload, adminOnly, s.updateComplaintPriority)
	cm.Delete("/:id", reload, s.deleteComplaint)

	lf := api.Group("/lostfound", authn)
	lf.Get("/", s.listItems)
	lf.Post("/", s.createItem)
	lf.Put("/:id/status", s.updateItemStatus)
	lf.Delete("/:id", s.deleteItem)
	lf.Post("/:id/photo", s.itemPhotoUpload)
	lf.Get("/:id/photo", s.itemPhoto)

	tt := api.Group("/timetable", authn)
	tt.Get("/", s.listClasses)
	tt.Post("/", s.createClass)
	tt.Delete("/slot/:day/:time", s.deleteSlot)
	tt.Put("/:id", s.updateClass)
	tt.Delete("/:id", s.deleteClass)
}

func (s *Server) root(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"message": "CampusLink Backend API is running"})
}

func (s *Server) health(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), healthTimeout)
	defer cancel()

	if err := s.db.PingContext(ctx); err != nil {
		s.logger.Warn(ctx, "health check failed", "error", err)
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "unavailable", "database": "down"})
	}
	return c.JSON(fiber.Map{"status": "ok", "database": "up"})
}

// requestContext gives each request a context that expires after timeout and
// is cancelled once the handler chain returns. fasthttp does not report client
// disconnects, so the deadline is the only bound on abandoned work.
func requestContext(timeout time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), timeout)
		defer cancel()
		c.SetUserContext(ctx)
		return c.Next()
	}
}

// Run serves until Shutdown is called or the listener fails. A clean
// shutdown returns nil.
func (s *Server) Run(ctx context.Context) error {
	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)
	return s.app.Listen(s.address)
}

// Shutdown stops accepting connections and waits for in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info(ctx, "Stopping HTTP server...")
	return s.app.ShutdownWithContext(ctx)
}
