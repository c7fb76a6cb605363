// Package httpapi exposes the frame pipeline over HTTP.
package httpapi

import (
	"log/slog"
	"strconv"

	"github.com/gofiber/fiber/v2"
	fiberrecover "github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/pkg/errors"

	"github.com/abihf/visionedge"
	"github.com/abihf/visionedge/frame"
)

// MaxFrameBytes bounds request bodies: 4096x4096 with 4 channels.
const MaxFrameBytes = 4096 * 4096 * frame.Channels

type Server struct {
	app    *fiber.App
	logger *slog.Logger
}

func New(logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{logger: logger}

	app := fiber.New(fiber.Config{
		AppName:               "VisionEdge",
		DisableStartupMessage: true,
		BodyLimit:             MaxFrameBytes,
	})

	app.Use(fiberrecover.New())

	api := app.Group("/api")
	api.Get("/init", s.handleInit)
	api.Post("/frames", s.handleProcess)

	s.app = app
	return s
}

// App returns the underlying fiber app.
func (s *Server) App() *fiber.App {
	return s.app
}

func (s *Server) Listen(addr string) error {
	s.logger.Info("HTTP API listening", "addr", addr)
	return s.app.Listen(addr)
}

func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

func (s *Server) handleInit(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"message": visionedge.Initialize()})
}

func (s *Server) handleProcess(c *fiber.Ctx) error {
	width, err := positiveQuery(c, "width")
	if err != nil {
		return badRequest(c, err)
	}
	height, err := positiveQuery(c, "height")
	if err != nil {
		return badRequest(c, err)
	}
	mode, err := frame.ParseMode(c.Query("mode"))
	if err != nil {
		return badRequest(c, err)
	}

	out, err := visionedge.ProcessFrame(c.Body(), width, height, int32(mode))
	if err != nil {
		if errors.Cause(err) == frame.ErrBufferTooSmall {
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
				"error": err.Error(),
				"code":  "buffer_too_small",
			})
		}
		s.logger.Error("Frame processing failed", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
			"code":  "internal",
		})
	}

	c.Set(fiber.HeaderContentType, fiber.MIMEOctetStream)
	c.Set("X-Frame-Width", strconv.Itoa(int(width)))
	c.Set("X-Frame-Height", strconv.Itoa(int(height)))
	return c.Send(out)
}

func positiveQuery(c *fiber.Ctx, key string) (int32, error) {
	v, err := strconv.ParseInt(c.Query(key), 10, 32)
	if err != nil || v <= 0 {
		return 0, errors.Errorf("%s must be a positive integer", key)
	}
	return int32(v), nil
}

func badRequest(c *fiber.Ctx, err error) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"error": err.Error(),
		"code":  "bad_request",
	})
}
