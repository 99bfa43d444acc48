package handlers

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"jobify/cv-scorer/internal/locale"
	"jobify/cv-scorer/internal/models"
	"jobify/cv-scorer/internal/services"
)

var allowedMIMETypes = []string{
	"application/pdf",
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	"image/jpeg",
	"image/png",
}

var validate = validator.New()

type ScoreHandler struct {
	storage       services.StorageService
	worker        services.Worker
	maxFileSize   int64
	defaultLocale locale.Locale
	logger        *zap.Logger
}

func NewScoreHandler(
	storage services.StorageService,
	worker services.Worker,
	maxFileSize int64,
	defaultLocale locale.Locale,
	logger *zap.Logger,
) *ScoreHandler {
	return &ScoreHandler{
		storage:       storage,
		worker:        worker,
		maxFileSize:   maxFileSize,
		defaultLocale: defaultLocale,
		logger:        logger,
	}
}

// HandleScore handles POST /cv-score
func (h *ScoreHandler) HandleScore(c *fiber.Ctx) error {
	loc := h.locale(c)

	file, err := c.FormFile("cvFile")
	if err != nil {
		return sendError(c, fiber.StatusBadRequest, loc, locale.MsgMissingFile)
	}

	var form models.ScoreUploadForm
	if err := c.BodyParser(&form); err != nil {
		return sendError(c, fiber.StatusBadRequest, loc, locale.MsgInvalidJobID)
	}
	if err := validate.Struct(&form); err != nil {
		return sendError(c, fiber.StatusBadRequest, loc, locale.MsgInvalidJobID)
	}

	if file.Size > h.maxFileSize {
		return sendError(c, fiber.StatusRequestEntityTooLarge, loc, locale.MsgFileTooLarge)
	}

	declared, ok := detectMIME(file)
	if !ok {
		h.logger.Info("rejected upload", zap.String("file", file.Filename), zap.String("mime", declared))
		return sendError(c, fiber.StatusUnsupportedMediaType, loc, locale.MsgUnsupportedFormat)
	}

	doc, err := h.storage.SaveUpload(file)
	if err != nil {
		h.logger.Error("❌ Failed to store upload", zap.Error(err))
		return sendError(c, fiber.StatusInternalServerError, loc, locale.MsgInternal)
	}
	doc.DeclaredFormat = declared

	return h.run(c, doc, form.JobID, loc)
}

// HandleDemo handles POST /cv-score/demo
func (h *ScoreHandler) HandleDemo(c *fiber.Ctx) error {
	loc := h.locale(c)

	var req models.DemoRequest
	if err := c.BodyParser(&req); err != nil {
		return sendError(c, fiber.StatusBadRequest, loc, locale.MsgInvalidJobID)
	}
	if err := validate.Struct(&req); err != nil {
		return sendError(c, fiber.StatusBadRequest, loc, locale.MsgInvalidJobID)
	}

	return h.run(c, nil, req.JobID, loc)
}

func (h *ScoreHandler) run(c *fiber.Ctx, doc *models.RawDocument, jobID uint, loc locale.Locale) error {
	// the SSE writer outlives the fiber handler, so the task gets its own context
	ctx, cancel := context.WithCancel(context.Background())
	task := services.NewScoringTask(ctx, doc, jobID, loc)

	if err := h.worker.Enqueue(task); err != nil {
		cancel()
		code, body := errorResponse(err, loc)
		return c.Status(code).JSON(body)
	}

	if wantsEventStream(c) {
		h.stream(c, task, cancel)
		return nil
	}

	defer cancel()

	var events []models.ProgressEvent
	for ev := range task.Events {
		events = append(events, ev)
	}

	if task.Err != nil {
		code, body := errorResponse(task.Err, loc)
		return c.Status(code).JSON(body)
	}

	return c.JSON(models.ScoreResponse{
		Success:  true,
		Data:     task.Report,
		Analysis: task.Analysis,
		Progress: events,
	})
}

// stream sends progress events followed by one result or error event.
func (h *ScoreHandler) stream(c *fiber.Ctx, task *services.ScoringTask, cancel context.CancelFunc) {
	c.Set(fiber.HeaderContentType, "text/event-stream")
	c.Set(fiber.HeaderCacheControl, "no-cache")
	c.Set(fiber.HeaderConnection, "keep-alive")
	c.Set("X-Accel-Buffering", "no")

	loc := task.Locale
	c.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		defer cancel()

		for ev := range task.Events {
			if err := writeEvent(w, "progress", ev); err != nil {
				h.logger.Info("client left the progress stream", zap.String("task_id", task.ID.String()), zap.Error(err))
				return
			}
		}

		if task.Err != nil {
			_, body := errorResponse(task.Err, loc)
			writeEvent(w, "error", body)
			return
		}

		writeEvent(w, "result", models.ScoreResponse{
			Success:  true,
			Data:     task.Report,
			Analysis: task.Analysis,
		})
	}))
}

func writeEvent(w *bufio.Writer, event string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode %s event: %w", event, err)
	}
	if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, data); err != nil {
		return err
	}
	return w.Flush()
}

func wantsEventStream(c *fiber.Ctx) bool {
	return strings.Contains(c.Get(fiber.HeaderAccept), "text/event-stream")
}

func (h *ScoreHandler) locale(c *fiber.Ctx) locale.Locale {
	return locale.FromAcceptLanguage(c.Get(fiber.HeaderAcceptLanguage), h.defaultLocale)
}

// detectMIME returns the upload's media type and whether it is accepted.
// Missing or generic declarations are sniffed from the content.
func detectMIME(file *multipart.FileHeader) (string, bool) {
	declared := strings.ToLower(strings.TrimSpace(strings.Split(file.Header.Get(fiber.HeaderContentType), ";")[0]))
	if declared == "image/jpg" {
		declared = "image/jpeg"
	}

	if declared == "" || declared == fiber.MIMEOctetStream {
		f, err := file.Open()
		if err != nil {
			return declared, false
		}
		defer f.Close()

		mt, err := mimetype.DetectReader(f)
		if err != nil {
			return declared, false
		}
		for _, allowed := range allowedMIMETypes {
			if mt.Is(allowed) {
				return allowed, true
			}
		}
		return mt.String(), false
	}

	for _, allowed := range allowedMIMETypes {
		if declared == allowed {
			return declared, true
		}
	}
	return declared, false
}
