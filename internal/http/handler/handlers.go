package handler

import (
	"context"
	"io"
	"mime/multipart"
	"strconv"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"portfolioapi/internal/model"
	"portfolioapi/internal/service"
)

// Suggester is the annotation assistant as seen by the HTTP layer.
type Suggester interface {
	Suggest(ctx context.Context, instruction string) (model.Suggestion, error)
	Available() bool
}

// HealthFunc reports whether the service's dependencies are reachable.
type HealthFunc func(ctx context.Context) error

type imageView struct {
	Name string `json:"name"`
	URL  string `json:"url"`
	Size int64  `json:"size"`
}

type uploadResponse struct {
	SessionID string      `json:"session_id"`
	Images    []imageView `json:"images"`
}

type composeRequest struct {
	Selections []model.Selection `json:"selections"`
}

type suggestRequest struct {
	Instruction string `json:"instruction" form:"instruction"`
}

// Landing reports service status. Every visit also sweeps stale uploads.
func Landing(svc service.PortfolioService, sug Suggester) fiber.Handler {
	return func(c *fiber.Ctx) error {
		swept, err := svc.Sweep(c.UserContext())
		if err != nil {
			zerolog.Ctx(c.UserContext()).Warn().Err(err).Msg("sweep failed")
		}
		return c.JSON(fiber.Map{
			"service":             "portfolioapi",
			"status":              "ok",
			"swept":               swept,
			"assistant_available": sug.Available(),
		})
	}
}

// HealthCheck probes dependencies with a short deadline.
func HealthCheck(check HealthFunc) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()
		if err := check(ctx); err != nil {
			return writeError(c, fiber.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "dependency unavailable")
		}
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "healthy"})
	}
}

// LivenessProbe always answers 200.
func LivenessProbe() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	}
}

// UploadImages stages a batch (multipart field "file", repeated) under a fresh session
// and hands the session id back as a cookie.
func UploadImages(svc service.PortfolioService, cookieName string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		form, err := c.MultipartForm()
		if err != nil || len(form.File["file"]) == 0 {
			return writeError(c, fiber.StatusBadRequest, "FILE_REQUIRED", "file is required")
		}

		headers := form.File["file"]
		files := make([]model.UploadFile, 0, len(headers))
		for _, fh := range headers {
			data, err := readFormFile(fh)
			if err != nil {
				return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot open uploaded file")
			}
			files = append(files, model.UploadFile{Name: fh.Filename, Data: data})
		}

		id := uuid.NewString()
		images, err := svc.Upload(c.UserContext(), id, files)
		if err != nil {
			return writeServiceError(c, err)
		}
		if len(images) == 0 {
			return writeError(c, fiber.StatusBadRequest, "NO_VALID_FILES", "only png, jpg and jpeg images are accepted")
		}

		setSessionCookie(c, cookieName, id)
		res := uploadResponse{SessionID: id, Images: make([]imageView, 0, len(images))}
		for _, img := range images {
			res.Images = append(res.Images, imageView{Name: img.Name, URL: "/uploads/" + img.Name, Size: img.Asset.Size})
		}
		return c.Status(fiber.StatusCreated).JSON(res)
	}
}

func readFormFile(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

// PreviewImage serves a staged image of the caller's session.
func PreviewImage(svc service.PortfolioService, cookieName string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		rc, _, err := svc.Preview(c.UserContext(), sessionID(c, cookieName), c.Params("name"))
		if err != nil {
			return writeServiceError(c, err)
		}
		defer rc.Close()

		data, err := io.ReadAll(rc)
		if err != nil {
			return writeServiceError(c, err)
		}
		c.Set(fiber.HeaderContentType, mimetype.Detect(data).String())
		c.Set(fiber.HeaderCacheControl, "private, no-store")
		return c.Send(data)
	}
}

// Suggest proposes a title and description from a free-form instruction.
func Suggest(sug Suggester) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req suggestRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}
		s, err := sug.Suggest(c.UserContext(), req.Instruction)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(s)
	}
}

// ComposePortfolio renders the selected images and returns the PDF as a download.
// X-Portfolio-Pages counts rendered images; a document with none still holds one blank page.
// The session is consumed either way, so the cookie is cleared.
func ComposePortfolio(svc service.PortfolioService, cookieName string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req composeRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}

		doc, err := svc.Compose(c.UserContext(), sessionID(c, cookieName), req.Selections)
		if err != nil {
			return writeServiceError(c, err)
		}

		c.ClearCookie(cookieName)
		c.Set(fiber.HeaderContentType, doc.ContentType)
		c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+doc.Filename+`"`)
		c.Set("X-Portfolio-Pages", strconv.Itoa(len(doc.Report.Rendered)))
		c.Set("X-Portfolio-Skipped", strconv.Itoa(len(doc.Report.Skipped)))
		return c.Send(doc.Bytes)
	}
}
