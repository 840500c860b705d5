package controller

import (
	"errors"
	"fmt"
	"os"

	"realtime-chat-be/internal/config"
	"realtime-chat-be/internal/dto"
	"realtime-chat-be/internal/pkg/serverutils"
	"realtime-chat-be/pkg/blobstore"

	"github.com/gofiber/fiber/v2"
)

type IMediaController interface {
	RegisterRoutes(r fiber.Router)
	Upload(ctx *fiber.Ctx) error
	ServeFile(ctx *fiber.Ctx) error
}

type mediaController struct {
	store *blobstore.LocalStore
	cfg   config.MediaConfig
}

func NewMediaController(store *blobstore.LocalStore, cfg config.MediaConfig) IMediaController {
	return &mediaController{
		store: store,
		cfg:   cfg,
	}
}

func (c *mediaController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/media")
	h.Post("/upload", serverutils.JwtMiddleware, c.Upload)
	// Files are fetched by the browser directly via the descriptor URL.
	h.Get("/files/:filename", c.ServeFile)
}

func (c *mediaController) Upload(ctx *fiber.Ctx) error {
	form, err := ctx.MultipartForm()
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid multipart form"})
	}

	files := form.File["media"]
	if len(files) == 0 {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "No files were uploaded"})
	}
	if len(files) > c.cfg.MaxFilesPerSend {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Too many files uploaded"})
	}

	maxSize := int64(c.cfg.MaxUploadSizeMB) * 1024 * 1024
	for _, file := range files {
		if file.Size > maxSize {
			return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": fmt.Sprintf("File is too large. Max size is %dMB.", c.cfg.MaxUploadSizeMB),
			})
		}
	}

	uploader, _ := ctx.Locals("name").(string)

	uploaded := make([]dto.UploadedFileResponse, 0, len(files))
	for _, file := range files {
		attachment, err := c.store.Put(file)
		if err != nil {
			if errors.Is(err, blobstore.ErrUnsupportedType) {
				return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
			}
			return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "An error occurred during upload"})
		}
		uploaded = append(uploaded, dto.UploadedFileResponse{
			MediaAttachmentPayload: dto.MediaAttachmentPayload{
				Filename:     attachment.Filename,
				OriginalName: attachment.OriginalName,
				Mimetype:     attachment.Mimetype,
				Size:         attachment.Size,
				Url:          attachment.Url,
			},
			Uploader: uploader,
		})
	}

	return ctx.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Files uploaded successfully",
		"files":   uploaded,
	})
}

func (c *mediaController) ServeFile(ctx *fiber.Ctx) error {
	path := c.store.Path(ctx.Params("filename"))
	if _, err := os.Stat(path); err != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "File not found"})
	}
	return ctx.SendFile(path)
}
