package controller

import (
	"io"

	"ai-docchat-be/internal/dto"
	"ai-docchat-be/internal/pkg/serverutils"
	"ai-docchat-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IDocumentController interface {
	RegisterRoutes(r fiber.Router)
	Upload(ctx *fiber.Ctx) error
	List(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
}

type documentController struct {
	documentService service.IDocumentService
}

func NewDocumentController(documentService service.IDocumentService) IDocumentController {
	return &documentController{
		documentService: documentService,
	}
}

func (c *documentController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/interaction/v1/:interactionId/document")
	h.Use(serverutils.JwtMiddleware)
	h.Post("", c.Upload)
	h.Get("", c.List)
	h.Delete(":id", c.Delete)
}

func (c *documentController) Upload(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	interactionId, err := uuid.Parse(ctx.Params("interactionId"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid interaction id")
	}

	form, err := ctx.MultipartForm()
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Expected multipart form upload")
	}
	fileHeaders := form.File["files"]
	if len(fileHeaders) == 0 {
		return fiber.NewError(fiber.StatusBadRequest, "No files provided under 'files'")
	}

	files := make([]dto.UploadFile, 0, len(fileHeaders))
	for _, header := range fileHeaders {
		f, err := header.Open()
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Failed to read uploaded file")
		}
		data, err := io.ReadAll(f)
		_ = f.Close()
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Failed to read uploaded file")
		}
		files = append(files, dto.UploadFile{
			FileName:    header.Filename,
			ContentType: header.Header.Get("Content-Type"),
			Data:        data,
		})
	}

	res, err := c.documentService.Upload(ctx.Context(), userId, interactionId, files)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Upload processed", res))
}

func (c *documentController) List(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	interactionId, err := uuid.Parse(ctx.Params("interactionId"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid interaction id")
	}

	res, err := c.documentService.List(ctx.Context(), userId, interactionId)
	if err != nil {
		return err
	}
	if res == nil {
		return ctx.Status(fiber.StatusNotFound).JSON(serverutils.ErrorResponse(404, "Interaction not found"))
	}
	return ctx.JSON(serverutils.SuccessResponse("Document list", res))
}

func (c *documentController) Delete(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	interactionId, err := uuid.Parse(ctx.Params("interactionId"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid interaction id")
	}
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid document id")
	}

	if err := c.documentService.Delete(ctx.Context(), userId, interactionId, id); err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success delete document", nil))
}
