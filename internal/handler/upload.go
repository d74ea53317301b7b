package handler

import (
	"errors"
	"net/http"

	"agency-checkout/internal/dto"
	"agency-checkout/internal/service"

	"github.com/labstack/echo/v4"
)

type UploadHandler struct {
	uploadService service.UploadService
}

func NewUploadHandler(uploadService service.UploadService) *UploadHandler {
	return &UploadHandler{
		uploadService: uploadService,
	}
}

// Upload accepts a multipart form under the "files" field and stores each
// part in the attachment bucket.
func (h *UploadHandler) Upload(c echo.Context) error {
	ctx := c.Request().Context()
	orderID := c.Param("orderID")

	form, err := c.MultipartForm()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid multipart form")
	}

	parts := form.File["files"]
	if len(parts) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "no files attached")
	}

	files := make([]service.UploadFile, 0, len(parts))
	opened := make([]interface{ Close() error }, 0, len(parts))
	defer func() {
		for _, f := range opened {
			f.Close()
		}
	}()

	for _, part := range parts {
		src, err := part.Open()
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "unreadable file part")
		}
		opened = append(opened, src)

		files = append(files, service.UploadFile{
			Name:        part.Filename,
			ContentType: part.Header.Get("Content-Type"),
			Body:        src,
		})
	}

	urls, err := h.uploadService.UploadOrderFiles(ctx, orderID, files)
	if err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "order not found")
		}
		return err
	}

	return c.JSON(http.StatusOK, &dto.UploadResponse{
		OrderID: orderID,
		URLs:    urls,
	})
}
