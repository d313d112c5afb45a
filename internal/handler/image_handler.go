package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/eventshare/eventshare-api/internal/service"
	"github.com/eventshare/eventshare-api/pkg/response"
)

type imageOpener interface {
	Open(path string) (*service.ImageDownload, error)
}

// ImageHandler serves stored event images.
type ImageHandler struct {
	images imageOpener
}

// NewImageHandler builds a new handler.
func NewImageHandler(images imageOpener) *ImageHandler {
	return &ImageHandler{images: images}
}

// Serve godoc
// @Summary Download an event image
// @Tags Images
// @Produce octet-stream
// @Param path path string true "Stored image path"
// @Success 200 {file} file
// @Failure 404 {object} response.Envelope
// @Router /images/{path} [get]
func (h *ImageHandler) Serve(c *gin.Context) {
	download, err := h.images.Open(c.Param("path"))
	if err != nil {
		response.Error(c, err)
		return
	}
	defer download.File.Close() //nolint:errcheck

	c.Header("Cache-Control", "public, max-age=86400")
	http.ServeContent(c.Writer, c.Request, download.Name, download.ModTime, download.File)
}
