package documents

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"uam-backend/internal/platform/apierr"
	"uam-backend/internal/platform/auth"
)

type Handler struct{ svc *Service }

func RegisterRoutes(r gin.IRoutes, svc *Service) {
	h := &Handler{svc: svc}

	r.POST("/documents", h.Upload)
	r.GET("/documents", h.List)
	r.GET("/documents/:document_id/download", h.Download)
	r.DELETE("/documents/:document_id", h.Delete)
}

// Upload expects multipart form fields: entity_type, entity_id, private
// (optional) and the binary under "file".
func (h *Handler) Upload(c *gin.Context) {
	callerID, ok := auth.CallerID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, apierr.Body(apierr.CodeForbidden, "missing authenticated caller"))
		return
	}

	entityType := c.PostForm("entity_type")
	entityID, err := strconv.ParseInt(c.PostForm("entity_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierr.Body(apierr.CodeInvalidArgument, "entity_id must be a number"))
		return
	}
	private := false
	if v := c.PostForm("private"); v == "1" || v == "true" {
		private = true
	}

	fh, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, apierr.Body(apierr.CodeInvalidArgument, "file is required"))
		return
	}

	res, err := h.svc.Upload(c.Request.Context(), entityType, entityID, private, callerID, fh)
	if err != nil {
		c.JSON(apierr.ToHTTPStatus(err), apierr.From(err))
		return
	}
	c.JSON(http.StatusCreated, res)
}

func (h *Handler) List(c *gin.Context) {
	entityID, err := strconv.ParseInt(c.Query("entity_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierr.Body(apierr.CodeInvalidArgument, "entity_id must be a number"))
		return
	}
	res, err := h.svc.List(c.Request.Context(), c.Query("entity_type"), entityID)
	if err != nil {
		c.JSON(apierr.ToHTTPStatus(err), apierr.From(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": res})
}

func (h *Handler) Download(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("document_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierr.Body(apierr.CodeInvalidArgument, "document_id must be a number"))
		return
	}

	callerID, _ := auth.CallerID(c)
	path, fileName, contentType, err := h.svc.PathForDownload(c.Request.Context(), id, callerID, auth.CallerRole(c))
	if err != nil {
		c.JSON(apierr.ToHTTPStatus(err), apierr.From(err))
		return
	}

	c.Header("Content-Type", contentType)
	c.FileAttachment(path, fileName)
}

func (h *Handler) Delete(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("document_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierr.Body(apierr.CodeInvalidArgument, "document_id must be a number"))
		return
	}

	callerID, _ := auth.CallerID(c)
	if err := h.svc.Delete(c.Request.Context(), id, callerID, auth.CallerRole(c)); err != nil {
		c.JSON(apierr.ToHTTPStatus(err), apierr.From(err))
		return
	}
	c.Status(http.StatusNoContent)
}
