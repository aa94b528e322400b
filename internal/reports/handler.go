package reports

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"uam-backend/internal/assets"
	"uam-backend/internal/platform/apierr"
	"uam-backend/internal/transfers"
)

type Handler struct{ svc *Service }

func RegisterRoutes(r gin.IRoutes, svc *Service) {
	h := &Handler{svc: svc}

	r.GET("/reports/assets", h.Assets)
	r.GET("/reports/transfers", h.Transfers)
}

// Assets exports the filtered asset list. Same filters as GET /assets plus
// ?format=csv|xlsx (csv by default).
func (h *Handler) Assets(c *gin.Context) {
	var q assets.AssetSearchQuery
	if v := c.Query("status"); v != "" {
		q.Status = &v
	}
	if v := c.Query("section_id"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			q.SectionID = &n
		}
	}
	if v := c.Query("company_id"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			q.CompanyID = &n
		}
	}
	if v := c.Query("search"); v != "" {
		q.Search = &v
	}
	if v := c.Query("purchased_from"); v != "" {
		if t, err := time.Parse("2006-01-02", v); err == nil {
			q.PurchasedFrom = &t
		}
	}
	if v := c.Query("purchased_to"); v != "" {
		if t, err := time.Parse("2006-01-02", v); err == nil {
			q.PurchasedTo = &t
		}
	}

	rows, err := h.svc.AssetRows(c.Request.Context(), q, c.DefaultQuery("order", "desc"))
	if err != nil {
		c.JSON(apierr.ToHTTPStatus(err), apierr.From(err))
		return
	}
	h.serve(c, "assets", rows)
}

// Transfers exports the filtered movement history. Same filters as
// GET /transfers plus ?format=csv|xlsx.
func (h *Handler) Transfers(c *gin.Context) {
	var f transfers.TransferFilter
	if v := c.Query("asset_id"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			f.AssetID = &n
		}
	}
	if v := c.Query("from"); v != "" {
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			f.From = &t
		}
	}
	if v := c.Query("to"); v != "" {
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			f.To = &t
		}
	}
	if v := c.Query("search"); v != "" {
		f.Search = &v
	}

	rows, err := h.svc.TransferRows(c.Request.Context(), f, c.DefaultQuery("order", "desc"))
	if err != nil {
		c.JSON(apierr.ToHTTPStatus(err), apierr.From(err))
		return
	}
	h.serve(c, "transfers", rows)
}

func (h *Handler) serve(c *gin.Context, name string, rows [][]string) {
	stamp := time.Now().UTC().Format("20060102")
	switch strings.ToLower(c.DefaultQuery("format", "csv")) {
	case "csv":
		c.Header("Content-Type", "text/csv; charset=utf-8")
		c.Header("Content-Disposition", `attachment; filename="`+name+`_`+stamp+`.csv"`)
		if err := WriteCSV(c.Writer, rows); err != nil {
			c.JSON(http.StatusInternalServerError, apierr.Body(apierr.CodeInternal, "failed to write csv"))
		}
	case "xlsx":
		c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Header("Content-Disposition", `attachment; filename="`+name+`_`+stamp+`.xlsx"`)
		if err := WriteXLSX(c.Writer, name, rows); err != nil {
			c.JSON(http.StatusInternalServerError, apierr.Body(apierr.CodeInternal, "failed to write workbook"))
		}
	default:
		c.JSON(http.StatusBadRequest, apierr.Body(apierr.CodeInvalidArgument, "format must be csv or xlsx"))
	}
}
