package handler

import (
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"excelsaver/internal/domain"
	"excelsaver/internal/query"
	"excelsaver/internal/service"
)

// maxScanFileSize caps uploaded invoice documents at 10 MB.
const maxScanFileSize = 10 << 20

// InvoiceHandler handles invoice collection endpoints.
type InvoiceHandler struct {
	invoiceService  service.InvoiceService
	columnService   service.ColumnService
	defaultPageSize int
}

// NewInvoiceHandler creates a new InvoiceHandler.
func NewInvoiceHandler(invoiceService service.InvoiceService, columnService service.ColumnService, defaultPageSize int) *InvoiceHandler {
	if defaultPageSize < 1 {
		defaultPageSize = 10
	}
	return &InvoiceHandler{
		invoiceService:  invoiceService,
		columnService:   columnService,
		defaultPageSize: defaultPageSize,
	}
}

// List handles GET /api/v1/invoices
func (h *InvoiceHandler) List(c *gin.Context) {
	ownerID, ok := ownerFromContext(c)
	if !ok {
		return
	}

	dateRange, err := parseDateRange(c)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_DATE", "dates must be in YYYY-MM-DD format")
		return
	}
	page, pageSize := h.parsePagination(c)

	out, err := h.invoiceService.List(c.Request.Context(), &service.ListInput{
		OwnerID:  ownerID,
		Search:   c.Query("search"),
		Range:    dateRange,
		Page:     page,
		PageSize: pageSize,
		Columns:  h.columnService.Get(ownerID),
	})
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondPaginated(c, out.Rows, PagMeta{
		Total:      out.Total,
		Page:       out.Page,
		PageSize:   out.PageSize,
		TotalPages: out.TotalPages,
	})
}

// Create handles POST /api/v1/invoices
func (h *InvoiceHandler) Create(c *gin.Context) {
	ownerID, ok := ownerFromContext(c)
	if !ok {
		return
	}

	var inv domain.Invoice
	if err := c.ShouldBindJSON(&inv); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "malformed invoice payload")
		return
	}

	created, err := h.invoiceService.Create(c.Request.Context(), ownerID, &inv)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondCreated(c, created)
}

// Update handles PUT /api/v1/invoices/:id
func (h *InvoiceHandler) Update(c *gin.Context) {
	ownerID, ok := ownerFromContext(c)
	if !ok {
		return
	}

	var inv domain.Invoice
	if err := c.ShouldBindJSON(&inv); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "malformed invoice payload")
		return
	}
	inv.ID = c.Param("id")

	updated, err := h.invoiceService.Replace(c.Request.Context(), ownerID, &inv)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, updated)
}

// Delete handles DELETE /api/v1/invoices/:id
func (h *InvoiceHandler) Delete(c *gin.Context) {
	ownerID, ok := ownerFromContext(c)
	if !ok {
		return
	}

	if err := h.invoiceService.Delete(c.Request.Context(), ownerID, c.Param("id")); err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, gin.H{"message": "invoice deleted"})
}

// ExportCSV handles GET /api/v1/invoices/export
//
// The export honors the same search and date filters as List but never
// paginates; the file mirrors the full filtered table.
func (h *InvoiceHandler) ExportCSV(c *gin.Context) {
	ownerID, ok := ownerFromContext(c)
	if !ok {
		return
	}

	dateRange, err := parseDateRange(c)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_DATE", "dates must be in YYYY-MM-DD format")
		return
	}

	blob, filename, err := h.invoiceService.ExportCSV(c.Request.Context(), &service.ExportInput{
		OwnerID: ownerID,
		Search:  c.Query("search"),
		Range:   dateRange,
		Columns: h.columnService.Get(ownerID),
	})
	if err != nil {
		HandleError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", blob)
}

// Scan handles POST /api/v1/invoices/scan
func (h *InvoiceHandler) Scan(c *gin.Context) {
	ownerID, ok := ownerFromContext(c)
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "file is required")
		return
	}
	if fileHeader.Size > maxScanFileSize {
		RespondError(c, http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE", "file exceeds maximum allowed size")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		HandleError(c, err)
		return
	}
	defer file.Close()

	fileBytes, err := io.ReadAll(file)
	if err != nil {
		HandleError(c, err)
		return
	}

	created, err := h.invoiceService.Scan(c.Request.Context(), ownerID, fileBytes, fileHeader.Header.Get("Content-Type"))
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondCreated(c, created)
}

// parseDateRange extracts the optional startDate/endDate query params. A
// range requires startDate; endDate alone is ignored.
func parseDateRange(c *gin.Context) (*query.DateRange, error) {
	startStr := c.Query("startDate")
	if startStr == "" {
		return nil, nil
	}
	start, err := time.Parse("2006-01-02", startStr)
	if err != nil {
		return nil, err
	}

	dr := &query.DateRange{Start: start}
	if endStr := c.Query("endDate"); endStr != "" {
		end, err := time.Parse("2006-01-02", endStr)
		if err != nil {
			return nil, err
		}
		dr.End = &end
	}
	return dr, nil
}

func (h *InvoiceHandler) parsePagination(c *gin.Context) (page, pageSize int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ = strconv.Atoi(c.DefaultQuery("pageSize", strconv.Itoa(h.defaultPageSize)))
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = h.defaultPageSize
	}
	return page, pageSize
}
