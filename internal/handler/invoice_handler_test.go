package handler_test

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"excelsaver/internal/csvexport"
	"excelsaver/internal/domain"
	"excelsaver/internal/handler"
	"excelsaver/internal/middleware"
	"excelsaver/internal/service"
	"excelsaver/mocks"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newInvoiceHandler() (*handler.InvoiceHandler, *mocks.MockInvoiceService) {
	invoiceSvc := new(mocks.MockInvoiceService)
	h := handler.NewInvoiceHandler(invoiceSvc, service.NewColumnService(), 10)
	return h, invoiceSvc
}

func testContext(t *testing.T, method, target string, body *bytes.Buffer) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	if body == nil {
		body = &bytes.Buffer{}
	}
	req, err := http.NewRequest(method, target, body)
	require.NoError(t, err)
	c.Request = req
	c.Set(middleware.ContextKeyOwnerID, "user-1")
	return c, w
}

func TestList_Success(t *testing.T) {
	h, invoiceSvc := newInvoiceHandler()

	invoiceSvc.On("List", mock.Anything, mock.MatchedBy(func(in *service.ListInput) bool {
		return in.OwnerID == "user-1" && in.Search == "acme" && in.Page == 2 && in.PageSize == 10
	})).Return(&service.ListOutput{
		Rows:       []service.InvoiceRow{},
		Total:      23,
		Page:       2,
		PageSize:   10,
		TotalPages: 3,
	}, nil)

	c, w := testContext(t, http.MethodGet, "/api/v1/invoices?search=acme&page=2", nil)
	h.List(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp handler.APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	require.NotNil(t, resp.Meta)
	assert.Equal(t, 23, resp.Meta.Total)
	assert.Equal(t, 3, resp.Meta.TotalPages)

	invoiceSvc.AssertExpectations(t)
}

func TestList_InvalidDate(t *testing.T) {
	h, _ := newInvoiceHandler()

	c, w := testContext(t, http.MethodGet, "/api/v1/invoices?startDate=30-junk", nil)
	h.List(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestList_DateRangeForwarded(t *testing.T) {
	h, invoiceSvc := newInvoiceHandler()

	invoiceSvc.On("List", mock.Anything, mock.MatchedBy(func(in *service.ListInput) bool {
		if in.Range == nil || in.Range.End == nil {
			return false
		}
		return in.Range.Start.Format("2006-01-02") == "2024-06-01" &&
			in.Range.End.Format("2006-01-02") == "2024-06-30"
	})).Return(&service.ListOutput{Page: 1, PageSize: 10, TotalPages: 1}, nil)

	c, w := testContext(t, http.MethodGet, "/api/v1/invoices?startDate=2024-06-01&endDate=2024-06-30", nil)
	h.List(c)

	assert.Equal(t, http.StatusOK, w.Code)
	invoiceSvc.AssertExpectations(t)
}

func TestExportCSV_Success(t *testing.T) {
	h, invoiceSvc := newInvoiceHandler()

	blob := append(append([]byte{}, csvexport.BOM...), []byte("Invoice Number,Amount\nINV-001,\"1234,50\"\n")...)
	invoiceSvc.On("ExportCSV", mock.Anything, mock.MatchedBy(func(in *service.ExportInput) bool {
		return in.OwnerID == "user-1"
	})).Return(blob, "invoices-2024-07-20.csv", nil)

	c, w := testContext(t, http.MethodGet, "/api/v1/invoices/export", nil)
	h.ExportCSV(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/csv; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "invoices-2024-07-20.csv")

	body := w.Body.Bytes()
	require.True(t, len(body) >= 3)
	assert.Equal(t, csvexport.BOM, body[:3])

	r := csv.NewReader(strings.NewReader(string(body[3:])))
	records, err := r.ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "1234,50", records[1][1])

	invoiceSvc.AssertExpectations(t)
}

func TestCreate_Success(t *testing.T) {
	h, invoiceSvc := newInvoiceHandler()

	stored := &domain.Invoice{ID: "abc", OwnerID: "user-1", InvoiceNumber: "INV-1", CounterpartyName: "Acme", Amount: 10}
	invoiceSvc.On("Create", mock.Anything, "user-1", mock.MatchedBy(func(inv *domain.Invoice) bool {
		return inv.InvoiceNumber == "INV-1" && inv.Amount == 10
	})).Return(stored, nil)

	body := bytes.NewBufferString(`{"invoiceNumber":"INV-1","counterpartyName":"Acme","amount":10,"date":"2024-06-30"}`)
	c, w := testContext(t, http.MethodPost, "/api/v1/invoices", body)
	c.Request.Header.Set("Content-Type", "application/json")
	h.Create(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	invoiceSvc.AssertExpectations(t)
}

func TestCreate_ValidationErrorMapped(t *testing.T) {
	h, invoiceSvc := newInvoiceHandler()

	invoiceSvc.On("Create", mock.Anything, "user-1", mock.Anything).
		Return(nil, domain.ErrNegativeAmount)

	body := bytes.NewBufferString(`{"invoiceNumber":"INV-1","counterpartyName":"Acme","amount":-5}`)
	c, w := testContext(t, http.MethodPost, "/api/v1/invoices", body)
	c.Request.Header.Set("Content-Type", "application/json")
	h.Create(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp handler.APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Error)
	assert.Equal(t, "NEGATIVE_AMOUNT", resp.Error.Code)
}

func TestUpdate_UsesPathID(t *testing.T) {
	h, invoiceSvc := newInvoiceHandler()

	invoiceSvc.On("Replace", mock.Anything, "user-1", mock.MatchedBy(func(inv *domain.Invoice) bool {
		return inv.ID == "abc"
	})).Return(&domain.Invoice{ID: "abc"}, nil)

	body := bytes.NewBufferString(`{"invoiceNumber":"INV-1","counterpartyName":"Acme","amount":10}`)
	c, w := testContext(t, http.MethodPut, "/api/v1/invoices/abc", body)
	c.Request.Header.Set("Content-Type", "application/json")
	c.Params = gin.Params{{Key: "id", Value: "abc"}}
	h.Update(c)

	assert.Equal(t, http.StatusOK, w.Code)
	invoiceSvc.AssertExpectations(t)
}

func TestDelete_NotFound(t *testing.T) {
	h, invoiceSvc := newInvoiceHandler()

	invoiceSvc.On("Delete", mock.Anything, "user-1", "missing").
		Return(domain.ErrInvoiceNotFound)

	c, w := testContext(t, http.MethodDelete, "/api/v1/invoices/missing", nil)
	c.Params = gin.Params{{Key: "id", Value: "missing"}}
	h.Delete(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestScan_MissingFile(t *testing.T) {
	h, _ := newInvoiceHandler()

	c, w := testContext(t, http.MethodPost, "/api/v1/invoices/scan", nil)
	c.Request.Header.Set("Content-Type", "multipart/form-data")
	h.Scan(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestList_MissingAuthContext(t *testing.T) {
	h, _ := newInvoiceHandler()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/api/v1/invoices", http.NoBody)
	h.List(c)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
