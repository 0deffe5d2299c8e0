package handler_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"excelsaver/internal/columns"
	"excelsaver/internal/handler"
	"excelsaver/internal/service"
)

func newColumnHandler() *handler.ColumnHandler {
	return handler.NewColumnHandler(service.NewColumnService())
}

func decodeColumns(t *testing.T, body []byte) []columns.Descriptor {
	t.Helper()
	var resp struct {
		Success bool                 `json:"success"`
		Data    []columns.Descriptor `json:"data"`
	}
	require.NoError(t, json.Unmarshal(body, &resp))
	require.True(t, resp.Success)
	return resp.Data
}

func TestColumns_GetDefaults(t *testing.T) {
	h := newColumnHandler()

	c, w := testContext(t, http.MethodGet, "/api/v1/columns", nil)
	h.Get(c)

	assert.Equal(t, http.StatusOK, w.Code)
	got := decodeColumns(t, w.Body.Bytes())
	assert.Equal(t, columns.Default(), got)
}

func TestColumns_Move(t *testing.T) {
	h := newColumnHandler()

	body := bytes.NewBufferString(`{"direction":"down"}`)
	c, w := testContext(t, http.MethodPost, "/api/v1/columns/invoiceNumber/move", body)
	c.Request.Header.Set("Content-Type", "application/json")
	c.Params = gin.Params{{Key: "key", Value: "invoiceNumber"}}
	h.Move(c)

	assert.Equal(t, http.StatusOK, w.Code)
	got := decodeColumns(t, w.Body.Bytes())
	assert.Equal(t, "counterpartyName", got[0].Key)
	assert.Equal(t, "invoiceNumber", got[1].Key)
}

func TestColumns_MoveUnknownKey(t *testing.T) {
	h := newColumnHandler()

	body := bytes.NewBufferString(`{"direction":"up"}`)
	c, w := testContext(t, http.MethodPost, "/api/v1/columns/bogus/move", body)
	c.Request.Header.Set("Content-Type", "application/json")
	c.Params = gin.Params{{Key: "key", Value: "bogus"}}
	h.Move(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestColumns_MoveInvalidDirection(t *testing.T) {
	h := newColumnHandler()

	body := bytes.NewBufferString(`{"direction":"sideways"}`)
	c, w := testContext(t, http.MethodPost, "/api/v1/columns/date/move", body)
	c.Request.Header.Set("Content-Type", "application/json")
	c.Params = gin.Params{{Key: "key", Value: "date"}}
	h.Move(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestColumns_SetVisibility(t *testing.T) {
	h := newColumnHandler()

	body := bytes.NewBufferString(`{"isVisible":true}`)
	c, w := testContext(t, http.MethodPut, "/api/v1/columns/taxId/visibility", body)
	c.Request.Header.Set("Content-Type", "application/json")
	c.Params = gin.Params{{Key: "key", Value: "taxId"}}
	h.SetVisibility(c)

	assert.Equal(t, http.StatusOK, w.Code)
	for _, col := range decodeColumns(t, w.Body.Bytes()) {
		if col.Key == "taxId" {
			assert.True(t, col.Visible)
		}
	}
}
