package firestore

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"excelsaver/internal/domain"
)

func testRepo(t *testing.T, handler http.HandlerFunc) *invoiceRepo {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return &invoiceRepo{
		client:     srv.Client(),
		baseURL:    srv.URL + "/v1/projects/test/databases/(default)/documents",
		collection: "invoices",
	}
}

func TestListByOwner_DecodesAllDateShapes(t *testing.T) {
	repo := testRepo(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		w.Write([]byte(`[
			{"document":{"name":"projects/test/databases/(default)/documents/invoices/a","fields":{
				"ownerId":{"stringValue":"user-1"},
				"invoiceNumber":{"stringValue":"INV-1"},
				"counterpartyName":{"stringValue":"Acme"},
				"amount":{"doubleValue":100.5},
				"date":{"timestampValue":"2024-06-30T00:00:00Z"}}}},
			{"document":{"name":"projects/test/databases/(default)/documents/invoices/b","fields":{
				"ownerId":{"stringValue":"user-1"},
				"invoiceNumber":{"stringValue":"INV-2"},
				"counterpartyName":{"stringValue":"Birch"},
				"amount":{"integerValue":"250"},
				"date":{"mapValue":{"fields":{"seconds":{"integerValue":"1721433600"},"nanoseconds":{"integerValue":"0"}}}}}}},
			{"document":{"name":"projects/test/databases/(default)/documents/invoices/c","fields":{
				"ownerId":{"stringValue":"user-1"},
				"invoiceNumber":{"stringValue":"INV-3"},
				"counterpartyName":{"stringValue":"Cedar"},
				"amount":{"doubleValue":75},
				"date":{"stringValue":"not a date"}}}},
			{"readTime":"2024-07-01T00:00:00Z"}
		]`))
	})

	invs, err := repo.ListByOwner(context.Background(), "user-1")
	require.NoError(t, err)
	require.Len(t, invs, 3)

	assert.Equal(t, "a", invs[0].ID)
	assert.Equal(t, 100.5, invs[0].Amount)
	assert.True(t, invs[0].IssueDate.Resolve().Valid)

	assert.Equal(t, 250.0, invs[1].Amount)
	assert.Equal(t, "2024-07-20", invs[1].IssueDate.Resolve().Format("2006-01-02"))

	assert.False(t, invs[2].IssueDate.Resolve().Valid)
}

func TestDelete_ForeignOwnerLooksMissing(t *testing.T) {
	repo := testRepo(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		w.Write([]byte(`{"name":"projects/test/databases/(default)/documents/invoices/x",
			"fields":{"ownerId":{"stringValue":"someone-else"}}}`))
	})

	err := repo.Delete(context.Background(), "user-1", "x")
	assert.ErrorIs(t, err, domain.ErrInvoiceNotFound)
}

func TestUpdate_ReplacesWholeDocument(t *testing.T) {
	var patch *http.Request
	var patchBody document
	repo := testRepo(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			w.Write([]byte(`{"name":"projects/test/databases/(default)/documents/invoices/x",
				"fields":{"ownerId":{"stringValue":"user-1"},"taxId":{"stringValue":"B123"}}}`))
		case http.MethodPatch:
			patch = r
			require.NoError(t, json.NewDecoder(r.Body).Decode(&patchBody))
			w.Write([]byte(`{"name":"projects/test/databases/(default)/documents/invoices/x",
				"fields":{"ownerId":{"stringValue":"user-1"},"invoiceNumber":{"stringValue":"INV-1"}}}`))
		default:
			t.Fatalf("unexpected method %s", r.Method)
		}
	})

	// the replacement record no longer carries a tax ID
	_, err := repo.Update(context.Background(), "user-1", &domain.Invoice{
		ID:               "x",
		InvoiceNumber:    "INV-1",
		CounterpartyName: "Acme",
		Amount:           10,
	})
	require.NoError(t, err)
	require.NotNil(t, patch)

	// a maskless patch replaces the document, clearing stored optionals
	query := patch.URL.Query()
	assert.Equal(t, "true", query.Get("currentDocument.exists"))
	assert.Empty(t, query["updateMask.fieldPaths"])
	_, hasTaxID := patchBody.Fields["taxId"]
	assert.False(t, hasTaxID)
}

func TestDo_MapsStatusCodes(t *testing.T) {
	notFound := testRepo(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	err := notFound.Delete(context.Background(), "user-1", "x")
	assert.ErrorIs(t, err, domain.ErrInvoiceNotFound)

	down := testRepo(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	_, err = down.ListByOwner(context.Background(), "user-1")
	assert.ErrorIs(t, err, domain.ErrStoreUnavailable)
}

func TestEncodeInvoice_RoundTripsRawStrings(t *testing.T) {
	vat := 21.0
	fields := encodeInvoice(&domain.Invoice{
		InvoiceNumber:    "INV-1",
		CounterpartyName: "Acme",
		Amount:           10,
		IssueDate:        domain.DateFromString("junk"),
		VATRate:          &vat,
	}, "user-1")

	require.NotNil(t, fields["date"].StringValue)
	assert.Equal(t, "junk", *fields["date"].StringValue)
	assert.Equal(t, 21.0, *fields["vatRate"].DoubleValue)

	// resolvable dates become native timestamps
	fields = encodeInvoice(&domain.Invoice{
		InvoiceNumber:    "INV-2",
		CounterpartyName: "Acme",
		IssueDate:        domain.DateFromString("2024-06-30"),
	}, "user-1")
	require.NotNil(t, fields["date"].TimestampValue)
	assert.Equal(t, "2024-06-30T00:00:00Z", *fields["date"].TimestampValue)
}
