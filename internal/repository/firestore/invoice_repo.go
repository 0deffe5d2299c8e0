// Package firestore provides an InvoiceRepository backed by the Cloud
// Firestore REST API, authenticated with a service account.
package firestore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"golang.org/x/oauth2/google"

	"excelsaver/internal/config"
	"excelsaver/internal/domain"
	"excelsaver/internal/port"
)

const datastoreScope = "https://www.googleapis.com/auth/datastore"

type invoiceRepo struct {
	client     *http.Client
	baseURL    string
	collection string
}

// NewInvoiceRepo creates a Firestore-backed InvoiceRepository from a
// service account credentials JSON blob.
func NewInvoiceRepo(cfg config.StoreConfig) (port.InvoiceRepository, error) {
	if cfg.ProjectID == "" {
		return nil, fmt.Errorf("firestore: project_id is required")
	}
	jwtCfg, err := google.JWTConfigFromJSON([]byte(cfg.CredentialsJSON), datastoreScope)
	if err != nil {
		return nil, fmt.Errorf("firestore: parse credentials: %w", err)
	}

	return &invoiceRepo{
		client: jwtCfg.Client(context.Background()),
		baseURL: fmt.Sprintf(
			"https://firestore.googleapis.com/v1/projects/%s/databases/(default)/documents",
			cfg.ProjectID,
		),
		collection: cfg.Collection,
	}, nil
}

func (r *invoiceRepo) ListByOwner(ctx context.Context, ownerID string) ([]domain.Invoice, error) {
	query := map[string]any{
		"structuredQuery": map[string]any{
			"from": []map[string]any{{"collectionId": r.collection}},
			"where": map[string]any{
				"fieldFilter": map[string]any{
					"field": map[string]any{"fieldPath": "ownerId"},
					"op":    "EQUAL",
					"value": map[string]any{"stringValue": ownerID},
				},
			},
		},
	}

	body, err := r.do(ctx, http.MethodPost, r.baseURL+":runQuery", query)
	if err != nil {
		return nil, fmt.Errorf("invoiceRepo.ListByOwner: %w", err)
	}

	var results []struct {
		Document *document `json:"document"`
	}
	if err := json.Unmarshal(body, &results); err != nil {
		return nil, fmt.Errorf("invoiceRepo.ListByOwner: decode: %w", err)
	}

	invs := make([]domain.Invoice, 0, len(results))
	for _, res := range results {
		if res.Document == nil {
			continue
		}
		invs = append(invs, decodeInvoice(res.Document))
	}
	return invs, nil
}

func (r *invoiceRepo) Create(ctx context.Context, ownerID string, inv *domain.Invoice) (*domain.Invoice, error) {
	doc := document{Fields: encodeInvoice(inv, ownerID)}

	body, err := r.do(ctx, http.MethodPost, fmt.Sprintf("%s/%s", r.baseURL, r.collection), doc)
	if err != nil {
		return nil, fmt.Errorf("invoiceRepo.Create: %w", err)
	}

	var created document
	if err := json.Unmarshal(body, &created); err != nil {
		return nil, fmt.Errorf("invoiceRepo.Create: decode: %w", err)
	}
	stored := decodeInvoice(&created)
	return &stored, nil
}

func (r *invoiceRepo) Update(ctx context.Context, ownerID string, inv *domain.Invoice) (*domain.Invoice, error) {
	if err := r.checkOwnership(ctx, ownerID, inv.ID); err != nil {
		return nil, fmt.Errorf("invoiceRepo.Update: %w", err)
	}

	// No updateMask: a maskless patch replaces the whole document, so
	// optional fields cleared on the record are cleared in the store too.
	doc := document{Fields: encodeInvoice(inv, ownerID)}
	url := r.docURL(inv.ID) + "?currentDocument.exists=true"

	body, err := r.do(ctx, http.MethodPatch, url, doc)
	if err != nil {
		return nil, fmt.Errorf("invoiceRepo.Update: %w", err)
	}

	var updated document
	if err := json.Unmarshal(body, &updated); err != nil {
		return nil, fmt.Errorf("invoiceRepo.Update: decode: %w", err)
	}
	stored := decodeInvoice(&updated)
	return &stored, nil
}

func (r *invoiceRepo) Delete(ctx context.Context, ownerID, invoiceID string) error {
	if err := r.checkOwnership(ctx, ownerID, invoiceID); err != nil {
		return fmt.Errorf("invoiceRepo.Delete: %w", err)
	}
	if _, err := r.do(ctx, http.MethodDelete, r.docURL(invoiceID), nil); err != nil {
		return fmt.Errorf("invoiceRepo.Delete: %w", err)
	}
	return nil
}

// checkOwnership fetches the document and verifies it belongs to ownerID.
// A foreign document is indistinguishable from a missing one.
func (r *invoiceRepo) checkOwnership(ctx context.Context, ownerID, invoiceID string) error {
	body, err := r.do(ctx, http.MethodGet, r.docURL(invoiceID), nil)
	if err != nil {
		return err
	}
	var doc document
	if err := json.Unmarshal(body, &doc); err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	if stringField(doc.Fields, "ownerId") != ownerID {
		return domain.ErrInvoiceNotFound
	}
	return nil
}

func (r *invoiceRepo) docURL(invoiceID string) string {
	return fmt.Sprintf("%s/%s/%s", r.baseURL, r.collection, invoiceID)
}

func (r *invoiceRepo) do(ctx context.Context, method, url string, payload any) ([]byte, error) {
	var reqBody io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reqBody)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, domain.ErrInvoiceNotFound
	case resp.StatusCode >= 500:
		return nil, fmt.Errorf("%w: status %d", domain.ErrStoreUnavailable, resp.StatusCode)
	case resp.StatusCode >= 400:
		return nil, fmt.Errorf("firestore: status %d: %s", resp.StatusCode, body)
	}
	return body, nil
}

// document is the REST wire form of a Firestore document.
type document struct {
	Name   string           `json:"name,omitempty"`
	Fields map[string]value `json:"fields,omitempty"`
}

type value struct {
	StringValue    *string    `json:"stringValue,omitempty"`
	DoubleValue    *float64   `json:"doubleValue,omitempty"`
	IntegerValue   *string    `json:"integerValue,omitempty"`
	TimestampValue *string    `json:"timestampValue,omitempty"`
	MapValue       *mapFields `json:"mapValue,omitempty"`
}

type mapFields struct {
	Fields map[string]value `json:"fields"`
}

func str(s string) value  { return value{StringValue: &s} }
func dbl(f float64) value { return value{DoubleValue: &f} }

func timestamp(t time.Time) value {
	s := t.UTC().Format(time.RFC3339Nano)
	return value{TimestampValue: &s}
}

func encodeInvoice(inv *domain.Invoice, ownerID string) map[string]value {
	fields := map[string]value{
		"ownerId":          str(ownerID),
		"invoiceNumber":    str(inv.InvoiceNumber),
		"counterpartyName": str(inv.CounterpartyName),
		"amount":           dbl(inv.Amount),
	}
	if inst := inv.IssueDate.Resolve(); inst.Valid {
		fields["date"] = timestamp(inst.Time)
	} else if s, ok := inv.IssueDate.RawString(); ok {
		// unparseable dates round-trip verbatim rather than being dropped
		fields["date"] = str(s)
	}
	if inv.TaxID != "" {
		fields["taxId"] = str(inv.TaxID)
	}
	if inv.Address != "" {
		fields["address"] = str(inv.Address)
	}
	if inv.Concept != "" {
		fields["concept"] = str(inv.Concept)
	}
	if inv.VATRate != nil {
		fields["vatRate"] = dbl(*inv.VATRate)
	}
	if inv.VATAmount != nil {
		fields["vatAmount"] = dbl(*inv.VATAmount)
	}
	if inv.Status != "" {
		fields["status"] = str(string(inv.Status))
	}
	return fields
}

func decodeInvoice(doc *document) domain.Invoice {
	inv := domain.Invoice{
		ID:               docID(doc.Name),
		OwnerID:          stringField(doc.Fields, "ownerId"),
		InvoiceNumber:    stringField(doc.Fields, "invoiceNumber"),
		CounterpartyName: stringField(doc.Fields, "counterpartyName"),
		Amount:           floatField(doc.Fields, "amount"),
		IssueDate:        dateField(doc.Fields, "date"),
		TaxID:            stringField(doc.Fields, "taxId"),
		Address:          stringField(doc.Fields, "address"),
		Concept:          stringField(doc.Fields, "concept"),
		Status:           domain.InvoiceStatus(stringField(doc.Fields, "status")),
	}
	if v, ok := doc.Fields["vatRate"]; ok && v.DoubleValue != nil {
		inv.VATRate = v.DoubleValue
	}
	if v, ok := doc.Fields["vatAmount"]; ok && v.DoubleValue != nil {
		inv.VATAmount = v.DoubleValue
	}
	return inv
}

// docID extracts the document ID from a full resource name.
func docID(name string) string {
	if i := strings.LastIndexByte(name, '/'); i >= 0 {
		return name[i+1:]
	}
	return name
}

func stringField(fields map[string]value, key string) string {
	if v, ok := fields[key]; ok && v.StringValue != nil {
		return *v.StringValue
	}
	return ""
}

func floatField(fields map[string]value, key string) float64 {
	v, ok := fields[key]
	if !ok {
		return 0
	}
	if v.DoubleValue != nil {
		return *v.DoubleValue
	}
	if v.IntegerValue != nil {
		if n, err := strconv.ParseFloat(*v.IntegerValue, 64); err == nil {
			return n
		}
	}
	return 0
}

// dateField decodes the three stored date shapes: a Firestore timestamp,
// a {seconds,nanoseconds} map written by older SDK clients, or a string.
func dateField(fields map[string]value, key string) domain.RawDate {
	v, ok := fields[key]
	if !ok {
		return domain.RawDate{}
	}
	switch {
	case v.TimestampValue != nil:
		if t, err := time.Parse(time.RFC3339Nano, *v.TimestampValue); err == nil {
			return domain.DateFromTime(t)
		}
		return domain.DateFromString(*v.TimestampValue)
	case v.MapValue != nil:
		seconds := intMapField(v.MapValue.Fields, "seconds")
		nanos := intMapField(v.MapValue.Fields, "nanoseconds")
		return domain.DateFromEpoch(seconds, nanos)
	case v.StringValue != nil:
		return domain.DateFromString(*v.StringValue)
	}
	return domain.RawDate{}
}

func intMapField(fields map[string]value, key string) int64 {
	if v, ok := fields[key]; ok && v.IntegerValue != nil {
		if n, err := strconv.ParseInt(*v.IntegerValue, 10, 64); err == nil {
			return n
		}
	}
	return 0
}
