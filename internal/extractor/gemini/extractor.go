// Package gemini extracts structured invoice drafts from document images
// using Google Gemini.
package gemini

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"excelsaver/internal/config"
	"excelsaver/internal/domain"
	"excelsaver/internal/port"
)

const extractPrompt = `You are analyzing an invoice document. Carefully read all text in the image and extract the following information:

1. **Invoice Number**: The invoice identifier, usually labeled "Invoice No", "Factura", or similar.
2. **Counterparty Name**: The name of the issuing business or supplier.
3. **Total Amount**: The final total or amount due. Extract only the numeric value.
4. **Date**: The invoice or issue date in ISO 8601 format (YYYY-MM-DD).
5. **Tax ID**: The supplier's tax identifier (NIF, CIF, VAT number, EIN). Look near the supplier name or in the footer.
6. **Address**: The supplier's full postal address.
7. **Concept**: A short description of the goods or services billed.
8. **VAT Rate**: The applied VAT/tax percentage as a number (e.g. 21 for 21%).
9. **VAT Amount**: The VAT/tax amount as a number.

Return ONLY valid JSON in this exact format:
{
  "invoiceNumber": "",
  "counterpartyName": "",
  "amount": 0.00,
  "date": "YYYY-MM-DD",
  "taxId": "",
  "address": "",
  "concept": "",
  "vatRate": null,
  "vatAmount": null
}

Important:
- The date must be in YYYY-MM-DD format
- Numeric fields must be numbers, not strings
- If you cannot find a field, use null for that field
- Do not include any text before or after the JSON
- Do not use markdown code blocks`

type extractor struct {
	client  *genai.Client
	model   *genai.GenerativeModel
	timeout time.Duration
}

// NewExtractor creates a Gemini-backed InvoiceExtractor.
func NewExtractor(ctx context.Context, cfg config.ExtractConfig) (port.InvoiceExtractor, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini: api key is required")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, fmt.Errorf("gemini: creating client: %w", err)
	}

	timeout := time.Duration(cfg.TimeoutSecs) * time.Second
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	return &extractor{
		client:  client,
		model:   client.GenerativeModel(cfg.Model),
		timeout: timeout,
	}, nil
}

func (e *extractor) Extract(ctx context.Context, input port.ExtractInput) (*domain.Invoice, error) {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	parts := []genai.Part{
		genai.ImageData(imageFormat(input.ContentType), input.FileBytes),
		genai.Text(extractPrompt),
	}

	resp, err := e.model.GenerateContent(ctx, parts...)
	if err != nil {
		return nil, fmt.Errorf("%w: generating content: %v", domain.ErrExtractionFailed, err)
	}
	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("%w: empty model response", domain.ErrExtractionFailed)
	}

	var text strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if t, ok := part.(genai.Text); ok {
			text.WriteString(string(t))
		}
	}

	draft, err := parseInvoiceJSON(text.String())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrExtractionFailed, err)
	}
	return draft, nil
}

// Close closes the underlying Gemini client.
func (e *extractor) Close() error {
	return e.client.Close()
}

// imageFormat maps a MIME type to the format suffix genai.ImageData expects.
func imageFormat(contentType string) string {
	if format, ok := strings.CutPrefix(contentType, "image/"); ok && format != "" {
		return format
	}
	return "png"
}
