package csvexport

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"excelsaver/internal/columns"
	"excelsaver/internal/domain"
	"excelsaver/internal/format"
)

// UTF-8 BOM bytes for Excel compatibility with non-ASCII text.
var BOM = []byte{0xEF, 0xBB, 0xBF}

// Options controls locale-dependent rendering of the export.
type Options struct {
	// DecimalComma replaces the decimal point of numeric cells with a
	// comma before escaping. This runs ahead of the quoting check on
	// purpose: the substitution itself can make a cell need quoting.
	// The table view always keeps the point; only the export is
	// localized. That asymmetry comes from the regional export
	// convention and is intentional.
	DecimalComma bool
}

// Writer renders invoices as CSV rows through the column model. Cells go
// through the same formatter as the on-screen table, so the export is
// exactly what a filtered view shows.
type Writer struct {
	csv  *csv.Writer
	cols []columns.Descriptor
	opts Options
}

// NewWriter creates a Writer over the exportable subset of cols: visible
// columns minus the display-only actions column.
func NewWriter(w io.Writer, cols []columns.Descriptor, opts Options) *Writer {
	exportable := make([]columns.Descriptor, 0, len(cols))
	for _, c := range columns.Visible(cols) {
		if c.Type == columns.KindActions {
			continue
		}
		exportable = append(exportable, c)
	}
	return &Writer{csv: csv.NewWriter(w), cols: exportable, opts: opts}
}

// WriteHeader writes the column labels in visible order.
func (w *Writer) WriteHeader() error {
	labels := make([]string, len(w.cols))
	for i, c := range w.cols {
		labels[i] = c.Label
	}
	return w.csv.Write(labels)
}

// WriteInvoices writes one row per invoice, in the given order. The
// caller passes the filtered and sorted but unpaginated set; the export
// always contains every matching record.
func (w *Writer) WriteInvoices(invs []domain.Invoice) error {
	for i := range invs {
		row := make([]string, len(w.cols))
		for j, c := range w.cols {
			row[j] = w.cell(&invs[i], c)
		}
		if err := w.csv.Write(row); err != nil {
			return err
		}
	}
	return nil
}

// Flush flushes the underlying csv.Writer buffer.
func (w *Writer) Flush() {
	w.csv.Flush()
}

// Error returns any error from the underlying csv.Writer.
func (w *Writer) Error() error {
	return w.csv.Error()
}

func (w *Writer) cell(inv *domain.Invoice, col columns.Descriptor) string {
	s := format.Cell(inv, col)
	if w.opts.DecimalComma && format.Numeric(col.Type) {
		s = strings.ReplaceAll(s, ".", ",")
	}
	return s
}

// Marshal renders the whole export as one BOM-prefixed blob.
func Marshal(invs []domain.Invoice, cols []columns.Descriptor, opts Options) ([]byte, error) {
	var buf bytes.Buffer
	buf.Write(BOM)
	w := NewWriter(&buf, cols, opts)
	if err := w.WriteHeader(); err != nil {
		return nil, err
	}
	if err := w.WriteInvoices(invs); err != nil {
		return nil, err
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Filename returns the download filename for an export started now.
// Format: invoices-{YYYY-MM-DD}.csv
func Filename() string {
	return fmt.Sprintf("invoices-%s.csv", time.Now().Format("2006-01-02"))
}
