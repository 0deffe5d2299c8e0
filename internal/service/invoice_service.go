package service

import (
	"context"
	"strings"

	"excelsaver/internal/columns"
	"excelsaver/internal/csvexport"
	"excelsaver/internal/domain"
	"excelsaver/internal/format"
	"excelsaver/internal/port"
	"excelsaver/internal/query"
)

// ListInput carries the filter, page, and column state for one table view.
type ListInput struct {
	OwnerID  string
	Search   string
	Range    *query.DateRange
	Page     int
	PageSize int
	Columns  []columns.Descriptor
}

// ExportInput carries the filter and column state for one CSV export.
// Pagination deliberately has no place here: the export always contains
// every matching record.
type ExportInput struct {
	OwnerID string
	Search  string
	Range   *query.DateRange
	Columns []columns.Descriptor
}

// InvoiceRow is one table row: the record plus its rendered cell per
// visible column key.
type InvoiceRow struct {
	Invoice domain.Invoice    `json:"invoice"`
	Cells   map[string]string `json:"cells"`
}

// ListOutput is one page of the filtered, sorted collection.
type ListOutput struct {
	Rows       []InvoiceRow `json:"rows"`
	Total      int          `json:"total"`
	Page       int          `json:"page"`
	PageSize   int          `json:"page_size"`
	TotalPages int          `json:"total_pages"`
}

// InvoiceService runs the reconciliation pipeline over the owner's
// records: normalize, filter, sort, paginate for display; the same
// filtered and sorted set, unpaginated, for export.
type InvoiceService interface {
	List(ctx context.Context, in *ListInput) (*ListOutput, error)
	ExportCSV(ctx context.Context, in *ExportInput) ([]byte, string, error)
	Create(ctx context.Context, ownerID string, inv *domain.Invoice) (*domain.Invoice, error)
	Replace(ctx context.Context, ownerID string, inv *domain.Invoice) (*domain.Invoice, error)
	Delete(ctx context.Context, ownerID, invoiceID string) error
	Scan(ctx context.Context, ownerID string, fileBytes []byte, contentType string) (*domain.Invoice, error)
}

type invoiceService struct {
	repo         port.InvoiceRepository
	extractor    port.InvoiceExtractor
	decimalComma bool
}

// NewInvoiceService creates an InvoiceService. decimalComma selects the
// regional CSV convention; it has no effect on the table view.
func NewInvoiceService(repo port.InvoiceRepository, extractor port.InvoiceExtractor, decimalComma bool) InvoiceService {
	return &invoiceService{repo: repo, extractor: extractor, decimalComma: decimalComma}
}

func (s *invoiceService) List(ctx context.Context, in *ListInput) (*ListOutput, error) {
	matched, err := s.matching(ctx, in.OwnerID, in.Search, in.Range)
	if err != nil {
		return nil, err
	}

	page := query.Paginate(matched, in.PageSize, clampPage(in.Page, len(matched), in.PageSize))

	rows := make([]InvoiceRow, len(page.Items))
	for i := range page.Items {
		rows[i] = InvoiceRow{
			Invoice: page.Items[i],
			Cells:   renderCells(&page.Items[i], in.Columns),
		}
	}

	return &ListOutput{
		Rows:       rows,
		Total:      len(matched),
		Page:       clampPage(in.Page, len(matched), in.PageSize),
		PageSize:   in.PageSize,
		TotalPages: page.TotalPages,
	}, nil
}

func (s *invoiceService) ExportCSV(ctx context.Context, in *ExportInput) ([]byte, string, error) {
	matched, err := s.matching(ctx, in.OwnerID, in.Search, in.Range)
	if err != nil {
		return nil, "", err
	}

	blob, err := csvexport.Marshal(matched, in.Columns, csvexport.Options{DecimalComma: s.decimalComma})
	if err != nil {
		return nil, "", err
	}
	return blob, csvexport.Filename(), nil
}

func (s *invoiceService) Create(ctx context.Context, ownerID string, inv *domain.Invoice) (*domain.Invoice, error) {
	if err := validateDraft(inv); err != nil {
		return nil, err
	}
	return s.repo.Create(ctx, ownerID, inv)
}

func (s *invoiceService) Replace(ctx context.Context, ownerID string, inv *domain.Invoice) (*domain.Invoice, error) {
	if err := validateDraft(inv); err != nil {
		return nil, err
	}
	return s.repo.Update(ctx, ownerID, inv)
}

func (s *invoiceService) Delete(ctx context.Context, ownerID, invoiceID string) error {
	return s.repo.Delete(ctx, ownerID, invoiceID)
}

func (s *invoiceService) Scan(ctx context.Context, ownerID string, fileBytes []byte, contentType string) (*domain.Invoice, error) {
	draft, err := s.extractor.Extract(ctx, port.ExtractInput{FileBytes: fileBytes, ContentType: contentType})
	if err != nil {
		return nil, err
	}
	// extraction output is trusted as-is, but the record contract from
	// manual entry still holds
	if err := validateDraft(draft); err != nil {
		return nil, err
	}
	return s.repo.Create(ctx, ownerID, draft)
}

// matching fetches the owner's records and applies filter + sort, the
// shared front half of both List and ExportCSV.
func (s *invoiceService) matching(ctx context.Context, ownerID, search string, dr *query.DateRange) ([]domain.Invoice, error) {
	invs, err := s.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	matched := query.Filter(invs, query.BuildPredicate(search, dr))
	return query.SortByDateDesc(matched), nil
}

func renderCells(inv *domain.Invoice, cols []columns.Descriptor) map[string]string {
	cells := make(map[string]string)
	for _, c := range columns.Visible(cols) {
		if c.Type == columns.KindActions {
			continue
		}
		cells[c.Key] = format.Cell(inv, c)
	}
	return cells
}

// clampPage keeps the requested page inside [1, totalPages]; the
// paginator itself does not clamp.
func clampPage(page, count, pageSize int) int {
	if page < 1 {
		return 1
	}
	if pageSize < 1 {
		pageSize = 1
	}
	total := (count + pageSize - 1) / pageSize
	if total < 1 {
		total = 1
	}
	if page > total {
		return total
	}
	return page
}

func validateDraft(inv *domain.Invoice) error {
	if strings.TrimSpace(inv.InvoiceNumber) == "" || strings.TrimSpace(inv.CounterpartyName) == "" {
		return domain.ErrMissingField
	}
	if inv.Amount < 0 {
		return domain.ErrNegativeAmount
	}
	if inv.Status != "" && !domain.ValidStatuses[inv.Status] {
		return domain.ErrInvalidStatus
	}
	return nil
}
