package services

import (
	"context"
	"errors"
	"time"

	apperrors "spenza/internal/errors"
	"spenza/internal/pagination"
	"spenza/internal/report"
)

// reportService composes the expense store, the aggregation engine, and the
// pager into one stateless request/response pipeline. Each BuildReport call
// is independent; concurrent calls need no coordination.
type reportService struct {
	store        ExpenseServicer
	queryTimeout time.Duration
}

// NewReportService creates a new ReportServicer. queryTimeout bounds the
// store read so a report request fails instead of hanging.
func NewReportService(store ExpenseServicer, queryTimeout time.Duration) ReportServicer {
	return &reportService{store: store, queryTimeout: queryTimeout}
}

// BuildReport runs the full pipeline: fetch the filtered record set, group
// it by the requested dimension, order rows by total descending (label
// ascending on ties), and slice out the requested page. The grand total is
// computed once over the entire filtered set, never from a single page.
// Store failures surface as REPORT_UNAVAILABLE; reads are idempotent, so
// the client simply re-requests — no retries happen here.
func (s *reportService) BuildReport(ctx context.Context, scope Scope, filter ReportFilter, dim report.Dimension, page pagination.PageRequest) (*ReportResult, error) {
	filter.Normalize()
	page.Defaults()

	ctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	records, err := s.store.FindReportRecords(ctx, scope, filter, dim)
	if err != nil {
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) && appErr.Code == apperrors.ErrStoreUnavailable.Code {
			return nil, apperrors.Wrap(apperrors.ErrReportUnavailable, err)
		}
		return nil, err
	}

	rows := report.Aggregate(records, dim)
	report.Sort(rows)

	paged, err := pagination.Slice(rows, page.Page, page.PageSize)
	if err != nil {
		return nil, err
	}

	return &ReportResult{
		PageResponse: paged,
		GrandTotal:   report.GrandTotal(records),
	}, nil
}
