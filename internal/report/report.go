// Package report implements grouped aggregation over expense records.
// Aggregation is a pure function of its input: the same record set yields
// the same rows regardless of input order, and totals are exact decimal
// sums that never accumulate floating-point error.
package report

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// Dimension selects which label an expense record is bucketed by.
type Dimension string

const (
	DimensionUser     Dimension = "user"
	DimensionCategory Dimension = "category"
	DimensionZone     Dimension = "zone"
)

// ParseDimension validates a raw group_by value.
func ParseDimension(raw string) (Dimension, bool) {
	switch Dimension(raw) {
	case DimensionUser, DimensionCategory, DimensionZone:
		return Dimension(raw), true
	}
	return "", false
}

// Record is one expense joined with the labels of all three dimensions,
// as returned by the expense store for report queries.
type Record struct {
	ExpenseID    uint
	UserID       uint
	UserName     string
	CategoryID   uint
	CategoryName string
	ZoneID       uint
	ZoneName     string
	Amount       decimal.Decimal
	ExpenseDate  time.Time
}

// key returns the record's group key and label for the given dimension.
func (r *Record) key(dim Dimension) (uint, string) {
	switch dim {
	case DimensionUser:
		return r.UserID, r.UserName
	case DimensionCategory:
		return r.CategoryID, r.CategoryName
	default:
		return r.ZoneID, r.ZoneName
	}
}

// AggregateRow is one group's totals. Rows are derived per request and
// never persisted.
type AggregateRow struct {
	GroupKey     uint            `json:"group_key"`
	GroupLabel   string          `json:"group_label"`
	Total        decimal.Decimal `json:"total"`
	Count        int64           `json:"count"`
	LastActivity time.Time       `json:"last_activity"`
}

// Aggregate buckets records by the given dimension and computes each
// group's exact total, record count, and most recent expense date.
// The returned rows are in no particular order; use Sort before paginating.
func Aggregate(records []Record, dim Dimension) []AggregateRow {
	groups := make(map[uint]*AggregateRow)
	for i := range records {
		rec := &records[i]
		key, label := rec.key(dim)

		row, ok := groups[key]
		if !ok {
			row = &AggregateRow{
				GroupKey:   key,
				GroupLabel: label,
				Total:      decimal.Zero,
			}
			groups[key] = row
		}

		row.Total = row.Total.Add(rec.Amount)
		row.Count++
		if rec.ExpenseDate.After(row.LastActivity) {
			row.LastActivity = rec.ExpenseDate
		}
	}

	rows := make([]AggregateRow, 0, len(groups))
	for _, row := range groups {
		rows = append(rows, *row)
	}
	return rows
}

// Sort orders rows by total descending, with ties broken by group label
// ascending so output is deterministic across requests.
func Sort(rows []AggregateRow) {
	sort.Slice(rows, func(i, j int) bool {
		cmp := rows[i].Total.Cmp(rows[j].Total)
		if cmp != 0 {
			return cmp > 0
		}
		return rows[i].GroupLabel < rows[j].GroupLabel
	})
}

// GrandTotal sums amounts across the entire record set. It is computed
// from the full filtered set, never from a single page of rows.
func GrandTotal(records []Record) decimal.Decimal {
	total := decimal.Zero
	for i := range records {
		total = total.Add(records[i].Amount)
	}
	return total
}
