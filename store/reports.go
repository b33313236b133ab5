package store

import (
	"database/sql"
	"time"

	"orderdesk/models"

	"gorm.io/gorm"
)

// ReportStore builds the dashboard aggregation and the filterable order
// report. Every call is stateless over current table contents.
type ReportStore struct {
	db *gorm.DB
}

func NewReportStore(db *gorm.DB) *ReportStore {
	return &ReportStore{db: db}
}

// Metrics are the dashboard KPIs. "This month" means the calendar year-month
// of the reference time, compared against the stored ISO date string.
type Metrics struct {
	CustomerCount   int64   `json:"customer_count"`
	OrdersThisMonth int64   `json:"orders_this_month"`
	AvgOrderTotal   float64 `json:"avg_order_total_this_month"`
}

// ReportFilter holds the optional, conjunctive report filters. Zero values
// impose no constraint. Date bounds are inclusive.
type ReportFilter struct {
	DateFrom   string
	DateTo     string
	CustomerID uint
}

// ReportRow is the report row shape. It is handed verbatim to the export
// collaborator; no display formatting happens here.
type ReportRow struct {
	OrderID      uint    `json:"order_id"`
	Date         string  `json:"date"`
	CustomerName string  `json:"customer_name"`
	ItemCount    int     `json:"item_count"`
	Total        float64 `json:"total"`
}

// CustomerOption is an (id, name) pair for the report filter selector.
type CustomerOption struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

// DashboardMetrics computes the KPIs for the month of now. With no orders in
// the month the average is 0.0, not null.
func (s *ReportStore) DashboardMetrics(now time.Time) (Metrics, error) {
	var m Metrics
	month := now.Format("2006-01")

	if err := s.db.Model(&models.Customer{}).Count(&m.CustomerCount).Error; err != nil {
		return Metrics{}, err
	}

	if err := s.db.Model(&models.Order{}).
		Where("strftime('%Y-%m', date) = ?", month).
		Count(&m.OrdersThisMonth).Error; err != nil {
		return Metrics{}, err
	}

	var avg sql.NullFloat64
	row := s.db.Model(&models.Order{}).
		Select("AVG(total)").
		Where("strftime('%Y-%m', date) = ?", month).
		Row()
	if err := row.Scan(&avg); err != nil {
		return Metrics{}, err
	}
	if avg.Valid {
		m.AvgOrderTotal = avg.Float64
	}
	return m, nil
}

// FilteredOrders returns orders matching every set filter, newest first. The
// item count is a correlated count over the items at query time, not a stored
// value.
func (s *ReportStore) FilteredOrders(f ReportFilter) ([]ReportRow, error) {
	q := s.db.Table("orders").
		Select(`orders.id AS order_id, orders.date, customers.name AS customer_name,
			(SELECT COUNT(order_items.id) FROM order_items WHERE order_items.order_id = orders.id) AS item_count,
			orders.total`).
		Joins("JOIN customers ON customers.id = orders.customer_id")

	if f.DateFrom != "" {
		q = q.Where("orders.date >= ?", f.DateFrom)
	}
	if f.DateTo != "" {
		q = q.Where("orders.date <= ?", f.DateTo)
	}
	if f.CustomerID != 0 {
		q = q.Where("orders.customer_id = ?", f.CustomerID)
	}

	var rows []ReportRow
	if err := q.Order("orders.date DESC, orders.id DESC").Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// CustomerOptions lists (id, name) pairs ordered by name for the filter UI.
func (s *ReportStore) CustomerOptions() ([]CustomerOption, error) {
	var opts []CustomerOption
	err := s.db.Model(&models.Customer{}).
		Select("id, name").
		Order("name ASC").
		Scan(&opts).Error
	if err != nil {
		return nil, err
	}
	return opts, nil
}
