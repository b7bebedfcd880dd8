package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Raw CSV header names, in file order.
const (
	RawOrderID   = "order_id"
	RawCustomer  = "customer"
	RawProduct   = "product"
	RawQuantity  = "quantity"
	RawPrice     = "price"
	RawOrderDate = "order_date"
	RawEmail     = "email"
	RawAddress   = "address"
)

// RawHeader is the fixed header row of the raw sales file.
var RawHeader = []string{
	RawOrderID,
	RawCustomer,
	RawProduct,
	RawQuantity,
	RawPrice,
	RawOrderDate,
	RawEmail,
	RawAddress,
}

// Canonical column names of the cleaned table.
const (
	ColOrderID             = "Order ID"
	ColCustomer            = "Customer"
	ColProduct             = "Product"
	ColQuantity            = "Quantity"
	ColPrice               = "Price"
	ColOrderDate           = "Order Date"
	ColOrderDateTime       = "Order DateTime"
	ColEmail               = "Email"
	ColAddress             = "Address"
	ColStreetName          = "Street Name"
	ColCity                = "City"
	ColState               = "State"
	ColZipCode             = "Zip Code"
	ColTotalSales          = "Total Sales"
	ColFormattedTotalSales = "Formatted Total Sales"
	ColFormattedPrice      = "Formatted Price"
	ColMonth               = "Month"
)

// CleanedColumns is the canonical column order of a cleaned record.
var CleanedColumns = []string{
	ColOrderID,
	ColCustomer,
	ColProduct,
	ColQuantity,
	ColPrice,
	ColOrderDate,
	ColOrderDateTime,
	ColEmail,
	ColAddress,
	ColStreetName,
	ColCity,
	ColState,
	ColZipCode,
	ColTotalSales,
	ColFormattedTotalSales,
}

// RawRecord is one sales row exactly as read from the source file.
// Empty strings mean the value was missing. The struct is comparable so
// exact duplicates can be detected with a map.
type RawRecord struct {
	OrderID   string `json:"order_id" csv:"order_id"`
	Customer  string `json:"customer" csv:"customer"`
	Product   string `json:"product" csv:"product"`
	Quantity  string `json:"quantity" csv:"quantity"`
	Price     string `json:"price" csv:"price"`
	OrderDate string `json:"order_date" csv:"order_date"`
	Email     string `json:"email" csv:"email"`
	Address   string `json:"address" csv:"address"`
}

// Fields returns the record values in RawHeader order.
func (r RawRecord) Fields() []string {
	return []string{r.OrderID, r.Customer, r.Product, r.Quantity, r.Price, r.OrderDate, r.Email, r.Address}
}

// IsBlank reports whether every field of the record is empty.
func (r RawRecord) IsBlank() bool {
	return r == RawRecord{}
}

// AddressKind tells which address shape matched.
type AddressKind int

const (
	AddressUnrecognized AddressKind = iota
	AddressMilitary
	AddressStandard
)

// String returns the kind name used in logs
func (k AddressKind) String() string {
	switch k {
	case AddressMilitary:
		return "military"
	case AddressStandard:
		return "standard"
	default:
		return "unrecognized"
	}
}

// AddressParts is the decomposition of a single-line address.
//
// For military addresses City holds the overseas office token (APO, FPO or
// DPO) and State holds the two-letter region code. When Kind is
// AddressUnrecognized the three fields are null and stay empty.
type AddressParts struct {
	Kind   AddressKind `json:"kind"`
	Street string      `json:"street,omitempty"`
	City   string      `json:"city,omitempty"`
	State  string      `json:"state,omitempty"`
}

// Recognized reports whether one of the address patterns matched.
func (a AddressParts) Recognized() bool {
	return a.Kind != AddressUnrecognized
}

// SalesRecord is one cleaned sales transaction, ready for reporting.
type SalesRecord struct {
	OrderID             string          `json:"order_id"`
	Customer            string          `json:"customer"`
	Product             string          `json:"product"`
	Quantity            int64           `json:"quantity"`
	Price               decimal.Decimal `json:"price"`
	OrderDate           string          `json:"order_date"`
	OrderDateTime       time.Time       `json:"order_datetime"`
	Email               string          `json:"email"`
	Address             string          `json:"address"`
	Location            AddressParts    `json:"location"`
	ZipCode             string          `json:"zip_code,omitempty"`
	TotalSales          decimal.Decimal `json:"total_sales"`
	FormattedTotalSales string          `json:"formatted_total_sales"`
}

// ProductSummary is one row of the per-product summary table.
type ProductSummary struct {
	Product             string          `json:"product"`
	Quantity            int64           `json:"quantity"`
	TotalSales          decimal.Decimal `json:"total_sales"`
	FormattedTotalSales string          `json:"formatted_total_sales"`
}

// MonthlySales is one row of the monthly sales series.
type MonthlySales struct {
	Month               time.Time       `json:"month"` // first day of the month, UTC
	Label               string          `json:"label"` // e.g. "January 2024"
	TotalSales          decimal.Decimal `json:"total_sales"`
	FormattedTotalSales string          `json:"formatted_total_sales"`
}
