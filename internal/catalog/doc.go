// Package catalog holds the sellable records that quotations draw line
// items from. Products and spare parts live in sub-packages; ListFilters is
// shared by both.
package catalog

// ListFilters represents standard list filters for catalog records.
type ListFilters struct {
	Page     int
	PerPage  int
	Search   string
	Category string
	SortBy   string
	SortDir  string
}

// SortDirection normalises dir to ASC or DESC.
func SortDirection(dir string) string {
	if dir == "desc" {
		return "DESC"
	}
	return "ASC"
}
