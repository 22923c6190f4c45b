package models

// Pagination describes the page returned alongside a list
type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
}

// NewPagination computes the page count for total rows split into pages of limit
func NewPagination(page, limit int, total int64) Pagination {
	totalPages := 0
	if limit > 0 {
		totalPages = int((total + int64(limit) - 1) / int64(limit))
	}
	return Pagination{Page: page, Limit: limit, Total: total, TotalPages: totalPages}
}

// CaseList is a page of cases
type CaseList struct {
	Cases      []CaseSummary `json:"cases"`
	Pagination Pagination    `json:"pagination"`
}

// AuditLogList is a page of audit rows
type AuditLogList struct {
	Logs       []AuditLog `json:"logs"`
	Pagination Pagination `json:"pagination"`
}
