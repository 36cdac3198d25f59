package query

import (
	"net/url"
	"strings"
)

// ParseFilter reads a Filter from URL query parameters: status, search,
// project, manager, type, month, sort and order ("asc" or "desc").
func ParseFilter(v url.Values) Filter {
	return Filter{
		Status:         v.Get("status"),
		Search:         v.Get("search"),
		ProjectID:      v.Get("project"),
		ManagerID:      v.Get("manager"),
		ContractorType: v.Get("type"),
		Month:          v.Get("month"),
		Sort: Sort{
			Field:     v.Get("sort"),
			Ascending: strings.EqualFold(v.Get("order"), "asc"),
		},
	}
}
