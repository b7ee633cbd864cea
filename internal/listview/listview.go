// Package listview implements the in-memory filtering, sorting and
// pagination applied to the admin list views. All functions are pure so the
// behavior can be exercised without any transport or storage concern.
package listview

import (
	"sort"
	"strings"
)

// DefaultPageSize is the fixed page size used by the list views.
const DefaultPageSize = 20

const windowSize = 5

// Extractor reads one filterable/sortable field from a record.
type Extractor[T any] func(T) string

// Filter returns the records for which any of the allow-listed fields
// contains term, case-insensitively. An empty or blank term returns the
// input unchanged, in its original order.
func Filter[T any](items []T, term string, fields ...Extractor[T]) []T {
	needle := strings.ToLower(strings.TrimSpace(term))
	if needle == "" {
		return items
	}

	matched := make([]T, 0, len(items))
	for _, item := range items {
		for _, field := range fields {
			if strings.Contains(strings.ToLower(field(item)), needle) {
				matched = append(matched, item)
				break
			}
		}
	}
	return matched
}

// FilterIn keeps records whose field value is one of the selected values.
// An empty selection imposes no restriction.
func FilterIn[T any](items []T, selected []string, field Extractor[T]) []T {
	if len(selected) == 0 {
		return items
	}

	allowed := make(map[string]struct{}, len(selected))
	for _, value := range selected {
		allowed[value] = struct{}{}
	}

	matched := make([]T, 0, len(items))
	for _, item := range items {
		if _, ok := allowed[field(item)]; ok {
			matched = append(matched, item)
		}
	}
	return matched
}

// SortStable returns a copy of the records ordered by the key field. Ties
// keep their original relative order so records with equal keys never swap
// between renders. Missing values compare as the empty string.
func SortStable[T any](items []T, key Extractor[T], descending bool) []T {
	sorted := make([]T, len(items))
	copy(sorted, items)

	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := key(sorted[i]), key(sorted[j])
		if descending {
			return a > b
		}
		return a < b
	})
	return sorted
}

// Page carries pagination metadata for a list response.
type Page struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalItems int   `json:"total_items"`
	TotalPages int   `json:"total_pages"`
	Window     []int `json:"window"`
}

// Paginate slices one page out of the records. Page numbers are 1-based; a
// request beyond the last page clamps to the last page instead of returning
// an empty out-of-range slice.
func Paginate[T any](items []T, page, size int) ([]T, Page) {
	if size <= 0 {
		size = DefaultPageSize
	}
	if page <= 0 {
		page = 1
	}

	totalPages := (len(items) + size - 1) / size
	if totalPages == 0 {
		totalPages = 1
	}
	if page > totalPages {
		page = totalPages
	}

	start := (page - 1) * size
	end := start + size
	if start > len(items) {
		start = len(items)
	}
	if end > len(items) {
		end = len(items)
	}

	meta := Page{
		Page:       page,
		PageSize:   size,
		TotalItems: len(items),
		TotalPages: totalPages,
		Window:     Window(page, totalPages),
	}
	return items[start:end], meta
}

// Window returns the page numbers to display: all pages while there are five
// or fewer, otherwise a five-page slice that follows the current page and
// pins to either edge.
func Window(current, total int) []int {
	if total <= 0 {
		return []int{1}
	}
	if current < 1 {
		current = 1
	}
	if current > total {
		current = total
	}

	count := windowSize
	if total < count {
		count = total
	}

	pages := make([]int, count)
	for i := range pages {
		switch {
		case total <= windowSize:
			pages[i] = i + 1
		case current <= 3:
			pages[i] = i + 1
		case current >= total-2:
			pages[i] = total - windowSize + 1 + i
		default:
			pages[i] = current - 2 + i
		}
	}
	return pages
}
