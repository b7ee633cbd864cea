package listview

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

type record struct {
	Name  string
	Level string
}

func nameOf(r record) string  { return r.Name }
func levelOf(r record) string { return r.Level }

func TestFilterMatchesAnyFieldCaseInsensitively(t *testing.T) {
	items := []record{
		{Name: "Mina", Level: "one"},
		{Name: "Kirollos", Level: "two"},
		{Name: "Marina", Level: "three"},
	}

	matched := Filter(items, "  MIN ", nameOf)
	require.Len(t, matched, 2)
	require.Equal(t, "Mina", matched[0].Name)
	require.Equal(t, "Marina", matched[1].Name)
}

func TestFilterBlankTermReturnsInputUnchanged(t *testing.T) {
	items := []record{{Name: "b"}, {Name: "a"}}
	require.Equal(t, items, Filter(items, "   ", nameOf))
}

func TestFilterInEmptySelectionImposesNoRestriction(t *testing.T) {
	items := []record{{Level: "one"}, {Level: "two"}}
	require.Equal(t, items, FilterIn(items, nil, levelOf))

	matched := FilterIn(items, []string{"two"}, levelOf)
	require.Len(t, matched, 1)
	require.Equal(t, "two", matched[0].Level)
}

func TestSortStableKeepsTiesInOriginalOrder(t *testing.T) {
	items := []record{
		{Name: "b", Level: "x"},
		{Name: "a", Level: "first"},
		{Name: "a", Level: "second"},
	}

	sorted := SortStable(items, nameOf, false)
	require.Equal(t, "a", sorted[0].Name)
	require.Equal(t, "first", sorted[0].Level)
	require.Equal(t, "second", sorted[1].Level)
	require.Equal(t, "b", sorted[2].Name)

	// the input slice is untouched
	require.Equal(t, "b", items[0].Name)

	descending := SortStable(items, nameOf, true)
	require.Equal(t, "b", descending[0].Name)
}

func TestPaginateClampsBeyondLastPage(t *testing.T) {
	items := make([]record, 45)
	for i := range items {
		items[i] = record{Name: fmt.Sprintf("s%02d", i)}
	}

	pageItems, page := Paginate(items, 9, DefaultPageSize)
	require.Equal(t, 3, page.Page)
	require.Equal(t, 3, page.TotalPages)
	require.Equal(t, 45, page.TotalItems)
	require.Len(t, pageItems, 5)
	require.Equal(t, "s40", pageItems[0].Name)
}

func TestPaginateEmptyInputYieldsSinglePage(t *testing.T) {
	pageItems, page := Paginate([]record{}, 1, DefaultPageSize)
	require.Empty(t, pageItems)
	require.Equal(t, 1, page.Page)
	require.Equal(t, 1, page.TotalPages)
	require.Equal(t, []int{1}, page.Window)
}

func TestWindowSlidesAndPinsToEdges(t *testing.T) {
	require.Equal(t, []int{1, 2, 3}, Window(2, 3))
	require.Equal(t, []int{1, 2, 3, 4, 5}, Window(1, 9))
	require.Equal(t, []int{1, 2, 3, 4, 5}, Window(3, 9))
	require.Equal(t, []int{2, 3, 4, 5, 6}, Window(4, 9))
	require.Equal(t, []int{4, 5, 6, 7, 8}, Window(6, 9))
	require.Equal(t, []int{5, 6, 7, 8, 9}, Window(7, 9))
	require.Equal(t, []int{5, 6, 7, 8, 9}, Window(9, 9))
}
