package scope

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUnboundedRequestReportsSinglePage(t *testing.T) {
	p := NewPagination(PageRequest{}, 37)
	assert.Equal(t, Pagination{Page: 1, Limit: 37, Total: 37, Pages: 1}, p)
}

func TestBoundedPaginationRoundsUp(t *testing.T) {
	p := NewPagination(PageRequest{Page: 2, Limit: 10}, 25)
	assert.Equal(t, Pagination{Page: 2, Limit: 10, Total: 25, Pages: 3}, p)
}

func TestEmptyResultStillHasOnePage(t *testing.T) {
	p := NewPagination(PageRequest{Page: 1, Limit: 10}, 0)
	assert.Equal(t, 1, p.Pages)
	assert.Equal(t, 0, p.Total)
}

func TestOffsetClampsPage(t *testing.T) {
	assert.Equal(t, 0, PageRequest{Page: 0, Limit: 10}.Offset())
	assert.Equal(t, 0, PageRequest{Page: 1, Limit: 10}.Offset())
	assert.Equal(t, 20, PageRequest{Page: 3, Limit: 10}.Offset())
}
