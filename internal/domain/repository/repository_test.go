package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewPaginationClamps(t *testing.T) {
	p := NewPagination(0, 0)
	assert.Equal(t, Pagination{Page: 1, PageSize: 20}, p)

	p = NewPagination(3, 500)
	assert.Equal(t, 100, p.Limit())
	assert.Equal(t, 200, p.Offset())
}

func TestNewPagedResultTotalPages(t *testing.T) {
	r := NewPagedResult([]string{"a", "b"}, 41, NewPagination(1, 20))
	assert.Equal(t, 3, r.TotalPages)
	assert.Equal(t, int64(41), r.Total)

	r = NewPagedResult([]string{}, 0, NewPagination(1, 20))
	assert.Equal(t, 0, r.TotalPages)
}
