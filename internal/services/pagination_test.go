package services

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewPagination(t *testing.T) {
	tests := []struct {
		name        string
		page, limit int
		total       int64
		want        Pagination
	}{
		{"first of three", 1, 10, 25, Pagination{Page: 1, Limit: 10, Total: 25, TotalPages: 3, HasNext: true}},
		{"middle", 2, 10, 25, Pagination{Page: 2, Limit: 10, Total: 25, TotalPages: 3, HasNext: true, HasPrev: true}},
		{"last", 3, 10, 25, Pagination{Page: 3, Limit: 10, Total: 25, TotalPages: 3, HasPrev: true}},
		{"exact multiple", 2, 5, 10, Pagination{Page: 2, Limit: 5, Total: 10, TotalPages: 2, HasPrev: true}},
		{"empty", 1, 10, 0, Pagination{Page: 1, Limit: 10}},
		{"beyond the end", 5, 10, 25, Pagination{Page: 5, Limit: 10, Total: 25, TotalPages: 3, HasPrev: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NewPagination(tt.page, tt.limit, tt.total))
		})
	}
}

func TestNormalizePage(t *testing.T) {
	page, limit := normalizePage(0, 0)
	assert.Equal(t, DefaultPage, page)
	assert.Equal(t, DefaultLimit, limit)

	page, limit = normalizePage(3, 1000)
	assert.Equal(t, 3, page)
	assert.Equal(t, MaxLimit, limit)

	assert.Equal(t, 20, pageOffset(3, 10))
}

func TestPageOffset_Saturates(t *testing.T) {
	assert.Equal(t, math.MaxInt-math.MaxInt%MaxLimit, pageOffset(MaxPage, MaxLimit))
	assert.Equal(t, math.MaxInt, pageOffset(MaxPage+1, MaxLimit))
	assert.Equal(t, math.MaxInt-1, pageOffset(math.MaxInt, 1))
	assert.Equal(t, math.MaxInt, pageOffset(math.MaxInt, 2))
}

func TestPasswordProblems(t *testing.T) {
	assert.Len(t, passwordProblems("12345"), 1)
	assert.Empty(t, passwordProblems("123456"))
	assert.Len(t, passwordProblems(string(make([]byte, 73))), 1)
}

func TestValidateID(t *testing.T) {
	id, err := newID()
	assert.NoError(t, err)
	assert.NoError(t, validateID(id))
	assert.ErrorIs(t, validateID("507f1f77bcf86cd799439011"), ErrInvalidID)
}
