package repositories

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestListOffsetFirstPageStartsAtRowZero(t *testing.T) {
	assert.Equal(t, 0, listOffset(1, 20))
	assert.Equal(t, 0, listOffset(0, 20))
	assert.Equal(t, 0, listOffset(-3, 20))
}

func TestListOffsetAdvancesByPageSize(t *testing.T) {
	assert.Equal(t, 20, listOffset(2, 20))
	assert.Equal(t, 100, listOffset(3, 50))
}
