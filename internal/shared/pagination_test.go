package shared

import (
	"testing"

	"github.com/stretchr/testify/assert"

	_ "github.com/motorlane/motorlane/testing"
)

func TestNewPagination(t *testing.T) {
	pg := NewPagination(0, 0, 45)
	assert.Equal(t, 1, pg.Page)
	assert.Equal(t, 20, pg.PerPage)
	assert.Equal(t, 3, pg.TotalPages)
	assert.Equal(t, 0, pg.Offset())

	pg = NewPagination(3, 10, 45)
	assert.Equal(t, 5, pg.TotalPages)
	assert.Equal(t, 20, pg.Offset())
}
