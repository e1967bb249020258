package handlers

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func testContext(target string) *gin.Context {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", target, nil)
	return c
}

func TestPaginationDefaultsToFirstPage(t *testing.T) {
	page, size := pagination(testContext("/patients/p1/bills"))

	assert.Equal(t, 1, page)
	assert.Equal(t, 20, size)
}

func TestPaginationClampsBadInput(t *testing.T) {
	page, size := pagination(testContext("/patients/p1/bills?page=0&size=500"))
	assert.Equal(t, 1, page)
	assert.Equal(t, 20, size)

	page, size = pagination(testContext("/patients/p1/bills?page=3&size=50"))
	assert.Equal(t, 3, page)
	assert.Equal(t, 50, size)
}
