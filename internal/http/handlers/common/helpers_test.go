package common

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func listContext(rawQuery string) *gin.Context {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/api/withdrawals?"+rawQuery, nil)
	return c
}

func TestListLimit(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		name  string
		query string
		want  int
	}{
		{"без параметра — дефолт", "", 25},
		{"в границах", "limit=40", 40},
		{"ноль зажимается в нижнюю границу", "limit=0", 1},
		{"отрицательный зажимается в нижнюю границу", "limit=-5", 1},
		{"сверх максимума зажимается в 100", "limit=500", 100},
		{"не число — дефолт", "limit=abc", 25},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ListLimit(listContext(tc.query)))
		})
	}
}
