package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"nutrilog/store"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestFail_StatusMapping(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cases := map[string]struct {
		err  error
		want int
	}{
		"not found":         {store.ErrNotFound, http.StatusNotFound},
		"wrapped not found": {fmt.Errorf("get: %w", store.ErrNotFound), http.StatusNotFound},
		"validation":        {validDate("2024/01/01"), http.StatusBadRequest},
		"anything else":     {errors.New("connection reset"), http.StatusInternalServerError},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			fail(c, tc.err)
			assert.Equal(t, tc.want, w.Code)
			assert.Contains(t, w.Body.String(), `"error"`)
		})
	}
}

func TestValidDate(t *testing.T) {
	assert.NoError(t, validDate("2024-01-31"))

	var br badRequest
	assert.ErrorAs(t, validDate(""), &br)
}
