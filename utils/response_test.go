package utils

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleError_StatusMapping(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{"validation", ValidationError("bad input"), http.StatusBadRequest, "bad input"},
		{"conflict", ConflictError("email already exists"), http.StatusConflict, "email already exists"},
		{"not found", NotFoundError("user not found"), http.StatusNotFound, "user not found"},
		{"authorization", AuthorizationError("not yours"), http.StatusForbidden, "not yours"},
		{"auth", AuthError("invalid email or password"), http.StatusUnauthorized, "invalid email or password"},
		{"internal", InternalError("failed to query", errors.New("pq: secret detail")), http.StatusInternalServerError, "internal server error"},
		{"plain error", errors.New("raw"), http.StatusInternalServerError, "internal server error"},
		{"unknown kind", &AppError{Kind: "mystery", Message: "leaky detail"}, http.StatusInternalServerError, "internal server error"},
		{"empty kind", &AppError{Message: "leaky detail"}, http.StatusInternalServerError, "internal server error"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

			HandleError(c, tc.err)

			assert.Equal(t, tc.status, w.Code)
			var resp Response
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, tc.status, resp.Code)
			assert.Equal(t, tc.message, resp.Message)
		})
	}
}

func TestKindOf(t *testing.T) {
	wrapped := errors.Join(errors.New("context"), NotFoundError("missing"))
	assert.Equal(t, KindNotFound, KindOf(wrapped))
	assert.Equal(t, KindInternal, KindOf(errors.New("plain")))
	assert.False(t, IsKind(nil, KindInternal))

	inner := errors.New("driver")
	err := InternalError("failed", inner)
	assert.ErrorIs(t, err, inner)
	assert.Equal(t, "failed: driver", err.Error())
}
