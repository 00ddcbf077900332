package httpx

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/odyssey-erp/quotedesk/internal/shared"
)

func TestRespondErrorMapsTaxonomy(t *testing.T) {
	cases := []struct {
		err   error
		want  int
		title string
	}{
		{fmt.Errorf("customer: %w", shared.ErrValidation), http.StatusBadRequest, "Validation Failed"},
		{shared.ErrUnauthenticated, http.StatusUnauthorized, "Unauthorized"},
		{shared.ErrInvalidCredentials, http.StatusUnauthorized, "Unauthorized"},
		{fmt.Errorf("approve: %w", shared.ErrForbidden), http.StatusForbidden, "Forbidden"},
		{shared.ErrCSRFTokenMismatch, http.StatusForbidden, "Forbidden"},
		{fmt.Errorf("get quotation: %w", shared.ErrNotFound), http.StatusNotFound, "Not Found"},
		{shared.ErrConflict, http.StatusConflict, "Conflict"},
		{shared.ErrIdempotencyConflict, http.StatusConflict, "Conflict"},
		{errors.New("connection reset"), http.StatusInternalServerError, "Internal Error"},
	}
	for _, tc := range cases {
		rr := httptest.NewRecorder()
		RespondError(rr, tc.err)
		assert.Equal(t, tc.want, rr.Code, tc.err.Error())
		assert.Equal(t, tc.want, StatusFor(tc.err))

		var body ProblemDetail
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
		assert.Equal(t, tc.title, body.Title, tc.err.Error())
		assert.Equal(t, tc.want, body.Status)
	}
}

func TestRespondErrorWithNilError(t *testing.T) {
	rr := httptest.NewRecorder()
	RespondError(rr, nil)
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Equal(t, http.StatusOK, StatusFor(nil))
}

func TestRespondErrorHidesInternalDetail(t *testing.T) {
	rr := httptest.NewRecorder()
	RespondError(rr, errors.New("pq: password authentication failed"))

	var body ProblemDetail
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Empty(t, body.Detail)
	assert.Equal(t, "Internal Error", body.Title)
}

type sampleRequest struct {
	Name  string `json:"name" validate:"required"`
	Email string `json:"email" validate:"omitempty,email"`
	Qty   int    `json:"qty" validate:"min=1"`
}

func TestDecodeAndValidateReportsFields(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"email":"nope","qty":0}`))
	var target sampleRequest
	err := DecodeAndValidate(req, &target)
	require.Error(t, err)
	assert.ErrorIs(t, err, shared.ErrValidation)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "name")
	assert.Contains(t, verr.Fields, "email")
	assert.Contains(t, verr.Fields, "qty")

	rr := httptest.NewRecorder()
	RespondError(rr, err)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), `"errors"`)
}

func TestDecodeJSONRejectsUnknownFields(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"a","qty":1,"extra":true}`))
	var target sampleRequest
	assert.ErrorIs(t, DecodeJSON(req, &target), shared.ErrValidation)
}
