package helpers

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httperrors "github.com/dropDatabas3/exercisetracker/internal/http/errors"
)

func TestReadFieldsForm(t *testing.T) {
	form := url.Values{"description": {"run"}, "duration": {"30"}}
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(form.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	got, err := ReadFields(httptest.NewRecorder(), r, "description", "duration", "date")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"description": "run", "duration": "30", "date": ""}, got)
}

func TestReadFieldsFormIgnoresQuery(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/?username=fromquery", strings.NewReader(""))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	got, err := ReadFields(httptest.NewRecorder(), r, "username")
	require.NoError(t, err)
	assert.Equal(t, "", got["username"])
}

func TestReadFieldsJSON(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"description":"run","duration":12.5,"extra":true}`))
	r.Header.Set("Content-Type", "application/json; charset=utf-8")

	got, err := ReadFields(httptest.NewRecorder(), r, "description", "duration", "date")
	require.NoError(t, err)
	assert.Equal(t, "run", got["description"])
	assert.Equal(t, "12.5", got["duration"])
	assert.Equal(t, "", got["date"])
}

func TestReadFieldsEmptyJSONBody(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(""))
	r.Header.Set("Content-Type", "application/json")

	got, err := ReadFields(httptest.NewRecorder(), r, "username")
	require.NoError(t, err)
	assert.Equal(t, "", got["username"])
}

func TestReadFieldsBadJSON(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"username":`))
	r.Header.Set("Content-Type", "application/json")

	_, err := ReadFields(httptest.NewRecorder(), r, "username")
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, httperrors.FromError(err).HTTPStatus)
}

func TestReadFieldsTooLarge(t *testing.T) {
	body := `{"username":"` + strings.Repeat("a", MaxBodyBytes+10) + `"}`
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	r.Header.Set("Content-Type", "application/json")

	_, err := ReadFields(httptest.NewRecorder(), r, "username")
	require.Error(t, err)
	assert.Equal(t, http.StatusRequestEntityTooLarge, httperrors.FromError(err).HTTPStatus)
}

func TestWriteJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteJSON(rec, http.StatusCreated, map[string]string{"_id": "1"})
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.JSONEq(t, `{"_id":"1"}`, rec.Body.String())
}
