package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"agency-checkout/internal/session"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeStore keeps sessions in a map, standing in for redis.
type fakeStore struct {
	sessions map[string]*session.CheckoutSession
}

func newFakeStore() *fakeStore {
	return &fakeStore{sessions: make(map[string]*session.CheckoutSession)}
}

func (f *fakeStore) Save(ctx context.Context, id string, s *session.CheckoutSession) (string, error) {
	if id == "" {
		id = "generated-id"
	}
	f.sessions[id] = s
	return id, nil
}

func (f *fakeStore) Load(ctx context.Context, id string) (*session.CheckoutSession, error) {
	s, ok := f.sessions[id]
	if !ok {
		return nil, session.ErrNotFound
	}
	return s, nil
}

func (f *fakeStore) Delete(ctx context.Context, id string) error {
	delete(f.sessions, id)
	return nil
}

func TestSessionSaveAndLoad(t *testing.T) {
	e := echo.New()
	store := newFakeStore()
	h := NewSessionHandler(store)

	body := `{"customer_name":"Budi","service_slug":"company-profile","subtotal":1000000}`
	req := httptest.NewRequest(http.MethodPost, "/api/sessions", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()

	require.NoError(t, h.Save(e.NewContext(req, rec)))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "generated-id")

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	rec = httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("generated-id")

	require.NoError(t, h.Load(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Budi")
}

func TestSessionLoadMissing(t *testing.T) {
	e := echo.New()
	h := NewSessionHandler(newFakeStore())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("missing")

	err := h.Load(c)
	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusNotFound, httpErr.Code)
}

func TestSessionDelete(t *testing.T) {
	e := echo.New()
	store := newFakeStore()
	store.sessions["s1"] = &session.CheckoutSession{CustomerName: "Budi"}
	h := NewSessionHandler(store)

	req := httptest.NewRequest(http.MethodDelete, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("s1")

	require.NoError(t, h.Delete(c))
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, store.sessions)
}
