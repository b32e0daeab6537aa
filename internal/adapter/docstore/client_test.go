package docstore

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/couchcryptid/hazard-intake-service/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testAPIKey = "test-key"

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testClient(baseURL string) *Client {
	return NewClient(baseURL, "hazards", testAPIKey, 5*time.Second, testLogger())
}

func TestClient_CreateDocument_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/collections/hazards/documents", r.URL.Path)
		assert.Equal(t, "Bearer "+testAPIKey, r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var rec domain.HazardRecord
		require.NoError(t, json.NewDecoder(r.Body).Decode(&rec))
		assert.Equal(t, "яма на дороге", rec.Text)

		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":"doc-42"}`))
	}))
	defer srv.Close()

	id, err := testClient(srv.URL).CreateDocument(context.Background(), domain.HazardRecord{
		Text:      "яма на дороге",
		Danger:    domain.DangerLow,
		Address:   "проспект Абая, Алматы",
		CreatedAt: 1700000000000,
	})
	require.NoError(t, err)
	assert.Equal(t, "doc-42", id)
}

func TestClient_CreateDocument_MissingID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).CreateDocument(context.Background(), domain.HazardRecord{Text: "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no id")
}

func TestClient_CreateDocument_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"boom"}`))
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).CreateDocument(context.Background(), domain.HazardRecord{Text: "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 500")
}

func TestClient_ListDocuments_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/v1/collections/hazards/documents", r.URL.Path)

		_, _ = w.Write([]byte(`{"documents":[
			{"id":"a","text":"дтп","coords":[43.23,76.88],"danger":"high","address":"проспект Абая","createdAt":1700000000002},
			{"id":"b","text":"яма","danger":"low","address":"43.23895, 76.88971","createdAt":1700000000001}
		]}`))
	}))
	defer srv.Close()

	recs, err := testClient(srv.URL).ListDocuments(context.Background())
	require.NoError(t, err)
	require.Len(t, recs, 2)

	assert.Equal(t, "a", recs[0].ID)
	require.NotNil(t, recs[0].Coords)
	assert.Equal(t, 43.23, recs[0].Coords.Lat)
	assert.Equal(t, 76.88, recs[0].Coords.Lon)

	assert.Equal(t, "b", recs[1].ID)
	assert.Nil(t, recs[1].Coords)
}

func TestClient_ListDocuments_LegacyCoordFields(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"documents":[
			{"id":"legacy","text":"гололед","coordsLat":51.16,"coordsLng":71.47,"danger":"high","createdAt":1}
		]}`))
	}))
	defer srv.Close()

	recs, err := testClient(srv.URL).ListDocuments(context.Background())
	require.NoError(t, err)
	require.Len(t, recs, 1)
	require.NotNil(t, recs[0].Coords)
	assert.Equal(t, 51.16, recs[0].Coords.Lat)
	assert.Equal(t, 71.47, recs[0].Coords.Lon)
}

func TestClient_ListDocuments_MalformedCoordsDegrade(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"documents":[
			{"id":"bad","text":"пожар","coords":[43.23],"danger":"high","createdAt":1},
			{"id":"good","text":"яма","coords":[43.23,76.88],"danger":"low","createdAt":2}
		]}`))
	}))
	defer srv.Close()

	recs, err := testClient(srv.URL).ListDocuments(context.Background())
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Nil(t, recs[0].Coords, "single-element coords should be dropped, not fatal")
	assert.NotNil(t, recs[1].Coords)
}

func TestClient_ListDocuments_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).ListDocuments(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 503")
}

func TestClient_DeleteDocument_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/v1/collections/hazards/documents/doc-42", r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	require.NoError(t, testClient(srv.URL).DeleteDocument(context.Background(), "doc-42"))
}

func TestClient_DeleteDocument_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	err := testClient(srv.URL).DeleteDocument(context.Background(), "missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 404")
}

func TestClient_NoAuthHeaderWithoutKey(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"documents":[]}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "hazards", "", 5*time.Second, testLogger())
	_, err := c.ListDocuments(context.Background())
	require.NoError(t, err)
}
