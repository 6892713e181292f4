package geocode

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClient_Search_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Brussels, Belgium", r.URL.Query().Get("q"))
		assert.Equal(t, "json", r.URL.Query().Get("format"))
		assert.NotEmpty(t, r.Header.Get("User-Agent"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"lat":"50.8503","lon":"4.3517","display_name":"Brussels, Belgium"}]`))
	}))
	defer srv.Close()

	res, err := NewClient(srv.URL, "test-agent").Search(context.Background(), "Brussels", "Belgium")

	assert.NoError(t, err)
	assert.InDelta(t, 50.8503, res.Lat, 1e-6)
	assert.InDelta(t, 4.3517, res.Lon, 1e-6)
}

func TestClient_Search_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	res, err := NewClient(srv.URL, "").Search(context.Background(), "Нигденебург", "")

	assert.Nil(t, res)
	assert.ErrorIs(t, err, ErrUnresolved)
}

func TestClient_Search_EmptyQuery(t *testing.T) {
	res, err := NewClient("http://unused", "").Search(context.Background(), "  ", "")

	assert.Nil(t, res)
	assert.ErrorIs(t, err, ErrUnresolved)
}

func TestClient_Search_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	res, err := NewClient(srv.URL, "").Search(context.Background(), "Brussels", "Belgium")

	assert.Nil(t, res)
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrUnresolved)
}

func TestClient_Search_MalformedCoordinates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"lat":"abc","lon":"4.35"}]`))
	}))
	defer srv.Close()

	res, err := NewClient(srv.URL, "").Search(context.Background(), "Brussels", "")

	assert.Nil(t, res)
	assert.Error(t, err)
}
