package httpapi

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRouterRoutesAndAppliesMiddleware(t *testing.T) {
	api := newTestAPI(t, &stubBuoyFetcher{})
	router := NewRouter(api)

	req := httptest.NewRequest(http.MethodGet, "/stations", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "*", rr.Header().Get("Access-Control-Allow-Origin"))
}

func TestRouterStationByIDPathValue(t *testing.T) {
	api := newTestAPI(t, &stubBuoyFetcher{})
	router := NewRouter(api)

	req := httptest.NewRequest(http.MethodGet, "/stations/44098", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "44098")
}

func TestRouterUnknownRouteIs404(t *testing.T) {
	api := newTestAPI(t, &stubBuoyFetcher{})
	router := NewRouter(api)

	req := httptest.NewRequest(http.MethodGet, "/nope", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNotFound, rr.Code)
}
