package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sajidalishaik45/coauthor-network/internal/apierr"
	"github.com/sajidalishaik45/coauthor-network/internal/force"
)

func newLayoutHandler(t *testing.T) (*LayoutHandler, *force.Driver) {
	t.Helper()
	d := testDriver(t, testGraph(t))
	return NewLayoutHandler(d), d
}

func TestGetSnapshot(t *testing.T) {
	h, _ := newLayoutHandler(t)

	rr := httptest.NewRecorder()
	h.GetSnapshot(rr, httptest.NewRequest(http.MethodGet, "/api/layout", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	var snap force.Snapshot
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &snap))
	assert.Len(t, snap.Nodes, 4)
	assert.Len(t, snap.Links, 4)
	assert.Equal(t, 0, snap.Tick)
	assert.Contains(t, rr.Body.String(), `"state":"cold"`)
}

func TestPinNode(t *testing.T) {
	h, d := newLayoutHandler(t)

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/layout/pin", strings.NewReader(`{"id":"2","x":10,"y":-20}`))
	h.PinNode(rr, req)

	require.Equal(t, http.StatusNoContent, rr.Code)
	assert.True(t, nodeByID(t, d.Snapshot(), "2").Pinned)

	snap, ok := d.Step()
	require.True(t, ok, "pinning should warm the layout")
	n := nodeByID(t, snap, "2")
	assert.Equal(t, 10.0, n.X)
	assert.Equal(t, -20.0, n.Y)
}

func TestPinNodeAtOrigin(t *testing.T) {
	h, d := newLayoutHandler(t)

	rr := httptest.NewRecorder()
	h.PinNode(rr, httptest.NewRequest(http.MethodPost, "/api/layout/pin", strings.NewReader(`{"id":"1","x":0,"y":0}`)))

	require.Equal(t, http.StatusNoContent, rr.Code)
	assert.True(t, nodeByID(t, d.Snapshot(), "1").Pinned)
}

func TestPinNodeErrors(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		status int
		code   apierr.ErrorCode
		field  string
	}{
		{"unknown node", `{"id":"nope","x":1,"y":1}`, http.StatusNotFound, apierr.ErrLayoutUnknownNode, ""},
		{"missing x", `{"id":"1","y":1}`, http.StatusBadRequest, apierr.ErrValidationMissingField, "x"},
		{"missing id", `{"x":1,"y":1}`, http.StatusBadRequest, apierr.ErrValidationMissingField, "id"},
		{"out of range", `{"id":"1","x":1e9,"y":1}`, http.StatusBadRequest, apierr.ErrValidationInvalidValue, "x"},
		{"malformed", `{"id":`, http.StatusBadRequest, apierr.ErrValidationInvalidJSON, ""},
		{"unknown field", `{"id":"1","x":1,"y":1,"z":1}`, http.StatusBadRequest, apierr.ErrValidationInvalidJSON, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, d := newLayoutHandler(t)

			rr := httptest.NewRecorder()
			h.PinNode(rr, httptest.NewRequest(http.MethodPost, "/api/layout/pin", strings.NewReader(tt.body)))

			require.Equal(t, tt.status, rr.Code)
			apiErr := decodeError(t, rr)
			assert.Equal(t, tt.code, apiErr.Code)
			if tt.field != "" {
				assert.Equal(t, tt.field, apiErr.Details["field"])
			}
			st, _ := d.Status()
			assert.Zero(t, st.PinnedNodes)
		})
	}
}

func TestUnpinNode(t *testing.T) {
	h, d := newLayoutHandler(t)
	require.NoError(t, d.Pin("3", 5, 5))

	rr := httptest.NewRecorder()
	req := mux.SetURLVars(httptest.NewRequest(http.MethodDelete, "/api/layout/pin/3", nil), map[string]string{"id": "3"})
	h.UnpinNode(rr, req)

	require.Equal(t, http.StatusNoContent, rr.Code)
	assert.False(t, nodeByID(t, d.Snapshot(), "3").Pinned)
}

func TestUnpinUnknownNode(t *testing.T) {
	h, _ := newLayoutHandler(t)

	rr := httptest.NewRecorder()
	req := mux.SetURLVars(httptest.NewRequest(http.MethodDelete, "/api/layout/pin/x", nil), map[string]string{"id": "x"})
	h.UnpinNode(rr, req)

	require.Equal(t, http.StatusNotFound, rr.Code)
	apiErr := decodeError(t, rr)
	assert.Equal(t, apierr.ErrLayoutUnknownNode, apiErr.Code)
	assert.Equal(t, "x", apiErr.Details["id"])
}

func TestGetParams(t *testing.T) {
	h, _ := newLayoutHandler(t)

	rr := httptest.NewRecorder()
	h.GetParams(rr, httptest.NewRequest(http.MethodGet, "/api/layout/params", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"charge_strength":-30,"link_strength":1,"link_distance":50,"collide_radius":20}`, rr.Body.String())
}

func TestUpdateParams(t *testing.T) {
	h, d := newLayoutHandler(t)

	rr := httptest.NewRecorder()
	h.UpdateParams(rr, httptest.NewRequest(http.MethodPut, "/api/layout/params", strings.NewReader(`{"link_distance":80,"charge_strength":-100}`)))

	require.Equal(t, http.StatusOK, rr.Code)
	var got force.Params
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	want := force.Params{ChargeStrength: -100, LinkStrength: 1, LinkDistance: 80, CollideRadius: 20}
	assert.Equal(t, want, got)
	assert.Equal(t, want, d.Params())

	snap := d.Snapshot()
	assert.Equal(t, force.Warm, snap.State)
	assert.Equal(t, 1.0, snap.Alpha)
}

func TestUpdateParamsConcurrentPartialBodies(t *testing.T) {
	h, d := newLayoutHandler(t)

	bodies := []string{`{"link_distance":75}`, `{"collide_radius":35}`}
	var wg sync.WaitGroup
	for i := 0; i < 40; i++ {
		wg.Add(1)
		go func(body string) {
			defer wg.Done()
			rr := httptest.NewRecorder()
			h.UpdateParams(rr, httptest.NewRequest(http.MethodPut, "/api/layout/params", strings.NewReader(body)))
			assert.Equal(t, http.StatusOK, rr.Code)
		}(bodies[i%2])
	}
	wg.Wait()

	got := d.Params()
	assert.Equal(t, 75.0, got.LinkDistance)
	assert.Equal(t, 35.0, got.CollideRadius)
}

func TestUpdateParamsRejectsOutOfRange(t *testing.T) {
	tests := []struct {
		body  string
		field string
	}{
		{`{"link_strength":5}`, "link_strength"},
		{`{"charge_strength":-5000}`, "charge_strength"},
		{`{"link_distance":-1}`, "link_distance"},
		{`{"collide_radius":501}`, "collide_radius"},
	}

	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			h, d := newLayoutHandler(t)

			rr := httptest.NewRecorder()
			h.UpdateParams(rr, httptest.NewRequest(http.MethodPut, "/api/layout/params", strings.NewReader(tt.body)))

			require.Equal(t, http.StatusBadRequest, rr.Code)
			apiErr := decodeError(t, rr)
			assert.Equal(t, apierr.ErrValidationInvalidValue, apiErr.Code)
			assert.Equal(t, tt.field, apiErr.Details["field"])
			assert.Equal(t, force.DefaultParams(), d.Params())
		})
	}
}

func TestRestartAndStop(t *testing.T) {
	h, d := newLayoutHandler(t)

	rr := httptest.NewRecorder()
	h.Restart(rr, httptest.NewRequest(http.MethodPost, "/api/layout/restart", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"state":"warm","alpha":1,"tick":0}`, rr.Body.String())

	_, ok := d.Step()
	require.True(t, ok)

	rr = httptest.NewRecorder()
	h.Stop(rr, httptest.NewRequest(http.MethodPost, "/api/layout/stop", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"state":"cold","alpha":0,"tick":1}`, rr.Body.String())

	_, ok = d.Step()
	assert.False(t, ok, "a stopped layout does not tick")
}
