package main

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPayloadsEqualUnwrapsEnvelope(t *testing.T) {
	goBody := []byte(`{"data":[{"id":1,"name":"Workshop","image":"events/a.png"}],"meta":{"count":1}}`)
	legacy := []byte(`[{"Id":1.0,"Name":"Workshop","Image":null}]`)

	assert.True(t, payloadsEqual(unwrapData(goBody), legacy, []string{"image"}))
	assert.False(t, payloadsEqual(unwrapData(goBody), legacy, nil))
}

func TestCompareTarget(t *testing.T) {
	goSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/events/categoria/1", r.URL.Path)
		_, _ = w.Write([]byte(`{"data":[{"id":3}]}`))
	}))
	defer goSrv.Close()
	legacySrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/eventos/categoria/1", r.URL.Path)
		_, _ = w.Write([]byte(`[{"id":3}]`))
	}))
	defer legacySrv.Close()

	comp := compareTarget(goSrv.Client(), goSrv.URL, legacySrv.URL, target{
		Method:     http.MethodGet,
		Path:       "/events/categoria/1",
		LegacyPath: "/eventos/categoria/1",
		Critical:   true,
	})
	require.NoError(t, comp.Error)
	assert.True(t, comp.StatusMatch)
	assert.True(t, comp.BodyMatch)
	assert.False(t, comp.breaking())
}
