package main

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRunStatusFetchesAndPrintsSnapshot(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/status", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"notify":{"history_count":2}}`))
	}))
	defer srv.Close()

	flagStatusAddr = srv.URL
	require.NoError(t, runStatus(statusCmd, nil))
}

func TestRunStatusPropagatesHTTPErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	flagStatusAddr = srv.URL
	require.Error(t, runStatus(statusCmd, nil))
}

func TestRunStatusReportsUnreachableServer(t *testing.T) {
	flagStatusAddr = "http://127.0.0.1:1"
	require.Error(t, runStatus(statusCmd, nil))
}
