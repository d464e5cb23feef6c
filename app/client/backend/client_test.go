package backend

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"medintake/app/service/schema"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubmit(t *testing.T) {
	var gotPath, gotContentType string
	var gotBody payload

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotContentType = r.Header.Get("Content-Type")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()

	client := New(ts.URL, 10*time.Second)

	record := map[string]string{
		"patient_name": "Jane Roe",
		"status":       "completed",
	}

	err := client.Submit(context.Background(), schema.IntentPrivatePay, record)
	require.NoError(t, err)

	assert.Equal(t, "/store/", gotPath)
	assert.Equal(t, "application/json", gotContentType)
	assert.Equal(t, schema.IntentPrivatePay, gotBody.Intent)
	assert.Equal(t, record, gotBody.Data)
}

func TestSubmitNonSuccessStatus(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer ts.Close()

	client := New(ts.URL, 10*time.Second)

	err := client.Submit(context.Background(), schema.IntentDischarge, map[string]string{})
	require.Error(t, err)
}

func TestSubmitNetworkFailure(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	ts.Close()

	client := New(ts.URL, time.Second)

	err := client.Submit(context.Background(), schema.IntentInsurance, map[string]string{})
	require.Error(t, err)
}

func TestSubmitTrimsTrailingSlash(t *testing.T) {
	var gotPath string

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
	}))
	defer ts.Close()

	client := New(ts.URL+"/", 10*time.Second)

	require.NoError(t, client.Submit(context.Background(), schema.IntentInsurance, map[string]string{}))
	assert.Equal(t, "/store/", gotPath)
}
