package testsupport

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/goliatone/go-recordedit/pkg/client"
	"github.com/goliatone/go-recordedit/pkg/datamodel"
)

// Backend is an in-memory admin API serving the raw record endpoints.
type Backend struct {
	Server *httptest.Server

	mu      sync.Mutex
	records map[string]datamodel.RawRecord
	writes  []client.SavePayload
	failPut string
}

// NewBackend starts a backend serving records keyed by their info path. The
// server is closed through t.Cleanup.
func NewBackend(t *testing.T, records ...datamodel.RawRecord) *Backend {
	t.Helper()

	b := &Backend{records: make(map[string]datamodel.RawRecord)}
	for _, rec := range records {
		b.records[rec.RecordInfo.Path] = rec
	}
	b.Server = httptest.NewServer(http.HandlerFunc(b.serve))
	t.Cleanup(b.Server.Close)
	return b
}

// URL returns the API base URL to hand to client.New.
func (b *Backend) URL() string {
	return b.Server.URL + "/admin/api"
}

// Writes returns the payloads received so far.
func (b *Backend) Writes() []client.SavePayload {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]client.SavePayload(nil), b.writes...)
}

// FailWrites makes every following write answer 500 with message. An empty
// message restores normal behaviour.
func (b *Backend) FailWrites(message string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failPut = message
}

func (b *Backend) serve(w http.ResponseWriter, r *http.Request) {
	if !strings.HasSuffix(r.URL.Path, "/rawrecord") {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "unknown endpoint"})
		return
	}

	switch r.Method {
	case http.MethodGet:
		b.mu.Lock()
		rec, ok := b.records[r.URL.Query().Get("path")]
		b.mu.Unlock()
		if !ok {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "record not found"})
			return
		}
		if alt := r.URL.Query().Get("alt"); alt != "" {
			rec.RecordInfo.Alt = alt
		}
		writeJSON(w, http.StatusOK, rec)

	case http.MethodPut:
		var payload client.SavePayload
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		b.mu.Lock()
		defer b.mu.Unlock()
		if b.failPut != "" {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": b.failPut})
			return
		}
		b.writes = append(b.writes, payload)
		if rec, ok := b.records[payload.Path]; ok {
			data := make(map[string]any, len(rec.Data))
			for key, value := range rec.Data {
				data[key] = value
			}
			for key, value := range payload.Data {
				if value == nil {
					delete(data, key)
					continue
				}
				data[key] = value
			}
			rec.Data = data
			b.records[payload.Path] = rec
		}
		writeJSON(w, http.StatusOK, map[string]bool{"okay": true})

	default:
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
