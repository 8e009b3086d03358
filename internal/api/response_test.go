package api

import (
	"bytes"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestWriteJSONLogsEncodeFailure(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	rec := httptest.NewRecorder()
	writeJSON(rec, logger, http.StatusOK, map[string]float64{"average": math.Inf(1)})

	if !strings.Contains(buf.String(), "failed to write response") {
		t.Errorf("expected encode failure to be logged, got %q", buf.String())
	}
}

func TestWriteErrorBody(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	rec := httptest.NewRecorder()
	writeError(rec, logger, http.StatusNotFound, "report not found: x")

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", rec.Code)
	}

	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if body["error"] != "report not found: x" {
		t.Errorf("unexpected error %q", body["error"])
	}
	if buf.Len() != 0 {
		t.Errorf("expected nothing logged, got %q", buf.String())
	}
}
