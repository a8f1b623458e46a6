package http_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	controller "github.com/claims-lab/themis/pkg/controller/http"
	"github.com/claims-lab/themis/pkg/domain/model"
	"github.com/claims-lab/themis/pkg/repository/memory"
	"github.com/claims-lab/themis/pkg/service/embedding"
	"github.com/claims-lab/themis/pkg/usecase"
	"github.com/m-mizutani/gt"
)

func newTestServer(t *testing.T) (*controller.Server, *embedding.Fixed) {
	t.Helper()
	embedder := embedding.NewFixed(model.EmbeddingDimension)
	uc := usecase.New(memory.New(), embedder)
	return controller.New(uc), embedder
}

func postJSON(t *testing.T, srv *controller.Server, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	gt.NoError(t, err).Required()

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	return rec
}

func TestHealthEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	gt.Value(t, rec.Code).Equal(http.StatusOK)
	gt.Value(t, rec.Body.String()).Equal("OK")
}

func TestIngestEndpoint(t *testing.T) {
	t.Run("valid document returns chunk count", func(t *testing.T) {
		srv, _ := newTestServer(t)

		rec := postJSON(t, srv, "/api/documents", map[string]any{
			"document_id": "policy-1",
			"text":        "The waiting period for surgery is one month. Hospitalization is covered.",
		})
		gt.Value(t, rec.Code).Equal(http.StatusOK)

		var resp map[string]any
		gt.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp)).Required()
		gt.Value(t, resp["status"]).Equal("ok")
		gt.Number(t, resp["chunks"].(float64)).Greater(0)
	})

	t.Run("empty text is a client error", func(t *testing.T) {
		srv, _ := newTestServer(t)

		rec := postJSON(t, srv, "/api/documents", map[string]any{
			"document_id": "policy-2",
			"text":        "   ",
		})
		gt.Value(t, rec.Code).Equal(http.StatusBadRequest)
	})

	t.Run("missing document ID is a client error", func(t *testing.T) {
		srv, _ := newTestServer(t)

		rec := postJSON(t, srv, "/api/documents", map[string]any{
			"text": "Some clause text about surgery.",
		})
		gt.Value(t, rec.Code).Equal(http.StatusBadRequest)
	})

	t.Run("malformed body is a client error", func(t *testing.T) {
		srv, _ := newTestServer(t)

		req := httptest.NewRequest(http.MethodPost, "/api/documents", bytes.NewReader([]byte("{broken")))
		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, req)
		gt.Value(t, rec.Code).Equal(http.StatusBadRequest)
	})
}

func TestQueryEndpoint(t *testing.T) {
	t.Run("query always yields a decision", func(t *testing.T) {
		srv, _ := newTestServer(t)

		rec := postJSON(t, srv, "/api/queries", map[string]any{
			"query": "46M, knee surgery, 3 month policy",
		})
		gt.Value(t, rec.Code).Equal(http.StatusOK)

		var decision map[string]any
		gt.NoError(t, json.Unmarshal(rec.Body.Bytes(), &decision)).Required()
		gt.Value(t, decision["decision"]).Equal("Rejected")
		gt.Value(t, decision["amount"]).Equal(float64(0))
		gt.Value(t, decision["justification"]).NotEqual("")
	})

	t.Run("blank query is a client error", func(t *testing.T) {
		srv, _ := newTestServer(t)

		rec := postJSON(t, srv, "/api/queries", map[string]any{"query": "  "})
		gt.Value(t, rec.Code).Equal(http.StatusBadRequest)
	})

	t.Run("seeded clause can approve a claim", func(t *testing.T) {
		srv, embedder := newTestServer(t)

		text := "The waiting period for appendectomy surgery is one month for the insured."
		query := "30F, appendectomy, 3 month policy"
		vec := make([]float32, model.EmbeddingDimension)
		vec[0] = 1
		embedder.Set(text, vec)
		embedder.Set(query, vec)

		rec := postJSON(t, srv, "/api/documents", map[string]any{
			"document_id": "policy-3",
			"text":        text,
		})
		gt.Value(t, rec.Code).Equal(http.StatusOK)

		rec = postJSON(t, srv, "/api/queries", map[string]any{"query": query})
		gt.Value(t, rec.Code).Equal(http.StatusOK)

		var decision map[string]any
		gt.NoError(t, json.Unmarshal(rec.Body.Bytes(), &decision)).Required()
		gt.Value(t, decision["decision"]).Equal("Approved")
		gt.Value(t, decision["amount"]).Equal(float64(50000))
	})
}
