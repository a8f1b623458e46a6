package repository_test

import (
	"context"
	"os"
	"testing"

	"github.com/claims-lab/themis/pkg/domain/interfaces"
	"github.com/claims-lab/themis/pkg/domain/model"
	"github.com/claims-lab/themis/pkg/domain/types"
	"github.com/claims-lab/themis/pkg/repository/firestore"
	"github.com/claims-lab/themis/pkg/repository/memory"
	"github.com/m-mizutani/gt"
)

// unitEmbedding builds a deterministic embedding whose first component
// carries the given value. Distances between such embeddings are simply
// the differences of their first components, which keeps nearest-neighbor
// assertions readable.
func unitEmbedding(v float32) []float32 {
	emb := make([]float32, model.EmbeddingDimension)
	emb[0] = v
	return emb
}

func testClause(docID types.DocumentID, seq int, text string, v float32) *model.Clause {
	return &model.Clause{
		DocumentID: docID,
		Seq:        seq,
		Text:       text,
		Embedding:  unitEmbedding(v),
	}
}

func runClauseRepositoryTest(t *testing.T, newRepo func(t *testing.T) interfaces.Repository) {
	t.Helper()

	t.Run("PutBatch stores and Get retrieves by identity", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		docID := types.DocumentID("policy-a")
		clauses := []*model.Clause{
			testClause(docID, 0, "The waiting period for surgery is one month.", 0.1),
			testClause(docID, 1, "Hospitalization expenses are covered after pre-approval.", 0.2),
		}
		gt.NoError(t, repo.Clause().PutBatch(ctx, clauses)).Required()

		got, err := repo.Clause().Get(ctx, docID, 1)
		gt.NoError(t, err).Required()
		gt.Value(t, got.DocumentID).Equal(docID)
		gt.Value(t, got.Seq).Equal(1)
		gt.Value(t, got.Text).Equal(clauses[1].Text)
		gt.Array(t, got.Embedding).Length(model.EmbeddingDimension)
	})

	t.Run("PutBatch overwrites clause with same identity", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		docID := types.DocumentID("policy-b")
		gt.NoError(t, repo.Clause().PutBatch(ctx, []*model.Clause{
			testClause(docID, 0, "original text", 0.1),
		})).Required()
		gt.NoError(t, repo.Clause().PutBatch(ctx, []*model.Clause{
			testClause(docID, 0, "replaced text", 0.3),
		})).Required()

		got, err := repo.Clause().Get(ctx, docID, 0)
		gt.NoError(t, err).Required()
		gt.Value(t, got.Text).Equal("replaced text")

		listed, err := repo.Clause().ListByDocument(ctx, docID)
		gt.NoError(t, err).Required()
		gt.Array(t, listed).Length(1)
	})

	t.Run("Get returns error for missing clause", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		_, err := repo.Clause().Get(ctx, types.DocumentID("no-such-doc"), 0)
		gt.Value(t, err).NotNil()
	})

	t.Run("ListByDocument returns clauses ordered by Seq", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		docID := types.DocumentID("policy-c")
		gt.NoError(t, repo.Clause().PutBatch(ctx, []*model.Clause{
			testClause(docID, 2, "third", 0.3),
			testClause(docID, 0, "first", 0.1),
			testClause(docID, 1, "second", 0.2),
		})).Required()

		listed, err := repo.Clause().ListByDocument(ctx, docID)
		gt.NoError(t, err).Required()
		gt.Array(t, listed).Length(3)
		gt.Value(t, listed[0].Seq).Equal(0)
		gt.Value(t, listed[1].Seq).Equal(1)
		gt.Value(t, listed[2].Seq).Equal(2)
	})

	t.Run("ListByDocument returns empty for unknown document", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		listed, err := repo.Clause().ListByDocument(ctx, types.DocumentID("no-such-doc"))
		gt.NoError(t, err).Required()
		gt.Array(t, listed).Length(0)
	})

	t.Run("DeleteByDocument removes all clauses of one document only", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		victim := types.DocumentID("policy-d")
		survivor := types.DocumentID("policy-e")
		gt.NoError(t, repo.Clause().PutBatch(ctx, []*model.Clause{
			testClause(victim, 0, "gone", 0.1),
			testClause(victim, 1, "also gone", 0.2),
			testClause(survivor, 0, "stays", 0.3),
		})).Required()

		gt.NoError(t, repo.Clause().DeleteByDocument(ctx, victim)).Required()

		listed, err := repo.Clause().ListByDocument(ctx, victim)
		gt.NoError(t, err).Required()
		gt.Array(t, listed).Length(0)

		kept, err := repo.Clause().ListByDocument(ctx, survivor)
		gt.NoError(t, err).Required()
		gt.Array(t, kept).Length(1)
	})

	t.Run("Search returns nearest clauses first across documents", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		docA := types.DocumentID("policy-f")
		docB := types.DocumentID("policy-g")
		gt.NoError(t, repo.Clause().PutBatch(ctx, []*model.Clause{
			testClause(docA, 0, "far", 0.9),
			testClause(docA, 1, "near", 0.11),
			testClause(docB, 0, "nearest", 0.1),
		})).Required()

		results, err := repo.Clause().Search(ctx, unitEmbedding(0.1), 2)
		gt.NoError(t, err).Required()
		gt.Array(t, results).Length(2)
		gt.Value(t, results[0].Text).Equal("nearest")
		gt.Value(t, results[1].Text).Equal("near")
		gt.Value(t, results[0].DocumentID).Equal(docB)
	})

	t.Run("Search on empty store returns empty slice", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		results, err := repo.Clause().Search(ctx, unitEmbedding(0.5), 5)
		gt.NoError(t, err).Required()
		gt.Array(t, results).Length(0)
	})
}

func newFirestoreRepository(t *testing.T) interfaces.Repository {
	t.Helper()

	projectID := os.Getenv("TEST_FIRESTORE_PROJECT_ID")
	if projectID == "" {
		t.Skip("TEST_FIRESTORE_PROJECT_ID not set")
	}

	databaseID := os.Getenv("TEST_FIRESTORE_DATABASE_ID")
	if databaseID == "" {
		t.Skip("TEST_FIRESTORE_DATABASE_ID not set")
	}

	ctx := context.Background()
	repo, err := firestore.New(ctx, projectID, databaseID)
	gt.NoError(t, err).Required()
	t.Cleanup(func() {
		gt.NoError(t, repo.Close())
	})
	return repo
}

func TestMemoryClauseRepository(t *testing.T) {
	runClauseRepositoryTest(t, func(t *testing.T) interfaces.Repository {
		return memory.New()
	})
}

func TestFirestoreClauseRepository(t *testing.T) {
	runClauseRepositoryTest(t, newFirestoreRepository)
}
