package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/claims-lab/themis/pkg/domain/model"
	"github.com/claims-lab/themis/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/api/iterator"
)

const collectionConflicts = "conflicts"

type conflictRepository struct {
	client *firestore.Client
}

func newConflictRepository(client *firestore.Client) *conflictRepository {
	return &conflictRepository{client: client}
}

type conflictDoc struct {
	ID                    string    `firestore:"ID"`
	Query                 string    `firestore:"Query"`
	Procedure             string    `firestore:"Procedure"`
	LocalStatus           string    `firestore:"LocalStatus"`
	AdvisoryStatus        string    `firestore:"AdvisoryStatus"`
	LocalJustification    string    `firestore:"LocalJustification"`
	AdvisoryJustification string    `firestore:"AdvisoryJustification"`
	CreatedAt             time.Time `firestore:"CreatedAt"`
}

func (r *conflictRepository) Record(ctx context.Context, event *model.ConflictEvent) (*model.ConflictEvent, error) {
	stored := *event
	if stored.ID == "" {
		stored.ID = model.NewConflictID()
	}
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = time.Now().UTC()
	}

	doc := &conflictDoc{
		ID:                    string(stored.ID),
		Query:                 stored.Query,
		Procedure:             stored.Procedure,
		LocalStatus:           string(stored.LocalStatus),
		AdvisoryStatus:        string(stored.AdvisoryStatus),
		LocalJustification:    stored.LocalJustification,
		AdvisoryJustification: stored.AdvisoryJustification,
		CreatedAt:             stored.CreatedAt,
	}
	if _, err := r.client.Collection(collectionConflicts).Doc(string(stored.ID)).Set(ctx, doc); err != nil {
		return nil, goerr.Wrap(err, "failed to record conflict event", goerr.V("conflictID", stored.ID))
	}
	return &stored, nil
}

func (r *conflictRepository) List(ctx context.Context, limit int) ([]*model.ConflictEvent, error) {
	query := r.client.Collection(collectionConflicts).
		OrderBy("CreatedAt", firestore.Desc)
	if limit > 0 {
		query = query.Limit(limit)
	}
	iter := query.Documents(ctx)
	defer iter.Stop()

	var events []*model.ConflictEvent
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to list conflict events")
		}

		var doc conflictDoc
		if err := snap.DataTo(&doc); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal conflict event")
		}
		events = append(events, &model.ConflictEvent{
			ID:                    model.ConflictID(doc.ID),
			Query:                 doc.Query,
			Procedure:             doc.Procedure,
			LocalStatus:           types.DecisionStatus(doc.LocalStatus),
			AdvisoryStatus:        types.DecisionStatus(doc.AdvisoryStatus),
			LocalJustification:    doc.LocalJustification,
			AdvisoryJustification: doc.AdvisoryJustification,
			CreatedAt:             doc.CreatedAt,
		})
	}
	return events, nil
}
