package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/mnemosyne/pkg/domain/model"
	"github.com/secmon-lab/mnemosyne/pkg/domain/types"
	"google.golang.org/api/iterator"
)

const recordCollection = "records"

// recordDoc is the Firestore document representation of model.Record.
// The (uid ASC, stored_at DESC) composite index required by ListByUser is
// managed by the migrate command.
type recordDoc struct {
	ID              string    `firestore:"id"`
	UID             string    `firestore:"uid"`
	MemoryID        int64     `firestore:"memory_id"`
	Title           string    `firestore:"title"`
	Transcript      string    `firestore:"transcript"`
	Checksum        string    `firestore:"checksum"`
	TxHash          string    `firestore:"tx_hash"`
	MemoryCreatedAt time.Time `firestore:"memory_created_at"`
	StoredAt        time.Time `firestore:"stored_at"`
	Subject         string    `firestore:"subject"`
	Summary         string    `firestore:"summary"`
	Headline        string    `firestore:"headline"`
}

func toRecordDoc(r *model.Record) *recordDoc {
	return &recordDoc{
		ID:              string(r.ID),
		UID:             string(r.UID),
		MemoryID:        r.MemoryID,
		Title:           r.Title,
		Transcript:      r.Transcript,
		Checksum:        string(r.Checksum),
		TxHash:          r.TxHash,
		MemoryCreatedAt: r.MemoryCreatedAt,
		StoredAt:        r.StoredAt,
		Subject:         r.Subject,
		Summary:         r.Summary,
		Headline:        r.Headline,
	}
}

func fromRecordDoc(d *recordDoc) *model.Record {
	return &model.Record{
		ID:              model.RecordID(d.ID),
		UID:             types.UserID(d.UID),
		MemoryID:        d.MemoryID,
		Title:           d.Title,
		Transcript:      d.Transcript,
		Checksum:        model.Checksum(d.Checksum),
		TxHash:          d.TxHash,
		MemoryCreatedAt: d.MemoryCreatedAt,
		StoredAt:        d.StoredAt,
		Subject:         d.Subject,
		Summary:         d.Summary,
		Headline:        d.Headline,
	}
}

type recordRepository struct {
	client *firestore.Client
}

func newRecordRepository(client *firestore.Client) *recordRepository {
	return &recordRepository{client: client}
}

func (r *recordRepository) collection() *firestore.CollectionRef {
	return r.client.Collection(recordCollection)
}

func (r *recordRepository) Put(ctx context.Context, record *model.Record) error {
	if record.ID == "" {
		record.ID = model.NewRecordID()
	}
	if record.StoredAt.IsZero() {
		record.StoredAt = time.Now().UTC()
	}

	// Each insert gets its own document: no dedup by (uid, memoryID)
	docRef := r.collection().Doc(string(record.ID))
	if _, err := docRef.Set(ctx, toRecordDoc(record)); err != nil {
		return goerr.Wrap(err, "failed to put record",
			goerr.V("uid", record.UID),
			goerr.V("memoryID", record.MemoryID),
		)
	}

	return nil
}

func (r *recordRepository) GetByUserAndMemory(ctx context.Context, uid types.UserID, memoryID int64) (*model.Record, error) {
	iter := r.collection().
		Where("uid", "==", string(uid)).
		Where("memory_id", "==", memoryID).
		Limit(1).
		Documents(ctx)
	defer iter.Stop()

	doc, err := iter.Next()
	if err == iterator.Done {
		return nil, goerr.Wrap(ErrNotFound, "record not found",
			goerr.V("uid", uid),
			goerr.V("memoryID", memoryID),
		)
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to query record",
			goerr.V("uid", uid),
			goerr.V("memoryID", memoryID),
		)
	}

	var d recordDoc
	if err := doc.DataTo(&d); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal record", goerr.V("docID", doc.Ref.ID))
	}

	return fromRecordDoc(&d), nil
}

func (r *recordRepository) ListByUser(ctx context.Context, uid types.UserID) ([]*model.Record, error) {
	iter := r.collection().
		Where("uid", "==", string(uid)).
		OrderBy("stored_at", firestore.Desc).
		Documents(ctx)
	defer iter.Stop()

	return collectRecords(iter)
}

func (r *recordRepository) ListAll(ctx context.Context) ([]*model.Record, error) {
	iter := r.collection().
		OrderBy("stored_at", firestore.Desc).
		Documents(ctx)
	defer iter.Stop()

	return collectRecords(iter)
}

func (r *recordRepository) DeleteByUser(ctx context.Context, uid types.UserID) (int, error) {
	iter := r.collection().
		Where("uid", "==", string(uid)).
		Documents(ctx)
	defer iter.Stop()

	deleted := 0
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return deleted, goerr.Wrap(err, "failed to query records for deletion", goerr.V("uid", uid))
		}

		if _, err := doc.Ref.Delete(ctx); err != nil {
			return deleted, goerr.Wrap(err, "failed to delete record",
				goerr.V("uid", uid),
				goerr.V("docID", doc.Ref.ID),
			)
		}
		deleted++
	}

	return deleted, nil
}

func collectRecords(iter *firestore.DocumentIterator) ([]*model.Record, error) {
	records := make([]*model.Record, 0)
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate records")
		}

		var d recordDoc
		if err := doc.DataTo(&d); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal record", goerr.V("docID", doc.Ref.ID))
		}
		records = append(records, fromRecordDoc(&d))
	}

	return records, nil
}
