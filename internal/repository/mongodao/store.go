// Package mongodao stores accounts, forms and entries in MongoDB. It exposes
// the same DAO methods as the gorm package and shares its record types, so the
// repositories do not know which store they talk to.
package mongodao

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/vietanh2810/church-members-api/internal/pkg/entryid"
)

const (
	accountsCollection = "accounts"
	formsCollection    = "forms"
	entriesCollection  = "entries"
	countersCollection = "counters"

	entryCounterName = "entry"
)

type counterDoc struct {
	ID    string `bson:"_id"`
	Value int64  `bson:"value"`
}

// sequence hands out increasing integers from the counters collection.
type sequence struct {
	c *mongo.Collection
}

func newSequence(db *mongo.Database) sequence {
	return sequence{c: db.Collection(countersCollection)}
}

func (s sequence) next(ctx context.Context, name string) (int64, error) {
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var doc counterDoc
	err := s.c.FindOneAndUpdate(ctx, bson.M{"_id": name}, bson.M{"$inc": bson.M{"value": 1}}, opts).Decode(&doc)
	if err != nil {
		return 0, fmt.Errorf("s.c.FindOneAndUpdate -> %w", err)
	}

	return doc.Value, nil
}

// InitCollections creates the unique indexes and seeds the entry counter from
// existing entries when it is missing.
func InitCollections(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(accountsCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}, {Key: "role", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("accounts.CreateOne -> %w", err)
	}

	_, err = db.Collection(entriesCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "entryId", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "formId", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("entries.CreateMany -> %w", err)
	}

	return ensureEntryCounter(ctx, db)
}

func ensureEntryCounter(ctx context.Context, db *mongo.Database) error {
	counters := db.Collection(countersCollection)

	err := counters.FindOne(ctx, bson.M{"_id": entryCounterName}).Err()
	if err == nil {
		return nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return err
	}

	opts := options.FindOne().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}})

	var last entryDoc
	var seed uint64
	err = db.Collection(entriesCollection).FindOne(ctx, bson.M{}, opts).Decode(&last)
	switch {
	case err == nil:
		seed, _ = entryid.Parse(last.EntryID)
	case !errors.Is(err, mongo.ErrNoDocuments):
		return err
	}

	_, err = counters.InsertOne(ctx, counterDoc{ID: entryCounterName, Value: int64(seed)})
	if err != nil && !mongo.IsDuplicateKeyError(err) {
		return err
	}

	return nil
}

func idPtr(id *int64) *uint {
	if id == nil {
		return nil
	}
	v := uint(*id)
	return &v
}

func int64Ptr(id *uint) *int64 {
	if id == nil {
		return nil
	}
	v := int64(*id)
	return &v
}
