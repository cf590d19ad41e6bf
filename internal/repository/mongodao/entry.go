package mongodao

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"gorm.io/datatypes"

	"github.com/vietanh2810/church-members-api/internal/pkg/entryid"
	"github.com/vietanh2810/church-members-api/internal/repository/dao"
)

type entryDoc struct {
	ID            int64              `bson:"_id"`
	EntryID       string             `bson:"entryId"`
	FormID        *int64             `bson:"formId,omitempty"`
	UserID        *int64             `bson:"userId,omitempty"`
	Data          bson.D             `bson:"data"`
	FamilyMembers []dao.FamilyMember `bson:"familyMembers"`
	CreatedAt     time.Time          `bson:"createdAt"`
	UpdatedAt     time.Time          `bson:"updatedAt"`
}

// dataToBSON converts the JSON data bag into an ordered document.
func dataToBSON(data string) (bson.D, error) {
	doc := bson.D{}
	if data == "" {
		return doc, nil
	}
	if err := bson.UnmarshalExtJSON([]byte(data), false, &doc); err != nil {
		return nil, fmt.Errorf("bson.UnmarshalExtJSON -> %w", err)
	}

	return doc, nil
}

func dataFromBSON(doc bson.D) (string, error) {
	if doc == nil {
		doc = bson.D{}
	}
	out, err := bson.MarshalExtJSON(doc, false, false)
	if err != nil {
		return "", fmt.Errorf("bson.MarshalExtJSON -> %w", err)
	}

	return string(out), nil
}

func (d entryDoc) toDAO() (dao.Entry, error) {
	data, err := dataFromBSON(d.Data)
	if err != nil {
		return dao.Entry{}, err
	}

	family := d.FamilyMembers
	if family == nil {
		family = []dao.FamilyMember{}
	}

	return dao.Entry{
		ID:            uint(d.ID),
		EntryID:       d.EntryID,
		FormID:        idPtr(d.FormID),
		UserID:        idPtr(d.UserID),
		Data:          data,
		FamilyMembers: datatypes.JSONSlice[dao.FamilyMember](family),
		CreatedAt:     d.CreatedAt,
		UpdatedAt:     d.UpdatedAt,
	}, nil
}

type EntryDAO struct {
	c     *mongo.Collection
	seq   sequence
	users *UserDAO
	forms *FormDAO
}

func NewEntryDAO(db *mongo.Database) *EntryDAO {
	return &EntryDAO{
		c:     db.Collection(entriesCollection),
		seq:   newSequence(db),
		users: NewUserDAO(db),
		forms: NewFormDAO(db),
	}
}

// Insert takes the next number from the entry counter with a single atomic
// $inc, so concurrent inserts never share an entry ID.
func (d *EntryDAO) Insert(ctx context.Context, entry dao.Entry) (dao.Entry, error) {
	data, err := dataToBSON(entry.Data)
	if err != nil {
		return dao.Entry{}, err
	}

	id, err := d.seq.next(ctx, entriesCollection)
	if err != nil {
		return dao.Entry{}, err
	}
	n, err := d.seq.next(ctx, entryCounterName)
	if err != nil {
		return dao.Entry{}, err
	}

	family := []dao.FamilyMember(entry.FamilyMembers)
	if family == nil {
		family = []dao.FamilyMember{}
	}

	now := time.Now().UTC()
	doc := entryDoc{
		ID:            id,
		EntryID:       entryid.Format(uint64(n)),
		FormID:        int64Ptr(entry.FormID),
		UserID:        int64Ptr(entry.UserID),
		Data:          data,
		FamilyMembers: family,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if _, err = d.c.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return dao.Entry{}, dao.ErrEntryIDTaken
		}
		return dao.Entry{}, err
	}

	return d.FindByID(ctx, uint(id))
}

// resolve converts docs and attaches the referenced forms and accounts.
// References to deleted records resolve to nil.
func (d *EntryDAO) resolve(ctx context.Context, docs []entryDoc) ([]dao.Entry, error) {
	var formIDs, userIDs []int64
	for _, doc := range docs {
		if doc.FormID != nil {
			formIDs = append(formIDs, *doc.FormID)
		}
		if doc.UserID != nil {
			userIDs = append(userIDs, *doc.UserID)
		}
	}

	forms, err := d.forms.findByIDs(ctx, formIDs)
	if err != nil {
		return nil, fmt.Errorf("d.forms.findByIDs -> %w", err)
	}
	users, err := d.users.findByIDs(ctx, userIDs)
	if err != nil {
		return nil, fmt.Errorf("d.users.findByIDs -> %w", err)
	}

	entries := make([]dao.Entry, 0, len(docs))
	for _, doc := range docs {
		e, err := doc.toDAO()
		if err != nil {
			return nil, err
		}
		if doc.FormID != nil {
			if f, ok := forms[*doc.FormID]; ok {
				e.Form = &f
			}
		}
		if doc.UserID != nil {
			if u, ok := users[*doc.UserID]; ok {
				e.User = &u
			}
		}
		entries = append(entries, e)
	}

	return entries, nil
}

func (d *EntryDAO) FindAll(ctx context.Context) ([]dao.Entry, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}})

	cur, err := d.c.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}

	var docs []entryDoc
	if err = cur.All(ctx, &docs); err != nil {
		return nil, err
	}

	return d.resolve(ctx, docs)
}

func (d *EntryDAO) FindByID(ctx context.Context, id uint) (dao.Entry, error) {
	var doc entryDoc
	if err := d.c.FindOne(ctx, bson.M{"_id": int64(id)}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return dao.Entry{}, dao.ErrEntryNotFound
		}
		return dao.Entry{}, err
	}

	entries, err := d.resolve(ctx, []entryDoc{doc})
	if err != nil {
		return dao.Entry{}, err
	}

	return entries[0], nil
}

func (d *EntryDAO) UpdateData(ctx context.Context, id uint, data string) (dao.Entry, error) {
	doc, err := dataToBSON(data)
	if err != nil {
		return dao.Entry{}, err
	}

	res, err := d.c.UpdateOne(ctx, bson.M{"_id": int64(id)}, bson.M{"$set": bson.M{"data": doc, "updatedAt": time.Now().UTC()}})
	if err != nil {
		return dao.Entry{}, err
	}
	if res.MatchedCount == 0 {
		return dao.Entry{}, dao.ErrEntryNotFound
	}

	return d.FindByID(ctx, id)
}

func (d *EntryDAO) Delete(ctx context.Context, id uint) error {
	res, err := d.c.DeleteOne(ctx, bson.M{"_id": int64(id)})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return dao.ErrEntryNotFound
	}

	return nil
}
