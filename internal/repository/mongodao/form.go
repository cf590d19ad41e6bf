package mongodao

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"gorm.io/datatypes"

	"github.com/vietanh2810/church-members-api/internal/repository/dao"
)

type formDoc struct {
	ID              int64               `bson:"_id"`
	Name            string              `bson:"name"`
	Fields          []dao.Field         `bson:"fields"`
	GlobalDropdowns dao.GlobalDropdowns `bson:"globalDropdowns"`
	CreatedBy       *int64              `bson:"createdBy,omitempty"`
	CreatedAt       time.Time           `bson:"createdAt"`
	UpdatedAt       time.Time           `bson:"updatedAt"`
}

func (d formDoc) toDAO() dao.FormSchema {
	fields := d.Fields
	if fields == nil {
		fields = []dao.Field{}
	}

	return dao.FormSchema{
		ID:              uint(d.ID),
		Name:            d.Name,
		Fields:          datatypes.JSONSlice[dao.Field](fields),
		GlobalDropdowns: datatypes.NewJSONType(d.GlobalDropdowns),
		CreatedBy:       idPtr(d.CreatedBy),
		CreatedAt:       d.CreatedAt,
		UpdatedAt:       d.UpdatedAt,
	}
}

type FormDAO struct {
	c       *mongo.Collection
	entries *mongo.Collection
	seq     sequence
}

func NewFormDAO(db *mongo.Database) *FormDAO {
	return &FormDAO{
		c:       db.Collection(formsCollection),
		entries: db.Collection(entriesCollection),
		seq:     newSequence(db),
	}
}

func (d *FormDAO) Insert(ctx context.Context, form dao.FormSchema) (dao.FormSchema, error) {
	id, err := d.seq.next(ctx, formsCollection)
	if err != nil {
		return dao.FormSchema{}, err
	}

	fields := []dao.Field(form.Fields)
	if fields == nil {
		fields = []dao.Field{}
	}

	now := time.Now().UTC()
	doc := formDoc{
		ID:              id,
		Name:            form.Name,
		Fields:          fields,
		GlobalDropdowns: form.GlobalDropdowns.Data(),
		CreatedBy:       int64Ptr(form.CreatedBy),
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if _, err = d.c.InsertOne(ctx, doc); err != nil {
		return dao.FormSchema{}, err
	}

	return doc.toDAO(), nil
}

func (d *FormDAO) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]dao.FormSchema, error) {
	cur, err := d.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}

	var docs []formDoc
	if err = cur.All(ctx, &docs); err != nil {
		return nil, err
	}

	forms := make([]dao.FormSchema, 0, len(docs))
	for _, doc := range docs {
		forms = append(forms, doc.toDAO())
	}

	return forms, nil
}

func (d *FormDAO) FindAll(ctx context.Context) ([]dao.FormSchema, error) {
	return d.find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}}))
}

func (d *FormDAO) FindByID(ctx context.Context, id uint) (dao.FormSchema, error) {
	var doc formDoc
	if err := d.c.FindOne(ctx, bson.M{"_id": int64(id)}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return dao.FormSchema{}, dao.ErrFormNotFound
		}
		return dao.FormSchema{}, err
	}

	return doc.toDAO(), nil
}

func (d *FormDAO) FindLatest(ctx context.Context) (dao.FormSchema, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}})

	var doc formDoc
	if err := d.c.FindOne(ctx, bson.M{}, opts).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return dao.FormSchema{}, dao.ErrFormNotFound
		}
		return dao.FormSchema{}, err
	}

	return doc.toDAO(), nil
}

func (d *FormDAO) findByIDs(ctx context.Context, ids []int64) (map[int64]dao.FormSchema, error) {
	found := make(map[int64]dao.FormSchema, len(ids))
	if len(ids) == 0 {
		return found, nil
	}

	forms, err := d.find(ctx, bson.M{"_id": bson.M{"$in": ids}}, nil)
	if err != nil {
		return nil, err
	}
	for _, f := range forms {
		found[int64(f.ID)] = f
	}

	return found, nil
}

func (d *FormDAO) Update(ctx context.Context, id uint, name string, fields []dao.Field) (dao.FormSchema, error) {
	if fields == nil {
		fields = []dao.Field{}
	}

	update := bson.M{"$set": bson.M{"name": name, "fields": fields, "updatedAt": time.Now().UTC()}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc formDoc
	if err := d.c.FindOneAndUpdate(ctx, bson.M{"_id": int64(id)}, update, opts).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return dao.FormSchema{}, dao.ErrFormNotFound
		}
		return dao.FormSchema{}, err
	}

	return doc.toDAO(), nil
}

// Delete removes the schema and unsets formId on entries that referenced it.
func (d *FormDAO) Delete(ctx context.Context, id uint) error {
	res, err := d.c.DeleteOne(ctx, bson.M{"_id": int64(id)})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return dao.ErrFormNotFound
	}

	_, err = d.entries.UpdateMany(ctx, bson.M{"formId": int64(id)}, bson.M{"$unset": bson.M{"formId": ""}})

	return err
}

func (d *FormDAO) Count(ctx context.Context) (int64, error) {
	return d.c.CountDocuments(ctx, bson.M{})
}
