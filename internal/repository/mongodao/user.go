package mongodao

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/vietanh2810/church-members-api/internal/repository/dao"
)

type userDoc struct {
	ID        int64     `bson:"_id"`
	Name      string    `bson:"name"`
	Email     string    `bson:"email"`
	Password  string    `bson:"password"`
	Role      string    `bson:"role"`
	CreatedAt time.Time `bson:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt"`
}

func (d userDoc) toDAO() dao.User {
	return dao.User{
		ID:        uint(d.ID),
		Name:      d.Name,
		Email:     d.Email,
		Password:  d.Password,
		Role:      d.Role,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

type UserDAO struct {
	c   *mongo.Collection
	seq sequence
}

func NewUserDAO(db *mongo.Database) *UserDAO {
	return &UserDAO{
		c:   db.Collection(accountsCollection),
		seq: newSequence(db),
	}
}

func (d *UserDAO) Insert(ctx context.Context, user dao.User) (dao.User, error) {
	id, err := d.seq.next(ctx, accountsCollection)
	if err != nil {
		return dao.User{}, err
	}

	now := time.Now().UTC()
	doc := userDoc{
		ID:        id,
		Name:      user.Name,
		Email:     user.Email,
		Password:  user.Password,
		Role:      user.Role,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err = d.c.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return dao.User{}, dao.ErrUserEmailExists
		}
		return dao.User{}, err
	}

	return doc.toDAO(), nil
}

func (d *UserDAO) findOne(ctx context.Context, filter bson.M) (dao.User, error) {
	var doc userDoc
	if err := d.c.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return dao.User{}, dao.ErrUserNotFound
		}
		return dao.User{}, err
	}

	return doc.toDAO(), nil
}

func (d *UserDAO) FindByID(ctx context.Context, id uint) (dao.User, error) {
	return d.findOne(ctx, bson.M{"_id": int64(id)})
}

func (d *UserDAO) FindByEmailAndRole(ctx context.Context, email, role string) (dao.User, error) {
	return d.findOne(ctx, bson.M{"email": email, "role": role})
}

func (d *UserDAO) FindByRole(ctx context.Context, role string) ([]dao.User, error) {
	cur, err := d.c.Find(ctx, bson.M{"role": role}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, err
	}

	var docs []userDoc
	if err = cur.All(ctx, &docs); err != nil {
		return nil, err
	}

	users := make([]dao.User, 0, len(docs))
	for _, doc := range docs {
		users = append(users, doc.toDAO())
	}

	return users, nil
}

// findByIDs returns the accounts with the given ids keyed by id.
func (d *UserDAO) findByIDs(ctx context.Context, ids []int64) (map[int64]dao.User, error) {
	found := make(map[int64]dao.User, len(ids))
	if len(ids) == 0 {
		return found, nil
	}

	cur, err := d.c.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}

	var docs []userDoc
	if err = cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	for _, doc := range docs {
		found[doc.ID] = doc.toDAO()
	}

	return found, nil
}

func (d *UserDAO) UpdateProfile(ctx context.Context, id uint, name, email string) (dao.User, error) {
	update := bson.M{"$set": bson.M{"name": name, "email": email, "updatedAt": time.Now().UTC()}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc userDoc
	err := d.c.FindOneAndUpdate(ctx, bson.M{"_id": int64(id)}, update, opts).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return dao.User{}, dao.ErrUserNotFound
		}
		if mongo.IsDuplicateKeyError(err) {
			return dao.User{}, dao.ErrUserEmailExists
		}
		return dao.User{}, err
	}

	return doc.toDAO(), nil
}

func (d *UserDAO) Delete(ctx context.Context, id uint) error {
	res, err := d.c.DeleteOne(ctx, bson.M{"_id": int64(id)})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return dao.ErrUserNotFound
	}

	return nil
}
