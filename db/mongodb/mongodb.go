// Package mongodb is an EmoteStore backed by a MongoDB collection.
package mongodb

import (
	"context"
	"time"

	"emperror.dev/errors"
	"github.com/diamondburned/arikawa/v3/discord"
	"github.com/starshine-sys/nbot/db"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var _ db.EmoteStore = (*Store)(nil)

// DefaultDatabase is used if the connection string doesn't name a database.
const DefaultDatabase = "nbot"

type Store struct {
	client *mongo.Client
	emotes *mongo.Collection
}

// document is the stored shape of an emote.
type document struct {
	Name    string    `bson:"name"`
	Owner   int64     `bson:"owner"`
	URL     string    `bson:"url"`
	Created time.Time `bson:"created"`
}

func fromEmote(e db.Emote) document {
	return document{
		Name:    e.Name,
		Owner:   int64(e.Owner),
		URL:     e.URL,
		Created: e.Created,
	}
}

func (d document) emote() db.Emote {
	return db.Emote{
		Name:    d.Name,
		Owner:   discord.UserID(d.Owner),
		URL:     d.URL,
		Created: d.Created,
	}
}

// New connects to the MongoDB server at url and ensures the unique name index exists.
func New(ctx context.Context, url string) (*Store, error) {
	opts := options.Client().ApplyURI(url)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, errors.Wrap(err, "connecting to mongodb")
	}

	err = client.Ping(ctx, nil)
	if err != nil {
		return nil, errors.Wrap(err, "pinging mongodb")
	}

	dbName := DefaultDatabase
	if cs, err := connStringDatabase(url); err == nil && cs != "" {
		dbName = cs
	}

	s := &Store{
		client: client,
		emotes: client.Database(dbName).Collection("emotes"),
	}

	_, err = s.emotes.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "name", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return nil, errors.Wrap(err, "creating name index")
	}

	return s, nil
}

func (s *Store) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return s.client.Disconnect(ctx)
}

func (s *Store) AddEmote(ctx context.Context, e db.Emote) (db.Emote, error) {
	if e.Created.IsZero() {
		e.Created = time.Now().UTC()
	}

	_, err := s.emotes.InsertOne(ctx, fromEmote(e))
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return e, db.ErrDuplicateName
		}
		return e, errors.Wrap(err, "inserting emote")
	}
	return e, nil
}

func (s *Store) RemoveEmote(ctx context.Context, name string, owner discord.UserID) (e db.Emote, err error) {
	var doc document
	err = s.emotes.FindOneAndDelete(ctx, bson.M{"name": name, "owner": int64(owner)}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return e, db.ErrNotFound
		}
		return e, errors.Wrap(err, "deleting emote")
	}
	return doc.emote(), nil
}

func (s *Store) Emote(ctx context.Context, name string) (e db.Emote, err error) {
	var doc document
	err = s.emotes.FindOne(ctx, bson.M{"name": name}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return e, db.ErrNotFound
		}
		return e, errors.Wrap(err, "getting emote")
	}
	return doc.emote(), nil
}

func (s *Store) Emotes(ctx context.Context) ([]db.Emote, error) {
	return s.aggregate(ctx, bson.D{})
}

func (s *Store) EmotesByOwner(ctx context.Context, owner discord.UserID) ([]db.Emote, error) {
	return s.aggregate(ctx, bson.D{{Key: "owner", Value: int64(owner)}})
}

func (s *Store) EmotesByName(ctx context.Context, names []string) ([]db.Emote, error) {
	if len(names) == 0 {
		return nil, nil
	}

	return s.aggregate(ctx, bson.D{{Key: "name", Value: bson.D{{Key: "$in", Value: names}}}})
}

// aggregate returns all emotes matching filter, longest name first.
func (s *Store) aggregate(ctx context.Context, filter bson.D) ([]db.Emote, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: filter}},
		{{Key: "$addFields", Value: bson.D{{Key: "length", Value: bson.D{{Key: "$strLenCP", Value: "$name"}}}}}},
		{{Key: "$sort", Value: bson.D{{Key: "length", Value: -1}, {Key: "name", Value: 1}}}},
	}

	cur, err := s.emotes.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, errors.Wrap(err, "aggregating emotes")
	}

	var docs []document
	err = cur.All(ctx, &docs)
	if err != nil {
		return nil, errors.Wrap(err, "decoding emotes")
	}

	es := make([]db.Emote, 0, len(docs))
	for _, d := range docs {
		es = append(es, d.emote())
	}
	return es, nil
}
