package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"peoplemover/internal/domain"
)

// mongoDB is the document-store rendition of a person store backend.
// The "schema" is the collection itself plus a counter document that hands
// out store-local integer ids, so the contract stays identical to the SQL
// stores: ids are integers assigned on insert, in insertion order.
type mongoDB struct {
	client *mongo.Client
	db     *mongo.Database
}

func openMongo(dsn string) (*mongoDB, error) {
	client, err := mongo.Connect(options.Client().ApplyURI(dsn))
	if err != nil {
		return nil, fmt.Errorf("open mongo: %w", err)
	}
	return &mongoDB{client: client, db: client.Database(dbNameFromURI(dsn))}, nil
}

// dbNameFromURI extracts the database name from the URI path,
// e.g. mongodb://host:27017/mydb?x=y → mydb.
func dbNameFromURI(uri string) string {
	rest := uri
	for _, prefix := range []string{"mongodb+srv://", "mongodb://"} {
		if strings.HasPrefix(rest, prefix) {
			rest = rest[len(prefix):]
			break
		}
	}
	if at := strings.Index(rest, "@"); at != -1 {
		rest = rest[at+1:]
	}
	slash := strings.Index(rest, "/")
	if slash == -1 {
		return "peoplemover"
	}
	name := rest[slash+1:]
	if q := strings.Index(name, "?"); q != -1 {
		name = name[:q]
	}
	if name == "" {
		return "peoplemover"
	}
	return name
}

func (m *mongoDB) Close() error {
	return m.client.Disconnect(context.Background())
}

func (m *mongoDB) createSchema(ctx context.Context, coll string) error {
	err := m.db.CreateCollection(ctx, coll)
	var cmdErr mongo.CommandError
	if errors.As(err, &cmdErr) && cmdErr.Name == "NamespaceExists" {
		return nil
	}
	if err != nil {
		return fmt.Errorf("create %s collection: %w", coll, err)
	}
	return nil
}

func (m *mongoDB) dropSchema(ctx context.Context, coll string) error {
	if err := m.db.Collection(coll).Drop(ctx); err != nil {
		return fmt.Errorf("drop %s collection: %w", coll, err)
	}
	// Reset the id sequence so a recreated store starts over.
	if _, err := m.db.Collection("counters").DeleteOne(ctx, bson.M{"_id": coll}); err != nil {
		return fmt.Errorf("reset %s id sequence: %w", coll, err)
	}
	return nil
}

// nextSeq allocates a block of n consecutive ids for coll and returns the
// first id of the block.
func (m *mongoDB) nextSeq(ctx context.Context, coll string, n int64) (int64, error) {
	res := m.db.Collection("counters").FindOneAndUpdate(ctx,
		bson.M{"_id": coll},
		bson.M{"$inc": bson.M{"seq": n}},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	)
	var doc struct {
		Seq int64 `bson:"seq"`
	}
	if err := res.Decode(&doc); err != nil {
		return 0, fmt.Errorf("allocate ids for %s: %w", coll, err)
	}
	return doc.Seq - n + 1, nil
}

// exists reports whether the collection has been created. Mongo happily
// returns an empty cursor for a missing collection, so the unavailable case
// has to be detected explicitly.
func (m *mongoDB) exists(ctx context.Context, coll string) error {
	names, err := m.db.ListCollectionNames(ctx, bson.M{"name": coll})
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}
	if len(names) == 0 {
		return fmt.Errorf("%w: collection %s does not exist", domain.ErrStoreUnavailable, coll)
	}
	return nil
}

type mongoPersonDoc struct {
	ID       int64  `bson:"_id"`
	Name     string `bson:"name"`
	Nickname string `bson:"nickname"`
	Gender   string `bson:"gender"`
	Age      int    `bson:"age"`
}

type mongoOutputDoc struct {
	mongoPersonDoc `bson:",inline"`
	IsCool         bool `bson:"is_cool"`
}

// MongoSourceStore implements domain.SourceStore on MongoDB.
type MongoSourceStore struct {
	db *mongoDB
}

func (s *MongoSourceStore) CreateSchema(ctx context.Context) error {
	return s.db.createSchema(ctx, inputTable)
}

func (s *MongoSourceStore) DropSchema(ctx context.Context) error {
	return s.db.dropSchema(ctx, inputTable)
}

func (s *MongoSourceStore) Insert(ctx context.Context, p *domain.Person) error {
	id, err := s.db.nextSeq(ctx, inputTable, 1)
	if err != nil {
		return err
	}
	p.ID = id
	_, err = s.db.db.Collection(inputTable).InsertOne(ctx, mongoPersonDoc{
		ID: p.ID, Name: p.Name, Nickname: p.Nickname, Gender: p.Gender, Age: p.Age,
	})
	return err
}

func (s *MongoSourceStore) InsertMany(ctx context.Context, people []domain.Person) error {
	if len(people) == 0 {
		return nil
	}
	first, err := s.db.nextSeq(ctx, inputTable, int64(len(people)))
	if err != nil {
		return err
	}
	docs := make([]any, len(people))
	for i, p := range people {
		docs[i] = mongoPersonDoc{
			ID: first + int64(i), Name: p.Name, Nickname: p.Nickname, Gender: p.Gender, Age: p.Age,
		}
	}
	_, err = s.db.db.Collection(inputTable).InsertMany(ctx, docs)
	return err
}

func (s *MongoSourceStore) QueryAll(ctx context.Context) ([]domain.Person, error) {
	if err := s.db.exists(ctx, inputTable); err != nil {
		return nil, err
	}
	cur, err := s.db.db.Collection(inputTable).Find(ctx, bson.M{},
		options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var result []domain.Person
	for cur.Next(ctx) {
		var doc mongoPersonDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		result = append(result, domain.Person{
			ID: doc.ID, Name: doc.Name, Nickname: doc.Nickname, Gender: doc.Gender, Age: doc.Age,
		})
	}
	return result, cur.Err()
}

func (s *MongoSourceStore) Close() error {
	return s.db.Close()
}

// MongoDestinationStore implements domain.DestinationStore on MongoDB.
type MongoDestinationStore struct {
	db *mongoDB
}

func (s *MongoDestinationStore) CreateSchema(ctx context.Context) error {
	return s.db.createSchema(ctx, outputTable)
}

func (s *MongoDestinationStore) DropSchema(ctx context.Context) error {
	return s.db.dropSchema(ctx, outputTable)
}

func (s *MongoDestinationStore) Insert(ctx context.Context, p *domain.OutputPerson) error {
	id, err := s.db.nextSeq(ctx, outputTable, 1)
	if err != nil {
		return err
	}
	p.ID = id
	_, err = s.db.db.Collection(outputTable).InsertOne(ctx, mongoOutputDoc{
		mongoPersonDoc: mongoPersonDoc{
			ID: p.ID, Name: p.Name, Nickname: p.Nickname, Gender: p.Gender, Age: p.Age,
		},
		IsCool: p.IsCool,
	})
	return err
}

func (s *MongoDestinationStore) InsertMany(ctx context.Context, people []domain.OutputPerson) error {
	if len(people) == 0 {
		return nil
	}
	first, err := s.db.nextSeq(ctx, outputTable, int64(len(people)))
	if err != nil {
		return err
	}
	docs := make([]any, len(people))
	for i, p := range people {
		docs[i] = mongoOutputDoc{
			mongoPersonDoc: mongoPersonDoc{
				ID: first + int64(i), Name: p.Name, Nickname: p.Nickname, Gender: p.Gender, Age: p.Age,
			},
			IsCool: p.IsCool,
		}
	}
	_, err = s.db.db.Collection(outputTable).InsertMany(ctx, docs)
	return err
}

func (s *MongoDestinationStore) QueryAll(ctx context.Context) ([]domain.OutputPerson, error) {
	if err := s.db.exists(ctx, outputTable); err != nil {
		return nil, err
	}
	cur, err := s.db.db.Collection(outputTable).Find(ctx, bson.M{},
		options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var result []domain.OutputPerson
	for cur.Next(ctx) {
		var doc mongoOutputDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		result = append(result, domain.OutputPerson{
			Person: domain.Person{
				ID: doc.ID, Name: doc.Name, Nickname: doc.Nickname, Gender: doc.Gender, Age: doc.Age,
			},
			IsCool: doc.IsCool,
		})
	}
	return result, cur.Err()
}

func (s *MongoDestinationStore) Close() error {
	return s.db.Close()
}

var (
	_ domain.SourceStore      = (*MongoSourceStore)(nil)
	_ domain.DestinationStore = (*MongoDestinationStore)(nil)
)
