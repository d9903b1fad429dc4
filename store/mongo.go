package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// parentKey scopes documents of a nested collection to their parent
// document, since MongoDB has no sub-collections.
const parentKey = "_parent"

// MongoStore is the MongoDB adapter. "users/{uid}/foods" is stored in the
// "users_foods" collection with _parent set to "users/{uid}".
type MongoStore struct {
	client *mongo.Client
	db     *mongo.Database
	now    func() time.Time
}

func NewMongoStore(ctx context.Context, uri, database string) (*MongoStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}
	return &MongoStore{client: client, db: client.Database(database), now: time.Now}, nil
}

func mongoCollectionName(c Collection) string {
	if c.Parent == nil {
		return c.Name
	}
	return mongoCollectionName(c.Parent.Collection) + "_" + c.Name
}

func (s *MongoStore) coll(c Collection) *mongo.Collection {
	return s.db.Collection(mongoCollectionName(c))
}

func docFilter(d DocRef) bson.D {
	f := bson.D{{Key: "_id", Value: d.ID}}
	if d.Collection.Parent != nil {
		f = append(f, bson.E{Key: parentKey, Value: d.Collection.Parent.Path()})
	}
	return f
}

// splitSentinels separates plain values from fields the server must stamp.
func splitSentinels(data Fields) (set bson.M, stamp bson.M) {
	set, stamp = bson.M{}, bson.M{}
	for k, v := range data {
		if IsServerTimestamp(v) {
			stamp[k] = true
			continue
		}
		set[k] = v
	}
	return set, stamp
}

func mongoUpdate(data Fields, extra bson.M) bson.M {
	set, stamp := splitSentinels(data)
	for k, v := range extra {
		set[k] = v
	}
	up := bson.M{}
	if len(set) > 0 {
		up["$set"] = set
	}
	if len(stamp) > 0 {
		up["$currentDate"] = stamp
	}
	return up
}

func (s *MongoStore) Add(ctx context.Context, c Collection, data Fields) (string, error) {
	d := c.Doc(uuid.NewString())
	extra := bson.M{}
	if c.Parent != nil {
		extra[parentKey] = c.Parent.Path()
	}
	_, err := s.coll(c).UpdateOne(ctx, docFilter(d), mongoUpdate(data, extra), options.Update().SetUpsert(true))
	if err != nil {
		return "", err
	}
	return d.ID, nil
}

// Set replaces the whole document. Replacement documents cannot carry
// $currentDate, so sentinels resolve to the adapter clock here.
func (s *MongoStore) Set(ctx context.Context, d DocRef, data Fields) error {
	doc := bson.M(resolve(data, s.now().UTC()))
	doc["_id"] = d.ID
	if d.Collection.Parent != nil {
		doc[parentKey] = d.Collection.Parent.Path()
	}
	_, err := s.coll(d.Collection).ReplaceOne(ctx, docFilter(d), doc, options.Replace().SetUpsert(true))
	return err
}

func (s *MongoStore) Update(ctx context.Context, d DocRef, data Fields) error {
	res, err := s.coll(d.Collection).UpdateOne(ctx, docFilter(d), mongoUpdate(data, nil))
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoStore) Get(ctx context.Context, d DocRef) (*Snapshot, error) {
	var raw bson.M
	err := s.coll(d.Collection).FindOne(ctx, docFilter(d)).Decode(&raw)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &Snapshot{Ref: d, Data: fromBSON(raw)}, nil
}

func (s *MongoStore) Delete(ctx context.Context, d DocRef) error {
	_, err := s.coll(d.Collection).DeleteOne(ctx, docFilter(d))
	return err
}

func mongoFilter(q Query) bson.D {
	var conds bson.A
	if q.Collection.Parent != nil {
		conds = append(conds, bson.D{{Key: parentKey, Value: q.Collection.Parent.Path()}})
	}
	for _, f := range q.Filters {
		switch f.Op {
		case OpEqual:
			conds = append(conds, bson.D{{Key: f.Field, Value: f.Value}})
		case OpGreaterEqual:
			conds = append(conds, bson.D{{Key: f.Field, Value: bson.D{{Key: "$gte", Value: f.Value}}}})
		case OpLessEqual:
			conds = append(conds, bson.D{{Key: f.Field, Value: bson.D{{Key: "$lte", Value: f.Value}}}})
		}
	}
	for _, o := range q.Orders {
		conds = append(conds, bson.D{{Key: o.Field, Value: bson.D{{Key: "$exists", Value: true}}}})
	}
	if len(conds) == 0 {
		return bson.D{}
	}
	return bson.D{{Key: "$and", Value: conds}}
}

func mongoSort(q Query) bson.D {
	sort := make(bson.D, 0, len(q.Orders)+1)
	for _, o := range q.Orders {
		dir := 1
		if o.Direction == Desc {
			dir = -1
		}
		sort = append(sort, bson.E{Key: o.Field, Value: dir})
	}
	return append(sort, bson.E{Key: "_id", Value: 1})
}

func (s *MongoStore) Query(ctx context.Context, q Query) ([]*Snapshot, error) {
	opts := options.Find().SetSort(mongoSort(q))
	if q.Limit > 0 {
		opts.SetLimit(int64(q.Limit))
	}
	cur, err := s.coll(q.Collection).Find(ctx, mongoFilter(q), opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []*Snapshot
	for cur.Next(ctx) {
		var raw bson.M
		if err := cur.Decode(&raw); err != nil {
			return nil, err
		}
		id, _ := raw["_id"].(string)
		out = append(out, &Snapshot{Ref: q.Collection.Doc(id), Data: fromBSON(raw)})
	}
	return out, cur.Err()
}

func (s *MongoStore) Close() error {
	return s.client.Disconnect(context.Background())
}

func fromBSON(raw bson.M) Fields {
	out := make(Fields, len(raw))
	for k, v := range raw {
		if k == "_id" || k == parentKey {
			continue
		}
		out[k] = fromBSONValue(v)
	}
	return out
}

func fromBSONValue(v any) any {
	switch t := v.(type) {
	case primitive.DateTime:
		return t.Time().UTC()
	case int32:
		return int64(t)
	case bson.M:
		m := make(map[string]any, len(t))
		for k, vv := range t {
			m[k] = fromBSONValue(vv)
		}
		return m
	case bson.D:
		m := make(map[string]any, len(t))
		for _, e := range t {
			m[e.Key] = fromBSONValue(e.Value)
		}
		return m
	case bson.A:
		s := make([]any, len(t))
		for i, vv := range t {
			s[i] = fromBSONValue(vv)
		}
		return s
	}
	return v
}
