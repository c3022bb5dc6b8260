package credstore

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type mongoStore struct {
	collection *mongo.Collection
}

// recordsDoc holds the entire collection in a single document so that
// ReplaceOne gives the same whole-snapshot atomic-replace semantics as the
// file backend.
type recordsDoc struct {
	ID    string       `bson:"_id"`
	Users []UserRecord `bson:"users"`
}

const recordsDocID = "users"

func NewMongoStore(c *mongo.Collection) Store {
	return &mongoStore{collection: c}
}

func (s *mongoStore) Load() ([]UserRecord, error) {
	sr := s.collection.FindOne(context.TODO(), bson.M{"_id": recordsDocID})
	if sr.Err() == mongo.ErrNoDocuments {
		return []UserRecord{}, nil
	}

	var doc recordsDoc
	if err := sr.Decode(&doc); err != nil {
		if err == mongo.ErrNoDocuments {
			return []UserRecord{}, nil
		}
		return nil, fmt.Errorf("%w: %v", ErrCorruptStore, err)
	}
	if doc.Users == nil {
		doc.Users = []UserRecord{}
	}
	return doc.Users, nil
}

func (s *mongoStore) Save(records []UserRecord) error {
	doc := recordsDoc{ID: recordsDocID, Users: records}
	opts := options.Replace().SetUpsert(true)
	if _, err := s.collection.ReplaceOne(context.TODO(), bson.M{"_id": recordsDocID}, doc, opts); err != nil {
		return fmt.Errorf("replacing users document: %w", err)
	}
	return nil
}
