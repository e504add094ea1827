package adapters

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"heartlink/internal/domain"
	"heartlink/internal/domain/entity"
	matchusecase "heartlink/internal/feature/match/usecase"
)

const matchesCollection = "matches"

type matchDoc struct {
	ID primitive.ObjectID `bson:"_id"`
	// PairKey is "<lower id>:<higher id>" and carries the uniqueness of the pair.
	PairKey   string               `bson:"pairKey"`
	Users     []primitive.ObjectID `bson:"users"`
	UserLikes map[string]bool      `bson:"userLikes"`
	IsMatched bool                 `bson:"isMatched"`
	CreatedAt time.Time            `bson:"createdAt"`
	UpdatedAt time.Time            `bson:"updatedAt"`
}

func (d *matchDoc) toEntity() *entity.Match {
	m := &entity.Match{
		ID:        d.ID.Hex(),
		Decisions: make(map[string]bool, len(d.UserLikes)),
		IsMatched: d.IsMatched,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
	if len(d.Users) == 2 {
		m.Users = entity.PairOf(d.Users[0].Hex(), d.Users[1].Hex())
	}
	for k, v := range d.UserLikes {
		m.Decisions[k] = v
	}
	return m
}

func pairKey(p [2]string) string { return p[0] + ":" + p[1] }

type matchMongo struct {
	col *mongo.Collection
	now func() time.Time
}

var _ matchusecase.MatchRepository = (*matchMongo)(nil)

// NewMatchMongo creates a match ledger over the matches collection of db.
func NewMatchMongo(db *mongo.Database) *matchMongo {
	return &matchMongo{col: db.Collection(matchesCollection), now: time.Now}
}

func (r *matchMongo) EnsureIndexes(ctx context.Context) error {
	_, err := r.col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "pairKey", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "users", Value: 1}, {Key: "isMatched", Value: 1}}},
	})
	return err
}

// RecordDecision upserts the pair document with an update pipeline: the first stage
// writes the actor's entry, the second recomputes isMatched from the stored entries.
func (r *matchMongo) RecordDecision(ctx context.Context, actorID, targetID string, like bool) (*entity.Match, error) {
	pair := entity.PairOf(actorID, targetID)
	a, err := primitive.ObjectIDFromHex(pair[0])
	if err != nil {
		return nil, domain.ErrUserNotFound
	}
	b, err := primitive.ObjectIDFromHex(pair[1])
	if err != nil {
		return nil, domain.ErrUserNotFound
	}
	now := r.now().UTC()

	pipeline := mongo.Pipeline{
		{{Key: "$set", Value: bson.D{
			{Key: "users", Value: bson.D{{Key: "$ifNull", Value: bson.A{"$users", bson.A{a, b}}}}},
			{Key: "createdAt", Value: bson.D{{Key: "$ifNull", Value: bson.A{"$createdAt", now}}}},
			{Key: "updatedAt", Value: now},
			{Key: "userLikes." + actorID, Value: like},
		}}},
		{{Key: "$set", Value: bson.D{
			{Key: "isMatched", Value: bson.D{{Key: "$or", Value: bson.A{
				bson.D{{Key: "$ifNull", Value: bson.A{"$isMatched", false}}},
				bson.D{{Key: "$and", Value: bson.A{
					bson.D{{Key: "$eq", Value: bson.A{"$userLikes." + actorID, true}}},
					bson.D{{Key: "$eq", Value: bson.A{"$userLikes." + targetID, true}}},
				}}},
			}}}},
		}}},
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var d matchDoc
	if err := r.col.FindOneAndUpdate(ctx, bson.M{"pairKey": pairKey(pair)}, pipeline, opts).Decode(&d); err != nil {
		return nil, err
	}
	return d.toEntity(), nil
}

// FindForMember returns the match only when userID belongs to it.
func (r *matchMongo) FindForMember(ctx context.Context, matchID, userID string) (*entity.Match, error) {
	mid, err := primitive.ObjectIDFromHex(matchID)
	if err != nil {
		return nil, domain.ErrMatchNotFound
	}
	uid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, domain.ErrMatchNotFound
	}
	var d matchDoc
	if err := r.col.FindOne(ctx, bson.M{"_id": mid, "users": uid}).Decode(&d); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrMatchNotFound
		}
		return nil, err
	}
	return d.toEntity(), nil
}

func (r *matchMongo) ListMutual(ctx context.Context, userID string) ([]*entity.Match, error) {
	uid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, nil
	}
	cur, err := r.col.Find(ctx, bson.M{"users": uid, "isMatched": true},
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, err
	}
	var docs []matchDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	out := make([]*entity.Match, 0, len(docs))
	for i := range docs {
		out = append(out, docs[i].toEntity())
	}
	return out, nil
}
