package adapters

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"heartlink/internal/domain/entity"
	messagingusecase "heartlink/internal/feature/messaging/usecase"
)

const messagesCollection = "messages"

type messageDoc struct {
	ID        primitive.ObjectID `bson:"_id"`
	MatchID   primitive.ObjectID `bson:"matchId"`
	Sender    primitive.ObjectID `bson:"sender"`
	Receiver  primitive.ObjectID `bson:"receiver"`
	Content   string             `bson:"content"`
	IsRead    bool               `bson:"isRead"`
	CreatedAt time.Time          `bson:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt"`
}

func (d *messageDoc) toEntity() *entity.Message {
	return &entity.Message{
		ID:         d.ID.Hex(),
		MatchID:    d.MatchID.Hex(),
		SenderID:   d.Sender.Hex(),
		ReceiverID: d.Receiver.Hex(),
		Content:    d.Content,
		IsRead:     d.IsRead,
		CreatedAt:  d.CreatedAt,
	}
}

type messageMongo struct {
	col *mongo.Collection
	now func() time.Time
}

var _ messagingusecase.MessageRepository = (*messageMongo)(nil)

// NewMessageMongo creates a message log over the messages collection of db.
func NewMessageMongo(db *mongo.Database) *messageMongo {
	return &messageMongo{col: db.Collection(messagesCollection), now: time.Now}
}

func (r *messageMongo) EnsureIndexes(ctx context.Context) error {
	_, err := r.col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "matchId", Value: 1}, {Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "receiver", Value: 1}, {Key: "isRead", Value: 1}}},
	})
	return err
}

func oidsOf(ids []string) []primitive.ObjectID {
	out := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		if oid, err := primitive.ObjectIDFromHex(id); err == nil {
			out = append(out, oid)
		}
	}
	return out
}

func (r *messageMongo) Create(ctx context.Context, m *entity.Message) error {
	ids := oidsOf([]string{m.MatchID, m.SenderID, m.ReceiverID})
	if len(ids) != 3 {
		return primitive.ErrInvalidHex
	}
	now := r.now().UTC()
	doc := messageDoc{
		ID:        primitive.NewObjectID(),
		MatchID:   ids[0],
		Sender:    ids[1],
		Receiver:  ids[2],
		Content:   m.Content,
		IsRead:    m.IsRead,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return err
	}
	m.ID, m.CreatedAt = doc.ID.Hex(), now
	return nil
}

func (r *messageMongo) ListByMatch(ctx context.Context, matchID string) ([]*entity.Message, error) {
	mid, err := primitive.ObjectIDFromHex(matchID)
	if err != nil {
		return nil, nil
	}
	cur, err := r.col.Find(ctx, bson.M{"matchId": mid},
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}}))
	if err != nil {
		return nil, err
	}
	var docs []messageDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	out := make([]*entity.Message, 0, len(docs))
	for i := range docs {
		out = append(out, docs[i].toEntity())
	}
	return out, nil
}

func (r *messageMongo) MarkRead(ctx context.Context, matchID, receiverID string) (int64, error) {
	ids := oidsOf([]string{matchID, receiverID})
	if len(ids) != 2 {
		return 0, nil
	}
	res, err := r.col.UpdateMany(ctx,
		bson.M{"matchId": ids[0], "receiver": ids[1], "isRead": false},
		bson.M{"$set": bson.M{"isRead": true, "updatedAt": r.now().UTC()}})
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

func (r *messageMongo) CountUnread(ctx context.Context, receiverID string) (int64, error) {
	oid, err := primitive.ObjectIDFromHex(receiverID)
	if err != nil {
		return 0, nil
	}
	return r.col.CountDocuments(ctx, bson.M{"receiver": oid, "isRead": false})
}

// LatestByMatch runs one aggregation that keeps the newest message per thread.
func (r *messageMongo) LatestByMatch(ctx context.Context, matchIDs []string) (map[string]*entity.Message, error) {
	out := make(map[string]*entity.Message, len(matchIDs))
	oids := oidsOf(matchIDs)
	if len(oids) == 0 {
		return out, nil
	}
	cur, err := r.col.Aggregate(ctx, mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"matchId": bson.M{"$in": oids}}}},
		{{Key: "$sort", Value: bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$matchId"},
			{Key: "doc", Value: bson.D{{Key: "$first", Value: "$$ROOT"}}},
		}}},
	})
	if err != nil {
		return nil, err
	}
	var groups []struct {
		Doc messageDoc `bson:"doc"`
	}
	if err := cur.All(ctx, &groups); err != nil {
		return nil, err
	}
	for i := range groups {
		m := groups[i].Doc.toEntity()
		out[m.MatchID] = m
	}
	return out, nil
}

func (r *messageMongo) UnreadByMatch(ctx context.Context, matchIDs []string, receiverID string) (map[string]int64, error) {
	out := make(map[string]int64, len(matchIDs))
	oids := oidsOf(matchIDs)
	rid, err := primitive.ObjectIDFromHex(receiverID)
	if len(oids) == 0 || err != nil {
		return out, nil
	}
	cur, err := r.col.Aggregate(ctx, mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"matchId": bson.M{"$in": oids}, "receiver": rid, "isRead": false}}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$matchId"},
			{Key: "n", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
	})
	if err != nil {
		return nil, err
	}
	var counts []struct {
		MatchID primitive.ObjectID `bson:"_id"`
		N       int64              `bson:"n"`
	}
	if err := cur.All(ctx, &counts); err != nil {
		return nil, err
	}
	for _, c := range counts {
		out[c.MatchID.Hex()] = c.N
	}
	return out, nil
}
