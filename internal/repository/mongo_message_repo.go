package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/Anay7520/ChatSphere/internal/domain"
)

// MongoMessageRepository implements MessageRepository on a Mongo
// collection.
type MongoMessageRepository struct {
	coll *mongo.Collection
}

// NewMongoMessageRepository creates a Mongo-backed message repository.
func NewMongoMessageRepository(db *mongo.Database) *MongoMessageRepository {
	return &MongoMessageRepository{coll: db.Collection(collMessages)}
}

func (r *MongoMessageRepository) Insert(ctx context.Context, msg *domain.Message) error {
	now := time.Now().UTC()
	msg.ID = uuid.New().String()
	msg.Status = domain.MessageStatusSent
	if msg.Type == "" {
		msg.Type = domain.MessageTypeText
	}
	if msg.Reactions == nil {
		msg.Reactions = map[string][]string{}
	}
	msg.CreatedAt = now
	msg.UpdatedAt = now

	_, err := r.coll.InsertOne(ctx, msg)
	return err
}

func (r *MongoMessageRepository) GetByID(ctx context.Context, id string) (*domain.Message, error) {
	var msg domain.Message
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&msg); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrMessageNotFound
		}
		return nil, err
	}
	return &msg, nil
}

func (r *MongoMessageRepository) ListByChat(ctx context.Context, chatID string, limit int64, before, after *time.Time) ([]domain.Message, error) {
	filter := bson.M{
		"chat_id":    chatID,
		"is_deleted": bson.M{"$ne": true},
	}
	if before != nil {
		filter["created_at"] = bson.M{"$lt": *before}
	}
	if after != nil {
		filter["created_at"] = bson.M{"$gt": *after}
	}

	// Backward pages (before set, or no bound) read newest-first;
	// forward pages (after set) read chronologically.
	dir := -1
	if after != nil && before == nil {
		dir = 1
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: dir}}).
		SetLimit(limit)
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	var messages []domain.Message
	if err := cursor.All(ctx, &messages); err != nil {
		return nil, err
	}
	return messages, nil
}

func (r *MongoMessageRepository) Edit(ctx context.Context, id, content string, at time.Time) (*domain.Message, error) {
	return r.findOneAndUpdate(ctx, id, bson.M{"$set": bson.M{
		"content":    content,
		"is_edited":  true,
		"edited_at":  at,
		"updated_at": at,
	}})
}

func (r *MongoMessageRepository) SoftDelete(ctx context.Context, id string, at time.Time) (*domain.Message, error) {
	return r.findOneAndUpdate(ctx, id, bson.M{"$set": bson.M{
		"is_deleted": true,
		"deleted_at": at,
		"content":    domain.DeletedPlaceholder,
		"updated_at": at,
	}})
}

func (r *MongoMessageRepository) AddReaction(ctx context.Context, id, userID, emoji string) (*domain.Message, error) {
	return r.findOneAndUpdate(ctx, id, bson.M{
		"$addToSet": bson.M{"reactions." + emoji: userID},
		"$set":      bson.M{"updated_at": time.Now().UTC()},
	})
}

func (r *MongoMessageRepository) RemoveReaction(ctx context.Context, id, userID, emoji string) (*domain.Message, error) {
	return r.findOneAndUpdate(ctx, id, bson.M{
		"$pull": bson.M{"reactions." + emoji: userID},
		"$set":  bson.M{"updated_at": time.Now().UTC()},
	})
}

func (r *MongoMessageRepository) MarkRead(ctx context.Context, chatID, readerID string, before *time.Time) (int64, error) {
	filter := bson.M{
		"chat_id":   chatID,
		"sender_id": bson.M{"$ne": readerID},
		"status":    bson.M{"$ne": domain.MessageStatusRead},
	}
	if before != nil {
		filter["created_at"] = bson.M{"$lte": *before}
	}

	res, err := r.coll.UpdateMany(ctx, filter, bson.M{"$set": bson.M{
		"status":     domain.MessageStatusRead,
		"updated_at": time.Now().UTC(),
	}})
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

func (r *MongoMessageRepository) CountUnread(ctx context.Context, chatID, userID string) (int64, error) {
	return r.coll.CountDocuments(ctx, bson.M{
		"chat_id":    chatID,
		"sender_id":  bson.M{"$ne": userID},
		"status":     bson.M{"$ne": domain.MessageStatusRead},
		"is_deleted": bson.M{"$ne": true},
	})
}

func (r *MongoMessageRepository) findOneAndUpdate(ctx context.Context, id string, update bson.M) (*domain.Message, error) {
	var msg domain.Message
	err := r.coll.FindOneAndUpdate(ctx, bson.M{"_id": id}, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&msg)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrMessageNotFound
		}
		return nil, err
	}
	return &msg, nil
}
