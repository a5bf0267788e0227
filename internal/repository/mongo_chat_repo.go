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

// MongoChatRepository implements ChatRepository on a Mongo collection.
type MongoChatRepository struct {
	coll *mongo.Collection
}

// NewMongoChatRepository creates a Mongo-backed chat repository.
func NewMongoChatRepository(db *mongo.Database) *MongoChatRepository {
	return &MongoChatRepository{coll: db.Collection(collChats)}
}

func (r *MongoChatRepository) Create(ctx context.Context, chat *domain.Chat) error {
	now := time.Now().UTC()
	chat.ID = uuid.New().String()
	chat.CreatedAt = now
	chat.UpdatedAt = now

	_, err := r.coll.InsertOne(ctx, chat)
	return err
}

func (r *MongoChatRepository) GetByID(ctx context.Context, id string) (*domain.Chat, error) {
	var chat domain.Chat
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&chat); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrChatNotFound
		}
		return nil, err
	}
	return &chat, nil
}

func (r *MongoChatRepository) FindDirect(ctx context.Context, participants []string) (*domain.Chat, error) {
	var chat domain.Chat
	filter := bson.M{
		"chat_type":    domain.ChatTypeDirect,
		"participants": bson.M{"$all": participants, "$size": len(participants)},
	}
	if err := r.coll.FindOne(ctx, filter).Decode(&chat); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrChatNotFound
		}
		return nil, err
	}
	return &chat, nil
}

func (r *MongoChatRepository) ListForUser(ctx context.Context, userID string, includeArchived bool) ([]domain.Chat, error) {
	filter := bson.M{"participants": userID}
	if !includeArchived {
		filter["is_archived"] = false
	}

	opts := options.Find().SetSort(bson.D{
		{Key: "last_message_at", Value: -1},
		{Key: "created_at", Value: -1},
	})
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	var chats []domain.Chat
	if err := cursor.All(ctx, &chats); err != nil {
		return nil, err
	}
	return chats, nil
}

func (r *MongoChatRepository) Update(ctx context.Context, id string, fields map[string]interface{}) (*domain.Chat, error) {
	set := bson.M{"updated_at": time.Now().UTC()}
	for k, v := range fields {
		set[k] = v
	}
	return r.findOneAndUpdate(ctx, id, bson.M{"$set": set})
}

func (r *MongoChatRepository) AddParticipant(ctx context.Context, chatID, userID string) (*domain.Chat, error) {
	return r.findOneAndUpdate(ctx, chatID, bson.M{
		"$addToSet": bson.M{"participants": userID},
		"$set":      bson.M{"updated_at": time.Now().UTC()},
	})
}

func (r *MongoChatRepository) RemoveParticipant(ctx context.Context, chatID, userID string) (*domain.Chat, error) {
	return r.findOneAndUpdate(ctx, chatID, bson.M{
		"$pull": bson.M{"participants": userID, "admins": userID},
		"$set":  bson.M{"updated_at": time.Now().UTC()},
	})
}

func (r *MongoChatRepository) Archive(ctx context.Context, chatID string) error {
	_, err := r.findOneAndUpdate(ctx, chatID, bson.M{"$set": bson.M{
		"is_archived": true,
		"updated_at":  time.Now().UTC(),
	}})
	return err
}

func (r *MongoChatRepository) SetLastMessage(ctx context.Context, chatID, preview string, at time.Time) error {
	_, err := r.coll.UpdateOne(ctx, bson.M{"_id": chatID}, bson.M{"$set": bson.M{
		"last_message_at":      at,
		"last_message_preview": preview,
		"updated_at":           time.Now().UTC(),
	}})
	return err
}

func (r *MongoChatRepository) findOneAndUpdate(ctx context.Context, id string, update bson.M) (*domain.Chat, error) {
	var chat domain.Chat
	err := r.coll.FindOneAndUpdate(ctx, bson.M{"_id": id}, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&chat)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrChatNotFound
		}
		return nil, err
	}
	return &chat, nil
}
