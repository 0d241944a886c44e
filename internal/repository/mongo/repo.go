package mongo

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/commhub/message-service/internal/config"
	"github.com/commhub/message-service/internal/model"
)

const messagesCollection = "messages"

type Repository struct {
	client     *mongo.Client
	collection *mongo.Collection
}

func New(cfg *config.Config) *Repository {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.Mongo.URI))
	if err != nil {
		log.Fatal("error connect: ", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		log.Fatal("error ping: ", err)
	}

	return &Repository{
		client:     client,
		collection: client.Database(cfg.Mongo.Database).Collection(messagesCollection),
	}
}

func (r *Repository) Close() {
	_ = r.client.Disconnect(context.Background())
}

// EnsureIndexes creates the tenant-scoped lookup and conversation listing
// indexes. Index creation is idempotent on the server side.
func (r *Repository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "tenant_id", Value: 1}, {Key: "_id", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "tenant_id", Value: 1}, {Key: "conversation_id", Value: 1}, {Key: "timestamp", Value: -1}},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}

	return nil
}

func (r *Repository) Save(ctx context.Context, message *model.Message) error {
	_, err := r.collection.InsertOne(ctx, message)
	if err != nil {
		return fmt.Errorf("failed to save message: %w", err)
	}

	return nil
}

func (r *Repository) FindByID(ctx context.Context, id, tenantID string) (*model.Message, error) {
	filter := bson.M{"_id": id, "tenant_id": tenantID}

	var message model.Message
	err := r.collection.FindOne(ctx, filter).Decode(&message)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, model.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find message: %w", err)
	}

	return &message, nil
}

// Update replaces content and metadata of an existing message; the identity
// fields are never touched. An update that matched nothing is logged as a
// warning, not returned as an error.
func (r *Repository) Update(ctx context.Context, message *model.Message) error {
	filter := bson.M{"_id": message.ID, "tenant_id": message.TenantID}
	update := bson.M{"$set": bson.M{
		"content":  message.Content,
		"metadata": message.Metadata,
	}}

	res, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to update message: %w", err)
	}

	if res.MatchedCount == 0 {
		zerolog.Ctx(ctx).Warn().Str("message_id", message.ID).Msg("update matched no documents")
	}

	return nil
}

func (r *Repository) Delete(ctx context.Context, id, tenantID string) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id, "tenant_id": tenantID})
	if err != nil {
		return fmt.Errorf("failed to delete message: %w", err)
	}

	if res.DeletedCount == 0 {
		zerolog.Ctx(ctx).Warn().Str("message_id", id).Msg("delete matched no documents")
	}

	return nil
}

func (r *Repository) FindByConversation(ctx context.Context, conversationID, tenantID string, page model.PageParams) (*model.MessagePage, error) {
	filter := bson.M{"conversation_id": conversationID, "tenant_id": tenantID}

	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to count messages: %w", err)
	}

	order := -1
	if page.SortDirection == model.SortAsc {
		order = 1
	}

	opts := options.Find().
		SetSort(bson.D{{Key: sortColumn(page.SortField), Value: order}}).
		SetSkip(int64(page.Offset())).
		SetLimit(int64(page.Limit))

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find messages: %w", err)
	}
	defer cursor.Close(ctx) //nolint:errcheck // .

	messages := model.MessageList{}
	if err := cursor.All(ctx, &messages); err != nil {
		return nil, fmt.Errorf("failed to decode messages: %w", err)
	}

	return &model.MessagePage{
		Messages: messages,
		Total:    total,
	}, nil
}

// sortColumn maps the API sort field onto the stored field name, falling back
// to the timestamp for anything unknown.
func sortColumn(field string) string {
	switch field {
	case "timestamp", "":
		return "timestamp"
	case "senderId":
		return "sender_id"
	case "content":
		return "content"
	default:
		return "timestamp"
	}
}
