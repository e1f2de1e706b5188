package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	notificationserrors "golfmaster/internal/notifications/errors"
	"golfmaster/pkg/config"
	mongotx "golfmaster/pkg/db/mongo"
	"golfmaster/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type mongoNotificationRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

type NotificationRepository interface {
	Create(ctx context.Context, notification *model.Notification) error
	FindByID(ctx context.Context, id string) (*model.Notification, error)
	FindByRecipient(ctx context.Context, recipientID string, status model.NotificationStatus, limit int, offset int64) ([]*model.Notification, error)
	CountByRecipient(ctx context.Context, recipientID string, status model.NotificationStatus) (int64, error)
	UpdateStatus(ctx context.Context, id string, status model.NotificationStatus, respondedAt time.Time) error
	MarkDelivered(ctx context.Context, id string, deliveredAt time.Time) error
}

func NewMongoNotificationRepository(cfg *config.Config) NotificationRepository {
	return &mongoNotificationRepository{
		cfg:        cfg,
		collection: cfg.Client.Mongo.Database(cfg.MongoDatabaseName).Collection(cfg.NotificationsCollection),
	}
}

func (r *mongoNotificationRepository) Create(ctx context.Context, notification *model.Notification) error {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.MongoQueryTimeout)
	defer cancel()

	if notification.CreatedAt.IsZero() {
		notification.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	}

	result, err := r.collection.InsertOne(ctx, notification)
	if err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		notification.ID = oid.Hex()
	}
	return nil
}

func (r *mongoNotificationRepository) FindByID(ctx context.Context, id string) (*model.Notification, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.MongoQueryTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", notificationserrors.ErrInvalidID, id)
	}

	var notification model.Notification
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&notification)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, notificationserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find notification: %w", err)
	}

	return &notification, nil
}

func (r *mongoNotificationRepository) FindByRecipient(ctx context.Context, recipientID string, status model.NotificationStatus, limit int, offset int64) ([]*model.Notification, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.MongoQueryTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}).
		SetLimit(int64(limit)).
		SetSkip(offset)

	cursor, err := r.collection.Find(ctx, recipientFilter(recipientID, status), opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find notifications: %w", err)
	}
	defer cursor.Close(ctx)

	notifications := []*model.Notification{}
	if err = cursor.All(ctx, &notifications); err != nil {
		return nil, fmt.Errorf("failed to decode notifications: %w", err)
	}

	return notifications, nil
}

func (r *mongoNotificationRepository) CountByRecipient(ctx context.Context, recipientID string, status model.NotificationStatus) (int64, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.MongoQueryTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, recipientFilter(recipientID, status))
	if err != nil {
		return 0, fmt.Errorf("failed to count notifications: %w", err)
	}
	return count, nil
}

func recipientFilter(recipientID string, status model.NotificationStatus) bson.M {
	filter := bson.M{"recipient_id": recipientID}
	if status != "" {
		filter["status"] = status
	}
	return filter
}

// UpdateStatus answers a pending notification. It fails with
// ErrAlreadyAnswered when the notification is no longer pending.
func (r *mongoNotificationRepository) UpdateStatus(ctx context.Context, id string, status model.NotificationStatus, respondedAt time.Time) error {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.MongoQueryTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", notificationserrors.ErrInvalidID, id)
	}

	filter := bson.M{"_id": objectID, "status": model.NotificationPending}
	update := bson.M{"$set": bson.M{"status": status, "responded_at": respondedAt}}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to update notification: %w", err)
	}
	if result.MatchedCount == 0 {
		return notificationserrors.ErrAlreadyAnswered
	}

	return nil
}

func (r *mongoNotificationRepository) MarkDelivered(ctx context.Context, id string, deliveredAt time.Time) error {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.MongoQueryTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", notificationserrors.ErrInvalidID, id)
	}

	filter := bson.M{"_id": objectID, "delivered_at": bson.M{"$exists": false}}
	if _, err := r.collection.UpdateOne(ctx, filter, bson.M{"$set": bson.M{"delivered_at": deliveredAt}}); err != nil {
		return fmt.Errorf("failed to mark notification delivered: %w", err)
	}

	return nil
}
