package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	playerserrors "golfmaster/internal/players/errors"
	"golfmaster/pkg/config"
	mongotx "golfmaster/pkg/db/mongo"
	"golfmaster/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Player ids are authentication subjects, stored as plain strings.
type mongoPlayerRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

type PlayerRepository interface {
	Create(ctx context.Context, player *model.Player) error
	FindByID(ctx context.Context, id string) (*model.Player, error)
	FindAll(ctx context.Context) ([]*model.Player, error)
	Update(ctx context.Context, id string, update *model.PlayerUpdate) error
}

func NewMongoPlayerRepository(cfg *config.Config) PlayerRepository {
	return &mongoPlayerRepository{
		cfg:        cfg,
		collection: cfg.Client.Mongo.Database(cfg.MongoDatabaseName).Collection(cfg.PlayersCollection),
	}
}

func (r *mongoPlayerRepository) Create(ctx context.Context, player *model.Player) error {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.MongoQueryTimeout)
	defer cancel()

	player.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	if _, err := r.collection.InsertOne(ctx, player); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("%w: %s", playerserrors.ErrAlreadyExists, player.ID)
		}
		return fmt.Errorf("failed to create player: %w", err)
	}
	return nil
}

func (r *mongoPlayerRepository) FindByID(ctx context.Context, id string) (*model.Player, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.MongoQueryTimeout)
	defer cancel()

	var player model.Player
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&player); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, playerserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find player: %w", err)
	}
	return &player, nil
}

func (r *mongoPlayerRepository) FindAll(ctx context.Context) ([]*model.Player, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.MongoQueryTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "display_name", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find players: %w", err)
	}
	defer cursor.Close(ctx)

	players := []*model.Player{}
	if err = cursor.All(ctx, &players); err != nil {
		return nil, fmt.Errorf("failed to decode players: %w", err)
	}
	return players, nil
}

func (r *mongoPlayerRepository) Update(ctx context.Context, id string, update *model.PlayerUpdate) error {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.MongoQueryTimeout)
	defer cancel()

	set := bson.M{}
	if update.DisplayName != nil {
		set["display_name"] = *update.DisplayName
	}
	if update.Phone != nil {
		set["phone"] = *update.Phone
	}
	if update.Handicap != nil {
		set["handicap"] = *update.Handicap
	}
	if len(set) == 0 {
		return nil
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("failed to update player: %w", err)
	}
	if result.MatchedCount == 0 {
		return playerserrors.ErrNotFound
	}
	return nil
}
