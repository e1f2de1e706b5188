package repository

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golfmaster/pkg/config"
	mongotx "golfmaster/pkg/db/mongo"
	"golfmaster/pkg/logger"
	"golfmaster/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type Op string

const (
	OpEquals        Op = "=="
	OpArrayContains Op = "array-contains"
)

// Query is a single-field filter on the reservation collection.
type Query struct {
	Field string
	Op    Op
	Value string
}

func OwnedBy(userID string) Query {
	return Query{Field: "owner_id", Op: OpEquals, Value: userID}
}

func ParticipantOf(userID string) Query {
	return Query{Field: "participants", Op: OpArrayContains, Value: userID}
}

func (q Query) Filter() (bson.M, error) {
	if q.Field == "" {
		return nil, errors.New("query field cannot be empty")
	}

	switch q.Op {
	case OpEquals:
		return bson.M{q.Field: q.Value}, nil
	case OpArrayContains:
		return bson.M{q.Field: bson.M{"$elemMatch": bson.M{"$eq": q.Value}}}, nil
	default:
		return nil, fmt.Errorf("unsupported query operator %q", q.Op)
	}
}

// changePipeline keeps inserts that match the query. Updates, replaces and
// deletes carry no pre-image, so any of them may remove a matching document
// and all are kept.
func (q Query) changePipeline() mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"$or": bson.A{
			bson.D{{Key: "operationType", Value: "insert"}, {Key: "fullDocument." + q.Field, Value: q.Value}},
			bson.M{"operationType": bson.M{"$in": bson.A{"update", "replace", "delete"}}},
		}}}},
	}
}

func (q Query) String() string {
	return fmt.Sprintf("%s %s %s", q.Field, q.Op, q.Value)
}

type SnapshotFunc func(snapshot []*model.Reservation)

type ErrorFunc func(err error)

type Subscription interface {
	// Cancel stops the subscription and returns once no callback can run.
	Cancel()
}

// LiveQuery delivers a full result snapshot on subscribe and again after
// every change to the collection, until cancelled or until the first
// failure, which is reported once through onError.
type LiveQuery interface {
	Subscribe(ctx context.Context, q Query, onSnapshot SnapshotFunc, onError ErrorFunc) (Subscription, error)
}

type mongoLiveQuery struct {
	collection   *mongo.Collection
	queryTimeout time.Duration
	log          *logger.Logger
}

func NewMongoLiveQuery(cfg *config.Config) LiveQuery {
	return &mongoLiveQuery{
		collection:   cfg.Client.Mongo.Database(cfg.MongoDatabaseName).Collection(cfg.ReservationsCollection),
		queryTimeout: cfg.MongoQueryTimeout,
		log:          cfg.Log,
	}
}

// Change streams need a replica set. The stream is opened before the
// initial read so no change between the two is lost.
func (l *mongoLiveQuery) Subscribe(ctx context.Context, q Query, onSnapshot SnapshotFunc, onError ErrorFunc) (Subscription, error) {
	filter, err := q.Filter()
	if err != nil {
		return nil, err
	}

	subCtx, cancel := context.WithCancel(ctx)

	stream, err := l.collection.Watch(subCtx, q.changePipeline())
	if err != nil {
		cancel()
		return nil, fmt.Errorf("failed to open reservation change stream: %w", err)
	}

	sub := &liveSubscription{cancel: cancel, done: make(chan struct{})}
	go l.run(subCtx, sub, stream, q, filter, onSnapshot, onError)

	l.log.Debug("Reservation subscription opened", "query", q.String())
	return sub, nil
}

func (l *mongoLiveQuery) run(ctx context.Context, sub *liveSubscription, stream *mongo.ChangeStream, q Query, filter bson.M, onSnapshot SnapshotFunc, onError ErrorFunc) {
	defer close(sub.done)
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), l.queryTimeout)
		defer cancel()
		if err := stream.Close(closeCtx); err != nil {
			l.log.Warn("Failed to close reservation change stream", "query", q.String(), "error", err)
		}
	}()

	deliver := func() bool {
		readCtx, cancel := mongotx.WithTimeout(ctx, l.queryTimeout)
		snapshot, err := findReservations(readCtx, l.collection, filter)
		cancel()

		if ctx.Err() != nil {
			return false
		}
		if err != nil {
			l.log.Error("Reservation snapshot read failed", "query", q.String(), "error", err)
			onError(err)
			return false
		}
		onSnapshot(snapshot)
		return true
	}

	if !deliver() {
		return
	}

	for stream.Next(ctx) {
		// One read covers every change already buffered.
		for stream.TryNext(ctx) {
		}
		if !deliver() {
			return
		}
	}

	if ctx.Err() != nil {
		l.log.Debug("Reservation subscription cancelled", "query", q.String())
		return
	}

	err := stream.Err()
	if err == nil {
		err = errors.New("reservation change stream ended")
	}
	l.log.Error("Reservation change stream failed", "query", q.String(), "error", err)
	onError(err)
}

type liveSubscription struct {
	cancel context.CancelFunc
	done   chan struct{}
	once   sync.Once
}

func (s *liveSubscription) Cancel() {
	s.once.Do(s.cancel)
	<-s.done
}
