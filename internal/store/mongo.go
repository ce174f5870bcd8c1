package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/isdelr/gymdiary/internal/models"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

var ErrFailedToConnectToMongo = errors.New("failed to connect to mongo")

const (
	usersCollection      = "users"
	workoutsCollection   = "workouts"
	categoriesCollection = "workout_categories"
	eventsCollection     = "events"
)

// MongoOptions configures the MongoDB connection.
type MongoOptions struct {
	URL            string
	Database       string
	ConnectTimeout time.Duration
	RetryAttempts  int
	RetryInterval  time.Duration
}

// MongoStore implements Store on MongoDB.
type MongoStore struct {
	client *mongo.Client
	db     *mongo.Database
}

// NewMongoStore connects to MongoDB, retrying on failure, and ensures the
// indexes the store relies on, including the unique email index.
func NewMongoStore(ctx context.Context, opts MongoOptions) (*MongoStore, error) {
	client, err := connectMongo(ctx, opts)
	if err != nil {
		return nil, err
	}

	s := &MongoStore{client: client, db: client.Database(opts.Database)}
	if err := s.ensureIndexes(ctx); err != nil {
		client.Disconnect(ctx)
		return nil, err
	}
	return s, nil
}

func connectMongo(ctx context.Context, opts MongoOptions) (*mongo.Client, error) {
	attempts := max(opts.RetryAttempts, 1)
	var lastErr error
	for i := range attempts {
		client, err := mongo.Connect(
			options.Client().
				ApplyURI(opts.URL).
				SetConnectTimeout(opts.ConnectTimeout).
				SetRetryWrites(true).
				SetRetryReads(true),
		)
		if err == nil {
			if err = client.Ping(ctx, nil); err == nil {
				return client, nil
			}
			client.Disconnect(ctx)
		}
		lastErr = err
		log.Warn().Err(err).Int("attempt", i+1).Msg("MongoDB connection attempt failed")

		if i < attempts-1 {
			select {
			case <-ctx.Done():
				return nil, errors.Join(ErrFailedToConnectToMongo, ctx.Err())
			case <-time.After(opts.RetryInterval):
			}
		}
	}
	return nil, errors.Join(ErrFailedToConnectToMongo, lastErr)
}

func (s *MongoStore) ensureIndexes(ctx context.Context) error {
	_, err := s.db.Collection(usersCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("failed to create users.email index: %w", err)
	}
	_, err = s.db.Collection(workoutsCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "userId", Value: 1}, {Key: "date", Value: -1}},
	})
	if err != nil {
		return fmt.Errorf("failed to create workouts.userId index: %w", err)
	}
	return nil
}

func (s *MongoStore) CreateUser(ctx context.Context, user *models.User) error {
	now := time.Now().UTC()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now
	if user.WorkoutIDs == nil {
		user.WorkoutIDs = []string{}
	}

	if _, err := s.db.Collection(usersCollection).InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateEmail
		}
		return err
	}
	return nil
}

func (s *MongoStore) findUser(ctx context.Context, filter bson.D) (models.User, error) {
	var user models.User
	err := s.db.Collection(usersCollection).FindOne(ctx, filter).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.User{}, ErrNotFound
		}
		return models.User{}, err
	}
	if user.WorkoutIDs == nil {
		user.WorkoutIDs = []string{}
	}
	return user, nil
}

func (s *MongoStore) GetUserByID(ctx context.Context, id string) (models.User, error) {
	return s.findUser(ctx, bson.D{{Key: "_id", Value: id}})
}

func (s *MongoStore) GetUserByEmail(ctx context.Context, email string) (models.User, error) {
	return s.findUser(ctx, bson.D{{Key: "email", Value: email}})
}

func (s *MongoStore) EmailExists(ctx context.Context, email string) (bool, error) {
	n, err := s.db.Collection(usersCollection).CountDocuments(ctx, bson.D{{Key: "email", Value: email}})
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// RecordWorkout stores the workout first and then appends it to the owner.
// Without a replica set there is no multi-document transaction, so a failed
// append returns ErrWorkoutUnlinked and is left to the reconciler.
func (s *MongoStore) RecordWorkout(ctx context.Context, workout *models.Workout) error {
	if _, err := s.db.Collection(workoutsCollection).InsertOne(ctx, workout); err != nil {
		return fmt.Errorf("failed to insert workout: %w", err)
	}
	if err := s.AppendWorkout(ctx, workout.UserID, workout.ID); err != nil {
		return errors.Join(ErrWorkoutUnlinked, err)
	}
	return nil
}

// AppendWorkout adds workoutID to the owner's collection with $addToSet, so
// repeating it is harmless.
func (s *MongoStore) AppendWorkout(ctx context.Context, userID, workoutID string) error {
	n, err := s.db.Collection(workoutsCollection).CountDocuments(ctx, bson.D{{Key: "_id", Value: workoutID}, {Key: "userId", Value: userID}})
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}

	res, err := s.db.Collection(usersCollection).UpdateOne(ctx,
		bson.D{{Key: "_id", Value: userID}},
		bson.D{
			{Key: "$addToSet", Value: bson.D{{Key: "workouts", Value: workoutID}}},
			{Key: "$set", Value: bson.D{{Key: "updatedAt", Value: time.Now().UTC()}}},
		},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// WorkoutsForUser loads the user's collection and returns its workouts in
// collection order. Workouts owned by someone else are never returned.
func (s *MongoStore) WorkoutsForUser(ctx context.Context, userID string) ([]models.Workout, error) {
	user, err := s.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(user.WorkoutIDs) == 0 {
		return []models.Workout{}, nil
	}

	cursor, err := s.db.Collection(workoutsCollection).Find(ctx, bson.D{
		{Key: "_id", Value: bson.D{{Key: "$in", Value: user.WorkoutIDs}}},
		{Key: "userId", Value: userID},
	})
	if err != nil {
		return nil, err
	}
	var found []models.Workout
	if err := cursor.All(ctx, &found); err != nil {
		return nil, err
	}

	byID := make(map[string]models.Workout, len(found))
	for _, w := range found {
		byID[w.ID] = w
	}
	workouts := make([]models.Workout, 0, len(found))
	for _, id := range user.WorkoutIDs {
		if w, ok := byID[id]; ok {
			workouts = append(workouts, w)
		}
	}
	return workouts, nil
}

func (s *MongoStore) AllWorkouts(ctx context.Context) ([]models.OwnedWorkout, error) {
	cursor, err := s.db.Collection(workoutsCollection).Find(ctx, bson.D{},
		options.Find().SetSort(bson.D{{Key: "date", Value: -1}}))
	if err != nil {
		return nil, err
	}
	var workouts []models.Workout
	if err := cursor.All(ctx, &workouts); err != nil {
		return nil, err
	}

	ownerIDs := make([]string, 0, len(workouts))
	seen := make(map[string]bool)
	for _, w := range workouts {
		if !seen[w.UserID] {
			seen[w.UserID] = true
			ownerIDs = append(ownerIDs, w.UserID)
		}
	}

	emails := make(map[string]string, len(ownerIDs))
	if len(ownerIDs) > 0 {
		userCursor, err := s.db.Collection(usersCollection).Find(ctx,
			bson.D{{Key: "_id", Value: bson.D{{Key: "$in", Value: ownerIDs}}}},
			options.Find().SetProjection(bson.D{{Key: "email", Value: 1}}))
		if err != nil {
			return nil, err
		}
		var owners []models.User
		if err := userCursor.All(ctx, &owners); err != nil {
			return nil, err
		}
		for _, u := range owners {
			emails[u.ID] = u.Email
		}
	}

	owned := make([]models.OwnedWorkout, 0, len(workouts))
	for _, w := range workouts {
		owned = append(owned, models.OwnedWorkout{Workout: w, OwnerEmail: emails[w.UserID]})
	}
	return owned, nil
}

func (s *MongoStore) UnlinkedWorkouts(ctx context.Context) ([]models.Workout, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: usersCollection},
			{Key: "localField", Value: "userId"},
			{Key: "foreignField", Value: "_id"},
			{Key: "as", Value: "owner"},
		}}},
		{{Key: "$unwind", Value: "$owner"}},
		{{Key: "$match", Value: bson.D{{Key: "$expr", Value: bson.D{
			{Key: "$not", Value: bson.A{
				bson.D{{Key: "$in", Value: bson.A{"$_id", bson.D{{Key: "$ifNull", Value: bson.A{"$owner.workouts", bson.A{}}}}}}},
			}},
		}}}}},
		{{Key: "$project", Value: bson.D{{Key: "owner", Value: 0}}}},
	}

	cursor, err := s.db.Collection(workoutsCollection).Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	workouts := []models.Workout{}
	if err := cursor.All(ctx, &workouts); err != nil {
		return nil, err
	}
	return workouts, nil
}

func (s *MongoStore) ListCategories(ctx context.Context) ([]models.WorkoutCategory, error) {
	cursor, err := s.db.Collection(categoriesCollection).Find(ctx, bson.D{},
		options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, err
	}
	categories := []models.WorkoutCategory{}
	if err := cursor.All(ctx, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

// GetCategory looks a category up by name, ignoring case.
func (s *MongoStore) GetCategory(ctx context.Context, name string) (models.WorkoutCategory, error) {
	var c models.WorkoutCategory
	err := s.db.Collection(categoriesCollection).FindOne(ctx,
		bson.D{{Key: "category", Value: name}},
		options.FindOne().SetCollation(&options.Collation{Locale: "en", Strength: 2}),
	).Decode(&c)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.WorkoutCategory{}, ErrNotFound
		}
		return models.WorkoutCategory{}, err
	}
	return c, nil
}

// ReplaceCategories drops the catalog and inserts categories in order.
func (s *MongoStore) ReplaceCategories(ctx context.Context, categories []models.WorkoutCategory) error {
	coll := s.db.Collection(categoriesCollection)
	if _, err := coll.DeleteMany(ctx, bson.D{}); err != nil {
		return err
	}
	if len(categories) == 0 {
		return nil
	}
	docs := make([]any, 0, len(categories))
	for _, c := range categories {
		docs = append(docs, c)
	}
	_, err := coll.InsertMany(ctx, docs)
	return err
}

func (s *MongoStore) RecordEvent(ctx context.Context, event models.Event) error {
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.Collection(eventsCollection).InsertOne(ctx, event)
	return err
}

func (s *MongoStore) RecentEvents(ctx context.Context, limit int) ([]models.Event, error) {
	cursor, err := s.db.Collection(eventsCollection).Find(ctx, bson.D{},
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}).SetLimit(int64(limit)))
	if err != nil {
		return nil, err
	}
	events := []models.Event{}
	if err := cursor.All(ctx, &events); err != nil {
		return nil, err
	}
	return events, nil
}

// Ping performs a lightweight connectivity check.
func (s *MongoStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, nil)
}

func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}
