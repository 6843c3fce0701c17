// Package mongo implementa el store sobre MongoDB.
//
// Cada usuario es un documento de la colección "users" con sus ejercicios embebidos:
//
//	{ _id: ObjectId, username, created_at, exercises: [{ username, description, duration, date }] }
package mongo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/dropDatabas3/exercisetracker/internal/domain/repository"
)

const usersCollection = "users"

// Options configuración de conexión.
type Options struct {
	URI      string
	Database string
}

// Connection representa una conexión activa a MongoDB.
type Connection struct {
	client *mongo.Client
	users  *mongo.Collection
}

// Connect abre el cliente y verifica la conexión con un ping al primario.
func Connect(ctx context.Context, opts Options) (*Connection, error) {
	if strings.TrimSpace(opts.URI) == "" {
		return nil, fmt.Errorf("mongo: uri is required: %w", repository.ErrInvalidInput)
	}
	if opts.Database == "" {
		opts.Database = "exercisetracker"
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(opts.URI))
	if err != nil {
		return nil, fmt.Errorf("mongo: connect: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo: ping failed: %w", err)
	}

	return &Connection{
		client: client,
		users:  client.Database(opts.Database).Collection(usersCollection),
	}, nil
}

func (c *Connection) Name() string { return "mongo" }

func (c *Connection) Ping(ctx context.Context) error {
	return c.client.Ping(ctx, readpref.Primary())
}

func (c *Connection) Close(ctx context.Context) error {
	return c.client.Disconnect(ctx)
}

func (c *Connection) Users() repository.UserRepository { return &userRepo{coll: c.users} }

// ─── Documentos ───

type exerciseDoc struct {
	Username    string    `bson:"username"`
	Description string    `bson:"description"`
	Duration    float64   `bson:"duration"`
	Date        time.Time `bson:"date"`
}

type userDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Username  string             `bson:"username"`
	Exercises []exerciseDoc      `bson:"exercises"`
	CreatedAt time.Time          `bson:"created_at"`
}

type logDoc struct {
	ID       primitive.ObjectID `bson:"_id"`
	Username string             `bson:"username"`
	Count    int                `bson:"count"`
	Log      []exerciseDoc      `bson:"log"`
}

func (d exerciseDoc) toDomain() repository.Exercise {
	return repository.Exercise{
		Username:    d.Username,
		Description: d.Description,
		Duration:    d.Duration,
		Date:        d.Date.UTC(),
	}
}

func toDomainExercises(in []exerciseDoc) []repository.Exercise {
	out := make([]repository.Exercise, 0, len(in))
	for _, d := range in {
		out = append(out, d.toDomain())
	}
	return out
}

// ─── UserRepository ───

type userRepo struct{ coll *mongo.Collection }

// parseID convierte un id de la API a ObjectID; un id malformado no puede existir.
func parseID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, repository.ErrNotFound
	}
	return oid, nil
}

func (r *userRepo) Create(ctx context.Context, username string) (*repository.User, error) {
	if username == "" {
		return nil, fmt.Errorf("mongo: create user: username is required: %w", repository.ErrInvalidInput)
	}
	doc := userDoc{
		ID:        primitive.NewObjectID(),
		Username:  username,
		Exercises: []exerciseDoc{},
		CreatedAt: time.Now().UTC().Truncate(time.Millisecond),
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return nil, fmt.Errorf("mongo: create user: %w", err)
	}
	return &repository.User{ID: doc.ID.Hex(), Username: doc.Username, CreatedAt: doc.CreatedAt}, nil
}

func (r *userRepo) List(ctx context.Context) ([]repository.UserSummary, error) {
	opts := options.Find().
		SetProjection(bson.D{{Key: "username", Value: 1}}).
		SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}})

	cur, err := r.coll.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, fmt.Errorf("mongo: list users: %w", err)
	}
	var docs []userDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("mongo: list users: %w", err)
	}

	out := make([]repository.UserSummary, 0, len(docs))
	for _, d := range docs {
		out = append(out, repository.UserSummary{ID: d.ID.Hex(), Username: d.Username})
	}
	return out, nil
}

func (r *userRepo) GetByID(ctx context.Context, userID string) (*repository.User, error) {
	oid, err := parseID(userID)
	if err != nil {
		return nil, err
	}
	var doc userDoc
	err = r.coll.FindOne(ctx, bson.D{{Key: "_id", Value: oid}}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("mongo: get user by id: %w", err)
	}
	return &repository.User{
		ID:        doc.ID.Hex(),
		Username:  doc.Username,
		Exercises: toDomainExercises(doc.Exercises),
		CreatedAt: doc.CreatedAt.UTC(),
	}, nil
}

func (r *userRepo) AppendExercise(ctx context.Context, userID string, in repository.NewExercise) (*repository.User, *repository.Exercise, error) {
	oid, err := parseID(userID)
	if err != nil {
		return nil, nil, err
	}
	// mongo guarda milisegundos; truncamos para que lo devuelto coincida con lo leído después.
	in.Date = in.Date.UTC().Truncate(time.Millisecond)

	opts := options.FindOneAndUpdate().
		SetReturnDocument(options.After).
		SetProjection(lastExerciseProjection())

	var doc userDoc
	err = r.coll.FindOneAndUpdate(ctx, bson.D{{Key: "_id", Value: oid}}, appendExerciseUpdate(in), opts).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, nil, fmt.Errorf("mongo: append exercise: %w", err)
	}
	if len(doc.Exercises) == 0 {
		return nil, nil, fmt.Errorf("mongo: append exercise: updated document has no exercises")
	}

	ex := doc.Exercises[len(doc.Exercises)-1].toDomain()
	return &repository.User{ID: doc.ID.Hex(), Username: doc.Username, CreatedAt: doc.CreatedAt.UTC()}, &ex, nil
}

func (r *userRepo) QueryLog(ctx context.Context, userID string, q repository.LogQuery) (*repository.LogResult, error) {
	oid, err := parseID(userID)
	if err != nil {
		return nil, err
	}

	cur, err := r.coll.Aggregate(ctx, logPipeline(oid, q))
	if err != nil {
		return nil, fmt.Errorf("mongo: query log: %w", err)
	}
	var docs []logDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("mongo: query log: %w", err)
	}
	// $match sin resultados: el usuario no existe.
	if len(docs) == 0 {
		return nil, repository.ErrNotFound
	}

	d := docs[0]
	return &repository.LogResult{
		ID:       d.ID.Hex(),
		Username: d.Username,
		Count:    d.Count,
		Log:      toDomainExercises(d.Log),
	}, nil
}
