package mongo

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/dropDatabas3/exercisetracker/internal/domain/repository"
)

// exercisesOrEmpty evita que $size/$filter fallen en documentos sin el campo.
var exercisesOrEmpty = bson.D{{Key: "$ifNull", Value: bson.A{"$exercises", bson.A{}}}}

// appendExerciseUpdate arma un update por pipeline que agrega el ejercicio al final
// del array tomando "$username" del propio documento, así el snapshot del nombre y
// la escritura son una sola operación atómica.
//
// Los valores del caller van envueltos en $literal: un description que empiece con
// "$" no debe interpretarse como field path.
func appendExerciseUpdate(in repository.NewExercise) mongo.Pipeline {
	entry := bson.D{
		{Key: "username", Value: "$username"},
		{Key: "description", Value: bson.D{{Key: "$literal", Value: in.Description}}},
		{Key: "duration", Value: bson.D{{Key: "$literal", Value: in.Duration}}},
		{Key: "date", Value: bson.D{{Key: "$literal", Value: in.Date.UTC()}}},
	}
	return mongo.Pipeline{
		{{Key: "$set", Value: bson.D{
			{Key: "exercises", Value: bson.D{{Key: "$concatArrays", Value: bson.A{exercisesOrEmpty, bson.A{entry}}}}},
		}}},
	}
}

// lastExerciseProjection devuelve el usuario con sólo el último ejercicio.
func lastExerciseProjection() bson.D {
	return bson.D{
		{Key: "username", Value: 1},
		{Key: "created_at", Value: 1},
		{Key: "exercises", Value: bson.D{{Key: "$slice", Value: -1}}},
	}
}

// logPipeline arma el aggregation pipeline del log:
//
//	$match _id → $project { username, count: $size(exercises), log: $slice($filter(from<=date<=to), limit) }
//
// count se calcula antes del filtro por fecha. El orden es el del array (inserción).
func logPipeline(id primitive.ObjectID, q repository.LogQuery) mongo.Pipeline {
	filtered := bson.D{{Key: "$filter", Value: bson.D{
		{Key: "input", Value: exercisesOrEmpty},
		{Key: "as", Value: "e"},
		{Key: "cond", Value: bson.D{{Key: "$and", Value: bson.A{
			bson.D{{Key: "$gte", Value: bson.A{"$$e.date", utc(q.From)}}},
			bson.D{{Key: "$lte", Value: bson.A{"$$e.date", utc(q.To)}}},
		}}}},
	}}}

	var log any = filtered
	if q.Limit > 0 {
		log = bson.D{{Key: "$slice", Value: bson.A{filtered, q.Limit}}}
	}

	return mongo.Pipeline{
		{{Key: "$match", Value: bson.D{{Key: "_id", Value: id}}}},
		{{Key: "$project", Value: bson.D{
			{Key: "username", Value: 1},
			{Key: "count", Value: bson.D{{Key: "$size", Value: exercisesOrEmpty}}},
			{Key: "log", Value: log},
		}}},
	}
}

func utc(t time.Time) time.Time { return t.UTC() }
