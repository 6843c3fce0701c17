package mongo

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/dropDatabas3/exercisetracker/internal/domain/repository"
)

// stage busca el valor del primer operador del stage.
func stage(t *testing.T, d bson.D, op string) any {
	t.Helper()
	require.Len(t, d, 1)
	require.Equal(t, op, d[0].Key)
	return d[0].Value
}

func TestAppendExerciseUpdateWrapsLiterals(t *testing.T) {
	date := time.Date(2024, 1, 1, 0, 0, 0, 0, time.FixedZone("X", 3600))
	p := appendExerciseUpdate(repository.NewExercise{Description: "$danger", Duration: 12.5, Date: date})
	require.Len(t, p, 1)

	set := stage(t, p[0], "$set").(bson.D)
	concat := set[0].Value.(bson.D)[0]
	require.Equal(t, "$concatArrays", concat.Key)
	parts := concat.Value.(bson.A)
	require.Len(t, parts, 2)

	entry := parts[1].(bson.A)[0].(bson.D)
	got := map[string]any{}
	for _, e := range entry {
		got[e.Key] = e.Value
	}
	assert.Equal(t, "$username", got["username"])
	assert.Equal(t, bson.D{{Key: "$literal", Value: "$danger"}}, got["description"])
	assert.Equal(t, bson.D{{Key: "$literal", Value: 12.5}}, got["duration"])
	assert.Equal(t, bson.D{{Key: "$literal", Value: date.UTC()}}, got["date"])
}

func TestLogPipelineShape(t *testing.T) {
	id := primitive.NewObjectID()
	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)

	p := logPipeline(id, repository.LogQuery{From: from, To: to, Limit: 3})
	require.Len(t, p, 2)

	match := stage(t, p[0], "$match").(bson.D)
	assert.Equal(t, bson.D{{Key: "_id", Value: id}}, match)

	project := stage(t, p[1], "$project").(bson.D)
	keys := make([]string, 0, len(project))
	for _, e := range project {
		keys = append(keys, e.Key)
	}
	assert.Equal(t, []string{"username", "count", "log"}, keys)

	count := project[1].Value.(bson.D)
	assert.Equal(t, "$size", count[0].Key)

	slice := project[2].Value.(bson.D)
	require.Equal(t, "$slice", slice[0].Key)
	args := slice[0].Value.(bson.A)
	assert.Equal(t, 3, args[1])
	assert.Equal(t, "$filter", args[0].(bson.D)[0].Key)
}

func TestLogPipelineWithoutLimitSkipsSlice(t *testing.T) {
	p := logPipeline(primitive.NewObjectID(), repository.LogQuery{To: time.Now()})
	project := stage(t, p[1], "$project").(bson.D)
	assert.Equal(t, "$filter", project[2].Value.(bson.D)[0].Key)
}

func TestLogPipelineMarshals(t *testing.T) {
	p := logPipeline(primitive.NewObjectID(), repository.LogQuery{To: time.Now(), Limit: 10})
	for _, s := range p {
		_, err := bson.Marshal(s)
		require.NoError(t, err)
	}
}

func TestParseIDMalformedIsNotFound(t *testing.T) {
	_, err := parseID("not-an-object-id")
	require.ErrorIs(t, err, repository.ErrNotFound)

	id := primitive.NewObjectID()
	got, err := parseID(id.Hex())
	require.NoError(t, err)
	assert.Equal(t, id, got)
}
