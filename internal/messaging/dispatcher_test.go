package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/uydev/route-catalog/internal/models"
)

// fakeCollection is a minimal in-memory RouteCollection for dispatcher tests.
type fakeCollection struct {
	routes   map[string]*models.Route
	failWith error
}

func newFakeCollection() *fakeCollection {
	return &fakeCollection{routes: make(map[string]*models.Route)}
}

func (f *fakeCollection) InsertRoute(_ context.Context, route models.Route) (*models.Route, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	route.ID = primitive.NewObjectID()
	route.RouteID = models.NewRouteID()
	route.CreatedAt = time.Now()
	route.UpdatedAt = time.Now()
	cp := route
	f.routes[route.ID.Hex()] = &cp
	return &route, nil
}

func (f *fakeCollection) FindRoutes(_ context.Context, page, limit int64) ([]models.Route, int64, error) {
	if f.failWith != nil {
		return nil, 0, f.failWith
	}
	out := []models.Route{}
	for _, r := range f.routes {
		out = append(out, *r)
	}
	return out, int64(len(out)), nil
}

func (f *fakeCollection) FindRouteByID(_ context.Context, id string) (*models.Route, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	r, ok := f.routes[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	cp := *r
	return &cp, nil
}

func (f *fakeCollection) UpdateRoute(_ context.Context, id string, partial models.UpdateRouteRequest) (*models.Route, error) {
	r, ok := f.routes[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	if partial.Name != nil {
		r.Name = *partial.Name
	}
	if partial.TravelMode != nil {
		r.TravelMode = *partial.TravelMode
	}
	r.UpdatedAt = time.Now()
	cp := *r
	return &cp, nil
}

func (f *fakeCollection) DeleteRoute(_ context.Context, id string) (*models.Route, error) {
	r, ok := f.routes[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	delete(f.routes, id)
	return r, nil
}

func (f *fakeCollection) SearchRoutes(_ context.Context, _ string, _, _ int64) ([]models.Route, int64, error) {
	return []models.Route{}, 0, nil
}

func (f *fakeCollection) FindRoutesByTags(_ context.Context, _ []string) ([]models.Route, error) {
	return []models.Route{}, nil
}

func (f *fakeCollection) CountRoutes(_ context.Context, _ models.RouteCountFilter) (int64, error) {
	return int64(len(f.routes)), nil
}

func testDispatcher(fake *fakeCollection) *Dispatcher {
	logger := log.New()
	logger.SetOutput(io.Discard)
	return NewDispatcher(fake, logger)
}

func createPayload() json.RawMessage {
	return json.RawMessage(`{
		"name": "Home to Work",
		"travelMode": "DRIVING",
		"distance": {"value": 12500, "text": "12.5 km"},
		"duration": {"value": 1800, "text": "30 mins"},
		"origin": {"name": "Home", "lat": 51.5074, "lng": -0.1278},
		"destination": {"name": "Work", "lat": 51.5155, "lng": -0.0922},
		"path": [{"lat": 51.5074, "lng": -0.1278}, {"lat": 51.5155, "lng": -0.0922}]
	}`)
}

func dataAsRoute(t *testing.T, env models.Envelope) models.Route {
	t.Helper()
	b, err := json.Marshal(env.Data)
	require.NoError(t, err)
	var route models.Route
	require.NoError(t, json.Unmarshal(b, &route))
	return route
}

func TestDispatch_Create(t *testing.T) {
	d := testDispatcher(newFakeCollection())

	env := d.Dispatch(context.Background(), PatternCreate, createPayload())
	assert.True(t, env.Success)
	assert.Equal(t, "Route created successfully", env.Message)

	route := dataAsRoute(t, env)
	assert.Regexp(t, `^route-\d+-[0-9a-f]{8}$`, route.RouteID)
}

func TestDispatch_CreateInvalid(t *testing.T) {
	d := testDispatcher(newFakeCollection())

	env := d.Dispatch(context.Background(), PatternCreate, json.RawMessage(`{"name": ""}`))
	assert.False(t, env.Success)
	assert.NotNil(t, env.Errors)
}

func TestDispatch_FindOneNotFound(t *testing.T) {
	d := testDispatcher(newFakeCollection())

	env := d.Dispatch(context.Background(), PatternFindOne, json.RawMessage(`{"id": "missing"}`))
	assert.False(t, env.Success)
	assert.Equal(t, "Route not found", env.Message)
	assert.Nil(t, env.Errors)
}

func TestDispatch_Lifecycle(t *testing.T) {
	fake := newFakeCollection()
	d := testDispatcher(fake)
	ctx := context.Background()

	created := dataAsRoute(t, d.Dispatch(ctx, PatternCreate, createPayload()))

	env := d.Dispatch(ctx, PatternFindOne, json.RawMessage(`{"id": "`+created.ID.Hex()+`"}`))
	require.True(t, env.Success)

	env = d.Dispatch(ctx, PatternUpdate, json.RawMessage(`{"id": "`+created.ID.Hex()+`", "data": {"travelMode": "WALKING"}}`))
	require.True(t, env.Success)
	assert.Equal(t, models.TravelModeWalking, dataAsRoute(t, env).TravelMode)

	env = d.Dispatch(ctx, PatternRemove, json.RawMessage(`{"id": "`+created.ID.Hex()+`"}`))
	require.True(t, env.Success)

	env = d.Dispatch(ctx, PatternFindOne, json.RawMessage(`{"id": "`+created.ID.Hex()+`"}`))
	assert.False(t, env.Success)
	assert.Equal(t, "Route not found", env.Message)
}

func TestDispatch_FindAllAndCount(t *testing.T) {
	fake := newFakeCollection()
	d := testDispatcher(fake)
	ctx := context.Background()

	d.Dispatch(ctx, PatternCreate, createPayload())
	d.Dispatch(ctx, PatternCreate, createPayload())

	env := d.Dispatch(ctx, PatternFindAll, json.RawMessage(`{"page": 1, "limit": 10}`))
	require.True(t, env.Success)
	list, ok := env.Data.(models.RouteList)
	require.True(t, ok)
	assert.EqualValues(t, 2, list.Total)

	env = d.Dispatch(ctx, PatternCount, nil)
	require.True(t, env.Success)
}

func TestDispatch_UnknownPattern(t *testing.T) {
	d := testDispatcher(newFakeCollection())

	env := d.Dispatch(context.Background(), "route.explode", nil)
	assert.False(t, env.Success)
	assert.Contains(t, env.Message, "Unknown pattern")
}

func TestDispatch_StorageFailure(t *testing.T) {
	fake := newFakeCollection()
	fake.failWith = &models.StorageError{Op: "find", Err: errors.New("down")}
	d := testDispatcher(fake)

	env := d.Dispatch(context.Background(), PatternFindAll, nil)
	assert.False(t, env.Success)
	assert.NotNil(t, env.Errors)
}

func TestHandle_ExtractsReplyTo(t *testing.T) {
	d := testDispatcher(newFakeCollection())

	replyTo, env := d.Handle(context.Background(), PatternFindAll, []byte(`{"replyTo": "clients/42", "data": {}}`))
	assert.Equal(t, "clients/42", replyTo)
	assert.True(t, env.Success)

	replyTo, env = d.Handle(context.Background(), PatternFindAll, []byte(`not json`))
	assert.Empty(t, replyTo)
	assert.False(t, env.Success)
}

func TestEnvelope_OmitsStatusCodeOnMessagePath(t *testing.T) {
	d := testDispatcher(newFakeCollection())

	env := d.Dispatch(context.Background(), PatternCreate, createPayload())
	payload, err := marshalEnvelope(env)
	require.NoError(t, err)
	assert.NotContains(t, string(payload), "statusCode")
}

func TestTopicMapping(t *testing.T) {
	assert.Equal(t, "routes/rpc/create", Topic(PatternCreate))
	assert.Equal(t, "routes/rpc/findAll", Topic(PatternFindAll))
	assert.Equal(t, PatternRemove, patternFromTopic("routes/rpc/remove"))
	assert.Equal(t, PatternFindOne, patternFromTopic(Topic(PatternFindOne)))
}
