package db

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/uydev/route-catalog/internal/models"
)

const (
	// DefaultPage and DefaultLimit apply when a caller passes values below 1.
	DefaultPage  = 1
	DefaultLimit = 10
)

// RouteCollection defines the interface for route data operations.
type RouteCollection interface {
	InsertRoute(ctx context.Context, route models.Route) (*models.Route, error)
	FindRoutes(ctx context.Context, page, limit int64) ([]models.Route, int64, error)
	FindRouteByID(ctx context.Context, id string) (*models.Route, error)
	UpdateRoute(ctx context.Context, id string, partial models.UpdateRouteRequest) (*models.Route, error)
	DeleteRoute(ctx context.Context, id string) (*models.Route, error)
	SearchRoutes(ctx context.Context, searchText string, page, limit int64) ([]models.Route, int64, error)
	FindRoutesByTags(ctx context.Context, tags []string) ([]models.Route, error)
	CountRoutes(ctx context.Context, filter models.RouteCountFilter) (int64, error)
}

// MongoRouteCollection implements RouteCollection for MongoDB.
type MongoRouteCollection struct {
	Collection *mongo.Collection
}

// InsertRoute assigns a fresh routeId and timestamps, then persists the
// route. A duplicate routeId surfaces as models.ConflictError.
func (c *MongoRouteCollection) InsertRoute(ctx context.Context, route models.Route) (*models.Route, error) {
	if c.Collection == nil {
		return nil, fmt.Errorf("mongo collection is nil")
	}

	now := time.Now()
	route.ID = primitive.NilObjectID
	route.RouteID = models.NewRouteID()
	route.CreatedAt = now
	route.UpdatedAt = now
	if route.Waypoints == nil {
		route.Waypoints = []models.Coordinate{}
	}

	res, err := c.Collection.InsertOne(ctx, route)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, &models.ConflictError{RouteID: route.RouteID}
		}
		return nil, &models.StorageError{Op: "insert", Err: err}
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		route.ID = oid
	}
	return &route, nil
}

// FindRoutes returns one page of routes sorted by created_at descending,
// together with the unfiltered collection count. The count and the fetch run
// as two concurrent store round trips.
func (c *MongoRouteCollection) FindRoutes(ctx context.Context, page, limit int64) ([]models.Route, int64, error) {
	if c.Collection == nil {
		return nil, 0, fmt.Errorf("mongo collection is nil")
	}
	return c.findPage(ctx, bson.M{}, page, limit)
}

// FindRouteByID finds a route by its store identifier. A malformed id is
// treated the same as an absent record.
func (c *MongoRouteCollection) FindRouteByID(ctx context.Context, id string) (*models.Route, error) {
	if c.Collection == nil {
		return nil, fmt.Errorf("mongo collection is nil")
	}

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, models.ErrNotFound
	}

	var route models.Route
	err = c.Collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&route)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, models.ErrNotFound
		}
		return nil, &models.StorageError{Op: "find", Err: err}
	}
	return &route, nil
}

// UpdateRoute applies a partial field merge and returns the post-update
// entity. Nested objects are replaced wholesale; identifiers and created_at
// are never touched.
func (c *MongoRouteCollection) UpdateRoute(ctx context.Context, id string, partial models.UpdateRouteRequest) (*models.Route, error) {
	if c.Collection == nil {
		return nil, fmt.Errorf("mongo collection is nil")
	}

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, models.ErrNotFound
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var route models.Route
	err = c.Collection.FindOneAndUpdate(
		ctx,
		bson.M{"_id": objectID},
		bson.M{"$set": routeUpdateFields(partial)},
		opts,
	).Decode(&route)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, models.ErrNotFound
		}
		return nil, &models.StorageError{Op: "update", Err: err}
	}
	return &route, nil
}

// DeleteRoute hard-deletes a route and returns the removed entity. Deleting
// an already-removed route yields models.ErrNotFound, not a failure.
func (c *MongoRouteCollection) DeleteRoute(ctx context.Context, id string) (*models.Route, error) {
	if c.Collection == nil {
		return nil, fmt.Errorf("mongo collection is nil")
	}

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, models.ErrNotFound
	}

	var route models.Route
	err = c.Collection.FindOneAndDelete(ctx, bson.M{"_id": objectID}).Decode(&route)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, models.ErrNotFound
		}
		return nil, &models.StorageError{Op: "delete", Err: err}
	}
	return &route, nil
}

// SearchRoutes returns routes whose route_id, name, origin.name,
// destination.name or any waypoint name contains searchText as a
// case-insensitive substring, plus the total match count.
func (c *MongoRouteCollection) SearchRoutes(ctx context.Context, searchText string, page, limit int64) ([]models.Route, int64, error) {
	if c.Collection == nil {
		return nil, 0, fmt.Errorf("mongo collection is nil")
	}
	return c.findPage(ctx, searchFilter(searchText), page, limit)
}

// FindRoutesByTags returns all routes whose tags intersect the given set,
// sorted by created_at descending.
func (c *MongoRouteCollection) FindRoutesByTags(ctx context.Context, tags []string) ([]models.Route, error) {
	if c.Collection == nil {
		return nil, fmt.Errorf("mongo collection is nil")
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := c.Collection.Find(ctx, bson.M{"tags": bson.M{"$in": tags}}, opts)
	if err != nil {
		return nil, &models.StorageError{Op: "find", Err: err}
	}
	routes := []models.Route{}
	if err := cursor.All(ctx, &routes); err != nil {
		return nil, &models.StorageError{Op: "decode", Err: err}
	}
	return routes, nil
}

// CountRoutes counts routes matching the optional userId and favorites
// equality filters.
func (c *MongoRouteCollection) CountRoutes(ctx context.Context, filter models.RouteCountFilter) (int64, error) {
	if c.Collection == nil {
		return 0, fmt.Errorf("mongo collection is nil")
	}

	query := bson.M{}
	if filter.UserID != "" {
		query["user_id"] = filter.UserID
	}
	if filter.Favorites {
		query["is_favorite"] = true
	}

	total, err := c.Collection.CountDocuments(ctx, query)
	if err != nil {
		return 0, &models.StorageError{Op: "count", Err: err}
	}
	return total, nil
}

// findPage issues the count and the paginated fetch for a filter
// concurrently and joins the results.
func (c *MongoRouteCollection) findPage(ctx context.Context, filter bson.M, page, limit int64) ([]models.Route, int64, error) {
	if page < 1 {
		page = DefaultPage
	}
	if limit < 1 {
		limit = DefaultLimit
	}

	type countResult struct {
		total int64
		err   error
	}
	counts := make(chan countResult, 1)
	go func() {
		total, err := c.Collection.CountDocuments(ctx, filter)
		counts <- countResult{total: total, err: err}
	}()

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip((page - 1) * limit).
		SetLimit(limit)

	var findErr error
	routes := []models.Route{}
	cursor, err := c.Collection.Find(ctx, filter, opts)
	if err != nil {
		findErr = err
	} else if err := cursor.All(ctx, &routes); err != nil {
		findErr = err
	}

	count := <-counts
	if findErr != nil {
		return nil, 0, &models.StorageError{Op: "find", Err: findErr}
	}
	if count.err != nil {
		return nil, 0, &models.StorageError{Op: "count", Err: count.err}
	}
	return routes, count.total, nil
}

// searchFilter builds the multi-field OR regex filter. The search text is
// quoted so metacharacters match literally.
func searchFilter(searchText string) bson.M {
	re := primitive.Regex{Pattern: regexp.QuoteMeta(searchText), Options: "i"}
	return bson.M{"$or": []bson.M{
		{"route_id": re},
		{"name": re},
		{"origin.name": re},
		{"destination.name": re},
		{"waypoints.name": re},
	}}
}

// routeUpdateFields maps the provided fields of a partial update onto their
// bson keys. updated_at is always bumped.
func routeUpdateFields(partial models.UpdateRouteRequest) bson.M {
	set := bson.M{"updated_at": time.Now()}
	if partial.Name != nil {
		set["name"] = *partial.Name
	}
	if partial.TravelMode != nil {
		set["travel_mode"] = *partial.TravelMode
	}
	if partial.Distance != nil {
		set["distance"] = *partial.Distance
	}
	if partial.Duration != nil {
		set["duration"] = *partial.Duration
	}
	if partial.Origin != nil {
		set["origin"] = *partial.Origin
	}
	if partial.Destination != nil {
		set["destination"] = *partial.Destination
	}
	if partial.Waypoints != nil {
		set["waypoints"] = *partial.Waypoints
	}
	if partial.Path != nil {
		set["path"] = *partial.Path
	}
	if partial.Tags != nil {
		set["tags"] = *partial.Tags
	}
	if partial.IsFavorite != nil {
		set["is_favorite"] = *partial.IsFavorite
	}
	if partial.UserID != nil {
		set["user_id"] = *partial.UserID
	}
	return set
}
