package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TravelMode is the mode of transportation a route was computed for.
type TravelMode string

const (
	TravelModeDriving   TravelMode = "DRIVING"
	TravelModeWalking   TravelMode = "WALKING"
	TravelModeBicycling TravelMode = "BICYCLING"
	TravelModeTransit   TravelMode = "TRANSIT"
)

// Valid reports whether the travel mode is one of the supported values.
func (m TravelMode) Valid() bool {
	switch m {
	case TravelModeDriving, TravelModeWalking, TravelModeBicycling, TravelModeTransit:
		return true
	}
	return false
}

// Coordinate represents a geographical point with an optional display name.
type Coordinate struct {
	Name string  `json:"name,omitempty" bson:"name,omitempty"`
	Lat  float64 `json:"lat" bson:"lat" validate:"gte=-90,lte=90"`
	Lng  float64 `json:"lng" bson:"lng" validate:"gte=-180,lte=180"`
}

// TextValue pairs a numeric measurement with its human-readable rendering,
// e.g. {12500, "12.5 km"} or {1800, "30 mins"}.
type TextValue struct {
	Value float64 `json:"value" bson:"value" validate:"min=0"`
	Text  string  `json:"text" bson:"text" validate:"required"`
}

// Route represents a stored travel route with its geometry and metadata.
type Route struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	RouteID     string             `json:"routeId" bson:"route_id"`
	Name        string             `json:"name" bson:"name"`
	TravelMode  TravelMode         `json:"travelMode" bson:"travel_mode"`
	Distance    TextValue          `json:"distance" bson:"distance"`
	Duration    TextValue          `json:"duration" bson:"duration"`
	Origin      Coordinate         `json:"origin" bson:"origin"`
	Destination Coordinate         `json:"destination" bson:"destination"`
	Waypoints   []Coordinate       `json:"waypoints" bson:"waypoints"`
	Path        []Coordinate       `json:"path" bson:"path"`
	Tags        []string           `json:"tags,omitempty" bson:"tags,omitempty"`
	IsFavorite  bool               `json:"isFavorite" bson:"is_favorite"`
	UserID      string             `json:"userId,omitempty" bson:"user_id,omitempty"`
	CreatedAt   time.Time          `json:"createdAt" bson:"created_at"`
	UpdatedAt   time.Time          `json:"updatedAt" bson:"updated_at"`
}

// RouteCountFilter holds the optional equality filters for counting routes.
type RouteCountFilter struct {
	UserID    string `json:"userId"`
	Favorites bool   `json:"favorites"`
}

// RouteList is a page of routes together with the total match count.
type RouteList struct {
	Routes []Route `json:"routes"`
	Total  int64   `json:"total"`
}
