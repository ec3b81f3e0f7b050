package models

// CreateRouteRequest is the payload for creating a route. Identifiers and
// timestamps are server-assigned and must not be supplied.
type CreateRouteRequest struct {
	Name        string       `json:"name" validate:"required"`
	TravelMode  TravelMode   `json:"travelMode" validate:"required,oneof=DRIVING WALKING BICYCLING TRANSIT"`
	Distance    *TextValue   `json:"distance" validate:"required"`
	Duration    *TextValue   `json:"duration" validate:"required"`
	Origin      *Coordinate  `json:"origin" validate:"required"`
	Destination *Coordinate  `json:"destination" validate:"required"`
	Waypoints   []Coordinate `json:"waypoints" validate:"omitempty,dive"`
	Path        []Coordinate `json:"path" validate:"required,min=1,dive"`
	Tags        []string     `json:"tags"`
	IsFavorite  bool         `json:"isFavorite"`
	UserID      string       `json:"userId"`
}

// Route builds the entity to persist. Waypoints default to an empty slice so
// the stored document always carries the field.
func (r CreateRouteRequest) Route() Route {
	waypoints := r.Waypoints
	if waypoints == nil {
		waypoints = []Coordinate{}
	}
	return Route{
		Name:        r.Name,
		TravelMode:  r.TravelMode,
		Distance:    *r.Distance,
		Duration:    *r.Duration,
		Origin:      *r.Origin,
		Destination: *r.Destination,
		Waypoints:   waypoints,
		Path:        r.Path,
		Tags:        r.Tags,
		IsFavorite:  r.IsFavorite,
		UserID:      r.UserID,
	}
}

// UpdateRouteRequest is a partial route update. Nil fields are left
// untouched; nested objects, when present, replace the stored value
// wholesale. Identifiers and timestamps cannot be updated.
type UpdateRouteRequest struct {
	Name        *string       `json:"name" validate:"omitnil,min=1"`
	TravelMode  *TravelMode   `json:"travelMode" validate:"omitnil,oneof=DRIVING WALKING BICYCLING TRANSIT"`
	Distance    *TextValue    `json:"distance"`
	Duration    *TextValue    `json:"duration"`
	Origin      *Coordinate   `json:"origin"`
	Destination *Coordinate   `json:"destination"`
	Waypoints   *[]Coordinate `json:"waypoints" validate:"omitnil,dive"`
	Path        *[]Coordinate `json:"path" validate:"omitnil,min=1,dive"`
	Tags        *[]string     `json:"tags"`
	IsFavorite  *bool         `json:"isFavorite"`
	UserID      *string       `json:"userId"`
}
