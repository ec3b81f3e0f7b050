package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"math"
	"math/rand"
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"
)

// Coordinate mirrors the API payload shape.
type Coordinate struct {
	Name string  `json:"name,omitempty"`
	Lat  float64 `json:"lat"`
	Lng  float64 `json:"lng"`
}

type TextValue struct {
	Value float64 `json:"value"`
	Text  string  `json:"text"`
}

type CreateRouteRequest struct {
	Name        string       `json:"name"`
	TravelMode  string       `json:"travelMode"`
	Distance    TextValue    `json:"distance"`
	Duration    TextValue    `json:"duration"`
	Origin      Coordinate   `json:"origin"`
	Destination Coordinate   `json:"destination"`
	Waypoints   []Coordinate `json:"waypoints"`
	Path        []Coordinate `json:"path"`
	Tags        []string     `json:"tags"`
	UserID      string       `json:"userId"`
}

// Cities for realistic routes
var cities = []Coordinate{
	{Name: "London", Lat: 51.5074, Lng: -0.1278},
	{Name: "New York", Lat: 40.7128, Lng: -74.0060},
	{Name: "Madrid", Lat: 40.4168, Lng: -3.7038},
	{Name: "Paris", Lat: 48.8566, Lng: 2.3522},
	{Name: "Istanbul", Lat: 41.0082, Lng: 28.9784},
	{Name: "Cardiff", Lat: 51.4816, Lng: -3.1791},
	{Name: "Berlin", Lat: 52.5200, Lng: 13.4050},
	{Name: "Tokyo", Lat: 35.6762, Lng: 139.6503},
	{Name: "Sydney", Lat: -33.8688, Lng: 151.2093},
	{Name: "Singapore", Lat: 1.3521, Lng: 103.8198},
	{Name: "Toronto", Lat: 43.6532, Lng: -79.3832},
	{Name: "Dubai", Lat: 25.2048, Lng: 55.2708},
	{Name: "Mumbai", Lat: 19.0760, Lng: 72.8777},
	{Name: "Melbourne", Lat: -37.8136, Lng: 144.9631},
}

var travelModes = []string{"DRIVING", "WALKING", "BICYCLING", "TRANSIT"}

// Average speed per mode in km/h, used to derive plausible durations.
var modeSpeeds = map[string]float64{
	"DRIVING":   60,
	"WALKING":   5,
	"BICYCLING": 18,
	"TRANSIT":   35,
}

func jitter(base Coordinate, meters float64) Coordinate {
	latMetersPerDeg := 111320.0
	lngMetersPerDeg := 111320.0 * math.Cos(base.Lat*math.Pi/180)
	dLat := (rand.Float64()*2 - 1) * (meters / latMetersPerDeg)
	dLng := (rand.Float64()*2 - 1) * (meters / lngMetersPerDeg)
	return Coordinate{Lat: base.Lat + dLat, Lng: base.Lng + dLng}
}

// haversine returns the great-circle distance between two points in meters.
func haversine(a, b Coordinate) float64 {
	const earthRadius = 6371000.0
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLng := (b.Lng - a.Lng) * math.Pi / 180
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	return 2 * earthRadius * math.Asin(math.Sqrt(h))
}

// pathBetween interpolates a jittered polyline from origin to destination.
func pathBetween(origin, destination Coordinate, points int) []Coordinate {
	path := make([]Coordinate, 0, points)
	for i := 0; i < points; i++ {
		t := float64(i) / float64(points-1)
		p := Coordinate{
			Lat: origin.Lat + (destination.Lat-origin.Lat)*t,
			Lng: origin.Lng + (destination.Lng-origin.Lng)*t,
		}
		if i > 0 && i < points-1 {
			p = jitter(p, 2000)
		}
		path = append(path, p)
	}
	return path
}

func formatDistance(meters float64) string {
	if meters >= 1000 {
		return fmt.Sprintf("%.1f km", meters/1000)
	}
	return fmt.Sprintf("%.0f m", meters)
}

func formatDuration(seconds float64) string {
	mins := seconds / 60
	if mins >= 60 {
		return fmt.Sprintf("%.0f hours %.0f mins", math.Floor(mins/60), math.Mod(mins, 60))
	}
	return fmt.Sprintf("%.0f mins", mins)
}

func randomRoute() CreateRouteRequest {
	oi := rand.Intn(len(cities))
	di := rand.Intn(len(cities))
	for di == oi {
		di = rand.Intn(len(cities))
	}
	origin, destination := cities[oi], cities[di]
	mode := travelModes[rand.Intn(len(travelModes))]

	path := pathBetween(origin, destination, 3+rand.Intn(8))
	meters := haversine(origin, destination)
	seconds := meters / 1000 / modeSpeeds[mode] * 3600

	var waypoints []Coordinate
	if rand.Intn(2) == 0 {
		wp := jitter(cities[rand.Intn(len(cities))], 1000)
		wp.Name = "Stopover"
		waypoints = append(waypoints, wp)
	}

	return CreateRouteRequest{
		Name:        fmt.Sprintf("%s to %s", origin.Name, destination.Name),
		TravelMode:  mode,
		Distance:    TextValue{Value: meters, Text: formatDistance(meters)},
		Duration:    TextValue{Value: seconds, Text: formatDuration(seconds)},
		Origin:      origin,
		Destination: destination,
		Waypoints:   waypoints,
		Path:        path,
		Tags:        []string{"demo"},
		UserID:      fmt.Sprintf("user-%d", 1+rand.Intn(5)),
	}
}

func main() {
	count := flag.Int("count", 20, "number of demo routes to create")
	apiURL := flag.String("api", "http://localhost:8080", "base URL of the route catalog API")
	flag.Parse()

	client := &http.Client{Timeout: 10 * time.Second}
	created := 0
	for i := 0; i < *count; i++ {
		route := randomRoute()
		body, err := json.Marshal(route)
		if err != nil {
			log.WithError(err).Fatal("failed to marshal route")
		}
		resp, err := client.Post(*apiURL+"/routes", "application/json", bytes.NewBuffer(body))
		if err != nil {
			log.WithError(err).Fatal("failed to POST route")
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusCreated {
			log.WithFields(log.Fields{"status": resp.StatusCode, "name": route.Name}).Error("create rejected")
			continue
		}
		created++
		log.WithField("name", route.Name).Info("route created")
	}
	log.WithField("created", created).Info("seeding complete")
}
