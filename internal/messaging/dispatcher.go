package messaging

import (
	"context"
	"encoding/json"
	"errors"

	log "github.com/sirupsen/logrus"

	"github.com/uydev/route-catalog/internal/db"
	"github.com/uydev/route-catalog/internal/models"
	"github.com/uydev/route-catalog/internal/validation"
)

// request is the framing of every message-pattern call: the reply topic plus
// the operation payload.
type request struct {
	ReplyTo string          `json:"replyTo"`
	Data    json.RawMessage `json:"data"`
}

type pagePayload struct {
	Page  int64 `json:"page"`
	Limit int64 `json:"limit"`
}

type idPayload struct {
	ID string `json:"id"`
}

type updatePayload struct {
	ID   string                    `json:"id"`
	Data models.UpdateRouteRequest `json:"data"`
}

type searchPayload struct {
	SearchText string `json:"searchText"`
	Page       int64  `json:"page"`
	Limit      int64  `json:"limit"`
}

type tagsPayload struct {
	Tags []string `json:"tags"`
}

// Dispatcher maps message patterns onto the route repository. It mirrors the
// HTTP handlers exactly, so neither transport owns business logic.
type Dispatcher struct {
	routes db.RouteCollection
	logger *log.Logger
}

// NewDispatcher creates a dispatcher backed by the given collection.
func NewDispatcher(routes db.RouteCollection, logger *log.Logger) *Dispatcher {
	return &Dispatcher{routes: routes, logger: logger}
}

// Handle decodes the request framing and dispatches the pattern, returning
// the reply topic and the response envelope.
func (d *Dispatcher) Handle(ctx context.Context, pattern string, payload []byte) (string, models.Envelope) {
	var req request
	if err := json.Unmarshal(payload, &req); err != nil {
		return "", failure("Invalid request payload", err.Error())
	}
	return req.ReplyTo, d.Dispatch(ctx, pattern, req.Data)
}

// Dispatch executes a single message pattern against the repository.
func (d *Dispatcher) Dispatch(ctx context.Context, pattern string, data json.RawMessage) models.Envelope {
	switch pattern {
	case PatternCreate:
		return d.create(ctx, data)
	case PatternFindAll:
		return d.findAll(ctx, data)
	case PatternFindOne:
		return d.findOne(ctx, data)
	case PatternUpdate:
		return d.update(ctx, data)
	case PatternRemove:
		return d.remove(ctx, data)
	case PatternSearch:
		return d.search(ctx, data)
	case PatternFindByTags:
		return d.findByTags(ctx, data)
	case PatternCount:
		return d.count(ctx, data)
	default:
		return failure("Unknown pattern: "+pattern, "")
	}
}

func (d *Dispatcher) create(ctx context.Context, data json.RawMessage) models.Envelope {
	var req models.CreateRouteRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return failure("Invalid route payload", err.Error())
	}
	if err := validation.Check(req); err != nil {
		return failure("Invalid route", err.Error())
	}

	route, err := d.routes.InsertRoute(ctx, req.Route())
	if err != nil {
		var conflict *models.ConflictError
		if errors.As(err, &conflict) {
			return failure("Route already exists", err.Error())
		}
		d.logger.WithError(err).Error("failed to create route")
		return failure("Failed to create route", err.Error())
	}
	return success("Route created successfully", route)
}

func (d *Dispatcher) findAll(ctx context.Context, data json.RawMessage) models.Envelope {
	var req pagePayload
	if len(data) > 0 {
		if err := json.Unmarshal(data, &req); err != nil {
			return failure("Invalid payload", err.Error())
		}
	}
	routes, total, err := d.routes.FindRoutes(ctx, req.Page, req.Limit)
	if err != nil {
		d.logger.WithError(err).Error("failed to list routes")
		return failure("Failed to retrieve routes", err.Error())
	}
	return success("Routes retrieved successfully", models.RouteList{Routes: routes, Total: total})
}

func (d *Dispatcher) findOne(ctx context.Context, data json.RawMessage) models.Envelope {
	var req idPayload
	if err := json.Unmarshal(data, &req); err != nil {
		return failure("Invalid payload", err.Error())
	}
	route, err := d.routes.FindRouteByID(ctx, req.ID)
	if err != nil {
		return d.readError(err, "failed to get route")
	}
	return success("Route retrieved successfully", route)
}

func (d *Dispatcher) update(ctx context.Context, data json.RawMessage) models.Envelope {
	var req updatePayload
	if err := json.Unmarshal(data, &req); err != nil {
		return failure("Invalid payload", err.Error())
	}
	if err := validation.Check(req.Data); err != nil {
		return failure("Invalid route", err.Error())
	}
	route, err := d.routes.UpdateRoute(ctx, req.ID, req.Data)
	if err != nil {
		return d.readError(err, "failed to update route")
	}
	return success("Route updated successfully", route)
}

func (d *Dispatcher) remove(ctx context.Context, data json.RawMessage) models.Envelope {
	var req idPayload
	if err := json.Unmarshal(data, &req); err != nil {
		return failure("Invalid payload", err.Error())
	}
	route, err := d.routes.DeleteRoute(ctx, req.ID)
	if err != nil {
		return d.readError(err, "failed to delete route")
	}
	return success("Route deleted successfully", route)
}

func (d *Dispatcher) search(ctx context.Context, data json.RawMessage) models.Envelope {
	var req searchPayload
	if err := json.Unmarshal(data, &req); err != nil {
		return failure("Invalid payload", err.Error())
	}
	routes, total, err := d.routes.SearchRoutes(ctx, req.SearchText, req.Page, req.Limit)
	if err != nil {
		d.logger.WithError(err).Error("failed to search routes")
		return failure("Failed to search routes", err.Error())
	}
	return success("Routes retrieved successfully", models.RouteList{Routes: routes, Total: total})
}

func (d *Dispatcher) findByTags(ctx context.Context, data json.RawMessage) models.Envelope {
	var req tagsPayload
	if err := json.Unmarshal(data, &req); err != nil {
		return failure("Invalid payload", err.Error())
	}
	routes, err := d.routes.FindRoutesByTags(ctx, req.Tags)
	if err != nil {
		d.logger.WithError(err).Error("failed to find routes by tags")
		return failure("Failed to retrieve routes", err.Error())
	}
	return success("Routes retrieved successfully", routes)
}

func (d *Dispatcher) count(ctx context.Context, data json.RawMessage) models.Envelope {
	var req models.RouteCountFilter
	if len(data) > 0 {
		if err := json.Unmarshal(data, &req); err != nil {
			return failure("Invalid payload", err.Error())
		}
	}
	count, err := d.routes.CountRoutes(ctx, req)
	if err != nil {
		d.logger.WithError(err).Error("failed to count routes")
		return failure("Failed to count routes", err.Error())
	}
	return success("Routes counted successfully", map[string]int64{"count": count})
}

func (d *Dispatcher) readError(err error, logMsg string) models.Envelope {
	if errors.Is(err, models.ErrNotFound) {
		return failure("Route not found", "")
	}
	d.logger.WithError(err).Error(logMsg)
	return failure("Internal server error", err.Error())
}

// success builds a message-pattern envelope; no statusCode on this path.
func success(message string, data interface{}) models.Envelope {
	return models.Envelope{Success: true, Message: message, Data: data}
}

func failure(message string, errs string) models.Envelope {
	env := models.Envelope{Success: false, Message: message}
	if errs != "" {
		env.Errors = errs
	}
	return env
}

func marshalEnvelope(env models.Envelope) ([]byte, error) {
	return json.Marshal(env)
}
