//go:build swagger

package httpapi

import (
	"github.com/go-chi/chi/v5"
	httpSwagger "github.com/swaggo/http-swagger"
	"github.com/swaggo/swag"
)

// openAPISpec is registered with swag so the UI can fetch /swagger/doc.json.
var openAPISpec = &swag.Spec{
	Version:          "1.0",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "sourced API",
	Description:      "Hosts event sources and the sinks attached to them.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  openAPITemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(openAPISpec.InstanceName(), openAPISpec)
}

// MountSwagger serves the Swagger UI under /swagger/.
func MountSwagger(r chi.Router) {
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))
}

const openAPITemplate = `{
  "schemes": {{ marshal .Schemes }},
  "swagger": "2.0",
  "info": {
    "description": "{{escape .Description}}",
    "title": "{{.Title}}",
    "version": "{{.Version}}"
  },
  "host": "{{.Host}}",
  "basePath": "{{.BasePath}}",
  "paths": {
    "/sources": {
      "get": {"summary": "List sources", "produces": ["application/json"],
        "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/types.SourcesResponse"}}}},
      "post": {"summary": "Add a source", "consumes": ["application/json"], "produces": ["application/json"],
        "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/types.SourceSpec"}}],
        "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/types.SourceInfo"}},
          "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/types.ErrorResponse"}},
          "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/types.ErrorResponse"}}}}
    },
    "/sources/{name}": {
      "get": {"summary": "Describe a source", "parameters": [{"in": "path", "name": "name", "required": true, "type": "string"}],
        "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/types.SourceInfo"}},
          "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/types.ErrorResponse"}}}}
    },
    "/sources/{name}/events": {
      "post": {"summary": "Broadcast an event", "consumes": ["application/json"],
        "parameters": [{"in": "path", "name": "name", "required": true, "type": "string"},
          {"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/types.Event"}}],
        "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/types.BroadcastResult"}},
          "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/types.ErrorResponse"}}}}
    },
    "/sources/{name}/sinks": {
      "post": {"summary": "Attach a sink", "consumes": ["application/json"],
        "parameters": [{"in": "path", "name": "name", "required": true, "type": "string"},
          {"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/types.SinkSpec"}}],
        "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/types.SinkInfo"}}}}
    },
    "/sources/{name}/sinks/{id}": {
      "delete": {"summary": "Detach a sink",
        "parameters": [{"in": "path", "name": "name", "required": true, "type": "string"},
          {"in": "path", "name": "id", "required": true, "type": "string"}],
        "responses": {"204": {"description": "No Content"}}}
    },
    "/sources/{name}/resize": {
      "post": {"summary": "Resize a window source",
        "parameters": [{"in": "path", "name": "name", "required": true, "type": "string"},
          {"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/types.ResizeRequest"}}],
        "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/types.BroadcastResult"}},
          "409": {"description": "Not a window", "schema": {"$ref": "#/definitions/types.ErrorResponse"}}}}
    },
    "/sources/{name}/focus": {
      "post": {"summary": "Focus a window source",
        "parameters": [{"in": "path", "name": "name", "required": true, "type": "string"}],
        "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/types.BroadcastResult"}}}}
    },
    "/sources/{name}/write": {
      "post": {"summary": "Write to a stream source",
        "parameters": [{"in": "path", "name": "name", "required": true, "type": "string"},
          {"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/types.WriteRequest"}}],
        "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/types.BroadcastResult"}},
          "409": {"description": "Not a stream, or already complete", "schema": {"$ref": "#/definitions/types.ErrorResponse"}}}}
    },
    "/sinks/{id}": {
      "get": {"summary": "Describe a sink", "parameters": [{"in": "path", "name": "id", "required": true, "type": "string"}],
        "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/types.SinkInfo"}}}},
      "delete": {"summary": "Drop a sink without detaching it", "parameters": [{"in": "path", "name": "id", "required": true, "type": "string"}],
        "responses": {"204": {"description": "No Content"}}}
    },
    "/sinks/{id}/events": {
      "get": {"summary": "Events kept by a memory sink", "parameters": [{"in": "path", "name": "id", "required": true, "type": "string"}],
        "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/types.SinkEventsResponse"}}}}
    },
    "/status": {
      "get": {"summary": "Hub status", "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/types.StatusResponse"}}}}
    }
  },
  "definitions": {
    "types.ErrorResponse": {"type": "object", "properties": {"error": {"type": "string"}, "code": {"type": "integer"}}},
    "types.Event": {"type": "object", "properties": {"type": {"type": "string"}, "data": {"type": "object"}, "time": {"type": "string", "format": "date-time"}}},
    "types.SinkSpec": {"type": "object", "properties": {"id": {"type": "string"}, "kind": {"type": "string"}, "handles": {"type": "boolean"},
      "types": {"type": "array", "items": {"type": "string"}}, "capacity": {"type": "integer"}}},
    "types.SourceSpec": {"type": "object", "properties": {"name": {"type": "string"}, "kind": {"type": "string"}, "width": {"type": "integer"},
      "height": {"type": "integer"}, "url": {"type": "string"}, "sinks": {"type": "array", "items": {"$ref": "#/definitions/types.SinkSpec"}}}},
    "types.SinkInfo": {"type": "object", "properties": {"id": {"type": "string"}, "kind": {"type": "string"}, "source": {"type": "string"},
      "handles": {"type": "boolean"}, "attached": {"type": "boolean"}, "received": {"type": "integer"}}},
    "types.SourceInfo": {"type": "object", "properties": {"name": {"type": "string"}, "kind": {"type": "string"}, "sinks": {"type": "integer"},
      "capabilities": {"type": "array", "items": {"type": "string"}}, "owned": {"type": "array", "items": {"$ref": "#/definitions/types.SinkInfo"}}}},
    "types.SourcesResponse": {"type": "object", "properties": {"sources": {"type": "array", "items": {"$ref": "#/definitions/types.SourceInfo"}}}},
    "types.BroadcastResult": {"type": "object", "properties": {"source": {"type": "string"}, "handled": {"type": "boolean"}}},
    "types.ResizeRequest": {"type": "object", "properties": {"width": {"type": "integer"}, "height": {"type": "integer"}}},
    "types.WriteRequest": {"type": "object", "properties": {"data": {"type": "string"}, "complete": {"type": "boolean"}}},
    "types.SinkEventsResponse": {"type": "object", "properties": {"id": {"type": "string"}, "events": {"type": "array", "items": {"$ref": "#/definitions/types.Event"}}}},
    "types.StatusResponse": {"type": "object", "properties": {"state": {"type": "string"}, "sources": {"type": "integer"}, "sinks": {"type": "integer"},
      "owned_sinks": {"type": "integer"}, "broadcasts_total": {"type": "integer"}, "handled_total": {"type": "integer"},
      "uptime_seconds": {"type": "integer"}, "server_time_unix": {"type": "integer"}}}
  }
}`
