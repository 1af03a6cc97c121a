// Package docs registers the OpenAPI document served under /swagger.
// Regenerate with: swag init -g cmd/main.go
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/": {
            "get": {
                "produces": ["text/html"],
                "tags": ["dashboard"],
                "summary": "Dashboard page",
                "responses": {"200": {"description": "OK", "schema": {"type": "string"}}}
            }
        },
        "/health": {
            "get": {
                "produces": ["application/json"],
                "tags": ["system"],
                "summary": "Health check",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/stringMap"}}}
            }
        },
        "/ws": {
            "get": {
                "description": "WebSocket. Sends a \"dashboard\" envelope on connect and every interval, and a \"redraw\" envelope whenever a widget changed.",
                "tags": ["dashboard"],
                "summary": "Dashboard stream",
                "parameters": [
                    {"type": "string", "description": "Resend period, e.g. 30s", "name": "interval", "in": "query"},
                    {"type": "integer", "description": "Resend period in milliseconds", "name": "interval_ms", "in": "query"}
                ],
                "responses": {"101": {"description": "Switching Protocols"}}
            }
        },
        "/api/v1/dashboard": {
            "get": {
                "produces": ["application/json"],
                "tags": ["dashboard"],
                "summary": "Dashboard",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/service.DashboardView"}}}
            }
        },
        "/api/v1/status": {
            "get": {
                "produces": ["application/json"],
                "tags": ["dashboard"],
                "summary": "Current status",
                "responses": {"200": {"description": "element id -> text", "schema": {"$ref": "#/definitions/stringMap"}}}
            }
        },
        "/api/v1/refresh": {
            "post": {
                "produces": ["application/json"],
                "tags": ["dashboard"],
                "summary": "Refresh now",
                "responses": {"202": {"description": "Accepted", "schema": {"$ref": "#/definitions/stringMap"}}}
            }
        },
        "/api/v1/charts/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["charts"],
                "summary": "Chart data",
                "parameters": [
                    {"enum": ["sessionChart", "fermentationChart", "sizeChart"], "type": "string", "description": "Chart id", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/stringMap"}}
                }
            }
        },
        "/api/v1/charts/{id}/png": {
            "get": {
                "produces": ["image/png"],
                "tags": ["charts"],
                "summary": "Chart image",
                "parameters": [
                    {"enum": ["sessionChart", "fermentationChart", "sizeChart"], "type": "string", "description": "Chart id", "name": "id", "in": "path", "required": true},
                    {"type": "integer", "default": 800, "description": "Image width (100-2000)", "name": "width", "in": "query"},
                    {"type": "integer", "default": 320, "description": "Image height (100-2000)", "name": "height", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/stringMap"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/stringMap"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/stringMap"}}
                }
            }
        },
        "/api/v1/sessions": {
            "get": {
                "produces": ["text/html"],
                "tags": ["sessions"],
                "summary": "Session list",
                "responses": {"200": {"description": "OK", "schema": {"type": "string"}}}
            },
            "post": {
                "consumes": ["application/json", "application/x-www-form-urlencoded"],
                "produces": ["application/json"],
                "tags": ["sessions"],
                "summary": "Create session",
                "parameters": [
                    {"description": "New session", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.CreateSessionRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/handlers.CreateSessionResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handlers.CreateSessionResponse"}},
                    "502": {"description": "Bad Gateway", "schema": {"$ref": "#/definitions/handlers.CreateSessionResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/stringMap"}}
                }
            }
        },
        "/api/v1/logs": {
            "get": {
                "produces": ["application/json"],
                "tags": ["logs"],
                "summary": "List dashboard events",
                "parameters": [
                    {"type": "string", "example": "2025-08-01", "description": "Start of range (RFC3339, 'YYYY-MM-DD HH:MM:SS', or 'YYYY-MM-DD')", "name": "from", "in": "query"},
                    {"type": "string", "example": "2025-08-31", "description": "End of range. Date-only treated as end of day.", "name": "to", "in": "query"},
                    {"enum": ["FETCH_ERROR", "SESSION_CREATED", "SESSION_REJECTED"], "type": "string", "description": "Event type", "name": "type", "in": "query"},
                    {"type": "integer", "default": 200, "description": "Newest N events (max 1000)", "name": "limit", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "count, events", "schema": {"type": "object"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/stringMap"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/stringMap"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/stringMap"}}
                }
            }
        }
    },
    "definitions": {
        "stringMap": {
            "type": "object",
            "additionalProperties": {"type": "string"}
        },
        "handlers.CreateSessionRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string", "example": "Rye sourdough"},
                "notes": {"type": "string", "example": "80% hydration"}
            }
        },
        "handlers.CreateSessionResponse": {
            "type": "object",
            "properties": {
                "status": {"type": "string", "example": "created"},
                "alert": {"type": "string"},
                "reset_form": {"type": "boolean"},
                "close_modal": {"type": "boolean"},
                "sessions_html": {"type": "string"}
            }
        },
        "service.DashboardView": {
            "type": "object",
            "properties": {
                "view": {"type": "string"},
                "status_ids": {"type": "array", "items": {"type": "string"}},
                "status": {"$ref": "#/definitions/stringMap"},
                "chart_ids": {"type": "array", "items": {"type": "string"}},
                "charts": {"type": "object"},
                "sessions_html": {"type": "string"},
                "sessions": {"type": "array", "items": {"type": "object"}},
                "last_refresh": {"type": "string"},
                "revision": {"type": "integer"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Fermentation Dashboard API",
	Description:      "Live dashboard over the fermentation monitoring backend.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
