// Package docs holds the swagger spec served under /swagger.
// Paths follow the @Router annotations in internal/delivery/http.
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
        "/api/auth/signin": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "summary": "SignIn",
                "operationId": "sign-in",
                "parameters": [{"description": "credentials", "name": "input", "in": "body", "required": true, "schema": {"$ref": "#/definitions/models.SignInForm"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.Account"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/http.errorResponse"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/http.errorResponse"}},
                    "429": {"description": "Too Many Requests", "schema": {"$ref": "#/definitions/http.errorResponse"}}
                }
            }
        },
        "/api/auth/signup": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "summary": "SignUp",
                "operationId": "sign-up",
                "parameters": [{"description": "account info", "name": "input", "in": "body", "required": true, "schema": {"$ref": "#/definitions/models.SignUpForm"}}],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/models.Account"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/http.errorResponse"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/http.errorResponse"}}
                }
            }
        },
        "/api/bookings": {
            "get": {
                "produces": ["application/json"],
                "summary": "GetAllBookings",
                "operationId": "get-all-bookings",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/http.getAllBookingsResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/http.errorResponse"}}
                }
            }
        },
        "/api/bookings/{id}": {
            "get": {
                "produces": ["application/json"],
                "summary": "GetBookingById",
                "operationId": "get-booking-by-id",
                "parameters": [{"type": "string", "description": "booking id", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.Booking"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/http.errorResponse"}}
                }
            }
        },
        "/api/confirmations": {
            "get": {
                "produces": ["application/json"],
                "summary": "GetConfirmations",
                "operationId": "get-confirmations",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/http.getConfirmationsResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/http.errorResponse"}}
                }
            }
        },
        "/api/flows": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "summary": "OpenFlow",
                "operationId": "open-flow",
                "parameters": [{"description": "flow kind and optional prefill", "name": "input", "in": "body", "required": true, "schema": {"$ref": "#/definitions/http.openFlowRequest"}}],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/http.flowResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/http.errorResponse"}}
                }
            }
        },
        "/api/flows/{id}": {
            "get": {
                "produces": ["application/json"],
                "summary": "GetFlow",
                "operationId": "get-flow",
                "parameters": [{"type": "string", "description": "flow id", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/http.flowResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/http.errorResponse"}}
                }
            },
            "patch": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "summary": "PatchFlow",
                "operationId": "patch-flow",
                "parameters": [
                    {"type": "string", "description": "flow id", "name": "id", "in": "path", "required": true},
                    {"description": "draft fields", "name": "input", "in": "body", "required": true, "schema": {"type": "object"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/http.flowResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/http.errorResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/http.errorResponse"}}
                }
            },
            "delete": {
                "summary": "CloseFlow",
                "operationId": "close-flow",
                "parameters": [{"type": "string", "description": "flow id", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "204": {"description": "No Content"},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/http.errorResponse"}}
                }
            }
        },
        "/api/flows/{id}/back": {
            "post": {
                "produces": ["application/json"],
                "summary": "PrevStep",
                "operationId": "prev-step",
                "parameters": [{"type": "string", "description": "flow id", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/http.flowResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/http.errorResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/http.errorResponse"}}
                }
            }
        },
        "/api/flows/{id}/dismiss": {
            "post": {
                "produces": ["application/json"],
                "summary": "DismissError",
                "operationId": "dismiss-error",
                "parameters": [{"type": "string", "description": "flow id", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/http.flowResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/http.errorResponse"}}
                }
            }
        },
        "/api/flows/{id}/handoff": {
            "get": {
                "produces": ["application/json"],
                "summary": "GetHandoff",
                "operationId": "get-handoff",
                "parameters": [{"type": "string", "description": "flow id", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/http.handoffResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/http.errorResponse"}}
                }
            }
        },
        "/api/flows/{id}/next": {
            "post": {
                "produces": ["application/json"],
                "summary": "NextStep",
                "operationId": "next-step",
                "parameters": [{"type": "string", "description": "flow id", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/http.flowResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/http.errorResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/http.errorResponse"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/http.errorResponse"}}
                }
            }
        },
        "/api/flows/{id}/reset": {
            "post": {
                "produces": ["application/json"],
                "summary": "ResetFlow",
                "operationId": "reset-flow",
                "parameters": [{"type": "string", "description": "flow id", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/http.flowResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/http.errorResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/http.errorResponse"}}
                }
            }
        },
        "/api/flows/{id}/submit": {
            "post": {
                "produces": ["application/json"],
                "summary": "SubmitFlow",
                "operationId": "submit-flow",
                "parameters": [{"type": "string", "description": "flow id", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/http.submitResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/http.errorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/http.errorResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/http.errorResponse"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/http.errorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/http.errorResponse"}},
                    "502": {"description": "Bad Gateway", "schema": {"$ref": "#/definitions/http.errorResponse"}}
                }
            }
        },
        "/api/quotes/{kind}": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "summary": "GetQuote",
                "operationId": "get-quote",
                "parameters": [
                    {"enum": ["package", "textile", "checkout", "lab", "consultation"], "type": "string", "description": "flow kind", "name": "kind", "in": "path", "required": true},
                    {"description": "draft fields", "name": "input", "in": "body", "required": true, "schema": {"type": "object"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/pricing.Quote"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/http.errorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "http.errorResponse": {
            "type": "object",
            "properties": {
                "message": {"type": "string"},
                "field_errors": {"type": "object", "additionalProperties": {"type": "string"}},
                "view": {"type": "object"}
            }
        },
        "http.flowResponse": {
            "type": "object",
            "properties": {"id": {"type": "string"}, "view": {"type": "object"}}
        },
        "http.submitResponse": {
            "type": "object",
            "properties": {"confirmation": {"$ref": "#/definitions/models.Confirmation"}, "view": {"type": "object"}}
        },
        "http.handoffResponse": {
            "type": "object",
            "properties": {
                "handoff": {"$ref": "#/definitions/models.Handoff"},
                "params": {"type": "object", "additionalProperties": {"type": "string"}}
            }
        },
        "http.openFlowRequest": {
            "type": "object",
            "required": ["kind"],
            "properties": {
                "kind": {"type": "string"},
                "email": {"type": "string"},
                "handoff": {"type": "object", "additionalProperties": {"type": "string"}}
            }
        },
        "http.getAllBookingsResponse": {
            "type": "object",
            "properties": {"data": {"type": "array", "items": {"$ref": "#/definitions/models.Booking"}}}
        },
        "http.getConfirmationsResponse": {
            "type": "object",
            "properties": {"data": {"type": "array", "items": {"$ref": "#/definitions/models.Confirmation"}}}
        },
        "models.Account": {
            "type": "object",
            "properties": {
                "id": {"type": "string"}, "name": {"type": "string"}, "email": {"type": "string"},
                "phone": {"type": "string"}, "created_at": {"type": "string"}
            }
        },
        "models.Booking": {
            "type": "object",
            "properties": {
                "id": {"type": "string"}, "kind": {"type": "string"}, "idempotency_key": {"type": "string"},
                "category": {"type": "string"}, "total": {"type": "integer"}, "payload": {"type": "string"},
                "created_at": {"type": "string"}
            }
        },
        "models.Confirmation": {
            "type": "object",
            "properties": {
                "id": {"type": "string"}, "kind": {"type": "string"}, "idempotency_key": {"type": "string"},
                "category": {"type": "string"}, "total": {"type": "integer"}, "created_at": {"type": "string"}
            }
        },
        "models.Handoff": {
            "type": "object",
            "properties": {
                "kind": {"type": "string"}, "category": {"type": "string"}, "price": {"type": "integer"},
                "scheduled_at": {"type": "string"}, "confirmation_id": {"type": "string"}
            }
        },
        "models.SignInForm": {
            "type": "object",
            "properties": {"email": {"type": "string"}, "password": {"type": "string"}}
        },
        "models.SignUpForm": {
            "type": "object",
            "properties": {
                "name": {"type": "string"}, "email": {"type": "string"}, "phone": {"type": "string"},
                "password": {"type": "string"}, "confirm_password": {"type": "string"}
            }
        },
        "pricing.Quote": {
            "type": "object",
            "properties": {
                "base": {"type": "integer"}, "surcharge": {"type": "integer"}, "subtotal": {"type": "integer"},
                "shipping": {"type": "integer"}, "tax": {"type": "integer"}, "total": {"type": "integer"},
                "lines": {"type": "array", "items": {"type": "object", "properties": {"label": {"type": "string"}, "amount": {"type": "integer"}}}}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8081",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "booking flow service",
	Description:      "Multi-step booking flows (package delivery, textile, checkout, lab, consultation) with validation gates, quotes and an idempotent booking sink fed over HTTP and Kafka.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
