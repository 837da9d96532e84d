// Package docs registers the swagger document for the live experience API.
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
        "/events": {
            "get": {
                "produces": ["application/json"],
                "tags": ["events"],
                "summary": "List live events",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {"type": "array", "items": {"$ref": "#/definitions/model.Event"}}
                    }
                }
            }
        },
        "/events/{eventId}/register": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["events"],
                "summary": "Register interest in an event",
                "parameters": [
                    {"type": "string", "description": "Event ID", "name": "eventId", "in": "path", "required": true},
                    {"description": "Registrant", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/model.RegisterRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/model.Registration"}}
                }
            }
        },
        "/events/{eventId}/join": {
            "post": {
                "produces": ["application/json"],
                "tags": ["events"],
                "summary": "Start a workbook session for a live event",
                "parameters": [
                    {"type": "string", "description": "Event ID", "name": "eventId", "in": "path", "required": true}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/model.JoinResponse"}}
                }
            }
        },
        "/sessions/{sessionId}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["sessions"],
                "summary": "Current session state with the event banner",
                "parameters": [
                    {"type": "string", "description": "Session ID", "name": "sessionId", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/model.SessionView"}}
                }
            }
        },
        "/sessions/{sessionId}/business": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["sessions"],
                "summary": "Save business details and start the questions",
                "parameters": [
                    {"type": "string", "description": "Session ID", "name": "sessionId", "in": "path", "required": true},
                    {"description": "Business details", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/model.BusinessDetails"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/model.SessionView"}},
                    "400": {"description": "Bad Request", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "409": {"description": "Conflict", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/sessions/{sessionId}/save": {
            "post": {
                "security": [{"BearerAuth": []}],
                "description": "The first save of a question with a follow-up returns follow_up_pending; the follow-up is revealed over the socket.",
                "produces": ["application/json"],
                "tags": ["sessions"],
                "summary": "Save the current answer and advance",
                "parameters": [
                    {"type": "string", "description": "Session ID", "name": "sessionId", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.SaveResponse"}},
                    "400": {"description": "Bad Request", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "409": {"description": "Conflict", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        }
    },
    "definitions": {
        "handler.SaveResponse": {
            "type": "object",
            "properties": {
                "outcome": {"type": "string", "enum": ["follow_up_pending", "advanced", "completed"]},
                "event": {"$ref": "#/definitions/model.EventHeader"},
                "state": {"$ref": "#/definitions/model.WizardState"}
            }
        },
        "model.BusinessDetails": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "customerCount": {"type": "integer"},
                "annualRevenue": {"type": "number"},
                "grossMarginPercent": {"type": "number"}
            }
        },
        "model.Event": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "title": {"type": "string"},
                "host": {"type": "string"},
                "city": {"type": "string"},
                "country": {"type": "string"},
                "venue": {"type": "string"},
                "date": {"type": "string"},
                "isActive": {"type": "boolean"},
                "createdAt": {"type": "string"}
            }
        },
        "model.EventHeader": {
            "type": "object",
            "properties": {
                "title": {"type": "string"},
                "host": {"type": "string"},
                "location": {"type": "string"},
                "date": {"type": "string"}
            }
        },
        "model.JoinResponse": {
            "type": "object",
            "properties": {
                "sessionId": {"type": "string"},
                "token": {"type": "string"},
                "event": {"$ref": "#/definitions/model.EventHeader"},
                "state": {"$ref": "#/definitions/model.WizardState"}
            }
        },
        "model.Question": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "prompt": {"type": "string"},
                "answer": {"type": "string"},
                "isCompleted": {"type": "boolean"},
                "followUpPrompt": {"type": "string"},
                "followUpAnswer": {"type": "string"},
                "showFollowUp": {"type": "boolean"},
                "hasMessage": {"type": "boolean"}
            }
        },
        "model.RegisterRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "email": {"type": "string"}
            }
        },
        "model.Registration": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "eventId": {"type": "string"},
                "name": {"type": "string"},
                "email": {"type": "string"},
                "registeredAt": {"type": "string"}
            }
        },
        "model.SessionView": {
            "type": "object",
            "properties": {
                "event": {"$ref": "#/definitions/model.EventHeader"},
                "state": {"$ref": "#/definitions/model.WizardState"}
            }
        },
        "model.WizardState": {
            "type": "object",
            "properties": {
                "sessionId": {"type": "string"},
                "eventId": {"type": "string"},
                "stage": {"type": "string", "enum": ["locked", "business_details", "questioning", "complete"]},
                "currentQuestionId": {"type": "integer"},
                "isSaving": {"type": "boolean"},
                "businessDetails": {"$ref": "#/definitions/model.BusinessDetails"},
                "questions": {"type": "array", "items": {"$ref": "#/definitions/model.Question"}},
                "startedAt": {"type": "string"},
                "updatedAt": {"type": "string"}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/v1",
	Schemes:          []string{},
	Title:            "Live Experience API",
	Description:      "Workbook sessions for live founder events.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
