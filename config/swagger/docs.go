// Package swagger registers the API description served under /swagger.
// Regenerate with: swag init -o config/swagger
package swagger

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
        "/ping": {
            "get": {
                "description": "Returns a basic message",
                "produces": ["application/json"],
                "tags": ["test"],
                "summary": "Endpoint just pings the server",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/api/session": {
            "get": {
                "description": "Returns the view this browser should open on, from its session cookie",
                "produces": ["application/json"],
                "tags": ["session"],
                "summary": "Resolve the startup view",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/api/rooms": {
            "post": {
                "description": "Allocates a unique 6 character code and makes this browser the facilitator",
                "produces": ["application/json"],
                "tags": ["rooms"],
                "summary": "Create a room",
                "responses": {
                    "201": {"description": "Created"},
                    "409": {"description": "Conflict"},
                    "503": {"description": "Service Unavailable"}
                }
            }
        },
        "/api/rooms/join": {
            "post": {
                "description": "Registers this browser as a participant of the active room with the given code",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["rooms"],
                "summary": "Join a room",
                "parameters": [
                    {
                        "description": "Participant name and room code",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "type": "object",
                            "properties": {
                                "name": {"type": "string"},
                                "room_code": {"type": "string"}
                            }
                        }
                    }
                ],
                "responses": {
                    "201": {"description": "Created"},
                    "400": {"description": "Bad Request"},
                    "404": {"description": "Not Found"},
                    "409": {"description": "Conflict"}
                }
            }
        },
        "/rooms/{code}/qr": {
            "get": {
                "description": "PNG image of the join link for the room code",
                "produces": ["image/png"],
                "tags": ["rooms"],
                "summary": "QR code for joining a room",
                "parameters": [
                    {"type": "string", "description": "Room code", "name": "code", "in": "path", "required": true}
                ],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}}
            }
        },
        "/api/choice": {
            "get": {
                "description": "Loads the participant's record",
                "produces": ["application/json"],
                "tags": ["choice"],
                "summary": "Enter the choice view",
                "responses": {"200": {"description": "OK"}, "503": {"description": "Service Unavailable"}}
            },
            "post": {
                "description": "Records cooperate or defect for this browser's participant",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["choice"],
                "summary": "Submit a choice",
                "parameters": [
                    {
                        "description": "cooperate or defect",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"type": "object", "properties": {"choice": {"type": "string"}}}
                    }
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "400": {"description": "Bad Request"},
                    "409": {"description": "Conflict"}
                }
            },
            "delete": {
                "description": "Returns the participant to unset; only on deployments with the resettable policy",
                "produces": ["application/json"],
                "tags": ["choice"],
                "summary": "Reset the choice",
                "responses": {"200": {"description": "OK"}, "409": {"description": "Conflict"}}
            }
        },
        "/api/choice/leave": {
            "post": {
                "description": "Forgets the joined room on this browser",
                "produces": ["application/json"],
                "tags": ["choice"],
                "summary": "Leave the room",
                "responses": {"200": {"description": "OK"}, "503": {"description": "Service Unavailable"}}
            }
        },
        "/api/dashboard": {
            "get": {
                "description": "Resolves the room from the query or the session and returns its participants, aggregates and a stream token",
                "produces": ["application/json"],
                "tags": ["dashboard"],
                "summary": "Enter the facilitator dashboard",
                "parameters": [
                    {"type": "string", "description": "Room code", "name": "room", "in": "query"}
                ],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}
            }
        },
        "/api/dashboard/close": {
            "post": {
                "description": "Deactivates the facilitated room; requires confirm=true",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["dashboard"],
                "summary": "Close the room",
                "parameters": [
                    {
                        "description": "Confirmation",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"type": "object", "properties": {"confirm": {"type": "boolean"}}}
                    }
                ],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}}
            }
        },
        "/api/dashboard/new": {
            "post": {
                "description": "Forgets the facilitated room without closing it",
                "produces": ["application/json"],
                "tags": ["dashboard"],
                "summary": "Start over with a new room",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/ws/dashboard": {
            "get": {
                "description": "Websocket that pushes a full room snapshot after every participant change",
                "tags": ["dashboard"],
                "summary": "Live dashboard stream",
                "parameters": [
                    {"type": "string", "description": "stream_token from GET /api/dashboard", "name": "token", "in": "query", "required": true}
                ],
                "responses": {"101": {"description": "Switching Protocols"}, "401": {"description": "Unauthorized"}}
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
	Title:            "Dilemma API",
	Description:      "Gin-Gonic server for live Prisoner's Dilemma rooms",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
