// Package docs holds the OpenAPI document served by the swagger route.
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
        "/chat/{sessionID}/messages": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Chat"],
                "summary": "Get session state",
                "parameters": [
                    {"type": "string", "name": "sessionID", "in": "path", "required": true}
                ],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/chat/{sessionID}/chat": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Chat"],
                "summary": "Submit a message",
                "parameters": [
                    {"type": "string", "name": "sessionID", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "400": {"description": "Bad Request"},
                    "409": {"description": "Conflict"},
                    "500": {"description": "Internal Server Error"}
                }
            }
        },
        "/chat/{sessionID}/clear": {
            "delete": {
                "produces": ["application/json"],
                "tags": ["Chat"],
                "summary": "Clear session history",
                "parameters": [
                    {"type": "string", "name": "sessionID", "in": "path", "required": true}
                ],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/chat/{sessionID}/model": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Chat"],
                "summary": "Switch session model",
                "parameters": [
                    {"type": "string", "name": "sessionID", "in": "path", "required": true}
                ],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}}
            }
        },
        "/sessions": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Sessions"],
                "summary": "List sessions",
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Sessions"],
                "summary": "Register a session",
                "responses": {"200": {"description": "OK"}}
            },
            "delete": {
                "produces": ["application/json"],
                "tags": ["Sessions"],
                "summary": "Delete all sessions",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/sessions/stats": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Sessions"],
                "summary": "Session statistics",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/sessions/{sessionID}": {
            "delete": {
                "produces": ["application/json"],
                "tags": ["Sessions"],
                "summary": "Delete a session",
                "parameters": [
                    {"type": "string", "name": "sessionID", "in": "path", "required": true}
                ],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}
            }
        },
        "/sessions/{sessionID}/title": {
            "put": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Sessions"],
                "summary": "Update a session title",
                "parameters": [
                    {"type": "string", "name": "sessionID", "in": "path", "required": true}
                ],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}
            }
        },
        "/search": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Search"],
                "summary": "Search indexed messages",
                "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}}
            }
        },
        "/records": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Search"],
                "summary": "List persisted turn record keys",
                "responses": {"200": {"description": "OK"}}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it.
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api",
	Schemes:          []string{},
	Title:            "vectorchat API",
	Description:      "Per-session conversational actor backend with streaming replies and best-effort persistence fan-out.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
