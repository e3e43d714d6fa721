// Package docs registers the OpenAPI description served at /swagger.
// Regenerate with `swag init` after changing handler annotations.
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
        "/api/health": {"get": {"tags": ["Health"], "summary": "Health check", "responses": {"200": {"description": "OK"}, "503": {"description": "Service Unavailable"}}}},
        "/api/auth/otp": {"post": {"tags": ["Auth"], "summary": "Request a sign-in code", "responses": {"202": {"description": "Accepted"}, "400": {"description": "Bad Request"}}}},
        "/api/auth/verify": {"post": {"tags": ["Auth"], "summary": "Verify a sign-in code", "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}}}},
        "/api/auth/me": {"get": {"tags": ["Auth"], "summary": "Current identity", "responses": {"200": {"description": "OK"}}}},
        "/api/auth/session": {"delete": {"tags": ["Auth"], "summary": "Sign out", "responses": {"200": {"description": "OK"}}}},
        "/api/boards": {
            "get": {"tags": ["Boards"], "summary": "List own boards", "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}, "403": {"description": "Forbidden"}}},
            "post": {"tags": ["Boards"], "summary": "Create a board", "responses": {"201": {"description": "Created"}, "400": {"description": "Bad Request"}, "409": {"description": "Conflict"}}}
        },
        "/api/boards/{slug}": {
            "get": {"tags": ["Boards"], "summary": "Get a board", "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}},
            "patch": {"tags": ["Boards"], "summary": "Update a board", "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}, "409": {"description": "Conflict"}}},
            "delete": {"tags": ["Boards"], "summary": "Delete a board", "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}}}
        },
        "/api/boards/{slug}/settings": {"get": {"tags": ["Boards"], "summary": "Get board settings", "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}}},
        "/api/boards/{slug}/feedback": {"get": {"tags": ["Feedback"], "summary": "List approved feedback", "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}}},
        "/api/boards/{slug}/dashboard": {"get": {"tags": ["Feedback"], "summary": "List feedback for the owner", "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}}}},
        "/api/feedback": {"post": {"tags": ["Feedback"], "summary": "Submit feedback", "responses": {"201": {"description": "Created"}, "400": {"description": "Bad Request"}, "404": {"description": "Not Found"}}}},
        "/api/feedback/{id}": {
            "get": {"tags": ["Feedback"], "summary": "Get feedback", "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}},
            "delete": {"tags": ["Feedback"], "summary": "Delete feedback", "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}}}
        },
        "/api/feedback/{id}/approve": {"post": {"tags": ["Feedback"], "summary": "Approve feedback", "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}}}},
        "/api/feedback/{id}/status": {"patch": {"tags": ["Feedback"], "summary": "Set feedback status", "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}}}},
        "/api/feedback/{id}/vote": {
            "post": {"tags": ["Votes"], "summary": "Toggle vote", "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}}},
            "get": {"tags": ["Votes"], "summary": "Has voted", "responses": {"200": {"description": "OK"}}}
        },
        "/api/votes/lookup": {"post": {"tags": ["Votes"], "summary": "Voted map for a page of feedback", "responses": {"200": {"description": "OK"}}}},
        "/api/feedback/{id}/comments": {
            "get": {"tags": ["Comments"], "summary": "List comments", "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}},
            "post": {"tags": ["Comments"], "summary": "Create a comment", "responses": {"201": {"description": "Created"}, "401": {"description": "Unauthorized"}}}
        },
        "/api/feedback/{id}/comments/count": {"get": {"tags": ["Comments"], "summary": "Count comments", "responses": {"200": {"description": "OK"}}}},
        "/api/comments/{id}": {
            "patch": {"tags": ["Comments"], "summary": "Edit a comment", "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}}},
            "delete": {"tags": ["Comments"], "summary": "Delete a comment", "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}}}
        },
        "/api/comments/{id}/official": {"post": {"tags": ["Comments"], "summary": "Mark a comment official", "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}}}},
        "/ws": {"get": {"tags": ["realtime"], "summary": "Subscribe to board events", "responses": {"101": {"description": "Switching Protocols"}, "404": {"description": "Not Found"}}}}
    }
}`

var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Feedback Board API",
	Description:      "Multi-tenant customer feedback boards.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
