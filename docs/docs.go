// Package docs registers the OpenAPI description served under /docs.
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
        "/api/v{version}/htmlpage/{id}": {
            "get": {
                "description": "Returns the page content for id, or for idDefault when id is missing or role restricted. Only version 1 exists.",
                "produces": ["application/json"],
                "tags": ["htmlpage"],
                "summary": "Get an HTML page",
                "parameters": [
                    {"type": "integer", "description": "API version", "name": "version", "in": "path", "required": true},
                    {"type": "integer", "description": "Page id", "name": "id", "in": "path", "required": true},
                    {"type": "integer", "description": "Fallback page id", "name": "idDefault", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/types.ContentResponse"}},
                    "404": {"description": "Version not found or Resource not found", "schema": {"$ref": "#/definitions/types.ErrorResponse"}}
                }
            },
            "options": {
                "description": "CORS preflight for the page route.",
                "tags": ["htmlpage"],
                "summary": "Preflight an HTML page request",
                "parameters": [
                    {"type": "integer", "description": "API version", "name": "version", "in": "path", "required": true},
                    {"type": "integer", "description": "Page id", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "204": {"description": "No Content"},
                    "404": {"description": "Version not found", "schema": {"$ref": "#/definitions/types.ErrorResponse"}}
                }
            }
        },
        "/admin/cache/{id}": {
            "delete": {
                "security": [{"BearerAuth": []}],
                "description": "Queues eviction of a cached page.",
                "produces": ["application/json"],
                "tags": ["admin"],
                "summary": "Invalidate a cached page",
                "parameters": [
                    {"type": "integer", "description": "Page id", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "202": {"description": "Accepted", "schema": {"$ref": "#/definitions/types.APIResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/types.APIResponse"}},
                    "401": {"description": "Unauthorized"},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/types.APIResponse"}}
                }
            }
        }
    },
    "definitions": {
        "types.ContentResponse": {
            "type": "object",
            "properties": {"content": {"type": "string"}}
        },
        "types.ErrorResponse": {
            "type": "object",
            "properties": {"status": {"type": "string"}, "message": {"type": "string"}}
        },
        "types.APIError": {
            "type": "object",
            "properties": {"code": {"type": "string"}, "message": {"type": "string"}}
        },
        "types.Meta": {
            "type": "object",
            "properties": {"request_id": {"type": "string"}}
        },
        "types.APIResponse": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "data": {},
                "error": {"$ref": "#/definitions/types.APIError"},
                "meta": {"$ref": "#/definitions/types.Meta"}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/rest/htmlpage",
	Schemes:          []string{},
	Title:            "htmlpage REST API",
	Description:      "Versioned access to CMS HTML pages.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
