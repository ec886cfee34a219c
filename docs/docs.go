// Package docs registers the generated OpenAPI document with swag.
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
        "/health": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Health"],
                "summary": "Health Check",
                "responses": {
                    "200": {
                        "description": "API is healthy",
                        "schema": {"type": "object", "additionalProperties": true}
                    }
                }
            }
        },
        "/webhook/github": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["text/plain"],
                "tags": ["Webhook"],
                "summary": "GitHub push/delete webhook",
                "responses": {
                    "200": {"description": "Event processed or acknowledged", "schema": {"type": "string"}},
                    "400": {"description": "Resolution or lifecycle failure", "schema": {"type": "string"}},
                    "500": {"description": "Delivery failure", "schema": {"type": "string"}}
                }
            }
        },
        "/interactions": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Commands"],
                "summary": "Discord interactions endpoint",
                "responses": {
                    "200": {"description": "Interaction response", "schema": {"type": "object", "additionalProperties": true}}
                }
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it.
var SwaggerInfo = &swag.Spec{
	Version:          "1",
	Host:             "localhost:3000",
	BasePath:         "",
	Schemes:          []string{"http"},
	Title:            "Gitcord Relay API",
	Description:      "GitHub to Discord branch-channel relay.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
