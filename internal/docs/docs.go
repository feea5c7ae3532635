// Package docs registers the Address Search API description with swag so
// gin-swagger can serve it.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
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
        "/health": {
            "get": {
                "produces": ["application/json"],
                "summary": "Liveness check",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/search": {
            "get": {
                "produces": ["application/json"],
                "summary": "Search an address across all lookup sources",
                "parameters": [
                    {"type": "string", "description": "address text", "name": "q", "in": "query", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.searchResponse"}},
                    "400": {"description": "Bad Request"},
                    "500": {"description": "Internal Server Error"}
                }
            }
        },
        "/location": {
            "get": {
                "produces": ["application/json"],
                "summary": "Most recent known location",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/models.Coordinate"}}}
            },
            "put": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "summary": "Update the most recent known location",
                "parameters": [
                    {"description": "coordinate", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/models.Coordinate"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.Coordinate"}},
                    "400": {"description": "Bad Request"}
                }
            }
        },
        "/ws/search": {
            "get": {
                "summary": "Live search session over WebSocket",
                "responses": {"101": {"description": "Switching Protocols"}}
            }
        }
    },
    "definitions": {
        "models.Coordinate": {
            "type": "object",
            "properties": {
                "latitude": {"type": "number"},
                "longitude": {"type": "number"}
            }
        },
        "models.Placemark": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "country": {"type": "string"},
                "administrativeArea": {"type": "string"},
                "subAdministrativeArea": {"type": "string"},
                "locality": {"type": "string"},
                "subLocality": {"type": "string"},
                "thoroughfare": {"type": "string"},
                "subThoroughfare": {"type": "string"},
                "latitude": {"type": "number"},
                "longitude": {"type": "number"}
            }
        },
        "models.Buckets": {
            "type": "object",
            "properties": {
                "addressString": {"type": "array", "items": {"$ref": "#/definitions/models.Placemark"}},
                "postalAddress": {"type": "array", "items": {"$ref": "#/definitions/models.Placemark"}},
                "regionSearch": {"type": "array", "items": {"$ref": "#/definitions/models.Placemark"}}
            }
        },
        "service.Section": {
            "type": "object",
            "properties": {
                "source": {"type": "string"},
                "title": {"type": "string"},
                "rows": {"type": "array", "items": {"type": "string"}},
                "empty": {"type": "boolean"}
            }
        },
        "handler.searchResponse": {
            "type": "object",
            "properties": {
                "query": {"type": "string"},
                "generation": {"type": "integer"},
                "rateLimited": {"type": "boolean"},
                "buckets": {"$ref": "#/definitions/models.Buckets"},
                "sections": {"type": "array", "items": {"$ref": "#/definitions/service.Section"}}
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
	Title:            "Address Search API",
	Description:      "Searches an address across an address-string geocoder, a structured postal geocoder and a regional text search.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
