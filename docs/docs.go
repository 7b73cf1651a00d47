// Package docs registers the OpenAPI description served at /swagger.
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
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "paths": {
        "/menu": {
            "get": {
                "tags": ["menu"],
                "summary": "Browse available menu items",
                "parameters": [
                    {"type": "string", "name": "search", "in": "query"},
                    {"type": "string", "name": "category", "in": "query"}
                ],
                "responses": {"200": {"description": "Filtered menu and categories"}}
            }
        },
        "/menu/items/{id}": {
            "get": {
                "tags": ["menu"],
                "summary": "Get a menu item",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "Menu item"}, "404": {"description": "Not found"}}
            }
        },
        "/menu/cart": {
            "get": {"tags": ["cart"], "summary": "Current cart", "responses": {"200": {"description": "Cart view"}}},
            "delete": {"tags": ["cart"], "summary": "Empty the cart", "responses": {"204": {"description": "Cleared"}}}
        },
        "/menu/cart/items": {
            "post": {
                "tags": ["cart"],
                "summary": "Add a menu item, or bump its quantity",
                "responses": {"200": {"description": "Cart view"}, "409": {"description": "Item unavailable"}}
            }
        },
        "/menu/cart/items/{id}": {
            "patch": {
                "tags": ["cart"],
                "summary": "Set quantity; zero or less removes the item",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "Cart view"}}
            },
            "delete": {
                "tags": ["cart"],
                "summary": "Remove an item",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "Cart view"}}
            }
        },
        "/menu/checkout": {
            "post": {
                "tags": ["orders"],
                "summary": "Place a pending order from the cart",
                "responses": {"201": {"description": "Order and confirmation path"}, "400": {"description": "Empty cart or bad table number"}}
            }
        },
        "/menu/success/{id}": {
            "get": {
                "tags": ["orders"],
                "summary": "Order confirmation",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "Order"}, "404": {"description": "Not found"}}
            }
        },
        "/admin/login": {
            "post": {"tags": ["auth"], "summary": "Staff sign in", "responses": {"200": {"description": "Access token"}, "401": {"description": "Invalid credentials"}, "429": {"description": "Too many attempts"}}}
        },
        "/admin/logout": {
            "post": {"tags": ["auth"], "security": [{"BearerAuth": []}], "summary": "End the session", "responses": {"204": {"description": "Signed out"}}}
        },
        "/admin/session": {
            "get": {"tags": ["auth"], "security": [{"BearerAuth": []}], "summary": "Current staff session", "responses": {"200": {"description": "Session"}}}
        },
        "/admin/dashboard": {
            "get": {"tags": ["dashboard"], "security": [{"BearerAuth": []}], "summary": "Active orders and statistics", "responses": {"200": {"description": "Dashboard snapshot"}}}
        },
        "/admin/dashboard/stream": {
            "get": {"tags": ["dashboard"], "summary": "Websocket of dashboard snapshots; token in the query", "responses": {"101": {"description": "Switching protocols"}}}
        },
        "/admin/orders/{id}/status": {
            "patch": {
                "tags": ["dashboard"],
                "security": [{"BearerAuth": []}],
                "summary": "Advance an order's status",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "Settled"}, "409": {"description": "Rejected transition"}, "502": {"description": "Rolled back"}}
            }
        },
        "/admin/orders/reset": {
            "post": {"tags": ["dashboard"], "security": [{"BearerAuth": []}], "summary": "Delete every order; requires confirm=true", "responses": {"200": {"description": "Deleted count"}}}
        },
        "/admin/menu": {
            "get": {"tags": ["admin-menu"], "security": [{"BearerAuth": []}], "summary": "All menu items", "responses": {"200": {"description": "Items and categories"}}},
            "post": {"tags": ["admin-menu"], "security": [{"BearerAuth": []}], "summary": "Create a menu item", "responses": {"201": {"description": "Created"}, "400": {"description": "Validation failed"}}}
        },
        "/admin/menu/{id}": {
            "put": {"tags": ["admin-menu"], "security": [{"BearerAuth": []}], "summary": "Update a menu item", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "Updated"}}},
            "delete": {"tags": ["admin-menu"], "security": [{"BearerAuth": []}], "summary": "Delete a menu item; requires confirm=true", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}, {"type": "boolean", "name": "confirm", "in": "query"}], "responses": {"204": {"description": "Deleted"}}}
        },
        "/admin/menu/{id}/form": {
            "get": {"tags": ["admin-menu"], "security": [{"BearerAuth": []}], "summary": "Edit form prefilled from the item", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "Form"}}}
        },
        "/admin/menu/{id}/availability": {
            "patch": {"tags": ["admin-menu"], "security": [{"BearerAuth": []}], "summary": "Toggle availability", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "Updated"}}}
        },
        "/admin/menu/images": {
            "post": {
                "tags": ["admin-menu"],
                "security": [{"BearerAuth": []}],
                "summary": "Upload a menu image (image/*, at most 5MB)",
                "consumes": ["multipart/form-data"],
                "parameters": [{"type": "file", "name": "image", "in": "formData", "required": true}],
                "responses": {"201": {"description": "Public image URL"}, "400": {"description": "Not an image or too large"}}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/v1",
	Schemes:          []string{},
	Title:            "Oona restaurant ordering API",
	Description:      "Menu, cart and checkout for customers; order dashboard and menu management for staff.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
