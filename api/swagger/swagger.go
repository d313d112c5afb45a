package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "EventShare API",
        "description": "Event scheduling backend: events, categories, spaces and statuses.",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Events", "description": "Event queries and mutations"},
        {"name": "Images", "description": "Stored event images"}
    ],
    "paths": {
        "/events": {
            "get": {
                "tags": ["Events"],
                "summary": "List events",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "500": {"description": "Internal error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Events"],
                "summary": "Create event",
                "consumes": ["multipart/form-data", "application/x-www-form-urlencoded"],
                "parameters": [
                    {"name": "EventoNome", "in": "formData", "type": "string", "required": true},
                    {"name": "EventoData", "in": "formData", "type": "string", "required": true},
                    {"name": "EventoHorarioComeco", "in": "formData", "type": "string", "required": true},
                    {"name": "EventoHorarioFim", "in": "formData", "type": "string", "required": true},
                    {"name": "EventoDescricao", "in": "formData", "type": "string", "required": false},
                    {"name": "EventoCategoriaId", "in": "formData", "type": "integer", "required": true},
                    {"name": "EventoEspacoId", "in": "formData", "type": "integer", "required": true},
                    {"name": "EventoStatusId", "in": "formData", "type": "integer", "required": true},
                    {"name": "CriadorUsuarioId", "in": "formData", "type": "integer", "required": true},
                    {"name": "ResponsavelUsuarioId", "in": "formData", "type": "integer", "required": true},
                    {"name": "EventoImagem", "in": "formData", "type": "file"}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Invalid payload", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "put": {
                "tags": ["Events"],
                "summary": "Update event",
                "consumes": ["multipart/form-data", "application/x-www-form-urlencoded"],
                "parameters": [
                    {"name": "EventoId", "in": "formData", "type": "integer", "required": true},
                    {"name": "EventoNome", "in": "formData", "type": "string", "required": true},
                    {"name": "EventoData", "in": "formData", "type": "string", "required": true},
                    {"name": "EventoHorarioComeco", "in": "formData", "type": "string", "required": true},
                    {"name": "EventoHorarioFim", "in": "formData", "type": "string", "required": true},
                    {"name": "EventoDescricao", "in": "formData", "type": "string", "required": false},
                    {"name": "EventoCategoriaId", "in": "formData", "type": "integer", "required": true},
                    {"name": "EventoEspacoId", "in": "formData", "type": "integer", "required": true},
                    {"name": "EventoStatusId", "in": "formData", "type": "integer", "required": false},
                    {"name": "CriadorUsuarioId", "in": "formData", "type": "integer", "required": false},
                    {"name": "ResponsavelUsuarioId", "in": "formData", "type": "integer", "required": false},
                    {"name": "EventoImagem", "in": "formData", "type": "file"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Invalid payload", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/events/{name}": {
            "get": {
                "tags": ["Events"],
                "summary": "Get event by exact name",
                "parameters": [
                    {"name": "name", "in": "path", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "500": {"description": "Internal error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/events/{id}": {
            "delete": {
                "tags": ["Events"],
                "summary": "Delete event",
                "parameters": [
                    {"name": "id", "in": "path", "type": "integer", "required": true}
                ],
                "responses": {
                    "200": {"description": "Deleted event", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Invalid id", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/events/busca/{keyword}": {
            "get": {
                "tags": ["Events"],
                "summary": "Search events by name substring",
                "parameters": [
                    {"name": "keyword", "in": "path", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "500": {"description": "Internal error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/events/categoria/{id}": {
            "get": {
                "tags": ["Events"],
                "summary": "List events of a category",
                "parameters": [
                    {"name": "id", "in": "path", "type": "integer", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Invalid parameter", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "500": {"description": "Internal error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/events/evento/espaco/{date}": {
            "get": {
                "tags": ["Events"],
                "summary": "List spaces of events not held on a date",
                "parameters": [
                    {"name": "date", "in": "path", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Invalid parameter", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "500": {"description": "Internal error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/events/data/{date}": {
            "get": {
                "tags": ["Events"],
                "summary": "List events held on a date",
                "parameters": [
                    {"name": "date", "in": "path", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Invalid parameter", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "500": {"description": "Internal error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/events/status/{status}": {
            "get": {
                "tags": ["Events"],
                "summary": "List events by status name fragment",
                "parameters": [
                    {"name": "status", "in": "path", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "500": {"description": "Internal error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/images/{path}": {
            "get": {
                "tags": ["Images"],
                "summary": "Download event image",
                "produces": ["application/octet-stream"],
                "parameters": [
                    {"name": "path", "in": "path", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "Image bytes"},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "Category": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "name": {"type": "string"}
            }
        },
        "Status": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "name": {"type": "string"}
            }
        },
        "User": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "name": {"type": "string"},
                "email": {"type": "string"}
            }
        },
        "Space": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "name": {"type": "string"},
                "capacity": {"type": "integer"}
            }
        },
        "Event": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "name": {"type": "string"},
                "date": {"type": "string", "format": "date"},
                "start_time": {"type": "string"},
                "end_time": {"type": "string"},
                "description": {"type": "string"},
                "category_id": {"type": "integer"},
                "space_id": {"type": "integer"},
                "status_id": {"type": "integer"},
                "creator_user_id": {"type": "integer"},
                "responsible_user_id": {"type": "integer"},
                "image": {"type": "string"},
                "category": {"$ref": "#/definitions/Category"},
                "space": {"$ref": "#/definitions/Space"},
                "status": {"$ref": "#/definitions/Status"},
                "creator_user": {"$ref": "#/definitions/User"},
                "responsible_user": {"$ref": "#/definitions/User"}
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "meta": {"type": "object"}
            }
        }
    }
}`

type swaggerDoc struct{}

// ReadDoc returns the Swagger document.
func (s *swaggerDoc) ReadDoc() string {
	return docTemplate
}

func init() {
	swag.Register(swag.Name, &swaggerDoc{})
}
