// Package docs holds the swagger document served at /swagger/*.
// It follows the layout swag init produces; regenerate with `swag init -g cmd/api/main.go`.
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
        "/get-folders": {
            "get": {
                "produces": ["application/json"],
                "tags": ["folders"],
                "summary": "List folders",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/model.Folder"}}}
                }
            }
        },
        "/upload-folder": {
            "post": {
                "consumes": ["multipart/form-data"],
                "produces": ["application/json"],
                "tags": ["folders"],
                "summary": "Upload a folder of PDFs",
                "parameters": [
                    {"type": "string", "description": "Folder name", "name": "folderName", "in": "formData", "required": true},
                    {"type": "file", "description": "PDF files", "name": "files[]", "in": "formData", "required": true}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/model.Folder"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.errorPayload"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/handler.errorPayload"}}
                }
            }
        },
        "/delete-folder/{id}": {
            "delete": {
                "tags": ["folders"],
                "summary": "Delete a folder",
                "parameters": [{"type": "string", "description": "Folder id", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.errorPayload"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.errorPayload"}}
                }
            }
        },
        "/get-pdfs": {
            "get": {
                "produces": ["application/json"],
                "tags": ["pdfs"],
                "summary": "List PDFs of a folder, or of every folder when folder is empty",
                "parameters": [{"type": "string", "description": "Folder name or id", "name": "folder", "in": "query"}],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/model.PDF"}}}
                }
            }
        },
        "/upload-pdf": {
            "post": {
                "consumes": ["multipart/form-data"],
                "produces": ["application/json"],
                "tags": ["pdfs"],
                "summary": "Upload one PDF",
                "parameters": [
                    {"type": "file", "description": "PDF file", "name": "pdf", "in": "formData", "required": true},
                    {"type": "string", "description": "Folder name, defaults to Unsorted", "name": "folder", "in": "formData"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/model.PDF"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.errorPayload"}}
                }
            }
        },
        "/start-snip": {
            "post": {
                "consumes": ["multipart/form-data"],
                "produces": ["application/json"],
                "tags": ["capture"],
                "summary": "Take a screenshot",
                "parameters": [{"type": "string", "description": "Folder name or id", "name": "folder", "in": "formData", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.startSnipResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.errorPayload"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/handler.errorPayload"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/handler.errorPayload"}}
                }
            }
        },
        "/save-snip": {
            "post": {
                "consumes": ["multipart/form-data"],
                "produces": ["application/json"],
                "tags": ["snips"],
                "summary": "Save a snip",
                "parameters": [
                    {"type": "file", "description": "Image", "name": "snip", "in": "formData", "required": true},
                    {"type": "string", "description": "Folder name or id", "name": "folder", "in": "formData", "required": true},
                    {"type": "string", "description": "Title", "name": "title", "in": "formData", "required": true},
                    {"type": "string", "description": "Description", "name": "description", "in": "formData"},
                    {"type": "string", "description": "Capture time, YYYY-MM-DD HH:MM:SS", "name": "timestamp", "in": "formData", "required": true}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/model.Snip"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.errorPayload"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.errorPayload"}}
                }
            }
        },
        "/get-snips": {
            "get": {
                "produces": ["application/json"],
                "tags": ["snips"],
                "summary": "List the snips of a folder, newest first",
                "parameters": [{"type": "string", "description": "Folder name or id", "name": "folder", "in": "query", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/model.Snip"}}}
                }
            }
        },
        "/delete-snip/{id}": {
            "delete": {
                "tags": ["snips"],
                "summary": "Delete a snip",
                "parameters": [{"type": "string", "description": "Snip id", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.errorPayload"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.errorPayload"}}
                }
            }
        },
        "/get-highlights": {
            "get": {
                "produces": ["application/json"],
                "tags": ["highlights"],
                "summary": "List the highlights recorded against a PDF url",
                "parameters": [{"type": "string", "description": "PDF url", "name": "pdf", "in": "query", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/model.Highlight"}}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.errorPayload"}}
                }
            }
        },
        "/save-highlight": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["highlights"],
                "summary": "Save a batch of highlights in one transaction",
                "parameters": [{"description": "Highlights", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.saveHighlightsRequest"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.saveHighlightsResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.errorPayload"}}
                }
            }
        },
        "/uploads/{folder}/{filename}": {
            "get": {
                "produces": ["application/pdf"],
                "tags": ["pdfs"],
                "summary": "Download a stored PDF",
                "parameters": [
                    {"type": "string", "description": "Folder name", "name": "folder", "in": "path", "required": true},
                    {"type": "string", "description": "File name", "name": "filename", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "file"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.errorPayload"}}
                }
            }
        },
        "/uploads/{folder}/snips/{filename}": {
            "get": {
                "produces": ["image/png"],
                "tags": ["snips"],
                "summary": "Download a snip image",
                "parameters": [
                    {"type": "string", "description": "Folder name", "name": "folder", "in": "path", "required": true},
                    {"type": "string", "description": "File name", "name": "filename", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "file"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.errorPayload"}}
                }
            }
        },
        "/captures/{name}": {
            "get": {
                "produces": ["image/png"],
                "tags": ["capture"],
                "summary": "Download a staged capture",
                "parameters": [{"type": "string", "description": "Capture name", "name": "name", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "file"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.errorPayload"}}
                }
            }
        }
    },
    "definitions": {
        "handler.errorEnvelope": {
            "type": "object",
            "properties": {"code": {"type": "string"}, "message": {"type": "string"}}
        },
        "handler.errorPayload": {
            "type": "object",
            "properties": {"error": {"$ref": "#/definitions/handler.errorEnvelope"}, "request_id": {"type": "string"}}
        },
        "handler.saveHighlightsRequest": {
            "type": "object",
            "properties": {"highlights": {"type": "array", "items": {"$ref": "#/definitions/model.Highlight"}}}
        },
        "handler.saveHighlightsResponse": {
            "type": "object",
            "properties": {"saved": {"type": "integer"}, "status": {"type": "string"}}
        },
        "handler.startSnipResponse": {
            "type": "object",
            "properties": {"file_path": {"type": "string"}}
        },
        "model.Folder": {
            "type": "object",
            "properties": {
                "fileCount": {"type": "integer"},
                "id": {"type": "string"},
                "name": {"type": "string"},
                "path": {"type": "string"},
                "uploadDate": {"type": "string"}
            }
        },
        "model.PDF": {
            "type": "object",
            "properties": {"filename": {"type": "string"}, "url": {"type": "string"}}
        },
        "model.Point": {
            "type": "object",
            "properties": {"x": {"type": "number"}, "y": {"type": "number"}}
        },
        "model.Highlight": {
            "type": "object",
            "properties": {
                "end": {"$ref": "#/definitions/model.Point"},
                "pdf": {"type": "string"},
                "start": {"$ref": "#/definitions/model.Point"},
                "text": {"type": "string"}
            }
        },
        "model.Snip": {
            "type": "object",
            "properties": {
                "created_at": {"type": "string"},
                "description": {"type": "string"},
                "filename": {"type": "string"},
                "folder": {"type": "string"},
                "id": {"type": "string"},
                "timestamp": {"type": "string"},
                "title": {"type": "string"},
                "url": {"type": "string"}
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
	Title:            "snipdesk API",
	Description:      "Folders, PDFs, snips and highlights for the snipdesk desktop client.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
