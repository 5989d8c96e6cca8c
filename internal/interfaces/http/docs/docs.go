// Package docs registers the OpenAPI document served by the Swagger UI.
package docs

import (
	_ "embed"

	"github.com/swaggo/swag/v2"
)

//go:embed openapi.json
var openAPIDocument string

type openAPI struct{}

// ReadDoc returns the OpenAPI document
func (openAPI) ReadDoc() string {
	return openAPIDocument
}

func init() {
	swag.Register(swag.Name, openAPI{})
}
