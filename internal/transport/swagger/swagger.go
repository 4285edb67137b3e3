// Package swagger mounts Swagger UI for the embedded OpenAPI document.
package swagger

import (
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"
)

const DocumentPath = "/openapi.yml"

func Handler() http.Handler {
	return httpSwagger.Handler(
		httpSwagger.URL(DocumentPath),
		httpSwagger.DocExpansion("list"),
		httpSwagger.DeepLinking(true),
	)
}
