package swagger

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"net/http"

	"github.com/go-chi/chi/v5"

	apicontract "github.com/tuanvumaihuynh/techstore-catalog/api-contract"
)

const (
	docsPath = "/docs"
	yamlPath = "/docs/openapi.yml"
	jsonPath = "/docs/openapi.json"

	uiVersion = "5.29.3"
)

var page = template.Must(template.New("docs").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="utf-8" />
  <meta name="viewport" content="width=device-width, initial-scale=1" />
  <title>{{.Title}}</title>
  <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@{{.UIVersion}}/swagger-ui.css" />
</head>
<body>
<div id="swagger-ui"></div>
<script src="https://unpkg.com/swagger-ui-dist@{{.UIVersion}}/swagger-ui-bundle.js" crossorigin></script>
<script>
  window.onload = () => {
    window.ui = SwaggerUIBundle({
      url: {{.SpecURL}},
      dom_id: '#swagger-ui',
      deepLinking: true,
    });
  };
</script>
</body>
</html>
`))

// Register mounts the Swagger UI and the catalog contract in YAML and JSON.
// The embedded contract is validated first so a broken document fails at
// startup instead of in the browser.
func Register(ctx context.Context, r chi.Router) error {
	doc, err := apicontract.Load(ctx)
	if err != nil {
		return err
	}

	jsonBytes, err := doc.MarshalJSON()
	if err != nil {
		return fmt.Errorf("marshal openapi spec: %w", err)
	}

	var html bytes.Buffer
	err = page.Execute(&html, map[string]string{
		"Title":     doc.Info.Title,
		"UIVersion": uiVersion,
		"SpecURL":   yamlPath,
	})
	if err != nil {
		return fmt.Errorf("render docs page: %w", err)
	}

	r.Get(docsPath, serveBytes("text/html; charset=utf-8", html.Bytes()))
	r.Get(yamlPath, serveBytes("application/yaml", apicontract.GetSpecBytes()))
	r.Get(jsonPath, serveBytes("application/json", jsonBytes))

	return nil
}

func serveBytes(contentType string, body []byte) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", contentType)
		w.WriteHeader(http.StatusOK)
		//nolint:errcheck
		w.Write(body)
	}
}
