package parser

import (
	"fmt"
	"os"
	"strings"

	"github.com/moamenhredeen/relcheck/internal/models"
	"github.com/pb33f/libopenapi"
	v3 "github.com/pb33f/libopenapi/datamodel/high/v3"
)

// Parser handles parsing OpenAPI documents of the service under test
type Parser struct {
	document libopenapi.Document
}

// RouteCoverage reports whether the document declares a consumed route
type RouteCoverage struct {
	Route    models.Route
	Declared bool
	// DocPath is the path template as written in the document
	DocPath string
}

// ParseFile parses an OpenAPI specification file and returns a Parser instance
func ParseFile(filePath string) (*Parser, error) {
	specBytes, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read OpenAPI file: %w", err)
	}
	return Parse(specBytes)
}

// Parse parses an OpenAPI document held in memory
func Parse(specBytes []byte) (*Parser, error) {
	document, err := libopenapi.NewDocument(specBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to parse OpenAPI document: %w", err)
	}

	return &Parser{document: document}, nil
}

// GetServerURLs returns the server URLs from the OpenAPI spec
func (p *Parser) GetServerURLs() ([]string, error) {
	model, errs := p.document.BuildV3Model()
	if errs != nil {
		return nil, fmt.Errorf("failed to build v3 model: %v", errs)
	}

	servers := model.Model.Servers
	if len(servers) == 0 {
		return nil, nil
	}

	urls := make([]string, 0, len(servers))
	for _, server := range servers {
		if server != nil && server.URL != "" {
			urls = append(urls, server.URL)
		}
	}

	return urls, nil
}

// GetOperations extracts every declared method and path template
func (p *Parser) GetOperations() ([]models.Route, error) {
	model, errs := p.document.BuildV3Model()
	if errs != nil {
		return nil, fmt.Errorf("failed to build v3 model: %v", errs)
	}

	var routes []models.Route
	paths := model.Model.Paths

	if paths == nil || paths.PathItems == nil {
		return routes, nil
	}

	// Iterate over ordered map
	for pair := paths.PathItems.First(); pair != nil; pair = pair.Next() {
		path := pair.Key()
		item := pair.Value()
		if item == nil {
			continue
		}

		for _, m := range methodsOf(item) {
			if m.op == nil {
				continue
			}
			routes = append(routes, models.Route{
				Method:  m.method,
				Path:    path,
				Purpose: m.op.Summary,
			})
		}
	}

	return routes, nil
}

type methodOp struct {
	method string
	op     *v3.Operation
}

// methodsOf lists the operations of a path item in a fixed order
func methodsOf(item *v3.PathItem) []methodOp {
	return []methodOp{
		{"GET", item.Get},
		{"POST", item.Post},
		{"PUT", item.Put},
		{"PATCH", item.Patch},
		{"DELETE", item.Delete},
		{"HEAD", item.Head},
		{"OPTIONS", item.Options},
	}
}

// CheckRoutes reports, for every wanted route, whether the document declares
// it. Path parameter names are not compared.
func (p *Parser) CheckRoutes(wanted []models.Route) ([]RouteCoverage, error) {
	declared, err := p.GetOperations()
	if err != nil {
		return nil, err
	}

	index := make(map[string]string, len(declared))
	for _, r := range declared {
		index[routeKey(r.Method, r.Path)] = r.Path
	}

	coverage := make([]RouteCoverage, 0, len(wanted))
	for _, r := range wanted {
		docPath, ok := index[routeKey(r.Method, r.Path)]
		coverage = append(coverage, RouteCoverage{Route: r, Declared: ok, DocPath: docPath})
	}
	return coverage, nil
}

func routeKey(method, path string) string {
	return strings.ToUpper(method) + " " + NormalizePath(path)
}

// NormalizePath blanks out path parameter names and drops a trailing slash,
// so /api/products/{id} and /api/products/{productId}/ compare equal.
func NormalizePath(path string) string {
	var b strings.Builder
	inParam := false
	for _, r := range path {
		switch {
		case r == '{':
			inParam = true
			b.WriteString("{}")
		case r == '}':
			inParam = false
		case !inParam:
			b.WriteRune(r)
		}
	}
	out := b.String()
	if len(out) > 1 {
		out = strings.TrimSuffix(out, "/")
	}
	return out
}
