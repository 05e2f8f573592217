package persistence

import (
	_ "embed"
	"errors"
	"fmt"
	"strings"

	"github.com/samber/lo"
	"github.com/xeipuuv/gojsonschema"
)

var ErrSchemaViolation = errors.New("catalog does not match schema")

//go:embed catalog.schema.json
var catalogSchemaJSON []byte

var catalogSchema = gojsonschema.NewBytesLoader(catalogSchemaJSON) //nolint:gochecknoglobals

// validateCatalogDocument checks a raw catalog document against the embedded
// JSON schema, reporting every violation at once.
func validateCatalogDocument(raw []byte) error {
	result, err := gojsonschema.Validate(catalogSchema, gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return fmt.Errorf("gojsonschema.Validate: %w", err)
	}

	if !result.Valid() {
		violations := lo.Map(result.Errors(), func(desc gojsonschema.ResultError, _ int) string {
			return desc.String()
		})

		return fmt.Errorf("%w: %s", ErrSchemaViolation, strings.Join(violations, "; "))
	}

	return nil
}
