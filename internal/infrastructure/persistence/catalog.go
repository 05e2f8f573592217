package persistence

import (
	"fmt"
	"io"
	"os"

	"github.com/go-playground/validator/v10"

	"shaftmatch/internal/domain"
	"shaftmatch/internal/domain/entity"
	"shaftmatch/pkg/errcodes"
)

var validate = validator.New(validator.WithRequiredStructEnabled()) //nolint:gochecknoglobals // skip

// BuildCatalog validates raw records and assembles them into a catalog.
func BuildCatalog(shafts []entity.Shaft) (*entity.Catalog, error) {
	for i := range shafts {
		if err := validate.Struct(shafts[i]); err != nil {
			return nil, domain.WrapError(err, errcodes.InvalidCatalog, fmt.Sprintf("shaft #%d (%q) is invalid", i, shafts[i].Model))
		}
	}

	catalog, err := entity.NewCatalog(shafts)
	if err != nil {
		return nil, domain.WrapError(err, errcodes.InvalidCatalog, "failed to build catalog")
	}

	return catalog, nil
}

// ReadShafts decodes a JSON array of shaft records after checking it against
// the catalog schema.
func ReadShafts(r io.Reader) ([]entity.Shaft, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("io.ReadAll: %w", err)
	}

	if err := validateCatalogDocument(raw); err != nil {
		return nil, domain.WrapError(err, errcodes.InvalidCatalog, "catalog failed schema validation")
	}

	var shafts []entity.Shaft

	if err := json.Unmarshal(raw, &shafts); err != nil {
		return nil, domain.WrapError(err, errcodes.InvalidCatalog, "failed to decode catalog")
	}

	return shafts, nil
}

// LoadCatalogFile reads and validates a JSON catalog from path.
func LoadCatalogFile(path string) (*entity.Catalog, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("os.Open: %w", err)
	}
	defer fh.Close()

	shafts, err := ReadShafts(fh)
	if err != nil {
		return nil, fmt.Errorf("ReadShafts(%s): %w", path, err)
	}

	return BuildCatalog(shafts)
}
