package form

import (
	"strings"

	v "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/localconnect/catalog-manager/internal/dto"
)

// maxImageField caps the base64 image field of a request, data URL prefix included.
const maxImageField = 7 << 20

// ProductRequest checks the wire shape of a create or update body. Business
// rules on the decoded values stay with the catalog.
type ProductRequest struct {
	*dto.ProductRequest
}

func (f *ProductRequest) Validate() error {
	return ValidateStruct(f.ProductRequest,
		v.Field(&f.Name, v.Required, v.RuneLength(1, 255)),
		v.Field(&f.Description, v.Required),
		v.Field(&f.CategoryId, v.Required, v.Min(1)),
		v.Field(&f.Image, v.Length(0, maxImageField), v.By(dataURL)),
	)
}

func dataURL(value interface{}) error {
	s, _ := value.(string)
	if s == "" || strings.HasPrefix(s, "data:") {
		return nil
	}
	return v.NewError("validation_data_url", "must be a data URL")
}
