package service

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/publicfix/publicfix/internal/domain"
)

const (
	FieldStreet      = "street"
	FieldDescription = "description"
	FieldLocation    = "location"
	FieldCategory    = "category"
	FieldPhoto       = "photo"
)

// ValidationError names the first required field that was missing.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// PhotoUpload is a photo picked by the user, already sniffed for its type.
type PhotoUpload struct {
	Data     []byte
	MimeType string
}

// CreateReportInput is what the create form submits. Fields are checked in
// declaration order and the first failure is reported, so the order here is
// the order the user sees messages in.
type CreateReportInput struct {
	Street      string          `validate:"required"`
	Description string          `validate:"required"`
	Location    string          `validate:"required"`
	Category    domain.Category `validate:"required,category"`
	// ImageURL is a remote photo reference, used when no file was uploaded.
	ImageURL string `validate:"required_without=Photo"`
	Photo    *PhotoUpload
}

var fieldMessages = map[string]*ValidationError{
	"Street":      {Field: FieldStreet, Message: "Masukkan nama jalan"},
	"Description": {Field: FieldDescription, Message: "Masukkan deskripsi kerusakan"},
	"Location":    {Field: FieldLocation, Message: "Masukkan lokasi"},
	"Category":    {Field: FieldCategory, Message: "Pilih kategori kerusakan"},
	"ImageURL":    {Field: FieldPhoto, Message: "Unggah foto kerusakan"},
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	if err := v.RegisterValidation("category", func(fl validator.FieldLevel) bool {
		return domain.Category(fl.Field().String()).Valid()
	}); err != nil {
		panic(err)
	}
	return v
}

// validateInput checks a whitespace-trimmed copy of in and returns the
// *ValidationError for the first failing field, or nil.
func validateInput(in CreateReportInput) error {
	trimmed := in
	trimmed.Street = strings.TrimSpace(in.Street)
	trimmed.Description = strings.TrimSpace(in.Description)
	trimmed.Location = strings.TrimSpace(in.Location)
	trimmed.Category = domain.Category(strings.TrimSpace(string(in.Category)))
	trimmed.ImageURL = strings.TrimSpace(in.ImageURL)
	if trimmed.Photo != nil && len(trimmed.Photo.Data) == 0 {
		trimmed.Photo = nil
	}

	err := validate.Struct(trimmed)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}
	first := fieldMessages[verrs[0].StructField()]
	if first == nil {
		return err
	}
	return &ValidationError{Field: first.Field, Message: first.Message}
}
