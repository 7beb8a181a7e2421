// Package validation normalizes and checks request payloads before they reach the services.
package validation

import (
	"encoding/json"
	"errors"
	"math"
	"reflect"
	"regexp"
	"strconv"
	"strings"

	"inventory-service/internal/domain"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

const (
	MsgCategoryNameRequired = "Category name is required"
	MsgInvalidColor         = "Color must be a valid hex color"
	MsgProductNameRequired  = "Product name is required"
	MsgInvalidQuantity      = "Quantity must be a non-negative integer"
	MsgUnitRequired         = "Unit is required"
	MsgInvalidCategoryID    = "Valid category ID is required"
	MsgInvalidPrice         = "Price must be a positive number"
	MsgInvalidProductID     = "Valid product ID is required"
)

var rgbHexPattern = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// maxPrice is the largest value a NUMERIC(12,2) column holds.
var maxPrice = decimal.RequireFromString("9999999999.99")

// Number holds a JSON number or numeric string as its literal text, so that
// a malformed value becomes a field violation instead of a decode error.
type Number string

func (n *Number) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*n = Number(s)
		return nil
	}
	*n = Number(data)
	return nil
}

// Violation is a single field-level failure.
type Violation struct {
	Field string `json:"field"`
	Msg   string `json:"msg"`
}

// Violations is the ordered list of failures for one payload.
type Violations []Violation

func (v Violations) Error() string {
	msgs := make([]string, 0, len(v))
	for _, violation := range v {
		msgs = append(msgs, violation.Field+": "+violation.Msg)
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// CategoryPayload is the JSON body of a category create or update.
type CategoryPayload struct {
	Name        string  `json:"name" validate:"required"`
	Description *string `json:"description"`
	Color       *string `json:"color" validate:"omitempty,rgbhex"`
}

// ProductPayload is the JSON body of a product create or update. Numeric
// fields are pointers so that a missing or null value is distinguishable
// from zero.
type ProductPayload struct {
	Name        string  `json:"name" validate:"required"`
	Description *string `json:"description"`
	Quantity    *Number `json:"quantity" validate:"required,quantity"`
	Unit        string  `json:"unit" validate:"required"`
	CategoryID  *Number `json:"categoryId" validate:"required,refid"`
	Price       *Number `json:"price" validate:"omitempty,price"`
}

var categoryMessages = map[string]string{
	"name":  MsgCategoryNameRequired,
	"color": MsgInvalidColor,
}

var productMessages = map[string]string{
	"name":       MsgProductNameRequired,
	"quantity":   MsgInvalidQuantity,
	"unit":       MsgUnitRequired,
	"categoryId": MsgInvalidCategoryID,
	"price":      MsgInvalidPrice,
}

// Validator wraps a configured validator.Validate. It is safe for concurrent use.
type Validator struct {
	validate *validator.Validate
}

// New builds a Validator that reports fields by their JSON names.
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	// Registration only fails for an empty tag or a nil func.
	_ = v.RegisterValidation("rgbhex", func(fl validator.FieldLevel) bool {
		return rgbHexPattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("quantity", func(fl validator.FieldLevel) bool {
		_, ok := parseInteger(fl.Field().String(), 0, math.MaxInt32)
		return ok
	})
	_ = v.RegisterValidation("refid", func(fl validator.FieldLevel) bool {
		_, ok := parseInteger(fl.Field().String(), 1, math.MaxInt64)
		return ok
	})
	_ = v.RegisterValidation("price", func(fl validator.FieldLevel) bool {
		_, ok := parsePrice(fl.Field().String())
		return ok
	})
	return &Validator{validate: v}
}

// Category normalizes a category payload and validates it.
func (v *Validator) Category(p CategoryPayload) (domain.CategoryInput, error) {
	p.Name = strings.TrimSpace(p.Name)
	p.Description = trimOptional(p.Description)
	p.Color = trimOptional(p.Color)

	if err := v.check(p, categoryMessages); err != nil {
		return domain.CategoryInput{}, err
	}
	return domain.CategoryInput{
		Name:        p.Name,
		Description: p.Description,
		Color:       p.Color,
	}, nil
}

// Product normalizes a product payload and validates it. Prices are rounded
// to cents; a price that rounds to zero is accepted and treated the same as a
// cleared price.
func (v *Validator) Product(p ProductPayload) (domain.ProductInput, error) {
	p.Name = strings.TrimSpace(p.Name)
	p.Unit = strings.TrimSpace(p.Unit)
	p.Description = trimOptional(p.Description)

	if err := v.check(p, productMessages); err != nil {
		return domain.ProductInput{}, err
	}

	quantity, _ := parseInteger(string(*p.Quantity), 0, math.MaxInt32)
	categoryID, _ := parseInteger(string(*p.CategoryID), 1, math.MaxInt64)
	input := domain.ProductInput{
		Name:        p.Name,
		Description: p.Description,
		Quantity:    int(quantity),
		Unit:        p.Unit,
		CategoryID:  categoryID,
		PriceSet:    p.Price != nil,
	}
	if p.Price != nil {
		if price, _ := parsePrice(string(*p.Price)); price.IsPositive() {
			input.Price = decimal.NewNullDecimal(price)
		}
	}
	return input, nil
}

func (v *Validator) check(payload any, messages map[string]string) error {
	err := v.validate.Struct(payload)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}
	violations := make(Violations, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msg, ok := messages[fe.Field()]
		if !ok {
			msg = "Invalid value"
		}
		violations = append(violations, Violation{Field: fe.Field(), Msg: msg})
	}
	return violations
}

// ParseID parses a path id. Anything other than a positive integer yields a
// Violations error carrying msg.
func ParseID(raw, msg string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id < 1 {
		return 0, Violations{{Field: "id", Msg: msg}}
	}
	return id, nil
}

// maxExponent bounds the decimal exponent so that comparisons and rounding
// never expand an input like "1e999999999".
const maxExponent = 64

func parseDecimal(raw string) (decimal.Decimal, bool) {
	d, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil || d.Exponent() > maxExponent || d.Exponent() < -maxExponent {
		return decimal.Decimal{}, false
	}
	return d, true
}

// parseInteger accepts integral numbers in [lo, hi], including forms such
// as "5.0" or "1e2".
func parseInteger(raw string, lo, hi int64) (int64, bool) {
	d, ok := parseDecimal(raw)
	if !ok || !d.IsInteger() {
		return 0, false
	}
	if d.LessThan(decimal.NewFromInt(lo)) || d.GreaterThan(decimal.NewFromInt(hi)) {
		return 0, false
	}
	return d.IntPart(), true
}

// parsePrice accepts non-negative numbers and rounds them to cents.
func parsePrice(raw string) (decimal.Decimal, bool) {
	d, ok := parseDecimal(raw)
	if !ok || d.IsNegative() {
		return decimal.Decimal{}, false
	}
	d = d.Round(2)
	if d.GreaterThan(maxPrice) {
		return decimal.Decimal{}, false
	}
	return d, true
}

func trimOptional(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
