package draft

import (
	"fmt"

	"bazar/internal/validation"
)

// Validate runs the structural pre-submission check and returns the
// field-keyed errors, or nil when the draft is submittable. The session's
// error map is updated either way so the UI can attach messages to fields.
func (s *Session) Validate() *validation.ValidationErrors {
	s.mu.Lock()
	defer s.mu.Unlock()
	ve := validateDraft(s.form, s.draft)
	s.fieldErrors = ve.Map()
	if !ve.HasErrors() {
		return nil
	}
	return ve
}

func validateDraft(form FormSpec, d OrderDraft) *validation.ValidationErrors {
	ve := &validation.ValidationErrors{}

	for _, hf := range form.Header {
		key := "header." + hf.Name
		value := d.Header[hf.Name]
		if hf.Required {
			validation.RequireField(ve, key, value)
		}
		validation.ValidateEnum(ve, key, value, hf.Enum)
	}

	if len(d.Lines) < 1 {
		ve.Add("lines", "must contain at least one item")
	}
	for i, li := range d.Lines {
		prefix := fmt.Sprintf("lines[%d].", i)
		validation.RequireField(ve, prefix+"product", li.ProductRef)
		validation.ValidatePositiveInt(ve, prefix+"quantity", li.Quantity)
		validation.ValidateMaxQuantity(ve, prefix+"quantity", li.Quantity)
		if form.RequirePositivePrice {
			validation.ValidatePositiveFloat(ve, prefix+"unit_price", li.UnitPrice)
		} else {
			validation.ValidateNonNegativeFloat(ve, prefix+"unit_price", li.UnitPrice)
		}
		validation.ValidateMaxPrice(ve, prefix+"unit_price", li.UnitPrice)
	}
	return ve
}
