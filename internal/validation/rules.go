package validation

import "unicode/utf8"

// MaxImageBytes is the largest accepted image payload (5 MiB).
const MaxImageBytes = 5 << 20

const (
	maxNameLen        = 100
	maxDescriptionLen = 200
	maxHostLen        = 255
)

// Errors maps a field name to the messages recorded against it.
type Errors map[string][]string

// Add records a message against a field.
func (e Errors) Add(field, msg string) {
	e[field] = append(e[field], msg)
}

// Empty reports whether no messages were recorded.
func (e Errors) Empty() bool {
	return len(e) == 0
}

// ServerInput carries the fields of a create or update request. Nil pointers
// mean the field was absent from the request, which matters for updates where
// only supplied fields are validated and applied.
type ServerInput struct {
	Name        *string
	Description *string
	Host        *string
	IPAddress   *string
	SortOrder   *int
	Status      *bool
	Image       []byte
}

// ValidateCreate applies the full rule set: required fields must be present.
func ValidateCreate(in ServerInput) Errors {
	return validate(in, false)
}

// ValidateUpdate applies the same rules but only to fields present in the
// request.
func ValidateUpdate(in ServerInput) Errors {
	return validate(in, true)
}

func validate(in ServerInput, sometimes bool) Errors {
	errs := Errors{}

	switch {
	case in.Name == nil:
		if !sometimes {
			errs.Add("name", "The name field is required.")
		}
	case *in.Name == "":
		errs.Add("name", "The name field is required.")
	case utf8.RuneCountInString(*in.Name) > maxNameLen:
		errs.Add("name", "The name may not be greater than 100 characters.")
	}

	if in.Description != nil && utf8.RuneCountInString(*in.Description) > maxDescriptionLen {
		errs.Add("description", "The description may not be greater than 200 characters.")
	}

	switch {
	case in.Host == nil:
		if !sometimes {
			errs.Add("host", "The host field is required.")
		}
	case *in.Host == "":
		errs.Add("host", "The host field is required.")
	case utf8.RuneCountInString(*in.Host) > maxHostLen:
		errs.Add("host", "The host may not be greater than 255 characters.")
	}

	switch {
	case in.IPAddress == nil:
		if !sometimes {
			errs.Add("ip_address", "The ip_address field is required.")
		}
	case !ValidIPv4(*in.IPAddress):
		errs.Add("ip_address", "The ip_address must be a valid IPv4 address (each octet between 0-255).")
	}

	if in.SortOrder != nil && *in.SortOrder < 0 {
		errs.Add("sort_order", "The sort_order must be at least 0.")
	}

	if len(in.Image) > MaxImageBytes {
		errs.Add("image", "The image may not be greater than 5120 kilobytes.")
	}

	return errs
}
