// Package wordpress adapts WordPress form-plugin submission hooks to
// pending lead conversions.
package wordpress

import (
	"encoding/json"
	"fmt"
	"time"
)

const Platform = "wordpress"

// formPrefixes name the supported form plugins; the prefix keeps the
// emitted form_name stable across plugins.
var formPrefixes = map[string]string{
	"contact_form_7":  "cf7",
	"wpforms":         "wpforms",
	"gravity_forms":   "gf",
	"ninja_forms":     "nf",
	"formidable":      "frm",
	"elementor_forms": "elementor",
	"html_forms":      "html",
}

// FormPayload is the body of a form submission hook.
type FormPayload struct {
	Plugin   string `json:"plugin"`
	FormID   string `json:"form_id"`
	FormName string `json:"form_name"`
	PageType string `json:"page_type"`
	PageSlug string `json:"page_slug"`
}

// Submission is a parsed form submission ready to become a lead event.
type Submission struct {
	FormName  string
	PageType  string
	PageSlug  string
	Timestamp time.Time
}

// ParseForm decodes a form submission hook. The form name is
// <plugin-prefix>_<form-id> unless the payload names the form directly.
func ParseForm(body []byte, now time.Time) (Submission, error) {
	var payload FormPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return Submission{}, fmt.Errorf("wordpress: invalid form payload: %w", err)
	}

	name := payload.FormName
	if name == "" {
		if payload.FormID == "" {
			return Submission{}, fmt.Errorf("wordpress: form payload without form_name or form_id")
		}
		prefix, ok := formPrefixes[payload.Plugin]
		if !ok {
			prefix = "form"
		}
		name = prefix + "_" + payload.FormID
	}

	return Submission{
		FormName:  name,
		PageType:  payload.PageType,
		PageSlug:  payload.PageSlug,
		Timestamp: now,
	}, nil
}
