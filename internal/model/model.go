// Package model holds the persisted entities and the inbound request
// payloads of the contact form.
package model

import "github.com/go-playground/validator/v10"

// validate is shared by every request type; validator caches struct
// metadata per instance.
var validate = validator.New()
