package models

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// ResourceClass determines which cache store and policy a request falls under
type ResourceClass string

const (
	ClassStatic ResourceClass = "static"
	ClassImage  ResourceClass = "image"
	ClassAPI    ResourceClass = "api"
)

// UnmarshalYAML implements custom YAML unmarshaling for ResourceClass
func (c *ResourceClass) UnmarshalYAML(value *yaml.Node) error {
	var str string
	if err := value.Decode(&str); err != nil {
		return err
	}

	switch str {
	case "static", "image", "api":
		*c = ResourceClass(str)
		return nil
	default:
		return fmt.Errorf("invalid resource class '%s': must be one of 'static', 'image', 'api'", str)
	}
}

// Response is what the router hands back to callers for every request.
// Synthetic marks a placeholder fabricated after an unrecoverable image
// fetch failure; synthetic responses are never written to the cache stores.
type Response struct {
	Status      int           `json:"status"`
	ContentType string        `json:"content_type"`
	Body        []byte        `json:"body"`
	Class       ResourceClass `json:"class"`
	FromCache   bool          `json:"from_cache"`
	Fresh       bool          `json:"fresh"`
	Synthetic   bool          `json:"synthetic"`
}

// FetchResult is the outcome of a single network fetch
type FetchResult struct {
	Status      int
	ContentType string
	Body        []byte
}
