package errors

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/render"
)

// ProblemDetails implements RFC 7807 Problem Details for HTTP APIs
type ProblemDetails struct {
	Type     string `json:"type"`
	Title    string `json:"title"`
	Status   int    `json:"status"`
	Detail   string `json:"detail,omitempty"`
	Instance string `json:"instance,omitempty"`

	// Extensions for additional fields
	Extensions map[string]interface{} `json:"-"`
}

// MarshalJSON implements custom JSON marshaling to include extensions
func (p *ProblemDetails) MarshalJSON() ([]byte, error) {
	type alias ProblemDetails
	base, err := json.Marshal((*alias)(p))
	if err != nil {
		return nil, err
	}

	if len(p.Extensions) == 0 {
		return base, nil
	}

	var m map[string]interface{}
	if err := json.Unmarshal(base, &m); err != nil {
		return nil, err
	}

	for k, v := range p.Extensions {
		m[k] = v
	}

	return json.Marshal(m)
}

// Render implements the render.Renderer interface
func (p *ProblemDetails) Render(w http.ResponseWriter, r *http.Request) error {
	w.Header().Set("Content-Type", "application/problem+json")
	render.Status(r, p.Status)
	return nil
}

// NewProblemDetails creates a new problem details instance
func NewProblemDetails(status int, problemType, title, detail, instance string) *ProblemDetails {
	return &ProblemDetails{
		Type:       problemType,
		Title:      title,
		Status:     status,
		Detail:     detail,
		Instance:   instance,
		Extensions: make(map[string]interface{}),
	}
}

// WithExtension adds an extension field to the problem details
func (p *ProblemDetails) WithExtension(key string, value interface{}) *ProblemDetails {
	if p.Extensions == nil {
		p.Extensions = make(map[string]interface{})
	}
	p.Extensions[key] = value
	return p
}
