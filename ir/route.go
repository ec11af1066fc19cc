package ir

// Method is an HTTP verb in lower case, as written in OpenAPI path items.
type Method string

const (
	MethodGet     Method = "get"
	MethodPut     Method = "put"
	MethodPost    Method = "post"
	MethodDelete  Method = "delete"
	MethodOptions Method = "options"
	MethodHead    Method = "head"
	MethodPatch   Method = "patch"
	MethodTrace   Method = "trace"
)

// Methods lists the recognized verbs in enumeration order. Routes within a
// path are emitted in this order.
var Methods = []Method{
	MethodGet,
	MethodPut,
	MethodPost,
	MethodDelete,
	MethodOptions,
	MethodHead,
	MethodPatch,
	MethodTrace,
}

// Parameter is a path or query parameter.
type Parameter struct {
	Name string          `json:"name"`
	Type *TypeDescriptor `json:"type"`
}

// Route is one API operation. Routes are built once during extraction and
// not modified afterwards.
type Route struct {
	// Name is derived from the operation id and unique within a document.
	Name        string `json:"name"`
	OperationID string `json:"operationId"`

	Path   string `json:"path"`
	Method Method `json:"method"`

	PathParameters  []Parameter `json:"pathParameters"`
	QueryParameters []Parameter `json:"queryParameters"`

	Request  *TypeDescriptor `json:"request,omitempty"`
	Response *TypeDescriptor `json:"response,omitempty"`

	Summary    string `json:"summary,omitempty"`
	Deprecated bool   `json:"deprecated,omitempty"`
}

// RequestBodyName is the schema name synthesized for an anonymous request body.
func (r *Route) RequestBodyName() string { return r.Name + "RequestBody" }

// ResponseBodyName is the schema name synthesized for an anonymous response body.
func (r *Route) ResponseBodyName() string { return r.Name + "ResponseBody" }
