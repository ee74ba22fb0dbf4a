package classify

import (
	"bytes"
	"encoding/json"
	"errors"
	"mime"
	"strings"
)

// ErrEmptyPayload is returned when no classifier step matched the request.
var ErrEmptyPayload = errors.New("empty or invalid payload")

// ErrContentType is returned in strict mode when the declared content type
// does not indicate JSON.
var ErrContentType = errors.New("content type must be application/json")

// Kind identifies which representation a payload was classified into.
type Kind int

const (
	KindJSON Kind = iota
	KindForm
	KindQuery
	KindRaw
)

// String returns the metric/log label for the kind.
func (k Kind) String() string {
	switch k {
	case KindJSON:
		return "json"
	case KindForm:
		return "form"
	case KindQuery:
		return "query"
	case KindRaw:
		return "raw"
	default:
		return "unknown"
	}
}

// FileMeta describes an uploaded file without its contents.
type FileMeta struct {
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size"`
}

// Request is the fully-buffered view of an incoming request that the
// classifier operates on. The front door builds it; the body is already
// bounded by the configured maximum size.
type Request struct {
	Method      string
	ContentType string
	Body        []byte
	Form        map[string]string
	Files       map[string]FileMeta
	Query       map[string]string
}

// Payload is the classified representation of a request. Exactly one of
// Value (structured kinds) or Raw (KindRaw) is populated.
type Payload struct {
	Kind  Kind
	Value any
	Raw   []byte
}

// Extension returns the file extension a payload is stored under.
func (p *Payload) Extension() string {
	if p.Kind == KindRaw {
		return "dat"
	}
	return "json"
}

// Serialize renders the payload to the bytes written to storage. Structured
// kinds are pretty-printed with 2-space indentation and non-ASCII characters
// kept literal; raw payloads pass through untouched.
func (p *Payload) Serialize() ([]byte, error) {
	if p.Kind == KindRaw {
		return p.Raw, nil
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(p.Value); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// step attempts one classification strategy; ok reports whether it matched.
type step func(Request) (*Payload, bool)

// steps is the ordered list of classifier attempts. First match wins, so the
// order is the contract: declared JSON beats form data, form data beats query
// params, and body sniffing only runs when nothing else claimed the request.
var steps = []step{
	jsonByContentType,
	formEnvelope,
	queryEnvelope,
	jsonBySniff,
	rawBody,
}

// Classify maps a request to exactly one payload, or ErrEmptyPayload when
// every step declines.
func Classify(req Request) (*Payload, error) {
	for _, s := range steps {
		if p, ok := s(req); ok {
			return p, nil
		}
	}
	return nil, ErrEmptyPayload
}

// ClassifyStrict is the JSON-only variant: the declared content type must
// indicate JSON, the body must parse, and a literal `null` body is treated as
// empty because callers cannot tell it apart from an absent payload.
func ClassifyStrict(req Request) (*Payload, error) {
	if !isJSONContentType(req.ContentType) {
		return nil, ErrContentType
	}
	var v any
	if err := json.Unmarshal(req.Body, &v); err != nil {
		return nil, ErrEmptyPayload
	}
	if v == nil {
		return nil, ErrEmptyPayload
	}
	return &Payload{Kind: KindJSON, Value: v}, nil
}

func jsonByContentType(req Request) (*Payload, bool) {
	if !isJSONContentType(req.ContentType) {
		return nil, false
	}
	var v any
	if err := json.Unmarshal(req.Body, &v); err != nil {
		return nil, false
	}
	return &Payload{Kind: KindJSON, Value: v}, true
}

// formEnvelope also matches uploads that carry files without any plain
// fields, so a files-only multipart body is captured as metadata rather than
// falling through to a raw dump of the whole multipart stream.
func formEnvelope(req Request) (*Payload, bool) {
	if len(req.Form) == 0 && len(req.Files) == 0 {
		return nil, false
	}
	fields := req.Form
	if fields == nil {
		fields = map[string]string{}
	}
	env := map[string]any{
		"_type":         "form_data",
		"_method":       req.Method,
		"_content_type": req.ContentType,
		"fields":        fields,
	}
	if len(req.Files) > 0 {
		env["files"] = req.Files
	}
	return &Payload{Kind: KindForm, Value: env}, true
}

func queryEnvelope(req Request) (*Payload, bool) {
	if len(req.Query) == 0 {
		return nil, false
	}
	env := map[string]any{
		"_type":         "query_params",
		"_method":       req.Method,
		"_content_type": req.ContentType,
		"params":        req.Query,
	}
	return &Payload{Kind: KindQuery, Value: env}, true
}

// jsonBySniff catches clients that send JSON without a correct Content-Type
// header.
func jsonBySniff(req Request) (*Payload, bool) {
	if len(req.Body) == 0 {
		return nil, false
	}
	var v any
	if err := json.Unmarshal(req.Body, &v); err != nil {
		return nil, false
	}
	return &Payload{Kind: KindJSON, Value: v}, true
}

func rawBody(req Request) (*Payload, bool) {
	if len(req.Body) == 0 {
		return nil, false
	}
	return &Payload{Kind: KindRaw, Raw: req.Body}, true
}

func isJSONContentType(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mediaType == "application/json" || strings.HasSuffix(mediaType, "+json")
}
