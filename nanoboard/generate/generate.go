// Package generate is the boundary to a text/asset generation provider.
//
// The provider itself is out of scope: callers supply a Generator. This
// package owns what happens to the responses, which are treated as
// untrusted text: fences are stripped, JSON is parsed into loose draft
// shapes, enum values are normalised and every entity gets a fresh id
// before anything is merged into the graph. A failure at any point leaves
// the graph untouched and surfaces as ErrGeneration.
package generate

import (
	"context"
	"errors"
	"strings"

	"github.com/invopop/jsonschema"
)

// ErrGeneration is returned, wrapped, for every provider or decoding failure
var ErrGeneration = errors.New("generation failed")

// AssetKind is the media type requested from GenerateAsset
type AssetKind string

const (
	AssetImage AssetKind = "image"
	AssetVideo AssetKind = "video"
	AssetAudio AssetKind = "audio"
)

// Asset is a generated media file. Providers return either a URL or inline
// data.
type Asset struct {
	Kind     AssetKind
	URL      string
	MimeType string
	Data     []byte
}

// Generator is the capability the core consumes from a provider
type Generator interface {
	// GenerateText returns free text for a prompt
	GenerateText(ctx context.Context, prompt string) (string, error)

	// GenerateJSON returns a JSON document that should satisfy schema. The
	// result may still arrive wrapped in Markdown fences.
	GenerateJSON(ctx context.Context, prompt string, schema *jsonschema.Schema) (string, error)

	// GenerateAsset returns a media asset for a prompt
	GenerateAsset(ctx context.Context, kind AssetKind, prompt string) (Asset, error)
}

// SchemaFor reflects a JSON schema from an instance value
func SchemaFor(v any) *jsonschema.Schema {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	return reflector.Reflect(v)
}

// StripFences removes a surrounding Markdown code fence, with or without a
// language tag, and any text before the first '{' or '[' and after the
// matching last '}' or ']'
func StripFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		if nl := strings.IndexByte(s, '\n'); nl >= 0 {
			s = s[nl+1:]
		} else {
			s = strings.TrimPrefix(s, "```")
		}
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	}
	start := strings.IndexAny(s, "{[")
	end := strings.LastIndexAny(s, "}]")
	if start < 0 || end < start {
		return strings.TrimSpace(s)
	}
	return s[start : end+1]
}
