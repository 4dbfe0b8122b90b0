package scenario

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/algoviz/pkg/errors"
	"github.com/matzehuels/algoviz/pkg/observability"
	"github.com/matzehuels/algoviz/pkg/render"
	"github.com/matzehuels/algoviz/pkg/structure"
	"github.com/matzehuels/algoviz/pkg/viz"
)

// Format is an exchange document encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat accepts "json", "yaml" or "yml".
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	}
	return "", errors.New(errors.ErrCodeInvalidInput, "unknown document format %q", s)
}

// FormatFromPath picks the format by file extension, defaulting to JSON.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	}
	return FormatJSON
}

// Document is the exchange form of a scenario.
type Document struct {
	ID       string            `json:"id" yaml:"id" validate:"required,max=128"`
	Name     string            `json:"name,omitempty" yaml:"name,omitempty" validate:"max=256"`
	Created  time.Time         `json:"created" yaml:"created"`
	Nodes    []structure.Entry `json:"nodes,omitempty" yaml:"nodes,omitempty"`
	Commands []Record          `json:"commands" yaml:"commands" validate:"dive"`
}

// Record is the exchange form of one command. Action selects the variant;
// only the fields that variant uses are set. Keys are written as integers or
// as one of the sentinel strings "inf", "-inf", "empty", "absent", "null".
type Record struct {
	Action viz.Action `json:"action" yaml:"action" validate:"required,oneof=link state color move arrow arc"`
	Node   viz.Key    `json:"node,omitzero" yaml:"node,omitempty"`

	// link
	From viz.Key  `json:"from,omitzero" yaml:"from,omitempty"`
	Side viz.Side `json:"side,omitempty" yaml:"side,omitempty"`
	To   viz.Key  `json:"to,omitzero" yaml:"to,omitempty"`
	Prev viz.Key  `json:"prev,omitzero" yaml:"prev,omitempty"`

	// state
	FromState viz.State `json:"from_state,omitempty" yaml:"from_state,omitempty"`
	ToState   viz.State `json:"to_state,omitempty" yaml:"to_state,omitempty"`

	// color
	FromColor render.Color `json:"from_color,omitempty" yaml:"from_color,omitempty" validate:"max=32"`
	ToColor   render.Color `json:"to_color,omitempty" yaml:"to_color,omitempty" validate:"max=32"`

	// move
	FromX     int `json:"from_x,omitempty" yaml:"from_x,omitempty"`
	FromY     int `json:"from_y,omitempty" yaml:"from_y,omitempty"`
	FromSteps int `json:"from_steps,omitempty" yaml:"from_steps,omitempty" validate:"min=0"`
	ToX       int `json:"to_x,omitempty" yaml:"to_x,omitempty"`
	ToY       int `json:"to_y,omitempty" yaml:"to_y,omitempty"`
	Steps     int `json:"steps,omitempty" yaml:"steps,omitempty" validate:"min=0"`

	// arrow and arc
	FromPointer viz.Key       `json:"from_pointer,omitzero" yaml:"from_pointer,omitempty"`
	ToPointer   viz.Key       `json:"to_pointer,omitzero" yaml:"to_pointer,omitempty"`
	FromMode    viz.ArrowMode `json:"from_mode,omitempty" yaml:"from_mode,omitempty"`
	ToMode      viz.ArrowMode `json:"to_mode,omitempty" yaml:"to_mode,omitempty"`
	FromAngle   int           `json:"from_angle,omitempty" yaml:"from_angle,omitempty"`
	ToAngle     int           `json:"to_angle,omitempty" yaml:"to_angle,omitempty"`
	FromOn      bool          `json:"from_on,omitempty" yaml:"from_on,omitempty"`
	ToOn        bool          `json:"to_on,omitempty" yaml:"to_on,omitempty"`
}

var validate = validator.New()

// NewRecord converts a command into its exchange form.
func NewRecord(c viz.Command) Record {
	r := Record{Action: c.Action()}
	switch c := c.(type) {
	case viz.Link:
		r.From, r.Side, r.To, r.Prev = c.From, c.Side, c.To, c.Prev
	case viz.SetState:
		r.Node, r.FromState, r.ToState = c.Node, c.From, c.To
	case viz.Recolor:
		r.Node, r.FromColor, r.ToColor = c.Node, c.From, c.To
	case viz.Move:
		r.Node = c.Node
		r.FromX, r.FromY, r.FromSteps = c.FromX, c.FromY, c.FromSteps
		r.ToX, r.ToY, r.Steps = c.ToX, c.ToY, c.Steps
	case viz.Arrow:
		r.Node = c.Node
		r.FromPointer, r.FromMode, r.FromAngle = c.From.Pointer, c.From.Mode, c.From.Angle
		r.ToPointer, r.ToMode, r.ToAngle = c.To.Pointer, c.To.Mode, c.To.Angle
	case viz.Arc:
		r.Node = c.Node
		r.FromPointer, r.FromOn = c.From.Pointer, c.From.On
		r.ToPointer, r.ToOn = c.To.Pointer, c.To.On
	}
	return r
}

// Command converts the record back into a command. It checks that the
// record names the node its action needs but does not resolve any key.
func (r Record) Command() (viz.Command, error) {
	if r.Action == viz.ActionLink {
		if r.From.IsNone() {
			return nil, errors.New(errors.ErrCodeInvalidFormat, "link record without from")
		}
		return viz.Link{From: r.From, Side: r.Side, To: r.To, Prev: r.Prev}, nil
	}
	if r.Node.IsNone() {
		return nil, errors.New(errors.ErrCodeInvalidFormat, "%s record without node", r.Action)
	}
	switch r.Action {
	case viz.ActionState:
		return viz.SetState{Node: r.Node, From: r.FromState, To: r.ToState}, nil
	case viz.ActionColor:
		return viz.Recolor{Node: r.Node, From: r.FromColor, To: r.ToColor}, nil
	case viz.ActionMove:
		return viz.Move{
			Node: r.Node, FromX: r.FromX, FromY: r.FromY, FromSteps: r.FromSteps,
			ToX: r.ToX, ToY: r.ToY, Steps: r.Steps,
		}, nil
	case viz.ActionArrow:
		return viz.Arrow{
			Node: r.Node,
			From: viz.ArrowSpec{Pointer: r.FromPointer, Mode: r.FromMode, Angle: r.FromAngle},
			To:   viz.ArrowSpec{Pointer: r.ToPointer, Mode: r.ToMode, Angle: r.ToAngle},
		}, nil
	case viz.ActionArc:
		return viz.Arc{
			Node: r.Node,
			From: viz.ArcSpec{Pointer: r.FromPointer, On: r.FromOn},
			To:   viz.ArcSpec{Pointer: r.ToPointer, On: r.ToOn},
		}, nil
	}
	return nil, errors.New(errors.ErrCodeUnknownAction, "unknown action %q", r.Action)
}

// Document returns the exchange form of s.
func (s *Scenario) Document() *Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc := &Document{
		ID:       s.id,
		Name:     s.name,
		Created:  s.created,
		Nodes:    s.initial,
		Commands: make([]Record, len(s.cmds)),
	}
	for i, c := range s.cmds {
		doc.Commands[i] = NewRecord(c)
	}
	return doc
}

// Export writes the exchange document of s to w.
func (s *Scenario) Export(w io.Writer, format Format) error {
	return s.Document().Encode(w, format)
}

// Encode writes d to w.
func (d *Document) Encode(w io.Writer, format Format) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(d)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(d); err != nil {
			return err
		}
		return enc.Close()
	}
	return errors.New(errors.ErrCodeUnsupported, "unsupported document format %q", format)
}

// Decode reads and validates a document.
func Decode(r io.Reader, format Format) (*Document, error) {
	var doc Document
	var err error
	switch format {
	case FormatJSON:
		err = json.NewDecoder(r).Decode(&doc)
	case FormatYAML:
		err = yaml.NewDecoder(r).Decode(&doc)
	default:
		return nil, errors.New(errors.ErrCodeUnsupported, "unsupported document format %q", format)
	}
	if err != nil {
		if errors.GetCode(err) != "" {
			return nil, err
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode %s document", format)
	}
	if err := validate.Struct(&doc); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "invalid document")
	}
	return &doc, nil
}

// FromDocument resolves the commands of doc against host and returns a
// scenario positioned at the start, ready for playback. Every key a command
// names must exist in host; otherwise nothing is imported and an
// *errors.UnresolvedReferenceError describing the first offending record is
// returned.
func FromDocument(doc *Document, host viz.Host) (*Scenario, error) {
	cmds := make([]viz.Command, len(doc.Commands))
	for i, r := range doc.Commands {
		c, err := r.Command()
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		for _, k := range c.Refs() {
			if _, ok := host.Node(k); !ok {
				return nil, &errors.UnresolvedReferenceError{Index: i, Action: string(r.Action), Key: k.String()}
			}
		}
		cmds[i] = c
	}
	return newPlayer(host, cmds,
		WithID(doc.ID), WithName(doc.Name), WithCreated(doc.Created), WithInitial(doc.Nodes)), nil
}

// Import decodes a document from r and resolves it against host.
func Import(r io.Reader, format Format, host viz.Host) (*Scenario, error) {
	doc, err := Decode(r, format)
	if err != nil {
		observability.Scenario().OnImport(string(format), 0, err)
		return nil, err
	}
	s, err := FromDocument(doc, host)
	observability.Scenario().OnImport(string(format), len(doc.Commands), err)
	return s, err
}

// Load decodes a document from r, rebuilds its host from the node snapshot
// and resolves the commands against it.
func Load(r io.Reader, format Format, opts ...structure.Option) (*structure.Tree, *Scenario, error) {
	doc, err := Decode(r, format)
	if err != nil {
		observability.Scenario().OnImport(string(format), 0, err)
		return nil, nil, err
	}
	tree, s, err := doc.Build(opts...)
	observability.Scenario().OnImport(string(format), len(doc.Commands), err)
	return tree, s, err
}

// Build rebuilds the host of d and returns it with a player scenario.
func (d *Document) Build(opts ...structure.Option) (*structure.Tree, *Scenario, error) {
	tree, err := structure.FromEntries(d.Nodes, opts...)
	if err != nil {
		return nil, nil, err
	}
	s, err := FromDocument(d, tree)
	if err != nil {
		return nil, nil, err
	}
	return tree, s, nil
}
