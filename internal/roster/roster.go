package roster

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"
	"golang.org/x/text/unicode/norm"
)

//go:embed schema.cue
var schemaCUE []byte

//go:embed default.cue
var defaultCUE []byte

// Entry is one declared participant.
type Entry struct {
	Name          string `json:"name"`
	Contact       string `json:"contact"`
	StartingScore int    `json:"starting_score"`
}

// Roster is the declared end state of the participant table.
type Roster struct {
	Marker       string  `json:"marker"`
	SeededAt     string  `json:"seeded_at"`
	Participants []Entry `json:"participants"`
}

// Error is a roster load failure, with the CUE source position when known.
type Error struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *Error) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Default returns the embedded roster.
func Default() (*Roster, error) {
	return Parse("default.cue", defaultCUE)
}

// Load reads a roster from path, or the embedded roster when path is empty.
func Load(path string) (*Roster, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load roster: %w", err)
	}
	return Parse(path, data)
}

// Parse validates CUE roster data against the schema and decodes it.
// Names are trimmed and NFC-normalized; duplicates and an undeclared marker are
// rejected.
func Parse(filename string, data []byte) (*Roster, error) {
	ctx := cuecontext.New()

	schema := ctx.CompileBytes(schemaCUE, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return nil, formatCUEError(err)
	}
	value := ctx.CompileBytes(data, cue.Filename(filename))
	if err := value.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	value = schema.Unify(value)
	if err := value.Validate(cue.Concrete(true)); err != nil {
		return nil, formatCUEError(err)
	}

	rosterVal := value.LookupPath(cue.ParsePath("roster"))
	var r Roster
	if err := rosterVal.Decode(&r); err != nil {
		return nil, formatCUEError(err)
	}

	r.Marker = normalizeName(r.Marker)
	seen := make(map[string]bool, len(r.Participants))
	for i := range r.Participants {
		name := normalizeName(r.Participants[i].Name)
		if seen[name] {
			return nil, &Error{
				Field:   fmt.Sprintf("participants[%d].name", i),
				Message: fmt.Sprintf("duplicate participant %q", name),
				Pos:     rosterVal.LookupPath(cue.MakePath(cue.Str("participants"), cue.Index(i))).Pos(),
			}
		}
		seen[name] = true
		r.Participants[i].Name = name
		r.Participants[i].Contact = strings.TrimSpace(r.Participants[i].Contact)
	}
	if !seen[r.Marker] {
		return nil, &Error{
			Field:   "marker",
			Message: fmt.Sprintf("marker %q is not a declared participant", r.Marker),
			Pos:     rosterVal.LookupPath(cue.ParsePath("marker")).Pos(),
		}
	}
	return &r, nil
}

// Names returns the declared participant names in order.
func (r *Roster) Names() []string {
	out := make([]string, len(r.Participants))
	for i, p := range r.Participants {
		out[i] = p.Name
	}
	return out
}

func normalizeName(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}

// formatCUEError keeps the first error and its position.
func formatCUEError(err error) error {
	errs := errors.Errors(err)
	if len(errs) == 0 {
		return err
	}
	first := errs[0]
	if positions := errors.Positions(first); len(positions) > 0 {
		return &Error{Field: "cue", Message: first.Error(), Pos: positions[0]}
	}
	return &Error{Field: "cue", Message: first.Error()}
}
