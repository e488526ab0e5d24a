package project

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"go.yaml.in/yaml/v3"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

//go:embed schema/answers.schema.json
var answersSchemaBytes []byte

var (
	compiledSchema *jsonschema.Schema
	compileOnce    sync.Once
	compileErr     error
	printer        = message.NewPrinter(language.English)
)

// SchemaIssue is a single schema violation in an answers file.
type SchemaIssue struct {
	Path    string // instance location, e.g. "/max_line_length"
	Message string
}

// SchemaError reports every schema violation found in an answers file.
type SchemaError struct {
	Path   string
	Issues []SchemaIssue
}

func (e *SchemaError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "answers file %s is invalid:", e.Path)
	for _, issue := range e.Issues {
		if issue.Path != "" {
			fmt.Fprintf(&b, "\n  %s: %s", issue.Path, issue.Message)
		} else {
			fmt.Fprintf(&b, "\n  %s", issue.Message)
		}
	}
	return b.String()
}

// getAnswersSchema compiles the embedded JSON schema once and returns it.
func getAnswersSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(answersSchemaBytes))
		if err != nil {
			compileErr = fmt.Errorf("unmarshaling schema JSON: %w", err)
			return
		}

		c := jsonschema.NewCompiler()
		if err := c.AddResource("answers.schema.json", doc); err != nil {
			compileErr = fmt.Errorf("adding schema resource: %w", err)
			return
		}
		compiledSchema, compileErr = c.Compile("answers.schema.json")
		if compileErr != nil {
			compileErr = fmt.Errorf("compiling schema: %w", compileErr)
		}
	})
	return compiledSchema, compileErr
}

// LoadAnswersFile reads a YAML answers file, validates it against the embedded
// schema, and decodes it into Answers. Schema violations are returned as a
// *SchemaError listing every problem.
func LoadAnswersFile(path string) (Answers, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Answers{}, fmt.Errorf("reading answers file: %w", err)
	}
	return ParseAnswers(path, data)
}

// ParseAnswers validates and decodes raw answers-file bytes. The path is used
// only for error messages.
func ParseAnswers(path string, data []byte) (Answers, error) {
	schema, err := getAnswersSchema()
	if err != nil {
		return Answers{}, fmt.Errorf("loading schema: %w", err)
	}

	var raw interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return Answers{}, fmt.Errorf("parsing %s: %w", path, err)
	}

	// Round-trip through JSON so the schema validator sees JSON-compatible
	// types rather than YAML decoder internals.
	jsonData, err := json.Marshal(raw)
	if err != nil {
		return Answers{}, fmt.Errorf("converting %s to JSON: %w", path, err)
	}
	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(jsonData))
	if err != nil {
		return Answers{}, fmt.Errorf("preparing %s for validation: %w", path, err)
	}

	if err := schema.Validate(inst); err != nil {
		validationErr, ok := err.(*jsonschema.ValidationError)
		if !ok {
			return Answers{}, fmt.Errorf("validating %s: %w", path, err)
		}
		return Answers{}, &SchemaError{Path: path, Issues: collectSchemaIssues(validationErr)}
	}

	var answers Answers
	if err := yaml.Unmarshal(data, &answers); err != nil {
		return Answers{}, fmt.Errorf("decoding %s: %w", path, err)
	}
	return answers, nil
}

// collectSchemaIssues walks the error tree and returns deduplicated leaf
// issues with instance paths.
func collectSchemaIssues(ve *jsonschema.ValidationError) []SchemaIssue {
	var issues []SchemaIssue
	walkSchemaIssues(ve, &issues)
	if len(issues) == 0 {
		return []SchemaIssue{{Message: ve.Error()}}
	}

	seen := make(map[string]bool)
	var out []SchemaIssue
	for _, issue := range issues {
		key := issue.Path + "|" + issue.Message
		if !seen[key] {
			seen[key] = true
			out = append(out, issue)
		}
	}
	return out
}

func walkSchemaIssues(ve *jsonschema.ValidationError, issues *[]SchemaIssue) {
	if len(ve.Causes) == 0 {
		path := "/" + strings.Join(ve.InstanceLocation, "/")
		if len(ve.InstanceLocation) == 0 {
			path = ""
		}

		msg := ""
		if ve.ErrorKind != nil {
			msg = ve.ErrorKind.LocalizedString(printer)
		}
		if msg == "" {
			return
		}

		*issues = append(*issues, SchemaIssue{Path: path, Message: msg})
		return
	}

	for _, cause := range ve.Causes {
		walkSchemaIssues(cause, issues)
	}
}
