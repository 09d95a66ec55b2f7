package handlers

import (
	"cmp"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"slices"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"edid-backend/internal/models"
)

// Wire shapes use pointers so a present-but-empty string is told apart from
// a missing key.
type chatMessagePayload struct {
	Role *string `json:"role" validate:"required"`
	Text *string `json:"text" validate:"required"`
}

type analyzePayload struct {
	History []chatMessagePayload `json:"history" validate:"required,dive"`
	Message *string              `json:"message" validate:"required"`
}

// ValidationError lists every offending request field.
type ValidationError struct {
	Issues []models.FieldIssue
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Issues))
	for _, issue := range e.Issues {
		parts = append(parts, fmt.Sprintf("%v: %s", issue.Loc, issue.Msg))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// decodeAnalyzeRequest parses and validates the body of an analyze call.
// Wrong-typed values and missing keys are reported together, in field order.
func decodeAnalyzeRequest(body io.Reader) (models.AnalyzeRequest, error) {
	var top map[string]json.RawMessage
	if err := json.NewDecoder(body).Decode(&top); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return models.AnalyzeRequest{}, &ValidationError{Issues: []models.FieldIssue{typeIssue([]any{"body"}, "dict")}}
		}
		return models.AnalyzeRequest{}, &ValidationError{Issues: []models.FieldIssue{{
			Loc:  []any{"body"},
			Msg:  "Invalid JSON body",
			Type: "value_error.jsondecode",
		}}}
	}

	payload, issues := payloadFromJSON(top)

	if err := validate.Struct(payload); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return models.AnalyzeRequest{}, err
		}
		typed := issues
		for _, fe := range fieldErrs {
			loc := namespaceLoc(fe.Namespace())
			if coveredBy(loc, typed) {
				continue
			}
			issues = append(issues, models.FieldIssue{
				Loc:  loc,
				Msg:  "field required",
				Type: "value_error.missing",
			})
		}
	}
	if len(issues) > 0 {
		slices.SortStableFunc(issues, func(a, b models.FieldIssue) int { return compareLoc(a.Loc, b.Loc) })
		return models.AnalyzeRequest{}, &ValidationError{Issues: issues}
	}

	req := models.AnalyzeRequest{
		History: make([]models.ChatMessage, 0, len(payload.History)),
		Message: *payload.Message,
	}
	for _, m := range payload.History {
		req.History = append(req.History, models.ChatMessage{Role: *m.Role, Text: *m.Text})
	}
	return req, nil
}

// payloadFromJSON fills the wire shape field by field so a wrong type in one
// place does not hide problems elsewhere. Fields that fail to decode stay nil.
func payloadFromJSON(top map[string]json.RawMessage) (analyzePayload, []models.FieldIssue) {
	var (
		payload analyzePayload
		issues  []models.FieldIssue
	)

	if issue := decodeField(top["message"], &payload.Message, []any{"body", "message"}, "string"); issue != nil {
		issues = append(issues, *issue)
	}

	var entries []json.RawMessage
	if issue := decodeField(top["history"], &entries, []any{"body", "history"}, "list"); issue != nil {
		return payload, append(issues, *issue)
	}
	if entries == nil {
		return payload, issues
	}

	payload.History = make([]chatMessagePayload, len(entries))
	for i, raw := range entries {
		var entry map[string]json.RawMessage
		if issue := decodeField(raw, &entry, []any{"body", "history", i}, "dict"); issue != nil {
			issues = append(issues, *issue)
			continue
		}
		msg := &payload.History[i]
		if issue := decodeField(entry["role"], &msg.Role, []any{"body", "history", i, "role"}, "string"); issue != nil {
			issues = append(issues, *issue)
		}
		if issue := decodeField(entry["text"], &msg.Text, []any{"body", "history", i, "text"}, "string"); issue != nil {
			issues = append(issues, *issue)
		}
	}
	return payload, issues
}

// decodeField leaves dst untouched for an absent key or JSON null.
func decodeField(raw json.RawMessage, dst any, loc []any, kind string) *models.FieldIssue {
	if len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		issue := typeIssue(loc, kind)
		return &issue
	}
	return nil
}

func typeIssue(loc []any, kind string) models.FieldIssue {
	return models.FieldIssue{
		Loc:  loc,
		Msg:  fmt.Sprintf("value is not a valid %s", kind),
		Type: "type_error",
	}
}

// coveredBy reports whether loc sits at or below a location already flagged.
func coveredBy(loc []any, issues []models.FieldIssue) bool {
	for _, issue := range issues {
		if len(issue.Loc) <= len(loc) && slices.Equal(issue.Loc, loc[:len(issue.Loc)]) {
			return true
		}
	}
	return false
}

// compareLoc orders locations by field name, then by list index.
func compareLoc(a, b []any) int {
	for i := 0; i < len(a) && i < len(b); i++ {
		switch x := a[i].(type) {
		case int:
			if y, ok := b[i].(int); ok {
				if c := cmp.Compare(x, y); c != 0 {
					return c
				}
				continue
			}
		case string:
			if y, ok := b[i].(string); ok {
				if c := cmp.Compare(x, y); c != 0 {
					return c
				}
				continue
			}
		}
		return 0
	}
	return cmp.Compare(len(a), len(b))
}

// namespaceLoc turns "analyzePayload.history[0].role" into
// ["body", "history", 0, "role"].
func namespaceLoc(ns string) []any {
	loc := []any{"body"}
	segs := strings.Split(ns, ".")
	if len(segs) > 1 {
		segs = segs[1:]
	}
	for _, seg := range segs {
		name, rest, indexed := strings.Cut(seg, "[")
		loc = append(loc, name)
		if !indexed {
			continue
		}
		idx := strings.TrimSuffix(rest, "]")
		if n, err := strconv.Atoi(idx); err == nil {
			loc = append(loc, n)
		} else {
			loc = append(loc, idx)
		}
	}
	return loc
}
