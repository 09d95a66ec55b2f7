package models

// DetailResponse is the error body returned to the frontend.
type DetailResponse struct {
	Detail string `json:"detail"`
}

// FieldIssue describes one offending request field.
type FieldIssue struct {
	Loc  []any  `json:"loc"`
	Msg  string `json:"msg"`
	Type string `json:"type"`
}

// ValidationResponse is the 422 body listing every offending field.
type ValidationResponse struct {
	Detail []FieldIssue `json:"detail"`
}
