package models

// APIResponse is the standard JSON envelope for all API responses.
type APIResponse struct {
	Data    interface{} `json:"data"`
	Meta    *Meta       `json:"meta,omitempty"`
	Warning string      `json:"warning,omitempty"`
}

// Meta contains list metadata.
type Meta struct {
	Total int `json:"total,omitempty"`
}

// Record is one persisted line item of a submitted delivery order.
// All rows of one submission share Timestamp, DONumber, DODate and
// CustomerName; records are append-only and never edited after submission.
type Record struct {
	Timestamp    string `json:"timestamp"`
	DONumber     string `json:"do_number"`
	DODate       string `json:"do_date"`
	CustomerName string `json:"customer_name"`
	LineNo       int    `json:"line_no"`
	Item         string `json:"item"`
	MINumber     string `json:"mi_number"`
	CPNumber     string `json:"cp_number"`
	SetCount     int    `json:"set_count"`
	CtnCount     int    `json:"ctn_count"`
	Quantity     int    `json:"quantity"`
}

// ItemRow is one editable row of the fixed-size item table as submitted
// by the form. Blank rows are legal and dropped by the builder.
type ItemRow struct {
	Item     string `json:"item"`
	MINumber string `json:"mi_number"`
	CPNumber string `json:"cp_number"`
	SetCount int    `json:"set_count"`
	CtnCount int    `json:"ctn_count"`
	Quantity int    `json:"quantity"`
}

// SubmitRequest is the payload of a delivery order submission.
// DODate is the value selected in the form at submission time; when empty
// it defaults to the submission day.
type SubmitRequest struct {
	DODate       string    `json:"do_date"`
	CustomerName string    `json:"customer_name"`
	Items        []ItemRow `json:"items"`
}

// SubmitResult is returned from a successful submission.
type SubmitResult struct {
	DONumber string   `json:"do_number"`
	DODate   string   `json:"do_date"`
	Records  []Record `json:"records"`
}

// User is the API-facing view of an account.
type User struct {
	ID          int    `json:"id"`
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
	Role        string `json:"role"`
}
