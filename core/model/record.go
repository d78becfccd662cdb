package model

// Record is one data row of a tabular export keyed by header name.
type Record map[string]string

// Table is parsed delimited text. Fields keeps header order.
type Table struct {
	Fields  []string `json:"fields"`
	Records []Record `json:"records"`
}
