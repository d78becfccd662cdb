// Package tabular turns exported route plans (comma separated text with a
// header row) into named-field records.
//
// Splitting is quote aware: a double quote toggles the quoted state and
// commas inside a quoted span do not split. Escaped quotes ("") are not
// supported; a field holding a literal quote character splits incorrectly.
package tabular
