// Package output renders portal-cli results as tables, JSON or YAML.
//
// Table output uses text/tabwriter. Structs and slices of structs are
// converted by reflection, using json tag names as column headers; a
// struct field tagged `table:"wide"` only appears with --wide and
// `table:"-"` hides it entirely.
package output
