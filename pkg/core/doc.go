// Package core defines the query model produced by the SQL parser.
//
// This package contains:
//   - Values (Value, ValueKind) shared by constants and source rows
//   - Expressions (Constant, Variable)
//   - Queries (SimpleQuery, TableQuery) and their projected columns
//   - The row source contract used for table-bound execution (RowSource)
//   - Adapter configuration shared by row source implementations
//
// The Golden Rule: pkg/core imports ONLY pkg/token and stdlib.
// All other packages depend on core, not the reverse.
package core
