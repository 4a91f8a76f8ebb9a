// Package core defines the shared language of leapprofile.
//
// This package contains:
//   - The data source contract (Adapter, AdapterConfig, Rows)
//   - Table metadata types (Column, TableMetadata, TableRef)
//   - Target configuration (TargetConfig)
//   - Static dialect facts (DialectConfig)
//
// The Golden Rule: pkg/core imports ONLY stdlib.
// All other packages depend on core, not the reverse.
package core
