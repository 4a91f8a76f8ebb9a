// Package adapter provides database adapter interfaces and implementations
// for leapprofile's data source layer.
//
// This package contains the public contract that all database adapters must implement.
// Concrete adapter implementations are in pkg/adapters/ subdirectories.
//
// Core types (Config, Column, Metadata, Rows) are defined in pkg/core and
// re-exported here via type aliases so adapter packages read naturally.
package adapter

import (
	"github.com/leapstack-labs/leapprofile/pkg/core"
)

type (
	// Config is an alias for core.AdapterConfig.
	Config = core.AdapterConfig

	// Column is an alias for core.Column.
	Column = core.Column

	// Metadata is an alias for core.TableMetadata.
	Metadata = core.TableMetadata

	// Rows is an alias for core.Rows.
	Rows = core.Rows
)

// Adapter defines the interface that all database adapters must implement.
// It provides methods for connecting to databases, executing SQL, and
// retrieving metadata.
type Adapter = core.Adapter
