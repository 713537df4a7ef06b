// Package file provides the TOML-backed configuration store.
//
// Settings live in ~/.tidy/config.toml as nested tables. In memory they
// are flattened to dot-notation keys, so [storage] backend = "sqlite"
// is read back as "storage.backend".
package file
