// Package models contains the GORM persistence models and their mappers.
//
// Domain types carry no GORM tags. A repository converts a domain document
// into its model before writing and back after reading:
//
//   - content.go: ContentDocumentModel, one JSON payload row per content kind
package models
