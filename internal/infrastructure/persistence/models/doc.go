// Package models contains GORM persistence models for service package
// templates and bundles. Domain types stay free of ORM tags; the models carry
// table mappings and convert with ToDomain / FromDomain.
//
// Compositions are stored as JSON documents: a template's six collections in
// service_templates.composition, and the full template snapshot a bundle was
// derived from in service_bundles.template_snapshot. Position keeps the list
// order the engine saved.
package models
