// Package encode renders documents as indented JSON or YAML, optionally
// colored for terminals. Unresolved placeholders are colored apart from
// ordinary strings.
package encode
