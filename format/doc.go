// Package format names the output formats snapshots can be rendered in.
package format
