// Package generate materializes a validated project configuration as a
// directory tree. A static manifest table maps each candidate file to a
// predicate over the configuration; the table is checked once for path
// collisions across every flag combination. Included files are rendered
// concurrently from embedded templates and written through an afero
// filesystem so tests can run fully in memory.
package generate
