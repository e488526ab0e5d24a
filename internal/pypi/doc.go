// Package pypi resolves the latest stable release of Python packages from the
// PyPI JSON API. The Resolver runs bounded concurrent lookups with retry and
// exponential backoff; a package whose lookup keeps failing falls back to its
// compiled-in default version instead of failing the run.
package pypi
