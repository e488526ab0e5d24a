// Package project defines the validated configuration for one generated Python
// project. Raw answers (from prompts, flags, or an answers file) are turned into
// an immutable Config by Build, which enforces every cross-field invariant and
// reports all violations at once. The Config is the single input to version
// resolution and file generation.
package project
