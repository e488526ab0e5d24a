// Package config manages user-level default answers stored at
// ~/.pyforge/config.yaml. Values saved here (creator, license, project
// manager, and so on) fill in any question left unanswered when a project
// is created.
package config
