package flags

// Package flags defines canonical CLI flag names shared across the CLI,
// config, and engine. Keeping these as constants avoids drift between Cobra
// flag wiring and other code paths that reference flags (e.g. error messages
// that tell the user which flag to set).
// IMPORTANT: These are flag *names* without leading dashes.
const (
	// Targeting
	FlagUser           = "user"
	FlagIncludePrivate = "include-private"
	FlagIncludeForks   = "include-forks"
	FlagInclude        = "include"
	FlagExclude        = "exclude"
	FlagMaxRepos       = "max-repos"

	// Template
	FlagTemplate = "template"
	FlagMarker   = "marker"
	FlagMessage  = "message"

	// Run
	FlagWorkDir    = "work-dir"
	FlagDryRun     = "dry-run"
	FlagPause      = "pause"
	FlagKeepClones = "keep-clones"

	// Output
	FlagOut = "out"

	// Config
	FlagConfig = "config"

	// Runtime
	FlagToken   = "token"
	FlagTimeout = "timeout"
	FlagVerbose = "verbose"
)
