package config

import (
	"errors"
	"fmt"
	"net/url"
	"path"
	"strings"
	"time"
)

// DefaultCommitMessage is used when --message is not provided.
const DefaultCommitMessage = "Add .gitattributes for language classification"

type Config struct {
	// MAINTAINER NOTE: If you add/change/remove config fields that affect run
	// behavior, keep the CLI flags in internal/cli/apply.go and the viper keys
	// in internal/config/defaults.go in sync.
	Targeting Targeting
	Template  Template
	Run       Run
	Output    Output
	Runtime   Runtime
}

type Targeting struct {
	// User is the GitHub account whose repositories are processed (name or
	// URL; see --user). May also come from ATTRSYNC_USER or the config file.
	User string

	// IncludePrivate keeps private repositories in the run (see --include-private).
	IncludePrivate bool

	// IncludeForks keeps forked repositories in the run (see --include-forks).
	IncludeForks bool

	// Include filters repositories by name using Go path.Match style (see --include).
	// If a pattern contains '/', it matches OWNER/REPO; otherwise it matches repo name.
	Include []string

	// Exclude filters repositories by name using Go path.Match style (see --exclude).
	// Same matching rules as Include.
	Exclude []string

	// MaxRepos limits how many repositories to process (see --max-repos). 0 means unlimited.
	MaxRepos int
}

type Template struct {
	// Source is the path of the template file to install (see --template).
	Source string

	// Marker is the in-repo destination path of the template (see --marker).
	// Its presence in a clone means the template was already applied.
	Marker string

	// Message is the commit message used when recording the template (see --message).
	Message string
}

type Run struct {
	// WorkDir is the directory that holds temporary clones (see --work-dir).
	// It is removed at end of run unless KeepClones is set.
	WorkDir string

	// DryRun previews the plan without cloning, committing, or pushing (see --dry-run).
	DryRun bool

	// Pause is the delay inserted between repositories to stay under GitHub's
	// secondary rate limits (see --pause).
	Pause time.Duration

	// KeepClones skips end-of-run cleanup of WorkDir (see --keep-clones).
	KeepClones bool
}

type Output struct {
	// Out writes the outcome list as a JSON array to this path (see --out).
	Out string
}

type Runtime struct {
	// Token is an explicit GitHub access token (see --token).
	// When empty the token is resolved from GITHUB_TOKEN or the gh CLI.
	Token string

	// Timeout is the global run timeout (see --timeout). Must be > 0.
	Timeout time.Duration

	// Verbose enables per-call diagnostics: GitHub API request logging and
	// structured logging of every git invocation.
	Verbose bool
}

func New() *Config {
	return &Config{
		Template: Template{
			Source:  ".gitattributes",
			Marker:  ".gitattributes",
			Message: DefaultCommitMessage,
		},
		Run: Run{
			WorkDir: "temp-repos",
			Pause:   2 * time.Second,
		},
		Runtime: Runtime{
			Timeout: 30 * time.Minute,
		},
	}
}

func (c *Config) Validate() error {
	// Normalize comma-delimited list inputs.
	c.Targeting.Include = splitCommaList(c.Targeting.Include)
	c.Targeting.Exclude = splitCommaList(c.Targeting.Exclude)

	if c.Targeting.User != "" {
		user, err := normalizeAccountSelector(c.Targeting.User)
		if err != nil {
			return fmt.Errorf("invalid --user value: %w", err)
		}
		c.Targeting.User = user
	}
	if c.Targeting.User == "" {
		return errors.New("--user is required (or set ATTRSYNC_USER / the config file)")
	}

	if strings.TrimSpace(c.Template.Source) == "" {
		return errors.New("--template must not be empty")
	}

	marker, err := normalizeMarkerPath(c.Template.Marker)
	if err != nil {
		return err
	}
	c.Template.Marker = marker

	if strings.TrimSpace(c.Template.Message) == "" {
		return errors.New("--message must not be empty")
	}

	if strings.TrimSpace(c.Run.WorkDir) == "" {
		return errors.New("--work-dir must not be empty")
	}

	if c.Targeting.MaxRepos < 0 {
		return errors.New("--max-repos must be >= 0")
	}
	if c.Run.Pause < 0 {
		return errors.New("--pause must be >= 0")
	}
	if c.Runtime.Timeout <= 0 {
		return errors.New("--timeout must be > 0")
	}

	return nil
}

// normalizeMarkerPath validates the in-repo destination path of the template.
// The marker must stay inside the clone, so absolute paths and parent
// references are rejected.
func normalizeMarkerPath(raw string) (string, error) {
	marker := strings.TrimSpace(raw)
	if marker == "" {
		return "", errors.New("--marker must not be empty")
	}
	marker = strings.TrimPrefix(marker, "./")
	if strings.HasPrefix(marker, "/") {
		return "", fmt.Errorf("invalid --marker %q: must be relative to the repository root", raw)
	}
	cleaned := path.Clean(marker)
	if cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return "", fmt.Errorf("invalid --marker %q: must not escape the repository root", raw)
	}
	return cleaned, nil
}

func normalizeAccountSelector(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", nil
	}

	// Accept a raw account name, or a GitHub URL like:
	//   https://github.com/<name>
	//   https://github.com/users/<name>
	//   github.com/<name>
	if strings.HasPrefix(raw, "github.com/") || strings.HasPrefix(raw, "www.github.com/") {
		raw = "https://" + raw
	}
	if strings.HasPrefix(raw, "http://") || strings.HasPrefix(raw, "https://") {
		u, err := url.Parse(raw)
		if err != nil {
			return "", fmt.Errorf("%q", raw)
		}
		host := strings.ToLower(u.Hostname())
		if host == "www.github.com" {
			host = "github.com"
		}
		if host != "github.com" {
			return "", fmt.Errorf("%q", raw)
		}
		parts := strings.FieldsFunc(strings.Trim(u.Path, "/"), func(r rune) bool { return r == '/' })
		if len(parts) == 0 {
			return "", fmt.Errorf("%q", raw)
		}
		if parts[0] == "orgs" || parts[0] == "users" {
			if len(parts) < 2 {
				return "", fmt.Errorf("%q", raw)
			}
			return parts[1], nil
		}
		return parts[0], nil
	}

	// Basic sanity: reject obvious repo-like inputs.
	if strings.Contains(raw, "/") {
		return "", fmt.Errorf("%q", raw)
	}
	return raw, nil
}

func splitCommaList(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			p := strings.TrimSpace(part)
			if p == "" {
				continue
			}
			out = append(out, p)
		}
	}
	return out
}
