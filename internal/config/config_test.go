package config

import (
	"strings"
	"testing"
	"time"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "valid defaults with user",
			mutate: func(c *Config) { c.Targeting.User = "octocat" },
		},
		{
			name:    "missing user",
			mutate:  func(c *Config) {},
			wantErr: "--user is required",
		},
		{
			name: "user from URL",
			mutate: func(c *Config) {
				c.Targeting.User = "https://github.com/users/octocat"
			},
		},
		{
			name: "user from bare host URL",
			mutate: func(c *Config) {
				c.Targeting.User = "github.com/octocat"
			},
		},
		{
			name: "repo-like user rejected",
			mutate: func(c *Config) {
				c.Targeting.User = "octocat/hello-world"
			},
			wantErr: "invalid --user",
		},
		{
			name: "non-github URL rejected",
			mutate: func(c *Config) {
				c.Targeting.User = "https://gitlab.com/octocat"
			},
			wantErr: "invalid --user",
		},
		{
			name: "empty template",
			mutate: func(c *Config) {
				c.Targeting.User = "octocat"
				c.Template.Source = "  "
			},
			wantErr: "--template",
		},
		{
			name: "absolute marker rejected",
			mutate: func(c *Config) {
				c.Targeting.User = "octocat"
				c.Template.Marker = "/etc/gitattributes"
			},
			wantErr: "invalid --marker",
		},
		{
			name: "escaping marker rejected",
			mutate: func(c *Config) {
				c.Targeting.User = "octocat"
				c.Template.Marker = "../outside"
			},
			wantErr: "invalid --marker",
		},
		{
			name: "dot-prefixed marker normalized",
			mutate: func(c *Config) {
				c.Targeting.User = "octocat"
				c.Template.Marker = "./.gitattributes"
			},
		},
		{
			name: "empty message",
			mutate: func(c *Config) {
				c.Targeting.User = "octocat"
				c.Template.Message = ""
			},
			wantErr: "--message",
		},
		{
			name: "negative max repos",
			mutate: func(c *Config) {
				c.Targeting.User = "octocat"
				c.Targeting.MaxRepos = -1
			},
			wantErr: "--max-repos",
		},
		{
			name: "negative pause",
			mutate: func(c *Config) {
				c.Targeting.User = "octocat"
				c.Run.Pause = -time.Second
			},
			wantErr: "--pause",
		},
		{
			name: "zero timeout",
			mutate: func(c *Config) {
				c.Targeting.User = "octocat"
				c.Runtime.Timeout = 0
			},
			wantErr: "--timeout",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New()
			tt.mutate(c)
			err := c.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Validate() = %v, want nil", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("Validate() = nil, want error containing %q", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("Validate() = %v, want error containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestValidateNormalizesAccountSelector(t *testing.T) {
	c := New()
	c.Targeting.User = "https://github.com/users/octocat"
	if err := c.Validate(); err != nil {
		t.Fatalf("Validate() = %v", err)
	}
	if c.Targeting.User != "octocat" {
		t.Fatalf("User = %q, want %q", c.Targeting.User, "octocat")
	}
}

func TestValidateNormalizesMarker(t *testing.T) {
	c := New()
	c.Targeting.User = "octocat"
	c.Template.Marker = "./docs/.gitattributes"
	if err := c.Validate(); err != nil {
		t.Fatalf("Validate() = %v", err)
	}
	if c.Template.Marker != "docs/.gitattributes" {
		t.Fatalf("Marker = %q, want %q", c.Template.Marker, "docs/.gitattributes")
	}
}

func TestValidateSplitsCommaLists(t *testing.T) {
	c := New()
	c.Targeting.User = "octocat"
	c.Targeting.Include = []string{"repo1, repo2", "repo3"}
	c.Targeting.Exclude = []string{" legacy-* "}
	if err := c.Validate(); err != nil {
		t.Fatalf("Validate() = %v", err)
	}
	if got, want := len(c.Targeting.Include), 3; got != want {
		t.Fatalf("Include = %v, want %d entries", c.Targeting.Include, want)
	}
	if c.Targeting.Exclude[0] != "legacy-*" {
		t.Fatalf("Exclude = %v, want trimmed pattern", c.Targeting.Exclude)
	}
}
