// Package discovery lists the repositories an account owns and narrows them
// to the set a run should process.
package discovery

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/go-github/v81/github"

	"attrsync/internal/config"
	gh "attrsync/internal/github"
)

// defaultDiscoveryRepoLimit bounds pagination when --max-repos is unset.
const defaultDiscoveryRepoLimit = 1000

// ErrServiceUnavailable marks listing failures (auth, network, API errors).
// They are fatal to the run; no partial listing is retried.
var ErrServiceUnavailable = errors.New("repository listing unavailable")

// Descriptor captures the repository facts the run needs. It is immutable
// once fetched and lives for a single run.
type Descriptor struct {
	Owner         string
	Name          string
	Private       bool
	Fork          bool
	PushedAt      time.Time
	CloneURL      string
	DefaultBranch string
}

func (d Descriptor) FullName() string {
	return d.Owner + "/" + d.Name
}

// List returns the repositories owned by the configured account, filtered per
// cfg and sorted most-recently-pushed first. When the account matches the
// token owner the authenticated endpoint is used so private repositories are
// visible.
func List(ctx context.Context, client *gh.Client, cfg *config.Config) ([]Descriptor, error) {
	user := cfg.Targeting.User
	limit := computeRepoLimit(cfg)

	var (
		descriptors []Descriptor
		err         error
	)
	if strings.EqualFold(client.AuthenticatedLogin(ctx), user) {
		descriptors, err = listAuthenticatedUserRepos(ctx, client, limit)
	} else {
		descriptors, err = listPublicUserRepos(ctx, client, user, limit)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrServiceUnavailable, err)
	}

	descriptors = Filter(descriptors, cfg)
	sortByPushedAtDesc(descriptors)
	if cfg.Targeting.MaxRepos > 0 && len(descriptors) > cfg.Targeting.MaxRepos {
		descriptors = descriptors[:cfg.Targeting.MaxRepos]
	}
	return descriptors, nil
}

func computeRepoLimit(cfg *config.Config) int {
	limit := defaultDiscoveryRepoLimit
	if cfg.Targeting.MaxRepos > 0 && cfg.Targeting.MaxRepos > limit {
		limit = cfg.Targeting.MaxRepos
	}
	return limit
}

func listAuthenticatedUserRepos(ctx context.Context, client *gh.Client, limit int) ([]Descriptor, error) {
	descriptors := make([]Descriptor, 0, min(limit, 100))

	opts := &github.RepositoryListByAuthenticatedUserOptions{
		ListOptions: github.ListOptions{PerPage: 100},
		Visibility:  "all",
		Affiliation: "owner",
	}
	for {
		repos, resp, err := client.Client.Repositories.ListByAuthenticatedUser(ctx, opts)
		if err != nil {
			return nil, fmt.Errorf("failed to list authenticated user repos: %w", err)
		}
		for _, repo := range repos {
			if len(descriptors) >= limit {
				break
			}
			descriptors = append(descriptors, descriptorFromRepository(repo))
		}
		if len(descriptors) >= limit {
			break
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return descriptors, nil
}

func listPublicUserRepos(ctx context.Context, client *gh.Client, user string, limit int) ([]Descriptor, error) {
	descriptors := make([]Descriptor, 0, min(limit, 100))

	opts := &github.RepositoryListByUserOptions{
		ListOptions: github.ListOptions{PerPage: 100},
		Type:        "owner",
	}
	for {
		repos, resp, err := client.Client.Repositories.ListByUser(ctx, user, opts)
		if err != nil {
			return nil, fmt.Errorf("failed to list user repos: %w", err)
		}
		for _, repo := range repos {
			if len(descriptors) >= limit {
				break
			}
			descriptors = append(descriptors, descriptorFromRepository(repo))
		}
		if len(descriptors) >= limit {
			break
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return descriptors, nil
}

func descriptorFromRepository(repo *github.Repository) Descriptor {
	return Descriptor{
		Owner:         repo.GetOwner().GetLogin(),
		Name:          repo.GetName(),
		Private:       repo.GetPrivate(),
		Fork:          repo.GetFork(),
		PushedAt:      repo.GetPushedAt().Time,
		CloneURL:      repo.GetCloneURL(),
		DefaultBranch: repo.GetDefaultBranch(),
	}
}

func sortByPushedAtDesc(descriptors []Descriptor) {
	sort.SliceStable(descriptors, func(i, j int) bool {
		return descriptors[i].PushedAt.After(descriptors[j].PushedAt)
	})
}
