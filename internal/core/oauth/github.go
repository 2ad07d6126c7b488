package oauth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/github"

	"product-catalog-api/internal/domain"
)

const githubAPI = "https://api.github.com"

type GitHubConfig struct {
	Name         string
	DisplayName  string
	ClientID     string
	ClientSecret string
	RedirectURL  string
	Scopes       []string
	// Endpoint and APIBaseURL default to github.com.
	Endpoint   oauth2.Endpoint
	APIBaseURL string
}

type GitHub struct {
	name        string
	displayName string
	api         string
	config      *oauth2.Config
}

func NewGitHub(cfg GitHubConfig) *GitHub {
	if cfg.Name == "" {
		cfg.Name = "github"
	}
	if cfg.DisplayName == "" {
		cfg.DisplayName = "GitHub"
	}
	if cfg.Endpoint.AuthURL == "" {
		cfg.Endpoint = github.Endpoint
	}
	if cfg.APIBaseURL == "" {
		cfg.APIBaseURL = githubAPI
	}
	scopes := cfg.Scopes
	if len(scopes) == 0 {
		scopes = []string{"read:user", "user:email"}
	}
	return &GitHub{
		name:        cfg.Name,
		displayName: cfg.DisplayName,
		api:         strings.TrimRight(cfg.APIBaseURL, "/"),
		config: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Endpoint:     cfg.Endpoint,
			Scopes:       scopes,
		},
	}
}

func (g *GitHub) Name() string { return g.name }

func (g *GitHub) AuthCodeURL(state string) string { return g.config.AuthCodeURL(state) }

func (g *GitHub) Exchange(ctx context.Context, code string) (*domain.ExternalLoginInfo, error) {
	tok, err := g.config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("github: exchange code: %w", err)
	}
	client := g.config.Client(ctx, tok)

	var user struct {
		ID    int64  `json:"id"`
		Login string `json:"login"`
		Email string `json:"email"`
	}
	if err := g.getJSON(ctx, client, "/user", &user); err != nil {
		return nil, err
	}
	if user.ID == 0 {
		return nil, fmt.Errorf("github: user response carries no id")
	}

	email := user.Email
	if email == "" {
		var emails []struct {
			Email    string `json:"email"`
			Primary  bool   `json:"primary"`
			Verified bool   `json:"verified"`
		}
		if err := g.getJSON(ctx, client, "/user/emails", &emails); err != nil {
			return nil, err
		}
		for _, e := range emails {
			if e.Primary && e.Verified {
				email = e.Email
				break
			}
		}
	}

	return &domain.ExternalLoginInfo{
		LoginProvider:       g.displayName,
		ProviderKey:         strconv.FormatInt(user.ID, 10),
		ProviderDisplayName: g.displayName,
		Email:               email,
	}, nil
}

func (g *GitHub) getJSON(ctx context.Context, client *http.Client, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.api+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	res, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("github: GET %s: %w", path, err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		return fmt.Errorf("github: GET %s: status %d", path, res.StatusCode)
	}
	return json.NewDecoder(res.Body).Decode(out)
}
