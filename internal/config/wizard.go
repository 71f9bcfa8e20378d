package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/manifoldco/promptui"
)

// RunWizard runs an interactive configuration wizard and returns the
// resulting Config. It also saves the config to the given path.
func RunWizard(path string) (*Config, error) {
	fmt.Println("Welcome to gruppentool! Let's connect to your ChurchTools instance.")
	fmt.Println()

	cfg := DefaultConfig()

	// 1. Base URL.
	urlPrompt := promptui.Prompt{
		Label: "ChurchTools base URL (e.g. https://meinegemeinde.church.tools)",
		Validate: func(s string) error {
			u, err := url.Parse(strings.TrimSpace(s))
			if err != nil || u.Scheme == "" || u.Host == "" {
				return fmt.Errorf("not a valid URL")
			}
			return nil
		},
	}
	baseURL, err := urlPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("base URL: %w", err)
	}
	cfg.BaseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")

	// 2. Authentication method.
	authPrompt := promptui.Select{
		Label: "Authentication",
		Items: []string{
			"login token (recommended)",
			"username & password (development only)",
		},
	}
	authIdx, _, err := authPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("auth selection: %w", err)
	}

	if authIdx == 0 {
		tokenPrompt := promptui.Prompt{Label: "Login token", Mask: '*'}
		token, err := tokenPrompt.Run()
		if err != nil {
			return nil, fmt.Errorf("token: %w", err)
		}
		cfg.Token = strings.TrimSpace(token)
	} else {
		userPrompt := promptui.Prompt{Label: "Username"}
		username, err := userPrompt.Run()
		if err != nil {
			return nil, fmt.Errorf("username: %w", err)
		}
		passPrompt := promptui.Prompt{Label: "Password", Mask: '*'}
		password, err := passPrompt.Run()
		if err != nil {
			return nil, fmt.Errorf("password: %w", err)
		}
		cfg.Username = strings.TrimSpace(username)
		cfg.Password = password
	}

	// 3. Local API port.
	portPrompt := promptui.Prompt{
		Label:   "Local port for the widget API",
		Default: strconv.Itoa(cfg.Port),
		Validate: func(s string) error {
			n, err := strconv.Atoi(s)
			if err != nil || n < 1 || n > 65535 {
				return fmt.Errorf("must be a port number")
			}
			return nil
		},
	}
	portStr, err := portPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("port: %w", err)
	}
	cfg.Port, _ = strconv.Atoi(portStr)

	// 4. Tag applied to created groups.
	tagPrompt := promptui.Prompt{
		Label:   "Tag for created groups",
		Default: cfg.TagName,
	}
	tag, err := tagPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("tag name: %w", err)
	}
	cfg.TagName = strings.TrimSpace(tag)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Save(path); err != nil {
		return nil, err
	}

	fmt.Printf("\nConfiguration saved to %s\n", path)
	return cfg, nil
}
