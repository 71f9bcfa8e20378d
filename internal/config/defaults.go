package config

// DefaultConfig returns a Config with sensible defaults. The base URL and
// credentials have no useful defaults and must come from the config file,
// the environment, or the init wizard.
func DefaultConfig() *Config {
	return &Config{
		Port:               8730,
		TagName:            "Gruppentool",
		HTTPTimeoutSeconds: 15,
		MaxPages:           100,
		Group: GroupDefaults{
			StatusID:   1,
			Visibility: VisibilityHidden,
			InviteMail: false,
		},
	}
}
