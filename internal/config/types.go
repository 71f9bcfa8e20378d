package config

// Visibility is the visibility assigned to a newly created group.
type Visibility string

const (
	VisibilityHidden     Visibility = "hidden"
	VisibilityIntern     Visibility = "intern"
	VisibilityPublic     Visibility = "public"
	VisibilityRestricted Visibility = "restricted"
)

// Config is the top-level gruppentool configuration, corresponding to
// .gruppentool.yml.
type Config struct {
	BaseURL  string `yaml:"base_url" koanf:"base_url"`
	Token    string `yaml:"token" koanf:"token"`
	Username string `yaml:"username" koanf:"username"`
	Password string `yaml:"password" koanf:"password"`

	Port            int  `yaml:"port" koanf:"port"`
	AllowAllOrigins bool `yaml:"allow_all_origins" koanf:"allow_all_origins"`

	TagName            string `yaml:"tag_name" koanf:"tag_name"`
	HTTPTimeoutSeconds int    `yaml:"http_timeout_seconds" koanf:"http_timeout_seconds"`
	MaxPages           int    `yaml:"max_pages" koanf:"max_pages"`

	Group GroupDefaults `yaml:"group" koanf:"group"`
}

// GroupDefaults holds the fixed fields sent with every group-create call.
type GroupDefaults struct {
	ParentID   int        `yaml:"parent_id" koanf:"parent_id"`
	StatusID   int        `yaml:"status_id" koanf:"status_id"`
	Visibility Visibility `yaml:"visibility" koanf:"visibility"`
	InviteMail bool       `yaml:"invite_mail" koanf:"invite_mail"`
}
