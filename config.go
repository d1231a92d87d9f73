// Package swiftlet holds the configuration shared by the swiftlet commands.
package swiftlet

import (
	"strconv"
	"time"
)

type Duration time.Duration

func (d *Duration) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	*d = Duration(parsed)
	return err
}

// Verbosity is a glog -v level.
type Verbosity int

func (v Verbosity) String() string {
	return strconv.Itoa(int(v))
}

type Configuration struct {
	Views struct {
		VendorRoot string `yaml:"vendor_root"`
		Extension  string
		// Engine is "html" (html/template) or "pongo2".
		Engine    string
		Generator *string
		CacheSize int `yaml:"cache_size"`
		Rebuild   bool
	}

	Web struct {
		Bind           string
		SessionKeyFile string   `yaml:"session_key_file"`
		SessionMaxAge  Duration `yaml:"session_max_age"`
		Secure         bool
		// NotFound names the view rendered for unknown routes, as
		// "<module path>:<view name>".
		NotFound string `yaml:"not_found"`
	}

	Logging struct {
		Verbosity Verbosity
	}
}

type ConfigurationService interface {
	LoadConfiguration() (*Configuration, error)
}
