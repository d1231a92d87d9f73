package config

import (
	"bytes"
	"os"
	"path/filepath"
	"text/template"
	"time"

	"github.com/DHowett/swiftlet"

	yaml "gopkg.in/yaml.v2"
)

var _ swiftlet.ConfigurationService = &fileConfigurationService{}

type fileConfigurationService struct {
	files []string
}

func (fc *fileConfigurationService) LoadConfiguration() (*swiftlet.Configuration, error) {
	var c swiftlet.Configuration
	for _, file := range fc.files {
		err := fc.appendFileToConfiguration(&c, file)
		if err != nil {
			return nil, err
		}
	}
	ApplyDefaults(&c)
	return &c, nil
}

// appendFileToConfiguration executes filename as a template (with the
// configuration so far as its dot) and unmarshals the result over c.
func (fc *fileConfigurationService) appendFileToConfiguration(c *swiftlet.Configuration, filename string) error {
	tmpl, err := template.New(filepath.Base(filename)).Funcs(template.FuncMap{
		"env": func(key string) (string, error) {
			return os.Getenv(key), nil
		},
	}).ParseFiles(filename)
	if err != nil {
		return err
	}

	buf := &bytes.Buffer{}
	err = tmpl.Execute(buf, c)
	if err != nil {
		return err
	}

	err = yaml.Unmarshal(buf.Bytes(), c)
	if err != nil {
		return err
	}

	return nil
}

// ApplyDefaults fills in every setting the configuration files left
// empty.
func ApplyDefaults(c *swiftlet.Configuration) {
	if c.Views.VendorRoot == "" {
		c.Views.VendorRoot = "vendor"
	}
	if c.Views.Engine == "" {
		c.Views.Engine = "html"
	}
	if c.Views.Extension == "" {
		if c.Views.Engine == "pongo2" {
			c.Views.Extension = ".tpl"
		} else {
			c.Views.Extension = ".html"
		}
	}
	if c.Views.Generator == nil {
		generator := "Swiftlet"
		c.Views.Generator = &generator
	}
	if c.Web.Bind == "" {
		c.Web.Bind = "0.0.0.0:8080"
	}
	if c.Web.SessionMaxAge == 0 {
		c.Web.SessionMaxAge = swiftlet.Duration(24 * time.Hour)
	}
	if c.Web.NotFound == "" {
		c.Web.NotFound = "errors:404"
	}
}

func NewFileConfigurationService(files []string) swiftlet.ConfigurationService {
	return &fileConfigurationService{
		files: files,
	}
}
