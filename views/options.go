package views

import (
	"errors"
	"strings"
)

// ModelOption represents a functional option for configuring a View
// Model.
type ModelOption func(*Model) error

// VendorRootOption sets the directory that module paths are resolved
// against.
func VendorRootOption(root string) ModelOption {
	return func(m *Model) error {
		if strings.TrimSpace(root) == "" {
			return errors.New("views: empty vendor root")
		}
		m.vendorRoot = root
		return nil
	}
}

// ExtensionOption sets the template file extension. A leading dot is
// added if missing.
func ExtensionOption(ext string) ModelOption {
	return func(m *Model) error {
		ext = strings.TrimSpace(ext)
		if ext == "" {
			return errors.New("views: empty template extension")
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		m.extension = ext
		return nil
	}
}

// GeneratorOption sets the value of the X-Generator header emitted on
// every successful render. An empty name disables the header.
func GeneratorOption(name string) ModelOption {
	return func(m *Model) error {
		m.generator = name
		return nil
	}
}

// EngineOption replaces the default html/template engine.
func EngineOption(e Engine) ModelOption {
	return func(m *Model) error {
		if e == nil {
			return errors.New("views: nil engine")
		}
		m.engine = e
		return nil
	}
}

// GlobalFunctionsOption binds the template functions yielded by the
// supplied function provider. It only affects the default engine.
func GlobalFunctionsOption(provider FunctionProvider) ModelOption {
	return func(m *Model) error {
		for name, fn := range provider.GetViewFunctions() {
			m.funcs[name] = fn
		}
		return nil
	}
}

// CacheSizeOption bounds the number of parsed templates the default
// engine keeps. Zero means no limit.
func CacheSizeOption(n int) ModelOption {
	return func(m *Model) error {
		if n < 0 {
			return errors.New("views: negative cache size")
		}
		m.cacheSize = n
		return nil
	}
}

// RebuildOption makes the default engine re-parse every template on
// every render.
func RebuildOption(rebuild bool) ModelOption {
	return func(m *Model) error {
		m.rebuild = rebuild
		return nil
	}
}
