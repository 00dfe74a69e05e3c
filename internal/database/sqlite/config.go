package sqlite

import (
	"encoding/xml"
	"path/filepath"
	"strings"

	"github.com/koustreak/litedb/internal/confstore"
	"github.com/koustreak/litedb/internal/errs"
	"github.com/koustreak/litedb/internal/paths"
)

// ConfigurationFileName is the name of the configuration file inside
// paths.ConfigurationDirectory.
const ConfigurationFileName = "SqLiteConfiguration.yaml"

// Connection string keys, in the order they are rendered.
const (
	keyDataSource = "Data Source"
	keyVersion    = "Version"
	keyPassword   = "Password"
)

// Configuration holds everything needed to reach a database file. Each
// Wrapper owns its own copy.
type Configuration struct {
	XMLName xml.Name `yaml:"-" xml:"SqLiteConfiguration"`

	// DatabasePath is the path of the database file.
	DatabasePath string `yaml:"database_path" xml:"DatabasePath"`

	// DatabaseVersion is the SQLite major version tag ("3").
	DatabaseVersion string `yaml:"database_version" xml:"DatabaseVersion"`

	// Password is applied as PRAGMA key on every connection. Optional.
	Password string `yaml:"password,omitempty" xml:"Pwd"`

	file string
}

// DefaultConfigurationPath returns the well-known configuration file path.
func DefaultConfigurationPath() (string, error) {
	dir, err := paths.ConfigurationDirectory()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, ConfigurationFileName), nil
}

// NewConfiguration returns an empty configuration bound to file. An empty
// file selects DefaultConfigurationPath. Nothing is read yet.
func NewConfiguration(file string) (*Configuration, error) {
	if file == "" {
		def, err := DefaultConfigurationPath()
		if err != nil {
			return nil, errs.Wrap(errs.ErrKindConfigLoad, "failed to resolve configuration directory", err)
		}
		file = def
	}
	return &Configuration{file: file}, nil
}

// File returns the path Read and Write use.
func (c *Configuration) File() string {
	return c.file
}

// ConnectionString renders the connection descriptor: non-empty fields
// only, always in the order data source, version, password.
//
//	Data Source=/var/lib/app/test.db;Version=3;
func (c *Configuration) ConnectionString() string {
	var sb strings.Builder
	if c.DatabasePath != "" {
		sb.WriteString(keyDataSource + "=" + c.DatabasePath + ";")
	}
	if c.DatabaseVersion != "" {
		sb.WriteString(keyVersion + "=" + c.DatabaseVersion + ";")
	}
	if c.Password != "" {
		sb.WriteString(keyPassword + "=" + c.Password + ";")
	}
	return sb.String()
}

// String is the connection string with the password masked, safe for logs.
func (c *Configuration) String() string {
	masked := *c
	if masked.Password != "" {
		masked.Password = "****"
	}
	return masked.ConnectionString()
}

// Write persists the configuration to its file, creating parent
// directories as needed.
func (c *Configuration) Write() error {
	return confstore.Write(c.file, c)
}

// Read loads the configuration file into c. A missing, unreadable or
// malformed file is an ErrKindConfigLoad error and leaves c unchanged.
func (c *Configuration) Read() error {
	var loaded Configuration
	if err := confstore.Read(c.file, &loaded); err != nil {
		return errs.Wrap(errs.ErrKindConfigLoad, "could not load configuration file", err)
	}

	c.DatabasePath = loaded.DatabasePath
	c.DatabaseVersion = loaded.DatabaseVersion
	c.Password = loaded.Password
	return nil
}

// ParseConnectionString is the inverse of ConnectionString. Keys are
// matched case-insensitively and the aliases DataSource and Pwd are
// accepted. Unknown keys are rejected. Values cannot contain ";".
func ParseConnectionString(s string) (*Configuration, error) {
	c := &Configuration{}
	for _, seg := range strings.Split(s, ";") {
		if strings.TrimSpace(seg) == "" {
			continue
		}
		key, value, ok := strings.Cut(seg, "=")
		if !ok {
			return nil, errs.Newf(errs.ErrKindInvalidInput, "malformed connection string segment %q", seg)
		}
		switch strings.ToLower(strings.TrimSpace(key)) {
		case "data source", "datasource":
			c.DatabasePath = value
		case "version":
			c.DatabaseVersion = strings.TrimSpace(value)
		case "password", "pwd":
			c.Password = value
		default:
			return nil, errs.Newf(errs.ErrKindInvalidInput, "unknown connection string key %q", strings.TrimSpace(key))
		}
	}
	return c, nil
}
