package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/loykin/apicheck/internal/common"
	"github.com/pelletier/go-toml/v2"
	"github.com/pelletier/go-toml/v2/unstable"
	"gopkg.in/yaml.v3"
)

// Format identifies the syntax of a configuration document.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
	FormatJSON Format = "json"
)

const (
	keyEnvironments = "environments"
	keyAppErrorCode = "app_error_code_to_fail"
)

// ErrUnsupportedFormat is returned for files whose extension maps to no known format.
var ErrUnsupportedFormat = errors.New("unsupported configuration format")

// FormatFromPath picks the document format from the file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	case ".json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("%w: %q (use .yaml, .yml, .toml or .json)", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

type environmentDoc struct {
	BaseURL string `mapstructure:"baseurl"`
}

// document mirrors the on-disk layout shared by every format.
type document struct {
	Paths              []string                  `mapstructure:"paths"`
	AppErrorKeyToFail  string                    `mapstructure:"app_error_key_to_fail"`
	AppErrorCodeToFail *string                   `mapstructure:"app_error_code_to_fail"`
	Environments       map[string]environmentDoc `mapstructure:"environments"`
	Client             ClientConfig              `mapstructure:"client"`
	Logging            LoggingConfig             `mapstructure:"logging"`
}

// Load reads, decodes and validates the configuration file at path.
func Load(path string) (*Config, error) {
	clean := filepath.Clean(path)
	// Ensure path points to a regular file to avoid opening directories/special files
	info, err := os.Stat(clean)
	if err != nil {
		return nil, err
	}
	if !info.Mode().IsRegular() {
		return nil, fmt.Errorf("not a regular file: %s", clean)
	}
	format, err := FormatFromPath(clean)
	if err != nil {
		return nil, err
	}
	// #nosec G304 -- config path is provided intentionally by the user/CI; cleaned and validated above
	data, err := os.ReadFile(clean)
	if err != nil {
		return nil, err
	}
	cfg, err := Parse(data, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", clean, err)
	}
	common.GetLogger().WithComponent("config").Debug("configuration loaded",
		"path", clean,
		"format", string(format),
		"environments", len(cfg.Environments),
		"paths", len(cfg.Paths))
	return cfg, nil
}

// Parse decodes and validates a configuration document.
func Parse(data []byte, format Format) (*Config, error) {
	var (
		raw   map[string]interface{}
		order []string
		err   error
	)
	switch format {
	case FormatYAML:
		raw, order, err = decodeYAML(data)
	case FormatTOML:
		raw, order, err = decodeTOML(data)
	case FormatJSON:
		raw, order, err = decodeJSON(data)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s configuration: %w", format, err)
	}
	if err := codeLiteral(raw); err != nil {
		return nil, err
	}

	var doc document
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		// scalars such as min_tls_version: 1.2 decode as "1.2"
		WeaklyTypedInput: true,
		Result:           &doc,
	})
	if err != nil {
		return nil, err
	}
	if err := dec.Decode(raw); err != nil {
		return nil, fmt.Errorf("failed to decode configuration: %w", err)
	}

	cfg := doc.build(order)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// build converts the decoded document, ordering environments by order and
// appending any remaining names sorted.
func (d *document) build(order []string) *Config {
	cfg := &Config{
		Paths:        d.Paths,
		AppErrorKey:  d.AppErrorKeyToFail,
		AppErrorCode: d.AppErrorCodeToFail,
		Client:       d.Client,
		Logging:      d.Logging,
	}

	placed := make(map[string]struct{}, len(d.Environments))
	for _, name := range order {
		e, ok := d.Environments[name]
		if !ok {
			continue
		}
		if _, dup := placed[name]; dup {
			continue
		}
		placed[name] = struct{}{}
		cfg.Environments = append(cfg.Environments, Environment{Name: name, BaseURL: e.BaseURL})
	}
	rest := make([]string, 0, len(d.Environments)-len(placed))
	for name := range d.Environments {
		if _, ok := placed[name]; !ok {
			rest = append(rest, name)
		}
	}
	sort.Strings(rest)
	for _, name := range rest {
		cfg.Environments = append(cfg.Environments, Environment{Name: name, BaseURL: d.Environments[name].BaseURL})
	}
	return cfg
}

// codeLiteral leaves app_error_code_to_fail as the text written in the
// document. Decoders replace scalars with their literal text where the
// syntax tree is available; JSON numbers arrive as json.Number.
func codeLiteral(raw map[string]interface{}) error {
	v, ok := raw[keyAppErrorCode]
	if !ok || v == nil {
		return nil
	}
	switch t := v.(type) {
	case string:
	case json.Number:
		raw[keyAppErrorCode] = t.String()
	case bool:
		raw[keyAppErrorCode] = strconv.FormatBool(t)
	default:
		return fmt.Errorf("%w: %s must be a scalar, got %T", ErrInvalidConfig, keyAppErrorCode, v)
	}
	return nil
}

// decodeYAML returns the document as a generic map plus the declaration
// order of the environments mapping.
func decodeYAML(data []byte) (map[string]interface{}, []string, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, nil, err
	}
	raw := map[string]interface{}{}
	if root.Kind == 0 {
		// empty document
		return raw, nil, nil
	}
	if err := root.Decode(&raw); err != nil {
		return nil, nil, err
	}

	var order []string
	doc := &root
	if doc.Kind == yaml.DocumentNode && len(doc.Content) > 0 {
		doc = doc.Content[0]
	}
	if doc.Kind != yaml.MappingNode {
		return raw, nil, nil
	}
	for i := 0; i+1 < len(doc.Content); i += 2 {
		key, val := doc.Content[i].Value, doc.Content[i+1]
		if val.Kind == yaml.AliasNode && val.Alias != nil {
			val = val.Alias
		}
		switch {
		case key == keyEnvironments && val.Kind == yaml.MappingNode:
			order = order[:0]
			for j := 0; j+1 < len(val.Content); j += 2 {
				order = append(order, val.Content[j].Value)
			}
		case key == keyAppErrorCode && val.Kind == yaml.ScalarNode && val.ShortTag() != "!!null":
			// 00000, 0050 and true stay as written
			raw[keyAppErrorCode] = val.Value
		}
	}
	return raw, order, nil
}

// decodeTOML returns the document as a generic map plus the declaration
// order of the environments tables.
func decodeTOML(data []byte) (map[string]interface{}, []string, error) {
	raw := map[string]interface{}{}
	if err := toml.Unmarshal(data, &raw); err != nil {
		return nil, nil, err
	}

	var (
		p     unstable.Parser
		order []string
		table []string
	)
	p.Reset(data)
	for p.NextExpression() {
		expr := p.Expression()
		switch expr.Kind {
		case unstable.Table:
			table = tomlKey(expr)
			if len(table) >= 2 && table[0] == keyEnvironments {
				order = append(order, table[1])
			}
		case unstable.ArrayTable:
			table = tomlKey(expr)
		case unstable.KeyValue:
			full := append(append([]string(nil), table...), tomlKey(expr)...)
			val := expr.Value()
			switch {
			case len(full) >= 2 && full[0] == keyEnvironments:
				order = append(order, full[1])
			case len(full) == 1 && full[0] == keyEnvironments && val.Kind == unstable.InlineTable:
				it := val.Children()
				for it.Next() {
					if k := tomlKey(it.Node()); len(k) > 0 {
						order = append(order, k[0])
					}
				}
			case len(full) == 1 && full[0] == keyAppErrorCode:
				if val.Kind != unstable.Array && val.Kind != unstable.InlineTable {
					raw[keyAppErrorCode] = string(val.Data)
				}
			}
		}
	}
	if err := p.Error(); err != nil {
		return nil, nil, err
	}
	return raw, order, nil
}

func tomlKey(n *unstable.Node) []string {
	if n.Kind != unstable.KeyValue && n.Kind != unstable.Table && n.Kind != unstable.ArrayTable {
		return nil
	}
	var parts []string
	it := n.Key()
	for it.Next() {
		parts = append(parts, string(it.Node().Data))
	}
	return parts
}

// decodeJSON returns the document as a generic map plus the key order of
// the environments object. Numbers keep their literal text.
func decodeJSON(data []byte) (map[string]interface{}, []string, error) {
	raw := map[string]interface{}{}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		return nil, nil, err
	}
	order, err := jsonEnvironmentOrder(data)
	if err != nil {
		return nil, nil, err
	}
	return raw, order, nil
}

func jsonEnvironmentOrder(data []byte) ([]string, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	if tok, err := dec.Token(); err != nil || tok != json.Delim('{') {
		return nil, err
	}
	var order []string
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		if key, _ := tok.(string); key != keyEnvironments {
			var skip json.RawMessage
			if err := dec.Decode(&skip); err != nil {
				return nil, err
			}
			continue
		}
		var envs json.RawMessage
		if err := dec.Decode(&envs); err != nil {
			return nil, err
		}
		if order, err = jsonObjectKeys(envs); err != nil {
			return nil, err
		}
	}
	return order, nil
}

func jsonObjectKeys(data []byte) ([]string, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	if tok, err := dec.Token(); err != nil || tok != json.Delim('{') {
		return nil, err
	}
	var keys []string
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, _ := tok.(string)
		keys = append(keys, key)
		var skip json.RawMessage
		if err := dec.Decode(&skip); err != nil {
			return nil, err
		}
	}
	return keys, nil
}
