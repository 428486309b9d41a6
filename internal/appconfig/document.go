package appconfig

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// document is the configuration file as written, before defaults, flags or
// environment overrides are merged in.
type document struct {
	settings map[string]any
	// providersNode is the providers mapping of a YAML or JSON file; nil for
	// other formats.
	providersNode *yaml.Node
}

// readDocument loads the file at path on its own. YAML and JSON (a subset of
// YAML) are walked as a yaml.Node tree: viper lower-cases keys and splits them
// on dots, which would merge "OpenAI" with "openai" and break up IDs such as
// "api.deepseek.com". Other formats go through viper.
func readDocument(path string) (*document, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yml", ".yaml", ".json":
	default:
		raw := viper.New()
		raw.SetConfigFile(path)
		if err := raw.ReadInConfig(); err != nil {
			return nil, &ConfigurationError{Field: "config", Reason: err.Error()}
		}
		return &document{settings: raw.AllSettings()}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ConfigurationError{Field: "config", Reason: err.Error()}
	}
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, &ConfigurationError{Field: "config", Reason: fmt.Sprintf("parse %s: %v", path, err)}
	}

	doc := &document{}
	if len(root.Content) == 0 {
		return doc, nil
	}
	top := root.Content[0]
	if err := top.Decode(&doc.settings); err != nil {
		return nil, &ConfigurationError{Field: "config", Reason: fmt.Sprintf("decode %s: %v", path, err)}
	}
	if top.Kind != yaml.MappingNode {
		return doc, nil
	}
	for i := 0; i+1 < len(top.Content); i += 2 {
		if top.Content[i].Value == "providers" && top.Content[i+1].Kind == yaml.MappingNode {
			doc.providersNode = top.Content[i+1]
		}
	}
	return doc, nil
}

// declaredProviders decodes the providers mapping keyed by the IDs exactly as
// written, plus their declaration order. ok is false when the file format
// carries no ordered mapping and the viper-decoded providers must be used.
func (d *document) declaredProviders() (providers map[string]Provider, order []string, ok bool, err error) {
	if d.providersNode == nil {
		return nil, nil, false, nil
	}
	node := d.providersNode
	providers = make(map[string]Provider, len(node.Content)/2)
	order = make([]string, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		id := node.Content[i].Value
		var p Provider
		if err := node.Content[i+1].Decode(&p); err != nil {
			return nil, nil, false, &ConfigurationError{Field: "providers." + id, Reason: err.Error()}
		}
		providers[id] = p
		order = append(order, id)
	}
	return providers, order, true, nil
}
