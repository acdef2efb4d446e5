package probe

import (
	_ "embed"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed cdn_patterns.yaml
var cdnPatternsYAML []byte

type cdnPattern struct {
	Pattern  string `yaml:"pattern"`
	Provider string `yaml:"provider"`
}

type cdnCatalog struct {
	NameSubstrings  []cdnPattern `yaml:"name_substrings"`
	AddressPrefixes []cdnPattern `yaml:"address_prefixes"`
}

var (
	cdnCatalogOnce sync.Once
	cdnPatterns    cdnCatalog
)

func loadCDNCatalog() cdnCatalog {
	cdnCatalogOnce.Do(func() {
		// The catalog is embedded and validated by tests; a parse failure
		// leaves detection disabled rather than failing the probe.
		_ = yaml.Unmarshal(cdnPatternsYAML, &cdnPatterns)
	})
	return cdnPatterns
}

// detectCDN scans answer record names and addresses against the fixed
// CDN signature catalog. Returns the matched provider name, if any.
func detectCDN(answers []DoHAnswer) (string, bool) {
	catalog := loadCDNCatalog()

	for _, answer := range answers {
		name := strings.ToLower(answer.Name)
		data := strings.ToLower(answer.Data)

		for _, sig := range catalog.NameSubstrings {
			if sig.Pattern == "" {
				continue
			}
			if strings.Contains(name, sig.Pattern) || strings.Contains(data, sig.Pattern) {
				return sig.Provider, true
			}
		}
		for _, sig := range catalog.AddressPrefixes {
			if sig.Pattern == "" {
				continue
			}
			if strings.HasPrefix(answer.Data, sig.Pattern) {
				return sig.Provider, true
			}
		}
	}

	return "", false
}
