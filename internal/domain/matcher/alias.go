package matcher

// CompanyAlias declares names and program-title prefixes that belong to a company
// even though they do not contain its name.
type CompanyAlias struct {
	Company         string   `koanf:"company" yaml:"company"`
	Members         []string `koanf:"members" yaml:"members"`
	ProgramPrefixes []string `koanf:"program_prefixes" yaml:"program_prefixes"`
}

// AliasTable is the versioned, externally configurable matching data.
type AliasTable struct {
	Version       string            `koanf:"version" yaml:"version"`
	Companies     []CompanyAlias    `koanf:"companies" yaml:"companies"`
	ProgramNames  map[string]string `koanf:"program_names" yaml:"program_names"`
	IgnoredTokens []string          `koanf:"ignored_tokens" yaml:"ignored_tokens"`
}

// DefaultAliasTable returns the built-in table used when none is configured.
func DefaultAliasTable() AliasTable {
	return AliasTable{
		Version: "2024.1",
		Companies: []CompanyAlias{
			{
				Company:         "The Wonderful Company",
				Members:         []string{"Wonderful Orchards"},
				ProgramPrefixes: []string{"TWC"},
			},
		},
		ProgramNames: map[string]string{
			"CP-0028": "GROW - Cohort 1",
		},
		IgnoredTokens: []string{"the", "a", "an"},
	}
}
