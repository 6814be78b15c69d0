package config

// Workfile represents the structure of the trier.work.yaml configuration file.
type Workfile struct {
	Version  string   `yaml:"version"`
	Root     string   `yaml:"root"`
	Projects []string `yaml:"projects"`
}

// Projectfile represents the structure of the trier.yaml configuration file.
type Projectfile struct {
	Version           string   `yaml:"version"`
	Project           string   `yaml:"project"`
	Root              string   `yaml:"root"`
	SourceExtension   string   `yaml:"sourceExtension"`
	ScriptExtension   string   `yaml:"scriptExtension"`
	ManifestExtension string   `yaml:"manifestExtension"`
	Scripts           []string `yaml:"scripts"`
	Jobs              int      `yaml:"jobs"`
}
