package config

// Kind names the sort of precondition a Requirement describes.
type Kind string

const (
	// KindBinary is an executable that must run with its version flag.
	KindBinary Kind = "binary"
	// KindEnv is an environment variable that must be set to a non-empty value.
	KindEnv Kind = "env"
	// KindFile is an owner-provided file (credentials, license) that must exist.
	KindFile Kind = "file"
	// KindWorkDir is a location the tool must be run from.
	KindWorkDir Kind = "workdir"
	// KindCommand is anything a probe command can detect and install commands can add,
	// such as a vagrant plugin or box.
	KindCommand Kind = "command"
)

// Install sources for binary requirements.
const (
	SourcePackage = "package" // platform package manager, e.g. brew
	SourceGitHub  = "github"  // GitHub release asset
	SourceURL     = "url"     // direct download
)

// Requirement is a named precondition checked once per run.
// Which fields apply depends on Kind.
type Requirement struct {
	Name string `yaml:"name"`
	Kind Kind   `yaml:"kind"`

	// Description lines are printed before the check to explain what the value is for.
	Description []string `yaml:"description,omitempty"`
	// Message is printed when a file or workdir requirement is not met.
	Message string `yaml:"message,omitempty"`
	// Path is the file to look for (file) or the location to run from (workdir).
	Path string `yaml:"path,omitempty"`

	// Secret values are read without echo.
	Secret bool `yaml:"secret,omitempty"`

	// VersionArgs are passed to the binary as its presence test. Default: --version.
	VersionArgs []string `yaml:"version_args,omitempty"`
	// Version is an optional semver constraint, e.g. ">= 2.30".
	Version string `yaml:"version,omitempty"`
	// Source selects the installer: package (default), github or url.
	Source string `yaml:"source,omitempty"`
	// Package overrides the package name given to the package manager.
	Package string `yaml:"package,omitempty"`
	Repo    string `yaml:"repo,omitempty"` // GitHub repo, e.g. cli/cli
	Tag     string `yaml:"tag,omitempty"`  // GitHub release tag; empty means latest
	URL     string `yaml:"url,omitempty"`  // direct download URL

	// Probe is the presence test of a command requirement.
	Probe []string `yaml:"probe,omitempty"`
	// Expect must appear in the probe's stdout when set.
	Expect string `yaml:"expect,omitempty"`
	// Install commands run in order when the probe fails.
	Install [][]string `yaml:"install,omitempty"`
}

// Section groups requirements under a banner.
type Section struct {
	Title        string        `yaml:"title"`
	FootNote     string        `yaml:"foot_note"`
	Requirements []Requirement `yaml:"requirements"`
}

// Launch is the final step, run once every section has passed.
type Launch struct {
	Title    string   `yaml:"title"`
	Announce string   `yaml:"announce"`
	Command  []string `yaml:"command"`
	FootNote string   `yaml:"foot_note"`
	// Complete lines are printed after the launch command succeeds.
	Complete []string `yaml:"complete"`
}

// Config is the full description of a run.
type Config struct {
	// EnvFile is an optional dotenv file whose values fill in unset variables.
	EnvFile string `yaml:"env_file"`
	// BinDir receives binaries installed from release archives.
	BinDir string `yaml:"bin_dir"`
	// PackageManagers maps GOOS to the command prefix that installs a package.
	PackageManagers map[string][]string `yaml:"package_managers"`
	// GitHubAPI is the base URL of the GitHub REST API.
	GitHubAPI string    `yaml:"github_api"`
	Sections  []Section `yaml:"sections"`
	Launch    Launch    `yaml:"launch"`
}
