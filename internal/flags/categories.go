package flags

import "github.com/urfave/cli/v2"

const (
	HarnessCategory  = "HARNESS"
	ArtifactCategory = "ARTIFACTS"
	VMCategory       = "VIRTUAL MACHINE"
	LoggingCategory  = "LOGGING AND DEBUGGING"
	MetricsCategory  = "METRICS AND STATS"
	MiscCategory     = "MISC"
)

func init() {
	cli.HelpFlag.(*cli.BoolFlag).Category = MiscCategory
	cli.VersionFlag.(*cli.BoolFlag).Category = MiscCategory
}
