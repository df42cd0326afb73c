package loader

import (
	"strings"

	"censusbq/internal/adapters/bigquery"
	"censusbq/internal/platform/config"
	"censusbq/internal/services/census/domain"
)

// Loader kinds selectable through CORE_LOADER_KIND
const (
	KindExec     = "exec"
	KindBigQuery = "bigquery"
)

// Options are the CORE_LOADER_* settings
type Options struct {
	Kind           string
	Command        []string
	Target         Target
	Streaming      bool
	Disposition    string
	InsertID       string
	TemplateSuffix string
}

// FromConfig reads CORE_LOADER_*
func FromConfig(cfg config.Conf) Options {
	lc := cfg.Prefix("CORE_LOADER_")
	return Options{
		Kind:    lc.MayEnum("KIND", KindExec, KindExec, KindBigQuery),
		Command: strings.Fields(lc.MayString("COMMAND", strings.Join(DefaultCommand, " "))),
		Target: Target{
			ProjectID:   lc.MayString("PROJECT_ID", "jenkins-user-stats"),
			DatasetID:   lc.MayString("DATASET_ID", "jenkinsstats"),
			TableID:     lc.MayString("TABLE_ID", "jenkins_usage"),
			CreateTable: lc.MayBool("CREATE_TABLE", true),
		},
		Streaming:      lc.MayBool("STREAMING", false),
		Disposition:    lc.MayString("WRITE_DISPOSITION", bigquery.WriteAppend),
		InsertID:       lc.MayString("INSERT_ID_FIELD", ""),
		TemplateSuffix: lc.MayString("TEMPLATE_SUFFIX", ""),
	}
}

// New builds the configured loader
func New(o Options) domain.Loader {
	if o.Kind == KindBigQuery {
		return NewBigQuery(o.Target, bigquery.Config{
			Streaming:        o.Streaming,
			WriteDisposition: o.Disposition,
			InsertIDField:    o.InsertID,
			TemplateSuffix:   o.TemplateSuffix,
		})
	}
	return NewExec(o.Command, o.Target)
}
