package module

import (
	"censusbq/internal/platform/config"
	dom "censusbq/internal/services/census/domain"
	"censusbq/internal/services/census/service"
)

// Options holds configuration settings for the census module
type Options struct {
	// Dir is the snapshot directory listed by the API; the CLI passes its own
	Dir     string
	Service service.Config
}

// FromConfig reads CORE_CENSUS_*
func FromConfig(cfg config.Conf) Options {
	cc := cfg.Prefix("CORE_CENSUS_")
	return Options{
		Dir: cc.MayString("DIR", "."),
		Service: service.Config{
			Limit:    cc.MayInt("LIMIT", service.DefaultLimit),
			OutDir:   cc.MayString("OUT_DIR", "."),
			SpoolRaw: cc.MayBool("SPOOL_RAW", false),
			Policy: dom.FailurePolicy(cc.MayEnum("ON_LOAD_FAILURE", string(dom.PolicyContinue),
				string(dom.PolicyContinue), string(dom.PolicyAbort))),
			SkipUploaded:   cc.MayBool("SKIP_UPLOADED", true),
			SchemaFile:     cc.MayString("SCHEMA_FILE", "./schema/usage-schema.json"),
			CredentialFile: cc.MayString("CREDENTIAL_FILE", "./gapipk.json"),
			UploadType:     cc.MayString("UPLOAD_TYPE", "census"),
		},
	}
}
