package core

// Suite is the yaml document naming the jobs to launch and how to launch them.
type Suite struct {
	Name           string   `yaml:"suite"`           // Suite name (used in log file names)
	RunPrefix      string   `yaml:"run_prefix"`      // Static command prefix (e.g. "bundle exec rake test:run")
	OutputPipeline string   `yaml:"output_pipeline"` // Shell fragment appended after the job flag (e.g. "2>&1")
	LogDir         string   `yaml:"log_dir"`         // Directory for per-job log files
	Concurrency    int      `yaml:"concurrency"`     // 0 means platform default
	Jobs           []string `yaml:"jobs"`            // Ordered list of job names
}
