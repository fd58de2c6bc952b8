package cfg

type Cfg struct {
	// Database configuration
	DBPath string

	// Import configuration
	ImportDir       string
	ImportExtension string
	MappingsFile    string
	ForceImport     bool
	ImportOnly      bool

	// Application configuration
	Port              string
	WorkerCount       int
	SchedulerInterval int
	SyncInterval      int
	SyncDelayStep     int
	FetchTimeout      int
	APIAccessKey      string

	// Application metadata
	UserAgent string
	Timezone  string
	Debug     bool
	Version   string
}
