package logger

// Console implements a console based logger.
type Console struct {
	Enabled          bool
	UseConsoleWriter bool // human readable output instead of JSON lines
}

// RollingFile configures one lumberjack rolled log file.
type RollingFile struct {
	Name       string
	MaxSize    int // megabytes
	MaxBackups int
	MaxAge     int // days
}

// LogFile implements a file based logger, one file per level group plus the access log.
type LogFile struct {
	Enabled bool
	Path    string

	AccessLog        string
	AccessMaxSize    int
	AccessMaxBackups int
	AccessMaxAge     int

	ErrorLog        string
	ErrorMaxSize    int
	ErrorMaxBackups int
	ErrorMaxAge     int

	InfoLog        string
	InfoMaxSize    int
	InfoMaxBackups int
	InfoMaxAge     int

	TraceLog        string
	TraceMaxSize    int
	TraceMaxBackups int
	TraceMaxAge     int

	WarnLog        string
	WarnMaxSize    int
	WarnMaxBackups int
	WarnMaxAge     int
}

// Access returns the rolling settings of the access log.
func (f LogFile) Access() RollingFile {
	return RollingFile{Name: f.AccessLog, MaxSize: f.AccessMaxSize, MaxBackups: f.AccessMaxBackups, MaxAge: f.AccessMaxAge}
}

// Error returns the rolling settings of the error log.
func (f LogFile) Error() RollingFile {
	return RollingFile{Name: f.ErrorLog, MaxSize: f.ErrorMaxSize, MaxBackups: f.ErrorMaxBackups, MaxAge: f.ErrorMaxAge}
}

// Info returns the rolling settings of the info log.
func (f LogFile) Info() RollingFile {
	return RollingFile{Name: f.InfoLog, MaxSize: f.InfoMaxSize, MaxBackups: f.InfoMaxBackups, MaxAge: f.InfoMaxAge}
}

// Trace returns the rolling settings of the trace log.
func (f LogFile) Trace() RollingFile {
	return RollingFile{Name: f.TraceLog, MaxSize: f.TraceMaxSize, MaxBackups: f.TraceMaxBackups, MaxAge: f.TraceMaxAge}
}

// Warn returns the rolling settings of the warn log.
func (f LogFile) Warn() RollingFile {
	return RollingFile{Name: f.WarnLog, MaxSize: f.WarnMaxSize, MaxBackups: f.WarnMaxBackups, MaxAge: f.WarnMaxAge}
}

// Log implements the logger config.
type Log struct {
	LogLevel string // trace, debug, info, warn, error.
	LogEnv   string

	// EnableAccessLogToConsole writes the http access log to stdout.
	// Does not overrule Console.Enabled.
	EnableAccessLogToConsole bool
	ReportCaller             bool
	DisableCheckAlive        bool // do not log /checkalive calls

	AppName     string
	ServiceName string

	Console Console
	File    LogFile
}
