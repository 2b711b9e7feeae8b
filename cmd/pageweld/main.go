package main

import (
	"flag"
	"fmt"
	"io"
	"net/http"
	"net/http/httputil"
	"net/url"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/pageweld/pageweld"
	"github.com/pageweld/pageweld/cache"
	"github.com/pageweld/pageweld/pkg/pathmapper"
)

var (
	// CLI flags
	configFilenameFlag string
	portFlag           int
	originFlag         string
	providerFlag       string
	dbFilenameFlag     string
	verbosityTraceFlag bool
	logFilenameFlag    string

	// this is set by goreleaser
	version string
)

func init() {
	flag.StringVar(&configFilenameFlag, "config", "", "Path to config file")
	flag.StringVar(&originFlag, "origin", "", "Origin URL to proxy to (overrides config)")
	flag.IntVar(&portFlag, "port", 0, "Port to listen on (overrides config, default 8080)")
	flag.StringVar(&providerFlag, "provider", "", "Composite cache provider: memory, sqlite or leveldb (overrides config)")
	flag.StringVar(&dbFilenameFlag, "db", "", "Cache DB file or directory (overrides config)")
	flag.BoolVar(&verbosityTraceFlag, "vv", false, "Verbosity: trace logging")
	flag.StringVar(&logFilenameFlag, "log-file", "", "Log file to use (in addition to stdout)")

	if version == "" {
		version = "DEV"
	}
}

func main() {
	flag.Parse()

	// set log level
	logLevel := zerolog.DebugLevel
	if verbosityTraceFlag {
		logLevel = zerolog.TraceLevel
	}

	// set up log output to stdout
	// also output to logfile if specified
	logOutputs := make([]io.Writer, 0)
	logOutputs = append(logOutputs, zerolog.ConsoleWriter{Out: os.Stdout})
	if logFilenameFlag != "" {
		if logFileOutput, err := os.OpenFile(logFilenameFlag, os.O_APPEND|os.O_WRONLY|os.O_CREATE, 0644); err != nil {
			log.Fatal().Err(err).Msg("Cannot open log file")
		} else {
			logOutputs = append(logOutputs, logFileOutput)
		}
	}
	multiWriter := zerolog.MultiLevelWriter(logOutputs...)
	log.Logger = log.Level(logLevel).Output(multiWriter).
		With().Str("version", version).Logger()

	var config Config
	if configFilenameFlag != "" {
		var err error
		if config, err = getConfig(configFilenameFlag); err != nil {
			log.Fatal().Err(err).Msg("Cannot read config file")
		}
	}

	// flags override config file values
	if originFlag != "" {
		config.Origin = originFlag
	}
	if portFlag != 0 {
		config.Port = portFlag
	}
	if providerFlag != "" {
		config.Provider = providerFlag
	}
	if dbFilenameFlag != "" {
		config.DBPath = dbFilenameFlag
	}
	if config.Port == 0 {
		config.Port = 8080
	}
	if config.Origin == "" {
		log.Fatal().Msg("Please specify origin")
	}

	originURL, err := url.Parse(config.Origin)
	if err != nil {
		log.Fatal().Err(err).Msg("Could not parse origin URL")
	}

	mapper := pathmapper.New()
	for _, m := range config.Mappings {
		mapper.Add(m.Path, m.Decorators...)
	}

	var provider cache.Provider
	switch config.Provider {
	case "", "memory":
		provider = cache.NewMemCache()
	case "sqlite":
		provider = cache.NewSQLiteCache(config.DBPath)
	case "leveldb":
		path := config.DBPath
		if path == "" {
			path = "pageweld-cache"
		}
		leveldbCache, err := cache.NewLevelDBCache(path)
		if err != nil {
			log.Fatal().Err(err).Msg("Could not open leveldb cache")
		}
		defer leveldbCache.Close()
		provider = leveldbCache
	default:
		log.Fatal().Msgf("Unsupported cache provider: %s", config.Provider)
	}

	// the origin reverse proxy is the host dispatch for all internal
	// resource fetches
	proxy := &httputil.ReverseProxy{
		Director: createDirector(originURL),
	}

	weld := pageweld.New(pageweld.Config{
		Mapper: mapper,
		Cache:  provider,
		Logger: &log.Logger,
	})

	router := chi.NewRouter()
	router.Handle("/*", weld.Middleware(proxy))

	log.Info().Msgf("Decorating port %v in front of %s", config.Port, originURL)
	if err := http.ListenAndServe(fmt.Sprintf(":%d", config.Port), router); err != nil {
		log.Fatal().Err(err).Msg("Server stopped")
	}
}

func createDirector(origin *url.URL) func(req *http.Request) {
	return func(req *http.Request) {
		req.URL.Scheme = origin.Scheme
		req.URL.Host = origin.Host
		req.Host = origin.Host
	}
}
