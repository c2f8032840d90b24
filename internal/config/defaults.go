package config

const (
	defaultWorkDir   = "~/.local/share/hardsub/work"
	defaultOutputDir = "~/.local/share/hardsub/output"
	defaultLogDir    = "~/.local/share/hardsub/logs"
	defaultAPIBind   = "127.0.0.1:7519"
	defaultFontDir   = "~/.local/share/hardsub/fonts"

	defaultFFmpegBinary  = "ffmpeg"
	defaultFFprobeBinary = "ffprobe"
	defaultFcCacheBinary = "fc-cache"
	defaultVideoCodec    = "libx264"
	defaultPreset        = "ultrafast"
	defaultCRF           = 23
	defaultPixelFormat   = "yuv420p"

	// Timeouts scale with the probed input duration. The factor leaves
	// headroom for an ultrafast re-encode on loaded hosts.
	defaultTimeoutFactor         = 3.0
	defaultTimeoutFloorSeconds   = 60
	defaultTimeoutCeilingSeconds = 1800
	defaultStderrTailBytes       = 4096

	defaultFontSize  = 28
	defaultAlignment = 10
	defaultOutline   = 2
	defaultShadow    = 1
	defaultMarginV   = 40

	// Each worker spawns a CPU-heavy encode, so the pool stays small and
	// independent of GOMAXPROCS.
	defaultWorkers    = 4
	defaultQueueDepth = 32

	defaultLogFormat = "console"
	defaultLogLevel  = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			WorkDir:   defaultWorkDir,
			OutputDir: defaultOutputDir,
			LogDir:    defaultLogDir,
			APIBind:   defaultAPIBind,
		},
		Fonts: Fonts{
			Dir:     defaultFontDir,
			Scripts: map[string]FontSpec{},
		},
		Render: Render{
			FFmpegBinary:          defaultFFmpegBinary,
			FFprobeBinary:         defaultFFprobeBinary,
			FcCacheBinary:         defaultFcCacheBinary,
			VideoCodec:            defaultVideoCodec,
			Preset:                defaultPreset,
			CRF:                   defaultCRF,
			PixelFormat:           defaultPixelFormat,
			TimeoutFactor:         defaultTimeoutFactor,
			TimeoutFloorSeconds:   defaultTimeoutFloorSeconds,
			TimeoutCeilingSeconds: defaultTimeoutCeilingSeconds,
			StderrTailBytes:       defaultStderrTailBytes,
		},
		Style: Style{
			FontSize:  defaultFontSize,
			Alignment: defaultAlignment,
			Outline:   defaultOutline,
			Shadow:    defaultShadow,
			MarginV:   defaultMarginV,
		},
		Scheduler: Scheduler{
			Workers:    defaultWorkers,
			QueueDepth: defaultQueueDepth,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
