package koord

import (
	"fmt"

	"koord/logger"

	"github.com/magiconair/properties"
	"go.uber.org/zap/zapcore"
)

// Config controls the policy choices of the analyzer and the logging of
// the tools that run it.
type Config struct {
	// Redefinition decides whether a record type may be defined twice.
	Redefinition RedefinitionPolicy
	// ModuleHeads lets a dotted chain start at a module-qualified symbol,
	// as in Motion.home.x. Without it the first segment alone is the head.
	ModuleHeads bool
	Log         logger.Config
}

func DefaultConfig() Config {
	return Config{
		Redefinition: RejectRedefinition,
		Log: logger.Config{
			Path:    "stderr",
			Mode:    logger.FileModeAppend,
			MaxSize: 10,
			Level:   zapcore.InfoLevel,
		},
	}
}

type configProperties struct {
	Redefinition string `properties:"types.redefinition,default=reject"`
	ModuleHeads  bool   `properties:"chains.module_head,default=false"`
	LogLevel     string `properties:"log.level,default=info"`
	LogPath      string `properties:"log.path,default=stderr"`
	LogMode      string `properties:"log.mode,default=append"`
	LogMaxSize   int    `properties:"log.max_size,default=10"`
	LogDevMode   bool   `properties:"log.devmode,default=false"`
}

// LoadConfig reads a configuration from a .properties file.
func LoadConfig(path string) (Config, error) {
	p, err := properties.LoadFile(path, properties.UTF8)
	if err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	return configFrom(p)
}

// ParseConfig reads a configuration in .properties syntax from text.
func ParseConfig(text string) (Config, error) {
	p, err := properties.LoadString(text)
	if err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	return configFrom(p)
}

func configFrom(p *properties.Properties) (Config, error) {
	var props configProperties
	if err := p.Decode(&props); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	conf := DefaultConfig()
	policy, err := ParseRedefinitionPolicy(props.Redefinition)
	if err != nil {
		return Config{}, fmt.Errorf("config: types.redefinition: %w", err)
	}
	conf.Redefinition = policy
	conf.ModuleHeads = props.ModuleHeads
	if err := conf.Log.Level.UnmarshalText([]byte(props.LogLevel)); err != nil {
		return Config{}, fmt.Errorf("config: log.level: %w", err)
	}
	if conf.Log.Mode, err = logger.ParseFileMode(props.LogMode); err != nil {
		return Config{}, fmt.Errorf("config: log.mode: %w", err)
	}
	conf.Log.MaxSize = props.LogMaxSize
	conf.Log.Path = props.LogPath
	conf.Log.DevMode = props.LogDevMode
	return conf, nil
}
