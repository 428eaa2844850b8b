package main

import (
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/cwbudde/algo-stemgate/internal/config"
	"github.com/cwbudde/algo-stemgate/internal/logging"
)

type commandContext struct {
	configFlag *string
	levelFlag  *string
	formatFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(configFlag, levelFlag, formatFlag *string) *commandContext {
	return &commandContext{
		configFlag: configFlag,
		levelFlag:  levelFlag,
		formatFlag: formatFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

// logger builds the run logger, writing to w, with flag overrides applied.
func (c *commandContext) logger(w io.Writer) (*slog.Logger, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	opts := logging.Options{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Writer: w,
	}
	if c.levelFlag != nil && strings.TrimSpace(*c.levelFlag) != "" {
		opts.Level = *c.levelFlag
	}
	if c.formatFlag != nil && strings.TrimSpace(*c.formatFlag) != "" {
		opts.Format = *c.formatFlag
	}
	return logging.New(opts)
}
