package main

import (
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"artistify/internal/config"
	"artistify/internal/logging"
	"artistify/internal/textnorm"
)

type commandContext struct {
	configFlag   *string
	logLevelFlag *string

	configOnce sync.Once
	config     *config.AppConfig
	configPath string
	configErr  error

	logger   *log.Logger
	closeLog func() error

	normalizer *textnorm.Normalizer
	splitter   *textnorm.SentenceSplitter
}

func newCommandContext(configFlag, logLevelFlag *string) *commandContext {
	return &commandContext{
		configFlag:   configFlag,
		logLevelFlag: logLevelFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.AppConfig, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		if path == "" {
			c.config, c.configPath, c.configErr = config.LoadDefault()
			return
		}
		c.config, c.configErr = config.Load(path)
		c.configPath = path
	})
	return c.config, c.configErr
}

// ensureLogger builds the logger once. Without a log file it writes to the
// command's stderr.
func (c *commandContext) ensureLogger(cmd *cobra.Command) (*log.Logger, error) {
	if c.logger != nil {
		return c.logger, nil
	}
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	level := cfg.Log.Level
	if c.logLevelFlag != nil && strings.TrimSpace(*c.logLevelFlag) != "" {
		level = strings.TrimSpace(*c.logLevelFlag)
	}
	if cfg.Log.File == "" {
		l, err := logging.New(cmd.ErrOrStderr(), level)
		if err != nil {
			return nil, err
		}
		c.logger, c.closeLog = l, func() error { return nil }
		return l, nil
	}
	l, closeFn, err := logging.Open(cfg.Log.File, level)
	if err != nil {
		return nil, err
	}
	c.logger, c.closeLog = l, closeFn
	return l, nil
}

func (c *commandContext) currentLogger() *log.Logger {
	if c.logger == nil {
		return logging.Discard()
	}
	return c.logger
}

func (c *commandContext) close() error {
	if c.closeLog == nil {
		return nil
	}
	err := c.closeLog()
	c.closeLog = nil
	return err
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
