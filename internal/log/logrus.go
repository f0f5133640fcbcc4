/**
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package log

import (
	"os"

	"github.com/ONLYOFFICE/robotbroker/internal/config"
	"github.com/natefinch/lumberjack"
	"github.com/sirupsen/logrus"
)

type Level int

const (
	LevelDebug Level = iota + 1
	LevelInfo
	LevelWarn
	LevelError
	LevelFatal
)

var levels = map[Level]logrus.Level{
	LevelDebug: logrus.DebugLevel,
	LevelInfo:  logrus.InfoLevel,
	LevelWarn:  logrus.WarnLevel,
	LevelError: logrus.ErrorLevel,
	LevelFatal: logrus.FatalLevel,
}

// LogrusLogger is a logrus logger wrapper that satisfies Logger.
type LogrusLogger struct {
	logger *logrus.Logger
	name   string
}

// NewLogrusLogger creates a new logger compliant with the Logger interface.
func NewLogrusLogger(cfg *config.LoggerConfig) Logger {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		DisableColors: !cfg.Logger.Color,
		FullTimestamp: true,
	})

	if lvl, ok := levels[Level(cfg.Logger.Level)]; ok {
		logger.SetLevel(lvl)
	} else {
		logger.SetLevel(logrus.InfoLevel)
	}

	logger.SetOutput(os.Stdout)

	if cfg.Logger.File.Filename != "" {
		logger.SetOutput(&lumberjack.Logger{
			Filename:   cfg.Logger.File.Filename,
			MaxSize:    cfg.Logger.File.MaxSize,
			MaxBackups: cfg.Logger.File.MaxBackups,
			MaxAge:     cfg.Logger.File.MaxAge,
			LocalTime:  cfg.Logger.File.LocalTime,
			Compress:   cfg.Logger.File.Compress,
		})
	}

	return LogrusLogger{logger: logger, name: cfg.Logger.Name}
}

func (l LogrusLogger) fields() logrus.Fields {
	return logrus.Fields{"component": l.name}
}

func (l LogrusLogger) Debugf(format string, args ...interface{}) {
	l.logger.WithFields(l.fields()).Debugf(format, args...)
}

func (l LogrusLogger) Infof(format string, args ...interface{}) {
	l.logger.WithFields(l.fields()).Infof(format, args...)
}

func (l LogrusLogger) Warnf(format string, args ...interface{}) {
	l.logger.WithFields(l.fields()).Warnf(format, args...)
}

func (l LogrusLogger) Errorf(format string, args ...interface{}) {
	l.logger.WithFields(l.fields()).Errorf(format, args...)
}

func (l LogrusLogger) Fatalf(format string, args ...interface{}) {
	l.logger.WithFields(l.fields()).Fatalf(format, args...)
}

func (l LogrusLogger) Debug(args ...interface{}) {
	l.logger.WithFields(l.fields()).Debug(args...)
}

func (l LogrusLogger) Info(args ...interface{}) {
	l.logger.WithFields(l.fields()).Info(args...)
}

func (l LogrusLogger) Warn(args ...interface{}) {
	l.logger.WithFields(l.fields()).Warn(args...)
}

func (l LogrusLogger) Error(args ...interface{}) {
	l.logger.WithFields(l.fields()).Error(args...)
}

func (l LogrusLogger) Fatal(args ...interface{}) {
	l.logger.WithFields(l.fields()).Fatal(args...)
}
