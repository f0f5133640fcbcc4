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

// Logger is a generic logger interface.
type Logger interface {
	Debugf(format string, args ...interface{})
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
	Fatalf(format string, args ...interface{})
	Debug(args ...interface{})
	Info(args ...interface{})
	Warn(args ...interface{})
	Error(args ...interface{})
	Fatal(args ...interface{})
}

// NopLogger is a Logger implementation that discards everything. Useful in tests
// that don't care about log output.
type NopLogger struct{}

func NewNopLogger() Logger { return NopLogger{} }

func (l NopLogger) Debugf(format string, args ...interface{}) {}
func (l NopLogger) Infof(format string, args ...interface{})  {}
func (l NopLogger) Warnf(format string, args ...interface{})  {}
func (l NopLogger) Errorf(format string, args ...interface{}) {}
func (l NopLogger) Fatalf(format string, args ...interface{}) {}
func (l NopLogger) Debug(args ...interface{})                 {}
func (l NopLogger) Info(args ...interface{})                  {}
func (l NopLogger) Warn(args ...interface{})                  {}
func (l NopLogger) Error(args ...interface{})                 {}
func (l NopLogger) Fatal(args ...interface{})                 {}
