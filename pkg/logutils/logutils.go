// Copyright (c) 2026 Tigera, Inc. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package logutils configures logrus for the maglev tools: a compact single-line
// format, level selection and redirection of log output into tests.
package logutils

import (
	"bytes"
	"fmt"
	"os"
	"path"
	"sort"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/sirupsen/logrus"
)

const (
	// FileNameUnknown is the string used in logs if the filename/line number
	// cannot be determined.
	FileNameUnknown = "<nil>"

	TimeFormat = "2006-01-02 15:04:05.000"
)

// Formatter writes one line per entry:
//
//	2017-01-05 09:17:48.238 [INFO][85386] maglev/table.go 98: Built maglev lookup table backends=3
//
// Fields are appended in sorted order so that output is stable.
type Formatter struct {
	// If specified, prepends the component to the file name.
	Component string
}

func (f *Formatter) Format(entry *logrus.Entry) ([]byte, error) {
	b := entry.Buffer
	if b == nil {
		b = &bytes.Buffer{}
	}

	b.WriteString(entry.Time.Format(TimeFormat))
	_, _ = fmt.Fprintf(b, " [%s][%d] ", strings.ToUpper(entry.Level.String()), os.Getpid())
	if f.Component != "" {
		b.WriteString(f.Component)
		b.WriteByte('/')
	}
	if entry.Caller == nil {
		b.WriteString(FileNameUnknown)
	} else {
		b.WriteString(path.Base(entry.Caller.File))
		b.WriteByte(' ')
		b.WriteString(strconv.Itoa(entry.Caller.Line))
	}
	b.WriteString(": ")
	b.WriteString(entry.Message)
	appendKVsAndNewLine(b, entry.Data)

	return b.Bytes(), nil
}

// appendKVsAndNewLine writes the entry's KV pairs to the end of the buffer,
// followed by a newline.  Entries are written in sorted order.
func appendKVsAndNewLine(b *bytes.Buffer, data logrus.Fields) {
	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		b.WriteByte(' ')
		b.WriteString(key)
		b.WriteByte('=')

		switch value := data[key].(type) {
		case string:
			b.WriteString(strconv.Quote(value))
		case error:
			b.WriteString(value.Error())
		case fmt.Stringer:
			// Trust the value's String() method.
			b.WriteString(value.String())
		default:
			_, _ = fmt.Fprintf(b, "%v", value)
		}
	}
	b.WriteByte('\n')
}

// ParseLevel is logrus.ParseLevel with a fallback: unknown or empty levels map to
// warning.
func ParseLevel(level string) logrus.Level {
	l, err := logrus.ParseLevel(level)
	if err != nil {
		return logrus.WarnLevel
	}
	return l
}

// ConfigureLogging sets the global logrus level and formatter and sends output to
// stderr, keeping stdout free for command output.
func ConfigureLogging(logLevel string) {
	logrus.SetReportCaller(true)
	logrus.SetFormatter(&Formatter{Component: "maglev"})
	logrus.SetLevel(ParseLevel(logLevel))
	logrus.SetOutput(os.Stderr)
}

// TestingTWriter adapts a *testing.T as a Writer so it can be used as a target
// for logrus.
type TestingTWriter struct {
	T *testing.T
}

func (l TestingTWriter) Write(p []byte) (n int, err error) {
	l.T.Helper()
	l.T.Log(strings.TrimRight(string(p), "\r\n"))
	return len(p), nil
}

// RedirectLogrusToTestingT redirects logrus output to the given testing.T.  It
// returns a func() that can be called to restore the original log output.
func RedirectLogrusToTestingT(t *testing.T) (cancel func()) {
	oldOut := logrus.StandardLogger().Out
	cancel = func() {
		logrus.SetOutput(oldOut)
	}
	logrus.SetOutput(TestingTWriter{T: t})
	return
}

var confForTestingOnce sync.Once

// ConfigureLoggingForTestingT sends logrus output, at debug level, to the log of the
// given testing.T until the test ends.
func ConfigureLoggingForTestingT(t *testing.T) {
	confForTestingOnce.Do(func() {
		logrus.SetReportCaller(true)
		logrus.SetFormatter(&Formatter{Component: "test"})
		logrus.SetLevel(logrus.DebugLevel)
	})
	t.Cleanup(RedirectLogrusToTestingT(t))
}
