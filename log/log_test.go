// Copyright The Filesign Authors.
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package log

import (
	"context"
	"testing"
)

func TestWithLoggerAndGetLogger(t *testing.T) {
	tl := &discardLogger{}
	ctx := WithLogger(context.Background(), tl)

	if got := GetLogger(ctx); got != tl {
		t.Errorf("GetLogger() = %v, want %v", got, tl)
	}
}

func TestGetLoggerWithNoLogger(t *testing.T) {
	ctx := context.Background()

	if got := GetLogger(ctx); got != Discard {
		t.Errorf("GetLogger() = %v, want Discard", got)
	}
}

func TestDiscardLogger(t *testing.T) {
	logger := &discardLogger{}

	calls := []struct {
		name string
		call func()
	}{
		{"Debug", func() { logger.Debug("test") }},
		{"Debugf", func() { logger.Debugf("test %s", "format") }},
		{"Info", func() { logger.Info("test") }},
		{"Infof", func() { logger.Infof("test %s", "format") }},
		{"Warn", func() { logger.Warn("test") }},
		{"Warnf", func() { logger.Warnf("test %s", "format") }},
		{"Error", func() { logger.Error("test") }},
		{"Errorf", func() { logger.Errorf("test %s", "format") }},
	}
	for _, tt := range calls {
		t.Run(tt.name, func(t *testing.T) {
			defer func() {
				if r := recover(); r != nil {
					t.Errorf("method panicked")
				}
			}()
			tt.call()
		})
	}
}
