// Copyright 2024 steamrec Authors
//
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
	"os"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
)

func TestSetLogger(t *testing.T) {
	temp := t.TempDir()
	flagSet := pflag.NewFlagSet("test", pflag.ContinueOnError)
	AddFlags(flagSet)
	err := flagSet.Set("log-path", temp+"/steamrec.log")
	assert.NoError(t, err)
	SetLogger(flagSet, true)
	Logger().Info("hello")
	_ = Logger().Sync()
	_, err = os.Stat(temp + "/steamrec.log")
	assert.NoError(t, err)
}

func TestCloseLogger(t *testing.T) {
	CloseLogger()
	assert.NotNil(t, Logger())
}
