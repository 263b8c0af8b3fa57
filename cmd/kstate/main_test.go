/*
Copyright 2025 The kstate authors

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package main

import (
	"bytes"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/mattn/go-shellwords"
)

func init() {
	rand.Seed(time.Now().UnixNano())
}

type TestFile struct {
	Name string
	Body string
}

func makeTestDir(testName string, files []TestFile) (string, error) {
	dir, err := os.MkdirTemp("", "kstate-"+testName)
	if err != nil {
		return "", err
	}

	for _, file := range files {
		if err := os.WriteFile(filepath.Join(dir, file.Name), []byte(file.Body), 0644); err != nil {
			return dir, err
		}
	}
	return dir, nil
}

var letterRunes = []rune("abcdefghijklmnopqrstuvwxyz1234567890")

func randStringRunes(n int) string {
	b := make([]rune, n)
	for i := range b {
		b[i] = letterRunes[rand.Intn(len(letterRunes))]
	}
	return string(b)
}

func executeCommand(cmd string) (string, error) {
	defer resetCmdArgs()
	args, err := shellwords.Parse(cmd)
	if err != nil {
		return "", err
	}

	buf := new(bytes.Buffer)

	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)

	logger.stderr = rootCmd.ErrOrStderr()

	_, err = rootCmd.ExecuteC()
	result := buf.String()

	return result, err
}

func resetCmdArgs() {
	buildArgs = buildFlags{}
	diffArgs = diffFlags{}
	applyArgs = applyFlags{}
	deleteArgs = deleteFlags{}
}

var testManifests = func(name, namespace string) []TestFile {
	return []TestFile{
		{
			Name: "config.yaml",
			Body: fmt.Sprintf(`---
apiVersion: v1
kind: ConfigMap
metadata:
  name: "%[1]s"
  namespace: "%[2]s"
data:
  key: "test"
---
apiVersion: v1
kind: Secret
metadata:
  name: "%[1]s"
  namespace: "%[2]s"
stringData:
  key: "test"
`, name, namespace),
		},
	}
}
