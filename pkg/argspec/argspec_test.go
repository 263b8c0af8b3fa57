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

package argspec

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestRemoveAliases(t *testing.T) {
	spec := Spec{
		"api_version": {Aliases: []string{"api", "version"}},
	}
	params := map[string]interface{}{
		"api":  "v1",
		"name": "x",
	}

	spec.RemoveAliases(params)

	want := map[string]interface{}{"name": "x"}
	if diff := cmp.Diff(want, params); diff != "" {
		t.Errorf("Mismatch from expected value (-want +got):\n%s", diff)
	}
}

func TestRemoveAliasesAbsentCanonical(t *testing.T) {
	// aliases are stripped even when the canonical key is not present
	params := map[string]interface{}{
		"definition": map[string]interface{}{"kind": "ConfigMap"},
		"version":    "v1",
		"namespace":  "default",
	}

	Common().RemoveAliases(params)

	want := map[string]interface{}{"namespace": "default"}
	if diff := cmp.Diff(want, params); diff != "" {
		t.Errorf("Mismatch from expected value (-want +got):\n%s", diff)
	}
}

func TestRemoveAliasesNoAliasPresent(t *testing.T) {
	params := map[string]interface{}{"name": "x"}
	Common().RemoveAliases(params)

	if len(params) != 1 {
		t.Errorf("expected params untouched, got %v", params)
	}
}

func TestMerge(t *testing.T) {
	merged := Merge(Common(), Auth())

	for _, name := range []string{"state", "api_version", "kubeconfig", "api_key"} {
		if _, ok := merged[name]; !ok {
			t.Errorf("expected %q in merged spec", name)
		}
	}

	if !merged["api_key"].NoLog {
		t.Error("api_key must keep its no-log marker")
	}
}

func TestAuthSecretsMarkedNoLog(t *testing.T) {
	spec := Auth()
	for _, name := range []string{"api_key", "password"} {
		if !spec[name].NoLog {
			t.Errorf("%q must be marked no-log", name)
		}
	}
}
